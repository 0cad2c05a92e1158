package outline

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/treelist/internal/tree"
)

// Display runs an editing session over a store and returns the final tree.
type Display interface {
	Run(ctx context.Context, store *tree.Store) (tree.Tree, error)
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Input      io.Reader // Key input for the TUI (default: os.Stdin).
	Writer     io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force plain text even if TTY.
	MaxDepth   int       // Depth limit for offering "add child".
	AltScreen  bool      // Run the TUI in the alternate screen buffer.
}

// NewDisplay returns a TUI display when the writer is a TTY, or a plain
// text display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	if opts.ForcePlain || !IsTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, maxDepth: opts.MaxDepth}
	}

	return &TUIDisplay{opts: opts}
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay prints the store's tree once as a plain outline.
// It is used when no terminal is available, so nothing is edited.
type PlainDisplay struct {
	w        io.Writer
	maxDepth int
}

// Run writes the outline and returns the unchanged tree.
func (d *PlainDisplay) Run(ctx context.Context, store *tree.Store) (tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return store.Tree(), err
	}
	if _, err := io.WriteString(d.w, Render(store.Tree(), d.maxDepth)); err != nil {
		return store.Tree(), fmt.Errorf("outline: writing: %w", err)
	}
	return store.Tree(), nil
}

// TUIDisplay runs the interactive outline editor.
type TUIDisplay struct {
	opts DisplayOptions
}

// Run starts the Bubble Tea program and blocks until the user quits or
// ctx is cancelled.
func (d *TUIDisplay) Run(ctx context.Context, store *tree.Store) (tree.Tree, error) {
	m := NewModel(store, WithMaxDepth(d.opts.MaxDepth))

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithInput(d.opts.Input),
		tea.WithOutput(d.opts.Writer),
	}
	if d.opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(m, progOpts...).Run(); err != nil {
		return store.Tree(), fmt.Errorf("outline: %w", err)
	}
	return store.Tree(), nil
}
