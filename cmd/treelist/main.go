package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/smileynet/treelist"
	"github.com/smileynet/treelist/internal/config"
	"github.com/smileynet/treelist/internal/outline"
	"github.com/smileynet/treelist/internal/seed"
	"github.com/smileynet/treelist/internal/tree"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// localSeedDir holds project seed files that shadow the embedded presets.
const localSeedDir = ".treelist/seeds"

// CLI is the top-level command structure for treelist.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Edit    EditCmd          `cmd:"" default:"withargs" help:"Edit a tree in the terminal (default)."`
	Show    ShowCmd          `cmd:"" help:"Print a seed tree without editing."`
}

// EditCmd opens the interactive outline editor.
type EditCmd struct {
	Seed     string `help:"Seed preset (default, empty) or path to a YAML/JSON file." placeholder:"SEED"`
	MaxDepth int    `help:"Deepest level that may hold items; -1 uses the configured value." default:"-1"`
	NoTUI    bool   `help:"Force plain text output even if stdout is a TTY." default:"false"`
	Print    bool   `help:"Print the final tree after quitting." default:"false"`
	Format   string `help:"Output format for --print." enum:"outline,yaml" default:"outline"`
}

// ShowCmd prints a seed tree and exits.
type ShowCmd struct {
	Seed     string `help:"Seed preset (default, empty) or path to a YAML/JSON file." placeholder:"SEED"`
	MaxDepth int    `help:"Deepest level that may hold items; -1 uses the configured value." default:"-1"`
	Format   string `help:"Output format." enum:"outline,yaml" default:"outline"`
}

// setupError marks failures that happen before a session starts.
type setupError struct{ err error }

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

// loadConfig loads layered config (user then project) and applies env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/treelist/config.yaml"),
		".treelist/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// prepare applies CLI flag overrides to cfg, validates it, and loads the seed.
// An empty seedFlag or a negative depthFlag keeps the configured value.
func prepare(cfg *config.Config, presets fs.FS, seedFlag string, depthFlag int) ([]tree.Item, error) {
	if seedFlag != "" {
		cfg.Seed.Source = seedFlag
	}
	if depthFlag >= 0 {
		cfg.Tree.MaxDepth = depthFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, &setupError{err}
	}
	items, err := seed.Load(presets, cfg.Seed.Source, cfg.Tree.MaxDepth)
	if err != nil {
		return nil, &setupError{err}
	}
	return items, nil
}

// session loads config and seed, and builds the store shared by both commands.
func session(seedFlag string, depthFlag int) (*config.Config, *tree.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, &setupError{err}
	}
	items, err := prepare(cfg, treelist.OverlayFS(localSeedDir, treelist.Seeds), seedFlag, depthFlag)
	if err != nil {
		return nil, nil, err
	}
	store := tree.NewStore(items, tree.WithNewItemName(cfg.Tree.NewItemName))
	return cfg, store, nil
}

// Run builds the store and opens the editor.
func (e *EditCmd) Run() error {
	cfg, store, err := session(e.Seed, e.MaxDepth)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	isTTY := outline.IsTTY(os.Stdout)
	display := outline.NewDisplay(outline.DisplayOptions{
		Writer:     os.Stdout,
		ForcePlain: e.NoTUI,
		MaxDepth:   cfg.Tree.MaxDepth,
		AltScreen:  true,
	})
	return e.run(ctx, os.Stdout, os.Stderr, isTTY, display, store, cfg.Tree.MaxDepth)
}

// run drives one editing session through display. When stdout is not a
// terminal the display only prints the tree, so a warning goes to stderr.
func (e *EditCmd) run(ctx context.Context, stdout, stderr io.Writer, isTTY bool, display outline.Display, store *tree.Store, maxDepth int) error {
	interactive := isTTY && !e.NoTUI
	if !isTTY && !e.NoTUI {
		_, _ = fmt.Fprintln(stderr, "warning: stdout is not a terminal; printing the tree without editing")
	}

	final, err := display.Run(ctx, store)
	if err != nil {
		return fmt.Errorf("edit: %w", err)
	}

	// The plain display already printed the tree.
	if e.Print && interactive {
		if err := writeTree(stdout, final, e.Format, maxDepth); err != nil {
			return fmt.Errorf("edit: %w", err)
		}
	}
	return nil
}

// Run prints the seed tree.
func (s *ShowCmd) Run() error {
	cfg, store, err := session(s.Seed, s.MaxDepth)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return s.run(os.Stdout, store.Tree(), cfg.Tree.MaxDepth)
}

func (s *ShowCmd) run(w io.Writer, t tree.Tree, maxDepth int) error {
	if err := writeTree(w, t, s.Format, maxDepth); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return nil
}

// writeTree writes t as a plain outline or as a seed YAML document.
func writeTree(w io.Writer, t tree.Tree, format string, maxDepth int) error {
	var out []byte
	switch format {
	case "", "outline":
		out = []byte(outline.Render(t, maxDepth))
	case "yaml":
		data, err := seed.Marshal(t.Items())
		if err != nil {
			return err
		}
		out = data
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var se *setupError
	if errors.As(err, &se) {
		return exitSetup
	}
	return exitRuntime
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("treelist"),
		kong.Description("Browse and edit a nested list of named items."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
