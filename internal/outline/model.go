package outline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/treelist/internal/tree"
)

// headerHeight is the number of lines used by the title above the pane.
const headerHeight = 1

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// Model is the root Bubble Tea model for the outline editor.
// It flattens the store's current snapshot into rows after every change.
type Model struct {
	store    *tree.Store
	maxDepth int

	rows   []row
	cursor int

	mode   Mode
	editID tree.ID
	input  textinput.Model

	browseKeys browseKeys
	editKeys   editKeys

	width    int
	height   int
	viewport viewport.Model
	help     help.Model
}

// NewModel creates a Model over store in browse mode with the cursor on
// the first row.
func NewModel(store *tree.Store, opts ...Option) Model {
	input := textinput.New()
	input.Prompt = ""

	m := Model{
		store:      store,
		maxDepth:   DefaultMaxDepth,
		mode:       ModeBrowse,
		input:      input,
		browseKeys: BrowseKeyMap(),
		editKeys:   EditKeyMap(),
		viewport:   viewport.New(0, 0),
		help:       help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.rows = flattenForest(store.Tree())
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Tree returns the store's current snapshot.
func (m Model) Tree() tree.Tree {
	return m.store.Tree()
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Selected returns the ID under the cursor, or false when the forest is empty.
func (m Model) Selected() (tree.ID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return tree.NoParent, false
	}
	return m.rows[m.cursor].ID, true
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = max(msg.Width-borderChrome, 0)
		m.viewport.Height = m.contentHeight()
		m.input.Width = max(m.viewport.Width-lipgloss.Width(CursorMarker)-1, 1)
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		if m.mode == ModeEdit {
			return m.handleEditKey(msg)
		}
		return m.handleBrowseKey(msg)
	}

	// Cursor blink and other input-owned messages.
	if m.mode == ModeEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.browseKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.browseKeys.Up):
		if len(m.rows) > 0 {
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.rows) - 1
			}
			m.ensureVisible()
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.Down):
		if len(m.rows) > 0 {
			m.cursor++
			if m.cursor >= len(m.rows) {
				m.cursor = 0
			}
			m.ensureVisible()
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.AddChild):
		if !m.canAddAtCursor() {
			return m, nil
		}
		parent := m.rows[m.cursor].ID
		t := m.store.AddItem(parent)
		m.refresh()
		if p, ok := t.Find(parent); ok && p.Len() > 0 {
			kids := p.Children()
			m.selectID(kids[len(kids)-1].ID())
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.AddRoot):
		t := m.store.AddItem(tree.NoParent)
		m.refresh()
		if roots := t.Roots(); len(roots) > 0 {
			m.selectID(roots[len(roots)-1].ID())
		}
		return m, nil

	case key.Matches(msg, m.browseKeys.Rename):
		if len(m.rows) == 0 {
			return m, nil
		}
		return m.startEdit()
	}

	return m, nil
}

// startEdit loads the selected row's name into the input and focuses it.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	r := m.rows[m.cursor]
	m.mode = ModeEdit
	m.editID = r.ID
	m.input.SetValue(r.Name)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.editKeys.Commit), key.Matches(msg, m.editKeys.Blur):
		m.commitEdit()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// commitEdit renames the edited item to the input's value and returns to
// browse mode. The cursor follows the item by ID.
func (m *Model) commitEdit() {
	m.store.RenameItem(m.editID, m.input.Value())
	m.input.Blur()
	m.mode = ModeBrowse
	m.refresh()
	m.selectID(m.editID)
	m.editID = tree.NoParent
}

// refresh rebuilds rows from the store and keeps the cursor in range.
func (m *Model) refresh() {
	m.rows = flattenForest(m.store.Tree())
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) selectID(id tree.ID) {
	if i := indexOf(m.rows, id); i >= 0 {
		m.cursor = i
		m.ensureVisible()
	}
}

// ensureVisible refreshes the viewport content and scrolls it so the
// cursor row is on screen.
func (m *Model) ensureVisible() {
	m.viewport.SetContent(m.viewRows())
	h := m.viewport.Height
	if h <= 0 {
		return
	}
	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+h:
		m.viewport.SetYOffset(m.cursor - h + 1)
	}
}

func (m Model) canAddAtCursor() bool {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return false
	}
	return canAddChild(m.rows[m.cursor].Depth, m.maxDepth)
}

// contentHeight returns the usable height for pane content,
// accounting for the header, border chrome, and the help bar.
func (m Model) contentHeight() int {
	h := m.height - headerHeight - borderChrome - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the header, the bordered outline pane, and the help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	header := titleText.Render("Tree List") + " " +
		mutedText.Render(fmt.Sprintf("%d items · max depth %d", len(m.rows), m.maxDepth))

	vp := m.viewport
	vp.SetContent(m.viewRows())

	border := FocusedBorder()
	if m.mode == ModeEdit {
		border = EditingBorder()
	}
	pane := border.
		Width(m.width - borderChrome).
		Height(m.contentHeight()).
		Render(vp.View())

	helpView := m.help.View(HelpBindings(m.mode, m.canAddAtCursor()))
	return lipgloss.JoinVertical(lipgloss.Left, header, pane, helpView)
}

// viewRows renders one line per row. The edited row shows the text input.
func (m Model) viewRows() string {
	if len(m.rows) == 0 {
		return mutedText.Render("No items. Press A to add one.")
	}

	var b strings.Builder
	for i, r := range m.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == m.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		b.WriteString(connectorText.Render(r.Prefix))

		switch {
		case m.mode == ModeEdit && r.ID == m.editID:
			b.WriteString(m.input.View())
			continue
		case r.Name == "":
			b.WriteString(mutedText.Render("(unnamed)"))
		case i == m.cursor:
			b.WriteString(selectedText.Render(r.Name))
		default:
			b.WriteString(r.Name)
		}

		if canAddChild(r.Depth, m.maxDepth) {
			b.WriteString(" " + addHintText.Render(AddHint))
		}
	}
	return b.String()
}
