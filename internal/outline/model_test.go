package outline

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/smileynet/treelist/internal/tree"
)

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyCtrlC = tea.KeyMsg{Type: tea.KeyCtrlC}
	keyCtrlU = tea.KeyMsg{Type: tea.KeyCtrlU}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

// sizeMsg is wide enough for the full browse help bar.
var sizeMsg = tea.WindowSizeMsg{Width: 120, Height: 24}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(seedStore())

	if m.Mode() != ModeBrowse {
		t.Errorf("mode = %v, want ModeBrowse", m.Mode())
	}
	if m.maxDepth != DefaultMaxDepth {
		t.Errorf("maxDepth = %d, want %d", m.maxDepth, DefaultMaxDepth)
	}
	id, ok := m.Selected()
	if !ok || id != 1 {
		t.Errorf("Selected() = (%d, %v), want (1, true)", id, ok)
	}
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3", len(m.rows))
	}
}

func TestModel_CursorWraps(t *testing.T) {
	m := NewModel(seedStore())

	m = send(t, m, keyUp)
	if id, _ := m.Selected(); id != 3 {
		t.Errorf("after up from top, selected = %d, want 3", id)
	}

	m = send(t, m, keyDown)
	if id, _ := m.Selected(); id != 1 {
		t.Errorf("after down from bottom, selected = %d, want 1", id)
	}

	m = send(t, m, runeKey("j"), runeKey("j"), runeKey("k"))
	if id, _ := m.Selected(); id != 2 {
		t.Errorf("after j j k, selected = %d, want 2", id)
	}
}

func TestModel_AddTopLevel(t *testing.T) {
	// Given: the default seed
	m := NewModel(seedStore())

	// When: the user adds a top-level item
	m = send(t, m, runeKey("A"))

	// Then: roots are Item 1, Item 2, New Item and the cursor is on the new one
	want := []tree.Item{
		{Name: "Item 1", Children: []tree.Item{{Name: "Item 1.1"}}},
		{Name: "Item 2"},
		{Name: "New Item"},
	}
	if diff := cmp.Diff(want, m.Tree().Items(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
	if id, _ := m.Selected(); id != 4 {
		t.Errorf("selected = %d, want 4 (new item)", id)
	}
}

func TestModel_AddChildSelectsNewChild(t *testing.T) {
	m := NewModel(seedStore())

	// Cursor starts on Item 1, which already has Item 1.1.
	m = send(t, m, runeKey("a"))

	root := m.Tree().Roots()[0]
	kids := root.Children()
	if len(kids) != 2 || kids[1].Name() != "New Item" {
		t.Fatalf("Item 1 children = %v, want [Item 1.1, New Item]", rowNames(m.rows))
	}
	if id, _ := m.Selected(); id != kids[1].ID() {
		t.Errorf("selected = %d, want %d (new child)", id, kids[1].ID())
	}
	if m.rows[m.cursor].Depth != 1 {
		t.Errorf("selected depth = %d, want 1", m.rows[m.cursor].Depth)
	}
}

func TestModel_AddChildStopsAtDepthLimit(t *testing.T) {
	// Given: a single root and the default depth limit of 3
	m := NewModel(tree.NewStore([]tree.Item{{Name: "root"}}))

	// When: add-child is pressed repeatedly, descending each time
	for i := 0; i < 5; i++ {
		m = send(t, m, runeKey("+"))
	}

	// Then: nesting stops at depth 3 (root at 0 plus three levels)
	deepest := 0
	m.Tree().Walk(func(_ tree.Node, depth int) bool {
		deepest = max(deepest, depth)
		return true
	})
	if deepest != 3 {
		t.Errorf("deepest depth = %d, want 3", deepest)
	}
	if got := m.Tree().Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	if m.canAddAtCursor() {
		t.Error("canAddAtCursor() at depth 3 = true, want false")
	}
}

func TestModel_WithMaxDepthZeroAllowsOnlyRoots(t *testing.T) {
	m := NewModel(seedStore(), WithMaxDepth(0))

	m = send(t, m, runeKey("a"))
	if got := m.Tree().Len(); got != 3 {
		t.Errorf("add child at max depth 0: Len() = %d, want 3", got)
	}

	m = send(t, m, runeKey("n"))
	if got := len(m.Tree().Roots()); got != 3 {
		t.Errorf("roots = %d, want 3", got)
	}
}

func TestModel_RenameCommitOnEnter(t *testing.T) {
	// Given: the cursor on Item 1
	m := NewModel(seedStore())

	// When: the user edits the name and presses enter
	m = send(t, m, keyEnter)
	if m.Mode() != ModeEdit {
		t.Fatalf("mode after enter = %v, want ModeEdit", m.Mode())
	}
	if m.input.Value() != "Item 1" {
		t.Errorf("input value = %q, want %q", m.input.Value(), "Item 1")
	}
	m = send(t, m, keyCtrlU)
	m = send(t, m, typeText("Edited Item")...)
	m = send(t, m, keyEnter)

	// Then: only the first root's name changed
	if m.Mode() != ModeBrowse {
		t.Errorf("mode after commit = %v, want ModeBrowse", m.Mode())
	}
	want := []tree.Item{
		{Name: "Edited Item", Children: []tree.Item{{Name: "Item 1.1"}}},
		{Name: "Item 2"},
	}
	if diff := cmp.Diff(want, m.Tree().Items(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("forest mismatch (-want +got):\n%s", diff)
	}
	if id, _ := m.Selected(); id != 1 {
		t.Errorf("selected after rename = %d, want 1", id)
	}
}

func TestModel_RenameCommitOnEsc(t *testing.T) {
	m := NewModel(seedStore())

	m = send(t, m, runeKey("j"), runeKey("e"))
	m = send(t, m, typeText(" (edited)")...)
	m = send(t, m, keyEsc)

	n, _ := m.Tree().Find(2)
	if n.Name() != "Item 1.1 (edited)" {
		t.Errorf("name = %q, want %q", n.Name(), "Item 1.1 (edited)")
	}
	if m.Mode() != ModeBrowse {
		t.Errorf("mode = %v, want ModeBrowse", m.Mode())
	}
}

func TestModel_RenameToEmpty(t *testing.T) {
	m := NewModel(seedStore())

	m = send(t, m, keyEnter, keyCtrlU, keyEnter)

	n, _ := m.Tree().Find(1)
	if n.Name() != "" {
		t.Errorf("name = %q, want empty", n.Name())
	}
	if !containsPlainText(m.viewRows(), "(unnamed)") {
		t.Errorf("empty name should render as (unnamed), got:\n%s", m.viewRows())
	}
}

func TestModel_EditModeRoutesLettersToInput(t *testing.T) {
	// Given: editing Item 2
	m := NewModel(seedStore())
	m = send(t, m, keyUp, keyEnter)

	// When: typing letters that are browse bindings
	m = send(t, m, typeText("qajA")...)

	// Then: they land in the input and nothing else happens
	if m.Mode() != ModeEdit {
		t.Fatalf("mode = %v, want ModeEdit", m.Mode())
	}
	if m.input.Value() != "Item 2qajA" {
		t.Errorf("input value = %q, want %q", m.input.Value(), "Item 2qajA")
	}
	if got := m.Tree().Len(); got != 3 {
		t.Errorf("Len() = %d, want 3 (no adds while editing)", got)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(seedStore())

	if _, cmd := m.Update(runeKey("q")); !isQuit(cmd) {
		t.Error("q in browse mode should quit")
	}
	if _, cmd := m.Update(keyCtrlC); !isQuit(cmd) {
		t.Error("ctrl+c in browse mode should quit")
	}

	editing := send(t, m, keyEnter, keyCtrlU)
	editing = send(t, editing, typeText("draft")...)
	if _, cmd := editing.Update(keyCtrlC); !isQuit(cmd) {
		t.Error("ctrl+c in edit mode should quit")
	}
	// Quitting from edit mode does not commit the draft.
	n, _ := editing.Tree().Find(1)
	if n.Name() != "Item 1" {
		t.Errorf("name = %q, want %q (uncommitted)", n.Name(), "Item 1")
	}
}

func TestModel_EmptyForest(t *testing.T) {
	m := NewModel(tree.NewStore(nil))
	m = send(t, m, sizeMsg)

	if _, ok := m.Selected(); ok {
		t.Error("Selected() on empty forest should be false")
	}
	// Rename, add child, and navigation are no-ops.
	m = send(t, m, keyEnter, runeKey("a"), keyDown)
	if m.Mode() != ModeBrowse {
		t.Errorf("mode = %v, want ModeBrowse", m.Mode())
	}
	if !containsPlainText(m.View(), "No items") {
		t.Errorf("empty view should prompt to add, got:\n%s", m.View())
	}

	m = send(t, m, runeKey("A"))
	if id, ok := m.Selected(); !ok || id != 1 {
		t.Errorf("Selected() = (%d, %v), want (1, true)", id, ok)
	}
}

func TestModel_View_BeforeSize(t *testing.T) {
	m := NewModel(seedStore())
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() before size = %q, want %q", got, "Initializing...")
	}
}

func TestModel_View_RendersRowsAndHints(t *testing.T) {
	m := NewModel(seedStore(), WithMaxDepth(1))
	m = send(t, m, sizeMsg)

	view := m.View()
	for _, want := range []string{"Tree List", CursorMarker + "Item 1 +", "└── Item 1.1", "Item 2 +", "add child", "quit"} {
		if !containsPlainText(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	// Item 1.1 sits at the depth limit, so it carries no add hint.
	for _, line := range strings.Split(m.viewRows(), "\n") {
		if containsPlainText(line, "Item 1.1") && containsPlainText(line, AddHint) {
			t.Errorf("row at depth limit shows add hint: %q", line)
		}
	}
}

func TestModel_View_EditShowsInputAndEditHelp(t *testing.T) {
	m := NewModel(seedStore())
	m = send(t, m, sizeMsg, keyEnter)

	view := m.View()
	if !containsPlainText(view, "save") {
		t.Errorf("edit help missing 'save':\n%s", view)
	}
	if containsPlainText(view, "add child") {
		t.Errorf("edit view should not show browse help:\n%s", view)
	}
}

func TestModel_ScrollsToCursor(t *testing.T) {
	// Given: more rows than fit in a short terminal
	items := make([]tree.Item, 30)
	for i := range items {
		items[i] = tree.Item{Name: "row"}
	}
	m := NewModel(tree.NewStore(items))
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 10})

	// When: moving to the last row
	m = send(t, m, keyUp)

	// Then: the viewport offset keeps the cursor on screen
	if m.cursor != 29 {
		t.Fatalf("cursor = %d, want 29", m.cursor)
	}
	if m.cursor < m.viewport.YOffset || m.cursor >= m.viewport.YOffset+m.viewport.Height {
		t.Errorf("cursor %d outside viewport [%d, %d)", m.cursor, m.viewport.YOffset, m.viewport.YOffset+m.viewport.Height)
	}
}

// TestModel_Teatest_Session drives a full editing session through a real program.
func TestModel_Teatest_Session(t *testing.T) {
	store := seedStore()
	tm := teatest.NewTestModel(t, NewModel(store), teatest.WithInitialTermSize(80, 24))

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return containsPlainText(string(b), "Item 1.1")
	}, teatest.WithDuration(2*time.Second))

	// Add a top-level item, then rename Item 1.
	tm.Type("A")
	tm.Send(tea.KeyMsg{Type: tea.KeyDown}) // wraps to Item 1
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlU})
	tm.Type("Edited Item")
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Type("q")

	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final := tm.FinalModel(t).(Model)
	want := []tree.Item{
		{Name: "Edited Item", Children: []tree.Item{{Name: "Item 1.1"}}},
		{Name: "Item 2"},
		{Name: "New Item"},
	}
	if diff := cmp.Diff(want, final.Tree().Items(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("final forest mismatch (-want +got):\n%s", diff)
	}
}
