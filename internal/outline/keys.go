package outline

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// browseKeys holds key bindings for browse mode.
type browseKeys struct {
	Up       key.Binding
	Down     key.Binding
	AddChild key.Binding
	AddRoot  key.Binding
	Rename   key.Binding
	Quit     key.Binding
}

// ShortHelp returns the browse mode bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.AddChild, k.AddRoot, k.Rename, k.Quit}
}

// FullHelp returns the browse mode bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.AddChild, k.AddRoot, k.Rename},
		{k.Quit},
	}
}

// editKeys holds key bindings for edit mode. Everything else goes to the
// text input.
type editKeys struct {
	Commit key.Binding
	Blur   key.Binding
	Quit   key.Binding
}

// ShortHelp returns the edit mode bindings for the help bar.
func (k editKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Commit, k.Blur, k.Quit}
}

// FullHelp returns the edit mode bindings grouped for expanded help.
func (k editKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Commit, k.Blur}, {k.Quit}}
}

// BrowseKeyMap returns the key bindings for browse mode.
func BrowseKeyMap() browseKeys {
	return browseKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		AddChild: key.NewBinding(
			key.WithKeys("a", "+"),
			key.WithHelp("a/+", "add child"),
		),
		AddRoot: key.NewBinding(
			key.WithKeys("A", "n"),
			key.WithHelp("A/n", "add top-level"),
		),
		Rename: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter/e", "rename"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// EditKeyMap returns the key bindings for edit mode.
func EditKeyMap() editKeys {
	return editKeys{
		Commit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "save"),
		),
		// Leaving the field saves too, like blurring a text box.
		Blur: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "save & leave"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// HelpBindings returns the help.KeyMap for the given mode. In browse mode
// the add-child binding is disabled when the selected row is at the depth
// limit (or there is no selection), which also hides it from the help bar.
func HelpBindings(mode Mode, canAdd bool) help.KeyMap {
	if mode == ModeEdit {
		return EditKeyMap()
	}
	km := BrowseKeyMap()
	km.AddChild.SetEnabled(canAdd)
	return km
}
