package workspace

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Palette     key.Binding
	Sidebar     key.Binding
	NewProject  key.Binding
	NewDocument key.Binding
	Back        key.Binding
	Quit        key.Binding
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Cycle       key.Binding
	CycleBack   key.Binding
	Submit      key.Binding
	Chat        key.Binding
	Tools       key.Binding
	Settings    key.Binding

	Favorite      key.Binding
	ShowFavorites key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Palette:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "commands")),
		Sidebar:     key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
		NewProject:  key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new project")),
		NewDocument: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "new document")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Up:          key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:        key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
		Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
		Cycle:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "cycle")),
		CycleBack:   key.NewBinding(key.WithKeys("shift+tab")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Chat:        key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "chat")),
		Tools:       key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "tools")),
		Settings:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "settings")),

		Favorite:      key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "favorite")),
		ShowFavorites: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "favorites only")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Palette, k.Sidebar, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Palette, k.Sidebar, k.Chat, k.Tools, k.Settings},
		{k.NewProject, k.NewDocument, k.Cycle, k.Submit},
		{k.Favorite, k.ShowFavorites},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Back, k.Quit},
	}
}
