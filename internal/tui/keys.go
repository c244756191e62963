package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global bindings. It implements help.KeyMap so the status
// bar and help scene render from the same definitions.
type keyMap struct {
	Home       key.Binding
	Results    key.Binding
	Compare    key.Binding
	Optimize   key.Binding
	Parameters key.Binding
	Rerun      key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Home:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "home")),
		Results:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "results")),
		Compare:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compare")),
		Optimize:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "optimize")),
		Parameters: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parameters")),
		Rerun:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload plan")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the status bar
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Home, k.Results, k.Compare, k.Optimize, k.Parameters, k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help scene
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Home, k.Results, k.Compare, k.Optimize, k.Parameters},
		{k.Rerun, k.Help, k.Back, k.Quit},
	}
}
