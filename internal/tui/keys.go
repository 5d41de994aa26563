package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Review       key.Binding
	Clear        key.Binding
	LoadRisky    key.Binding
	LoadGood     key.Binding
	OpenFile     key.Binding
	Jurisdiction key.Binding
	Focus        key.Binding
	Up           key.Binding
	Down         key.Binding
	ToggleFix    key.Binding
	ToggleRaw    key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
	Help         key.Binding
	Quit         key.Binding
	ForceQuit    key.Binding
}

var keys = keyMap{
	Review: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "review"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "clear"),
	),
	LoadRisky: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "risky sample"),
	),
	LoadGood: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "good sample"),
	),
	OpenFile: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("C-o", "open file"),
	),
	Jurisdiction: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("C-n", "jurisdiction"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "editor/results"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "prev issue"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "next issue"),
	),
	ToggleFix: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "show/hide fix"),
	),
	ToggleRaw: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "raw response"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
