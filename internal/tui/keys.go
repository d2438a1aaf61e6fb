package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next    key.Binding
	Back    key.Binding
	Forward key.Binding
	Timer   key.Binding
	Faster  key.Binding
	Slower  key.Binding
	More    key.Binding
	Fewer   key.Binding
	Fair    key.Binding
	Copy    key.Binding
	Lists   key.Binding

	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Lower  key.Binding
	Raise  key.Binding
	Shrink key.Binding
	Grow   key.Binding

	Help key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys(" ", "n"),
		key.WithHelp("space/n", "next words"),
	),
	Back: key.NewBinding(
		key.WithKeys("left", "b"),
		key.WithHelp("←/b", "back"),
	),
	Forward: key.NewBinding(
		key.WithKeys("right", "f"),
		key.WithHelp("→/f", "forward"),
	),
	Timer: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume timer"),
	),
	Faster: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "shorter interval"),
	),
	Slower: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "longer interval"),
	),
	More: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "more words"),
	),
	Fewer: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "fewer words"),
	),
	Fair: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "fair sampling"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy words"),
	),
	Lists: key.NewBinding(
		key.WithKeys("tab", "l"),
		key.WithHelp("tab/l", "lists"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "select list"),
	),
	Lower: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "range start -"),
	),
	Raise: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "range start +"),
	),
	Shrink: key.NewBinding(
		key.WithKeys("{"),
		key.WithHelp("{", "range end -"),
	),
	Grow: key.NewBinding(
		key.WithKeys("}"),
		key.WithHelp("}", "range end +"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// drillKeys and listKeys adapt the key map to help.KeyMap for each view
type drillKeys struct{ keyMap }

func (k drillKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Back, k.Timer, k.Lists, k.Help, k.Quit}
}

func (k drillKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Back, k.Forward, k.Copy},
		{k.Timer, k.Faster, k.Slower},
		{k.More, k.Fewer, k.Fair},
		{k.Lists, k.Help, k.Quit},
	}
}

type listKeys struct{ keyMap }

func (k listKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Up, k.Down, k.Lists, k.Help, k.Quit}
}

func (k listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.Lower, k.Raise, k.Shrink, k.Grow},
		{k.Lists, k.Help, k.Quit},
	}
}
