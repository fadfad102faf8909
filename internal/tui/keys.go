package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Next      key.Binding
	Prev      key.Binding
	Enter     key.Binding
	Submit    key.Binding
	Clear     key.Binding
	Favorites key.Binding
	Today     key.Binding
	Tomorrow  key.Binding
	NextWeek  key.Binding
	NoDate    key.Binding
	TitlePage key.Binding
	TitleURL  key.Binding
	TitleBoth key.Binding
	DescURL   key.Binding
	DescBoth  key.Binding
	DescEmpty key.Binding
	Retry     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "lower priority")),
	Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "raise priority")),
	Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
	Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "pick label / submit")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create task")),
	Clear:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear form")),
	Favorites: key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "favorites only")),
	Today:     key.NewBinding(key.WithKeys("alt+1"), key.WithHelp("alt+1", "today")),
	Tomorrow:  key.NewBinding(key.WithKeys("alt+2"), key.WithHelp("alt+2", "tomorrow")),
	NextWeek:  key.NewBinding(key.WithKeys("alt+3"), key.WithHelp("alt+3", "next week")),
	NoDate:    key.NewBinding(key.WithKeys("alt+0"), key.WithHelp("alt+0", "no date")),
	TitlePage: key.NewBinding(key.WithKeys("alt+p"), key.WithHelp("alt+p", "title: page title")),
	TitleURL:  key.NewBinding(key.WithKeys("alt+u"), key.WithHelp("alt+u", "title: url")),
	TitleBoth: key.NewBinding(key.WithKeys("alt+b"), key.WithHelp("alt+b", "title: title and url")),
	DescURL:   key.NewBinding(key.WithKeys("alt+d"), key.WithHelp("alt+d", "description: link")),
	DescBoth:  key.NewBinding(key.WithKeys("alt+t"), key.WithHelp("alt+t", "description: title and link")),
	DescEmpty: key.NewBinding(key.WithKeys("alt+e"), key.WithHelp("alt+e", "description: empty")),
	Retry:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
	Help:      key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
	Quit:      key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "close")),
}

// helpGroups is the layout of the help screen
var helpGroups = []struct {
	title    string
	bindings []key.Binding
}{
	{"Form", []key.Binding{keys.Next, keys.Prev, keys.Submit, keys.Enter, keys.Clear, keys.Quit}},
	{"Project", []key.Binding{keys.Up, keys.Down, keys.Favorites}},
	{"Priority", []key.Binding{keys.Left, keys.Right}},
	{"Dates", []key.Binding{keys.Today, keys.Tomorrow, keys.NextWeek, keys.NoDate}},
	{"Prefill", []key.Binding{keys.TitlePage, keys.TitleURL, keys.TitleBoth, keys.DescURL, keys.DescBoth, keys.DescEmpty}},
}
