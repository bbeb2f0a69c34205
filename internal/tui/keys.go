// internal/tui/keys.go
package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	NextSeries, PrevSeries key.Binding
	Focus, Toggle          key.Binding
	Open, Select           key.Binding
	PointMenu, ChartMenu   key.Binding
	Brush, Reset           key.Binding
	Wider, Narrower        key.Binding
	Write, Reload          key.Binding
	Cancel, Help, Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help, k.Focus, k.Brush, k.PointMenu}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.NextSeries, k.PrevSeries, k.Focus, k.Toggle},
		{k.Open, k.Select, k.PointMenu, k.ChartMenu},
		{k.Brush, k.Reset, k.Wider, k.Narrower},
		{k.Write, k.Reload, k.Cancel, k.Quit},
	}
}

var keys = keyMap{
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
	Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextSeries: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next series")),
	PrevSeries: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous series")),
	Focus:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus series")),
	Toggle:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle series")),
	Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open waterfall")),
	Select:     key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s/space", "select point")),
	PointMenu:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "point menu")),
	ChartMenu:  key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "chart menu")),
	Brush:      key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "brush zoom")),
	Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset zoom")),
	Wider:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
	Narrower:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
	Write:      key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write svg")),
	Reload:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q/ctrl+c", "quit")),
}
