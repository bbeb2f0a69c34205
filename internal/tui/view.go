// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	badgeStyle  = lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	plotStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("#555"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	activeStyle = lipgloss.NewStyle().Bold(true)
	menuStyle   = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
)

const (
	runeEmpty    = ' '
	runeDot      = '•'
	runeNearest  = '◆'
	runeSelected = '◉'
	runeCursor   = '┊'
	runeBrush    = '░'
)

// plotSize returns the plot grid in cells.
func (m *Model) plotSize() (cols, rows int) {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}
	return max(w-4, 20), max(h-14, 6)
}

type cell struct {
	r     rune
	color string
}

type grid struct {
	cols, rows int
	drawW      float64
	drawH      float64
	cells      [][]cell
}

func newGrid(cols, rows int, drawW, drawH float64) *grid {
	g := &grid{cols: cols, rows: rows, drawW: drawW, drawH: drawH, cells: make([][]cell, rows)}
	for i := range g.cells {
		g.cells[i] = make([]cell, cols)
		for j := range g.cells[i] {
			g.cells[i][j] = cell{r: runeEmpty}
		}
	}
	return g
}

func (g *grid) col(x float64) int {
	if g.drawW <= 0 {
		return 0
	}
	return util.Clamp(util.Round(x/g.drawW*float64(g.cols-1)), 0, g.cols-1)
}

func (g *grid) row(y float64) int {
	if g.drawH <= 0 {
		return 0
	}
	return util.Clamp(util.Round(y/g.drawH*float64(g.rows-1)), 0, g.rows-1)
}

func (g *grid) set(x, y float64, r rune, color string) {
	g.cells[g.row(y)][g.col(x)] = cell{r: r, color: color}
}

func (g *grid) column(x float64, r rune) {
	c := g.col(x)
	for i := range g.cells {
		if g.cells[i][c].r == runeEmpty {
			g.cells[i][c] = cell{r: r}
		}
	}
}

func (g *grid) render() string {
	lines := make([]string, g.rows)
	for i, row := range g.cells {
		var sb strings.Builder
		for _, c := range row {
			s := string(c.r)
			if c.color != "" {
				s = lipgloss.NewStyle().Foreground(lipgloss.Color(c.color)).Render(s)
			}
			sb.WriteString(s)
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// View renders the explorer.
func (m *Model) View() string {
	f := m.engine.Frame()
	title := f.Summary
	if title == "" {
		title = "osmchart"
	}
	header := headerStyle.Render(title) + badgeStyle.Render(m.engine.State().String()) +
		badgeStyle.Render(fmt.Sprintf("%d selected", len(m.engine.Selected())))
	if m.engine.Scales().Zoomed() {
		header += badgeStyle.Render("zoomed")
	}

	sections := []string{header}
	switch f.Status {
	case chart.StatusLoading:
		sections = append(sections, mutedStyle.Render("loading"))
	case chart.StatusEmpty:
		sections = append(sections, mutedStyle.Render("no data"))
	default:
		sections = append(sections, m.plotView(f), m.domainView())
		sections = append(sections, m.legendView())
		if t := f.Tooltip; t != nil {
			sections = append(sections, tooltipView(t))
		}
	}
	if menu := f.Menu; menu != nil {
		sections = append(sections, m.menuView(menu))
	}
	if m.status != "" {
		sections = append(sections, mutedStyle.Render(m.status))
	}
	if m.err != nil {
		sections = append(sections, errorStyle.Render("ERROR: "+m.err.Error()))
	}
	sections = append(sections, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) plotView(f chart.Frame) string {
	cols, rows := m.plotSize()
	g := newGrid(cols, rows, f.DrawWidth, f.DrawHeight)
	if f.Brush != nil {
		for c := g.col(f.Brush.X0); c <= g.col(f.Brush.X1); c++ {
			g.column(float64(c)/float64(cols-1)*f.DrawWidth, runeBrush)
		}
	}
	for _, d := range m.engine.Dots() {
		g.set(d.X, d.Y, runeDot, d.Color)
	}
	for _, p := range f.Points {
		if p.Selected {
			g.set(p.At.X, p.At.Y, runeSelected, p.Color)
		}
	}
	if mk := f.Marker; mk != nil {
		g.set(mk.Nearest.X, mk.Nearest.Y, runeNearest, mk.Nearest.Color)
	}
	g.column(m.cursorX, runeCursor)
	return plotStyle.Render(g.render())
}

func (m *Model) domainView() string {
	lo, hi := m.engine.Scales().Domain()
	left := lo.UTC().Format("2006-01-02 15:04")
	right := hi.UTC().Format("2006-01-02 15:04")
	cols, _ := m.plotSize()
	gap := max(cols+2-len(left)-len(right), 1)
	return mutedStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) legendView() string {
	entries := m.engine.Legend()
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		prefix := "  "
		if i == m.legendIdx {
			prefix = "> "
		}
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(m.engine.Color(e.Key))).Render("■")
		text := e.Text
		if !e.Visible {
			text = mutedStyle.Render(text)
		} else if e.Key == m.engine.Focused() {
			text = activeStyle.Render(text)
		}
		lines = append(lines, prefix+swatch+" "+text)
	}
	return strings.Join(lines, "\n")
}

func tooltipView(t *chart.Tooltip) string {
	lines := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		line := r.Label + " " + r.Value
		if r.Color != "" {
			line = lipgloss.NewStyle().Foreground(lipgloss.Color(r.Color)).Render("●") + " " + line
		}
		if r.Active {
			line = activeStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) menuView(menu *chart.Menu) string {
	width := 0
	for _, item := range menu.Items {
		width = max(width, len(item.Title))
	}
	lines := make([]string, 0, len(menu.Items))
	for i, item := range menu.Items {
		if item.Divider {
			lines = append(lines, strings.Repeat("─", max(width, 4)+2))
			continue
		}
		prefix := "  "
		if i == m.menuIdx {
			prefix = "> "
		}
		lines = append(lines, prefix+item.Title)
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}
