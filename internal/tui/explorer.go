// internal/tui/explorer.go
// Package tui is an interactive terminal explorer for time series charts. The
// keyboard stands in for the pointer: a cursor moves over the drawing area
// and every key maps onto one chart intent.
package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/fetch"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/util"
)

const (
	// cellWidth converts terminal columns into chart pixels.
	cellWidth = 8
	// widthStep is the pixel change of one wider/narrower key press.
	widthStep = 50
	minWidth  = 300
)

// Options configures the explorer.
type Options struct {
	Chart chart.Options
	// Output receives the SVG written by the write key.
	Output string
	// Source and Fetcher enable reloading over HTTP.
	Source  string
	Fetcher *fetch.Manager
}

// loadedMsg carries the result of a fetch.
type loadedMsg struct {
	data dto.EventResultData
	err  error
}

// resizeMsg fires once the debounce delay of a resize has passed.
type resizeMsg struct {
	token uint64
}

// Model is the bubbletea model of the explorer.
type Model struct {
	engine *chart.Engine
	opts   Options
	keys   keyMap
	help   help.Model

	width, height    int
	cursorX, cursorY float64
	legendIdx        int
	menuIdx          int
	brushing         bool
	brushFrom        float64
	resizeToken      uint64

	lastURL string
	status  string
	err     error
}

// New returns an explorer over data. A zero data value leaves the chart in
// the loading state until a reload delivers data.
func New(data *dto.EventResultData, opts Options) *Model {
	m := &Model{opts: opts, keys: keys, help: help.New()}
	chartOpts := opts.Chart
	navigate := chartOpts.Navigate
	chartOpts.Navigate = func(url string) {
		m.lastURL = url
		m.status = "open " + url
		if navigate != nil {
			navigate(url)
		}
	}
	onConflict := chartOpts.OnSelectionError
	chartOpts.OnSelectionError = func(p timeseries.Point, err error) {
		m.err = fmt.Errorf("select %s: %w", p.Date.UTC().Format("2006-01-02 15:04"), err)
		if onConflict != nil {
			onConflict(p, err)
		}
	}
	m.engine = chart.New(chartOpts)
	if data != nil {
		m.engine.Load(*data)
	}
	m.cursorY = m.engine.Frame().DrawHeight / 2
	return m
}

// Engine exposes the chart driven by the explorer.
func (m *Model) Engine() *chart.Engine { return m.engine }

// Run starts the explorer on the terminal's alternate screen.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Fetch loads url through fetcher. Superseded responses arrive as ErrStale
// and are dropped by Update.
func Fetch(ctx context.Context, fetcher *fetch.Manager, url string) tea.Cmd {
	return func() tea.Msg {
		data, err := fetcher.TimeSeries(ctx, url)
		return loadedMsg{data: data, err: err}
	}
}

// Init starts the first fetch when a source is configured.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) reload() tea.Cmd {
	if m.opts.Source == "" || m.opts.Fetcher == nil {
		return nil
	}
	m.engine.SetLoading()
	return Fetch(context.Background(), m.opts.Fetcher, m.opts.Source)
}

func (m *Model) resize(width float64) tea.Cmd {
	width = max(width, minWidth)
	token := m.engine.BeginResize(width)
	m.resizeToken = token
	return tea.Tick(m.engine.ResizeDelay(), func(time.Time) tea.Msg {
		return resizeMsg{token: token}
	})
}

// step is the pixel distance of one cursor move.
func (m *Model) step() float64 {
	cols, _ := m.plotSize()
	return m.engine.Frame().DrawWidth / float64(cols-1)
}

func (m *Model) moveCursor(dx, dy float64) {
	f := m.engine.Frame()
	m.cursorX = util.Clamp(m.cursorX+dx, 0, f.DrawWidth)
	m.cursorY = util.Clamp(m.cursorY+dy, 0, f.DrawHeight)
	if m.brushing {
		m.engine.OnBrushMove(m.cursorX)
		return
	}
	m.engine.OnPointerMove(m.cursorX, m.cursorY)
}

func (m *Model) legendKey() string {
	legend := m.engine.Legend()
	if len(legend) == 0 {
		return ""
	}
	m.legendIdx = util.Clamp(m.legendIdx, 0, len(legend)-1)
	return legend[m.legendIdx].Key
}

// Update is the central update function for the Bubble Tea model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, m.resize(float64(msg.Width * cellWidth))

	case resizeMsg:
		if m.engine.FinishResize(msg.token) {
			f := m.engine.Frame()
			m.cursorX = util.Clamp(m.cursorX, 0, f.DrawWidth)
			m.cursorY = util.Clamp(m.cursorY, 0, f.DrawHeight)
		}
		return m, nil

	case loadedMsg:
		if errors.Is(msg.err, fetch.ErrStale) {
			return m, nil
		}
		if msg.err != nil {
			m.err = msg.err
			logging.LogTagged("explore", "load failed: %v", msg.err)
			return m, nil
		}
		m.err = nil
		m.brushing = false
		m.engine.Load(msg.data)
		m.status = "loaded"
		return m, nil

	case tea.KeyMsg:
		if m.engine.Menu() != nil {
			return m, m.updateMenu(msg)
		}
		return m, m.updateChart(msg)
	}
	return m, nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	menu := m.engine.Menu()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.engine.CloseMenu()
	case key.Matches(msg, m.keys.Up):
		m.menuIdx = m.nextMenuItem(menu, -1)
	case key.Matches(msg, m.keys.Down):
		m.menuIdx = m.nextMenuItem(menu, 1)
	case key.Matches(msg, m.keys.Focus):
		if err := m.engine.InvokeMenu(m.menuIdx); err != nil {
			m.err = err
		}
	}
	return nil
}

// nextMenuItem moves the menu cursor by dir, skipping dividers.
func (m *Model) nextMenuItem(menu *chart.Menu, dir int) int {
	for i := m.menuIdx + dir; i >= 0 && i < len(menu.Items); i += dir {
		if !menu.Items[i].Divider {
			return i
		}
	}
	return m.menuIdx
}

func (m *Model) updateChart(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-m.step(), 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(m.step(), 0)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -m.step())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, m.step())
	case key.Matches(msg, m.keys.NextSeries):
		m.legendIdx++
		m.legendKey()
	case key.Matches(msg, m.keys.PrevSeries):
		m.legendIdx--
		m.legendKey()
	case key.Matches(msg, m.keys.Focus):
		m.engine.OnLegendClick(m.legendKey(), false)
	case key.Matches(msg, m.keys.Toggle):
		m.engine.OnLegendClick(m.legendKey(), true)
	case key.Matches(msg, m.keys.Open):
		m.err = m.engine.OnPointClick(false)
	case key.Matches(msg, m.keys.Select):
		m.err = m.engine.OnPointClick(true)
	case key.Matches(msg, m.keys.PointMenu), key.Matches(msg, m.keys.ChartMenu):
		f := m.engine.Frame()
		x, y := m.cursorX+f.Margin.Left, m.cursorY+f.Margin.Top
		var opened bool
		if key.Matches(msg, m.keys.PointMenu) {
			opened = m.engine.OnPointContext(x, y, f.Width)
		} else {
			opened = m.engine.OnBackgroundContext(x, y, f.Width)
		}
		m.menuIdx = 0
		if !opened {
			m.status = "no menu entries"
		}
	case key.Matches(msg, m.keys.Brush):
		if !m.brushing {
			m.engine.OnBrushStart(m.cursorX)
			m.brushing = m.engine.State() == chart.StateBrushing
			m.brushFrom = m.cursorX
			return nil
		}
		m.brushing = false
		if !m.engine.OnBrush(m.brushFrom, m.cursorX) {
			m.status = "brush too narrow"
		}
	case key.Matches(msg, m.keys.Cancel):
		if m.brushing {
			m.brushing = false
			m.engine.OnBrush(m.brushFrom, m.brushFrom)
		}
	case key.Matches(msg, m.keys.Reset):
		m.engine.OnReset()
	case key.Matches(msg, m.keys.Wider):
		return m.resize(m.engine.Frame().Width + widthStep)
	case key.Matches(msg, m.keys.Narrower):
		return m.resize(m.engine.Frame().Width - widthStep)
	case key.Matches(msg, m.keys.Write):
		m.writeSVG()
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	}
	return nil
}

func (m *Model) writeSVG() {
	if m.opts.Output == "" {
		m.err = errors.New("no output path configured")
		return
	}
	var buf bytes.Buffer
	m.engine.RenderSVG(&buf)
	if err := util.WriteFile(m.opts.Output, buf.Bytes()); err != nil {
		m.err = fmt.Errorf("write svg: %w", err)
		return
	}
	m.status = "wrote " + m.opts.Output
}
