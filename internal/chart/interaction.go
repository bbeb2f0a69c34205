// internal/chart/interaction.go
package chart

import (
	"sort"
	"strconv"

	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/translate"
	"github.com/mwiater/osmchart/internal/urlbuilder"
	"github.com/mwiater/osmchart/internal/util"
)

// Marker is the vertical line through the point nearest to the pointer.
type Marker struct {
	X       float64
	Nearest Dot
	// Column holds every plotted point sharing the nearest point's x pixel.
	Column []Dot
}

// TooltipRow is one line of the marker tooltip.
type TooltipRow struct {
	Label  string
	Value  string
	Color  string
	Active bool
}

// Tooltip lists the values of the marker column. Top and Left are relative
// to the chart's outer box.
type Tooltip struct {
	Top, Left float64
	Rows      []TooltipRow
}

// Marker returns the current marker or nil.
func (e *Engine) Marker() *Marker { return e.marker }

// Tooltip returns the current tooltip or nil.
func (e *Engine) Tooltip() *Tooltip { return e.tooltip }

func taxicab(x0, y0, x1, y1 float64) float64 {
	return util.Abs(x0-x1) + util.Abs(y0-y1)
}

// OnPointerMove tracks the point nearest to (x, y), given in drawing area
// pixels. Charts with fewer than two series do not track.
func (e *Engine) OnPointerMove(x, y float64) {
	if e.state != StateIdle || e.chart.SeriesCount() < 2 {
		return
	}
	nearest := -1
	best := 0.0
	for i, d := range e.dots {
		dist := taxicab(x, y, d.X, d.Y)
		if nearest < 0 || dist < best {
			nearest, best = i, dist
		}
	}
	if nearest < 0 {
		e.marker, e.tooltip = nil, nil
		return
	}
	n := e.dots[nearest]
	m := &Marker{X: n.X, Nearest: n}
	for _, d := range e.dots {
		if d.X == n.X {
			m.Column = append(m.Column, d)
		}
	}
	e.marker = m
	e.tooltip = e.buildTooltip(m)
}

// OnPointerLeave hides marker and tooltip.
func (e *Engine) OnPointerLeave() {
	e.marker, e.tooltip = nil, nil
}

func (e *Engine) buildTooltip(m *Marker) *Tooltip {
	tr := e.opts.Translate
	rows := []TooltipRow{{
		Label: tr(translate.KeyTimestamp),
		Value: m.Nearest.Point.Date.Format("2006-01-02 15:04:05"),
	}}

	column := append([]Dot(nil), m.Column...)
	sort.SliceStable(column, func(i, j int) bool { return column[i].Y < column[j].Y })
	for _, d := range column {
		row := TooltipRow{
			Label:  d.Point.TooltipText,
			Color:  d.Color,
			Active: d.Point.Equal(m.Nearest.Point),
		}
		if d.Point.HasValue() {
			row.Value = strconv.FormatFloat(*d.Point.Value, 'f', -1, 64)
		}
		rows = append(rows, row)
	}
	rows = append(rows, TooltipRow{Label: tr(translate.KeyTestAgent), Value: m.Column[0].Point.Agent})

	tw := e.opts.TooltipWidth
	left := m.X + e.opts.Margin.Left + tooltipGap
	if m.X+tw > e.innerWidth() {
		left = m.X - tw + e.opts.Margin.Left
	}
	return &Tooltip{Top: m.Nearest.Y + e.opts.Margin.Top, Left: left, Rows: rows}
}

// OnPointClick acts on the point under the marker. A plain click opens its
// waterfall, a modifier click toggles its selection.
func (e *Engine) OnPointClick(modifier bool) error {
	if e.marker == nil {
		return nil
	}
	p := e.marker.Nearest.Point
	if modifier {
		return e.changeSelection(p)
	}
	e.navigate(urlbuilder.ByOption(p.Source, urlbuilder.Waterfall))
	return nil
}

func (e *Engine) navigate(url string) {
	logging.LogTagged("chart", "open %s", url)
	e.opts.Navigate(url)
}

func (e *Engine) changeSelection(p timeseries.Point) error {
	return e.selection.Toggle(p)
}

// OnLegendClick changes series visibility. A modifier click toggles one
// entry. A plain click shows only that entry, and a second plain click on
// the focused entry shows all entries again.
func (e *Engine) OnLegendClick(key string, modifier bool) {
	if _, ok := e.visible[key]; !ok {
		return
	}
	switch {
	case modifier:
		e.visible[key] = !e.visible[key]
	case key == e.focused:
		for k := range e.visible {
			e.visible[k] = true
		}
		e.focused = ""
	default:
		for k := range e.visible {
			e.visible[k] = k == key
		}
		e.focused = key
	}
	e.scales.Rescale()
	e.marker, e.tooltip = nil, nil
	e.rebuild()
}

// OnBrushStart begins a brush gesture at pixel x.
func (e *Engine) OnBrushStart(px float64) {
	if e.state != StateIdle {
		return
	}
	e.state = StateBrushing
	e.brushFrom, e.brushTo = px, px
	e.marker, e.tooltip = nil, nil
}

// OnBrushMove extends the brush rectangle while dragging.
func (e *Engine) OnBrushMove(px float64) {
	if e.state == StateBrushing {
		e.brushTo = px
	}
}

// OnBrush ends a brush gesture over [x0, x1] and zooms into it. It reports
// whether the time domain changed.
func (e *Engine) OnBrush(x0, x1 float64) bool {
	if e.state == StateResizing {
		return false
	}
	e.state = StateIdle
	if !e.scales.Brush(x0, x1) {
		return false
	}
	lo, hi := e.scales.Domain()
	logging.LogTagged("chart", "zoom %s .. %s", lo.Format("2006-01-02 15:04"), hi.Format("2006-01-02 15:04"))
	e.marker, e.tooltip = nil, nil
	e.rebuild()
	return true
}

// OnReset restores the full time domain.
func (e *Engine) OnReset() {
	if e.state == StateResizing {
		return
	}
	e.state = StateIdle
	e.scales.Reset()
	e.marker, e.tooltip = nil, nil
	e.rebuild()
}
