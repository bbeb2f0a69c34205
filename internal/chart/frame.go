// internal/chart/frame.go
package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/osmchart/internal/scale"
	"github.com/mwiater/osmchart/internal/util"
)

// Pos is a pixel position inside the drawing area.
type Pos struct {
	X, Y float64
}

// Line is one series path. Hidden series keep their line at low opacity.
type Line struct {
	Key        string
	Color      string
	Axis       int
	Points     []Pos
	Opacity    float64
	Transition time.Duration
}

// SingleDot stands in for a series with exactly one point in the window.
type SingleDot struct {
	Key     string
	Color   string
	At      Pos
	Opacity float64
}

// PointMark is a point drawn on top of the lines: the marker column, the
// selected points and the point a menu was opened on.
type PointMark struct {
	Key      string
	Color    string
	At       Pos
	Radius   float64
	OnMarker bool
	Selected bool
}

// Tick is an axis tick at a pixel position.
type Tick struct {
	Pos   float64
	Label string
}

// Axis is one value axis. TextX positions tick labels; TitleX the unit title.
type Axis struct {
	Index     int
	Ticks     []Tick
	TextX     float64
	Title     string
	TitleX    float64
	TitleY    float64
	GridWidth float64
	Grid      bool
}

// LegendItem is one legend entry with its layout position.
type LegendItem struct {
	Key        string
	Text       string
	Color      string
	X, Y       float64
	Opacity    float64
	Transition time.Duration
}

// BrushRect is the rectangle of an ongoing brush gesture.
type BrushRect struct {
	X0, X1 float64
}

// Frame is everything the chart draws, computed from the engine state.
type Frame struct {
	Width, Height   float64
	DrawWidth       float64
	DrawHeight      float64
	Margin          Margin
	Status          Status
	Opacity         float64
	OpacityFade     time.Duration
	Summary         string
	XTicks          []Tick
	Axes            []Axis
	Lines           []Line
	SingleDots      []SingleDot
	Points          []PointMark
	Marker          *Marker
	Tooltip         *Tooltip
	Menu            *Menu
	Brush           *BrushRect
	Legend          []LegendItem
	LegendTop       float64
	LegendRowHeight float64
}

// Frame computes the drawable model of the current state.
func (e *Engine) Frame() Frame {
	f := Frame{
		Width:       e.opts.Width,
		DrawWidth:   e.scales.DrawingWidth(),
		DrawHeight:  e.innerHeight(),
		Margin:      e.opts.Margin,
		Status:      e.status,
		Opacity:     e.opacity,
		OpacityFade: e.fade,
		Summary:     e.chart.SummaryLabel,
		Marker:      e.marker,
		Tooltip:     e.tooltip,
		Menu:        e.menu,
	}
	if e.state == StateBrushing {
		f.Brush = &BrushRect{X0: min(e.brushFrom, e.brushTo), X1: max(e.brushFrom, e.brushTo)}
	}
	if e.status == StatusReady {
		f.XTicks = e.xTicks()
		f.Axes = e.axes()
		e.lines(&f)
		f.Points = e.pointMarks()
	}
	legendHeight := e.legendLayout(&f)
	f.Height = f.DrawHeight + legendHeight + f.Margin.Top + f.Margin.Bottom
	return f
}

func (e *Engine) xTicks() []Tick {
	n := max(2, int(e.scales.DrawingWidth()/120))
	ticks := e.scales.XTicks(n)
	labels := scale.FormatTimeTicks(ticks)
	out := make([]Tick, len(ticks))
	for i, t := range ticks {
		out[i] = Tick{Pos: e.scales.X(t), Label: labels[i]}
	}
	return out
}

func (e *Engine) axes() []Axis {
	drawWidth := e.scales.DrawingWidth()
	height := e.innerHeight()
	out := make([]Axis, e.scales.Axes())
	for i := range out {
		a := Axis{
			Index:     i,
			GridWidth: drawWidth,
			Grid:      i == 0,
			TitleY:    height/2 - e.opts.Margin.Bottom,
		}
		if i == 0 {
			a.TextX, a.TitleX = -5, -45
		} else {
			a.TextX = float64((i-1)*scale.AxisStep) + drawWidth + 5
			a.TitleX = drawWidth - 5 + float64(scale.AxisStep*i)
		}
		group := e.chart.Groups[i]
		key := "frontend.de.iteratec.isr.measurand.group." + group.Name
		title := e.opts.Translate(key)
		if title == key || title == "" {
			title = group.Name
		}
		a.Title = title + " [" + group.Unit + "]"
		for _, v := range e.scales.YTicks(i, 6) {
			a.Ticks = append(a.Ticks, Tick{Pos: e.scales.Y(i, v), Label: strconv.FormatFloat(v, 'f', -1, 64)})
		}
		out[i] = a
	}
	return out
}

func (e *Engine) lines(f *Frame) {
	for gi, g := range e.chart.Groups {
		axis := e.scales.AxisFor(gi)
		for _, s := range g.Series {
			opacity := 1.0
			if !e.visible[s.Key] {
				opacity = HiddenOpacity
			}
			var pts []Pos
			for _, p := range s.Values {
				if p.HasValue() && e.scales.InWindow(p.Date) {
					pts = append(pts, Pos{X: e.scales.X(p.Date), Y: e.scales.Y(axis, *p.Value)})
				}
			}
			switch {
			case len(pts) == 1 && e.visible[s.Key]:
				f.SingleDots = append(f.SingleDots, SingleDot{Key: s.Key, Color: e.Color(s.Key), At: pts[0], Opacity: opacity})
			case len(pts) > 1:
				f.Lines = append(f.Lines, Line{
					Key:        s.Key,
					Color:      e.Color(s.Key),
					Axis:       axis,
					Points:     pts,
					Opacity:    opacity,
					Transition: e.opts.Transition,
				})
			}
		}
	}
}

func (e *Engine) pointMarks() []PointMark {
	var out []PointMark
	for _, d := range e.dots {
		onMarker := e.marker != nil && d.X == e.marker.X
		selected := e.selection.IsSelected(d.Point)
		menuPoint := e.menu != nil && e.menu.Point != nil && d.Point.Equal(*e.menu.Point)
		if !onMarker && !selected && !menuPoint {
			continue
		}
		r := DotRadius
		if onMarker && d.Point.Equal(e.marker.Nearest.Point) {
			r = HighlightRadius
		}
		out = append(out, PointMark{
			Key:      d.Key,
			Color:    d.Color,
			At:       Pos{X: d.X, Y: d.Y},
			Radius:   r,
			OnMarker: onMarker,
			Selected: selected,
		})
	}
	return out
}

// legendLayout places legend entries in as many columns as fit and returns
// the height of the legend block.
func (e *Engine) legendLayout(f *Frame) float64 {
	f.LegendTop = f.Margin.Top + f.DrawHeight + 50
	f.LegendRowHeight = legendRow
	if len(e.legend) == 0 {
		return 0
	}
	widest := 1.0
	for _, entry := range e.legend {
		widest = max(widest, util.TextWidth(entry.Text, legendFont))
	}
	colWidth := widest + legendSwatch + 30
	cols := max(1, int(math.Floor(e.innerWidth()/colWidth)))
	for i, entry := range e.legend {
		opacity := 1.0
		if !e.visible[entry.Key] {
			opacity = HiddenLegendOpacity
		}
		f.Legend = append(f.Legend, LegendItem{
			Key:        entry.Key,
			Text:       entry.Text,
			Color:      e.Color(entry.Key),
			X:          float64(i%cols) * colWidth,
			Y:          float64(i/cols)*legendRow + 12,
			Opacity:    opacity,
			Transition: e.opts.Transition,
		})
	}
	rows := (len(e.legend) + cols - 1) / cols
	return float64(rows)*legendRow + 30
}

// LegendAt returns the legend key at a position relative to the legend
// block, or "" when no entry is there.
func (f Frame) LegendAt(x, y float64) string {
	for _, item := range f.Legend {
		top := item.Y - 12
		width := legendSwatch + 15 + util.TextWidth(item.Text, legendFont)
		if x >= item.X && x <= item.X+width && y >= top && y < top+legendRow {
			return item.Key
		}
	}
	return ""
}

// pathData renders positions as an SVG path.
func pathData(pts []Pos) string {
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString("L")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	return b.String()
}
