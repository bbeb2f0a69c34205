// internal/chart/engine.go
// Package chart is the interactive time series chart. The engine owns the
// legend state, the scales, the point selection and every drawable element.
// Input arrives through intent methods; output is a Frame that can be painted
// as SVG or inspected directly.
package chart

import (
	"time"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/palette"
	"github.com/mwiater/osmchart/internal/scale"
	"github.com/mwiater/osmchart/internal/selection"
	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/translate"
)

// State is the interaction state of the engine.
type State int

const (
	StateIdle State = iota
	StateBrushing
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateBrushing:
		return "brushing"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Status tells a loading chart apart from one without data.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusReady:
		return "ready"
	default:
		return "loading"
	}
}

// Margin is the space around the drawing area.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargin leaves room for the header, the axes and their units.
var DefaultMargin = Margin{Top: 60, Right: 75, Bottom: 40, Left: 75}

const (
	DotRadius           = 3.0
	HighlightRadius     = 5.0
	HiddenOpacity       = 0.1
	HiddenLegendOpacity = 0.2

	tooltipGap   = 50.0
	menuEdgeGap  = 40.0
	legendSwatch = 10.0
	legendRow    = 20.0
	legendFont   = 12.0

	ResizeFadeOut = 100 * time.Millisecond
	ResizeFadeIn  = 50 * time.Millisecond
)

// Options configures an Engine. Width and Height are the outer size of the
// chart including margins.
type Options struct {
	Width, Height  float64
	Margin         Margin
	Transition     time.Duration
	ResizeDebounce time.Duration
	MenuWidth      float64
	TooltipWidth   float64
	Translate      translate.Func
	// Navigate receives every link opened from the chart.
	Navigate func(url string)
	// OnSelectionError is called when a point from another test server is
	// selected.
	OnSelectionError func(p timeseries.Point, err error)
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1000
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.Margin == (Margin{}) {
		o.Margin = DefaultMargin
	}
	if o.Transition <= 0 {
		o.Transition = 500 * time.Millisecond
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = 500 * time.Millisecond
	}
	if o.MenuWidth <= 0 {
		o.MenuWidth = 180
	}
	if o.TooltipWidth <= 0 {
		o.TooltipWidth = 220
	}
	if o.Translate == nil {
		o.Translate = translate.Identity
	}
	if o.Navigate == nil {
		o.Navigate = func(string) {}
	}
	return o
}

// Engine is the time series chart. It is driven from a single goroutine.
type Engine struct {
	opts   Options
	state  State
	status Status

	chart   timeseries.Chart
	legend  []timeseries.LegendEntry
	visible map[string]bool
	colors  map[string]string
	focused string

	scales    *scale.Model
	selection *selection.Set[timeseries.Point]

	dots    []Dot
	marker  *Marker
	tooltip *Tooltip
	menu    *Menu

	brushFrom, brushTo float64

	resizeToken  uint64
	pendingWidth float64
	opacity      float64
	fade         time.Duration
}

// New returns an engine in the loading state.
func New(opts Options) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:    opts,
		visible: map[string]bool{},
		colors:  map[string]string{},
		opacity: 1,
	}
	e.scales = scale.New(e.innerWidth(), e.innerHeight())
	e.selection = selection.New(e.selectionConflict)
	return e
}

func (e *Engine) innerWidth() float64 {
	return e.opts.Width - e.opts.Margin.Left - e.opts.Margin.Right
}

func (e *Engine) innerHeight() float64 {
	return e.opts.Height - e.opts.Margin.Top - e.opts.Margin.Bottom
}

func (e *Engine) selectionConflict(p timeseries.Point, err error) {
	logging.LogTagged("chart", "selection rejected for %s: %v", p.Source.TestID, err)
	if e.opts.OnSelectionError != nil {
		e.opts.OnSelectionError(p, err)
	}
}

// SetLoading marks the chart as waiting for data.
func (e *Engine) SetLoading() {
	e.status = StatusLoading
}

// Load replaces the data. Legend visibility, selection, marker and menus are
// reset; the time domain covers all points. A pending resize survives the
// load so its token still completes.
func (e *Engine) Load(data dto.EventResultData) {
	e.chart = timeseries.Prepare(data, e.opts.Translate)
	e.legend = append([]timeseries.LegendEntry(nil), e.chart.Legend...)
	e.visible = make(map[string]bool, len(e.legend))
	e.colors = make(map[string]string, len(e.legend))
	for i, entry := range e.legend {
		e.visible[entry.Key] = true
		e.colors[entry.Key] = palette.SeriesColor(e.chart.NumberOfTimeSeries, i)
	}
	e.focused = ""
	e.selection = selection.New(e.selectionConflict)
	e.marker, e.tooltip, e.menu = nil, nil, nil
	if e.state != StateResizing {
		e.state = StateIdle
	}

	groups := make([][]timeseries.Series, len(e.chart.Groups))
	for i, g := range e.chart.Groups {
		groups[i] = g.Series
	}
	e.scales.SetData(groups, e.isVisible)
	e.rebuild()

	if e.chart.Empty() {
		e.status = StatusEmpty
	} else {
		e.status = StatusReady
	}
	logging.LogTagged("chart", "loaded %d series in %d groups (%s)", e.chart.SeriesCount(), len(e.chart.Groups), e.status)
}

func (e *Engine) isVisible(key string) bool {
	return e.visible[key]
}

// State returns the interaction state.
func (e *Engine) State() State { return e.state }

// Status returns whether data is loading, empty or ready.
func (e *Engine) Status() Status { return e.status }

// Chart returns the prepared data.
func (e *Engine) Chart() timeseries.Chart { return e.chart }

// Legend returns the legend entries with their current visibility.
func (e *Engine) Legend() []timeseries.LegendEntry {
	out := append([]timeseries.LegendEntry(nil), e.legend...)
	for i := range out {
		out[i].Visible = e.visible[out[i].Key]
	}
	return out
}

// Focused returns the legend entry shown alone, if any.
func (e *Engine) Focused() string { return e.focused }

// Scales exposes the coordinate mappings.
func (e *Engine) Scales() *scale.Model { return e.scales }

// Selected returns the selected points in selection order.
func (e *Engine) Selected() []timeseries.Point { return e.selection.All() }

// Color returns the line color of a series.
func (e *Engine) Color(key string) string {
	if c, ok := e.colors[key]; ok {
		return c
	}
	return palette.Neutral
}

// Dot is a plotted point of a visible series inside the time window.
type Dot struct {
	Key   string
	Color string
	Point timeseries.Point
	X, Y  float64
}

// rebuild recomputes pixel positions of all plottable points.
func (e *Engine) rebuild() {
	e.dots = e.dots[:0]
	for gi, g := range e.chart.Groups {
		axis := e.scales.AxisFor(gi)
		for _, s := range g.Series {
			if !e.visible[s.Key] {
				continue
			}
			for _, p := range s.Values {
				if !p.HasValue() || !e.scales.InWindow(p.Date) {
					continue
				}
				e.dots = append(e.dots, Dot{
					Key:   s.Key,
					Color: e.Color(s.Key),
					Point: p,
					X:     e.scales.X(p.Date),
					Y:     e.scales.Y(axis, *p.Value),
				})
			}
		}
	}
}

// Dots returns the plotted points.
func (e *Engine) Dots() []Dot { return e.dots }

// ResizeDelay is how long a caller waits before finishing a resize.
func (e *Engine) ResizeDelay() time.Duration { return e.opts.ResizeDebounce }

// BeginResize fades the chart out and records the new outer width. The
// returned token must be passed to FinishResize once the debounce delay has
// passed; only the newest token is honoured.
func (e *Engine) BeginResize(width float64) uint64 {
	e.resizeToken++
	e.pendingWidth = width
	e.state = StateResizing
	e.opacity, e.fade = 0, ResizeFadeOut
	return e.resizeToken
}

// FinishResize applies the pending width if token is the latest one. Stale
// tokens are ignored and false is returned.
func (e *Engine) FinishResize(token uint64) bool {
	if e.state != StateResizing || token != e.resizeToken {
		return false
	}
	e.opts.Width = e.pendingWidth
	e.scales.Resize(e.innerWidth(), e.innerHeight())
	e.rebuild()
	e.marker, e.tooltip = nil, nil
	e.opacity, e.fade = 1, ResizeFadeIn
	e.state = StateIdle
	logging.LogTagged("chart", "resized to %.0fpx", e.opts.Width)
	return true
}
