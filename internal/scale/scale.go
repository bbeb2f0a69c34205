// internal/scale/scale.go
// Package scale maps chart data to pixels: one time axis shared by every
// series and one linear value axis per measurand group.
package scale

import (
	"math"
	"time"

	"github.com/aclements/go-moremath/scale"

	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/util"
)

const (
	// MaxYAxes is the number of value axes drawn. Further groups share the last axis.
	MaxYAxes = 3
	// AxisStep is the horizontal distance between right-hand axes.
	AxisStep = 60
	// minBrushWidth is the smallest pixel extent accepted as a zoom.
	minBrushWidth = 1
	// singleInstantPadding widens a domain that holds a single timestamp.
	singleInstantPadding = 30 * time.Minute
)

// Model holds the current x and y domains and the pixel size of the drawing
// area. It is owned by one chart engine and not safe for concurrent use.
type Model struct {
	width, height float64

	groups  [][]timeseries.Series
	visible func(key string) bool

	fullMin, fullMax time.Time
	xMin, xMax       time.Time
	zoomed           bool

	y []scale.Linear
}

// New returns a model for a drawing area of width x height pixels.
func New(width, height float64) *Model {
	return &Model{width: width, height: height, visible: func(string) bool { return true }}
}

// SetData replaces the data and resets both domains to the full extent.
// visible may be nil.
func (m *Model) SetData(groups [][]timeseries.Series, visible func(key string) bool) {
	m.groups = groups
	if visible != nil {
		m.visible = visible
	}
	m.fullMin, m.fullMax = m.timeExtent()
	m.Reset()
}

// Reset restores the full time domain and autoscales y to all points.
func (m *Model) Reset() {
	m.xMin, m.xMax = m.fullMin, m.fullMax
	m.zoomed = false
	m.rescaleY()
}

// Brush zooms into the pixel range [px0, px1] of the drawing area. It
// returns false and leaves the domains untouched for an empty extent.
func (m *Model) Brush(px0, px1 float64) bool {
	if px0 > px1 {
		px0, px1 = px1, px0
	}
	w := m.DrawingWidth()
	px0 = util.Clamp(px0, 0, w)
	px1 = util.Clamp(px1, 0, w)
	if px1-px0 < minBrushWidth || len(m.groups) == 0 {
		return false
	}
	lo, hi := m.InvertX(px0), m.InvertX(px1)
	m.xMin, m.xMax = lo, hi
	m.zoomed = true
	m.rescaleY()
	return true
}

// Resize changes the pixel size and keeps the current time domain.
func (m *Model) Resize(width, height float64) {
	m.width, m.height = width, height
}

// Zoomed reports whether a brush narrowed the time domain.
func (m *Model) Zoomed() bool { return m.zoomed }

// Width returns the full chart width including right-hand axes.
func (m *Model) Width() float64 { return m.width }

// Height returns the drawing area height.
func (m *Model) Height() float64 { return m.height }

// Axes returns the number of value axes.
func (m *Model) Axes() int {
	return min(len(m.groups), MaxYAxes)
}

// AxisFor returns the value axis of a measurand group index.
func (m *Model) AxisFor(group int) int {
	return util.Clamp(group, 0, MaxYAxes-1)
}

// DrawingWidth is the width left for lines once right-hand axes are placed.
func (m *Model) DrawingWidth() float64 {
	if axes := m.Axes(); axes > 1 {
		return m.width - float64((axes-1)*AxisStep)
	}
	return m.width
}

// AxisOffset returns the x position of a value axis. The first axis sits on
// the left edge; the others are stacked right of the drawing area.
func (m *Model) AxisOffset(axis int) float64 {
	if axis == 0 {
		return 0
	}
	return m.DrawingWidth() + float64((axis-1)*AxisStep)
}

// Domain returns the current time domain.
func (m *Model) Domain() (time.Time, time.Time) { return m.xMin, m.xMax }

// FullDomain returns the time extent of all visible points.
func (m *Model) FullDomain() (time.Time, time.Time) { return m.fullMin, m.fullMax }

// InWindow reports whether t lies inside the current time domain.
func (m *Model) InWindow(t time.Time) bool {
	return !t.Before(m.xMin) && !t.After(m.xMax)
}

func (m *Model) xLinear() scale.Linear {
	return scale.Linear{Min: msOf(m.xMin), Max: msOf(m.xMax)}
}

func msOf(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// X maps a timestamp to a pixel column.
func (m *Model) X(t time.Time) float64 {
	if !m.xMax.After(m.xMin) {
		return m.DrawingWidth() / 2
	}
	x := m.xLinear()
	return x.Map(msOf(t)) * m.DrawingWidth()
}

// InvertX maps a pixel column back to a timestamp.
func (m *Model) InvertX(px float64) time.Time {
	w := m.DrawingWidth()
	if w <= 0 || !m.xMax.After(m.xMin) {
		return m.xMin
	}
	x := m.xLinear()
	ms := x.Unmap(px / w)
	return time.UnixMilli(int64(math.Round(ms))).In(m.xMin.Location())
}

// Y maps a value to a pixel row on the given axis; larger values are higher.
func (m *Model) Y(axis int, v float64) float64 {
	if axis < 0 || axis >= len(m.y) {
		return m.height
	}
	return m.height - m.y[axis].Map(v)*m.height
}

// YDomain returns the value extent of an axis.
func (m *Model) YDomain(axis int) (float64, float64) {
	if axis < 0 || axis >= len(m.y) {
		return 0, 1
	}
	return m.y[axis].Min, m.y[axis].Max
}

func (m *Model) eachVisible(fn func(group int, s timeseries.Series)) {
	for gi, group := range m.groups {
		for _, s := range group {
			if m.visible(s.Key) {
				fn(gi, s)
			}
		}
	}
}

func (m *Model) timeExtent() (time.Time, time.Time) {
	var lo, hi time.Time
	found := false
	m.eachVisible(func(_ int, s timeseries.Series) {
		for _, p := range s.Values {
			if !found || p.Date.Before(lo) {
				lo = p.Date
			}
			if !found || p.Date.After(hi) {
				hi = p.Date
			}
			found = true
		}
	})
	if !found {
		now := time.Unix(0, 0).UTC()
		return now, now.Add(time.Hour)
	}
	if !hi.After(lo) {
		lo, hi = lo.Add(-singleInstantPadding), hi.Add(singleInstantPadding)
	}
	return lo, hi
}

// Rescale recomputes the value axes after series visibility changed. The
// time window is kept.
func (m *Model) Rescale() {
	if len(m.groups) > 0 {
		m.rescaleY()
	}
}

// rescaleY sets every value axis to the extent of the points inside the
// current time window. The extent always includes zero.
func (m *Model) rescaleY() {
	axes := m.Axes()
	lo := make([]float64, axes)
	hi := make([]float64, axes)
	m.eachVisible(func(gi int, s timeseries.Series) {
		axis := m.AxisFor(gi)
		for _, p := range s.Values {
			if !p.HasValue() || !m.InWindow(p.Date) {
				continue
			}
			lo[axis] = min(lo[axis], *p.Value)
			hi[axis] = max(hi[axis], *p.Value)
		}
	})
	m.y = make([]scale.Linear, axes)
	for i := range m.y {
		if hi[i] <= lo[i] {
			hi[i] = lo[i] + 1
		}
		m.y[i] = scale.Linear{Min: lo[i], Max: hi[i]}
	}
}
