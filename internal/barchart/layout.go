// internal/barchart/layout.go
// Package barchart paints aggregation results as horizontal bars that diverge
// from a zero baseline.
package barchart

import (
	"strconv"

	"github.com/aclements/go-moremath/scale"

	"github.com/mwiater/osmchart/internal/aggregation"
	"github.com/mwiater/osmchart/internal/util"
)

const (
	// LabelOffset is the padding between a value label and the bar end.
	LabelOffset = 10.0
	// FontSize is used to estimate label widths.
	FontSize = 12.0
	// RestrainedOpacity dims bars of rows other than the highlighted one.
	RestrainedOpacity = 0.2
)

// Bar is one laid out value bar. Y is the top of the bar band.
type Bar struct {
	ID           string
	Measurand    string
	Color        string
	X, Width     float64
	Y, Height    float64
	Label        string
	LabelX       float64
	Anchor       string
	LabelVisible bool
	Opacity      float64
}

// FormatValue renders a bar value. Extents reaching a thousand drop the
// decimals. forceSign adds a leading "+" to positive values.
func FormatValue(v, lo, hi float64, unit string, forceSign bool) string {
	precision := 2
	if hi >= 1000 || lo <= -1000 {
		precision = 0
	}
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if forceSign && v > 0 {
		s = "+" + s
	}
	if unit != "" {
		s += " " + unit
	}
	return s
}

type xScale struct {
	lin   scale.Linear
	width float64
}

func newXScale(lo, hi, width float64) xScale {
	return xScale{lin: scale.Linear{Min: lo, Max: hi}, width: width}
}

func (s xScale) at(v float64) float64 {
	if s.lin.Max <= s.lin.Min {
		return 0
	}
	lin := s.lin
	return lin.Map(v) * s.width
}

// barStart and barEnd let negative values grow left from zero and positive
// values right from it.
func (s xScale) barStart(v float64) float64 {
	if v < 0 {
		return s.at(v)
	}
	return s.at(0)
}

func (s xScale) barEnd(v float64) float64 {
	if v < 0 {
		return s.at(0)
	}
	return s.at(v)
}

// Layout places the bars of one measurand over width pixels. Row i starts at
// rowY(i). Missing values produce a zero width bar without label.
func Layout(data aggregation.BarData, width float64, rowY func(row int) float64) []Bar {
	xs := newXScale(data.Min, data.Max, width)
	bars := make([]Bar, len(data.Values))
	for i, e := range data.Values {
		b := Bar{
			ID:        e.ID,
			Measurand: data.ID,
			Color:     data.Color,
			Y:         rowY(i),
			Height:    aggregation.BarBand,
			Anchor:    "end",
			Opacity:   1,
		}
		if e.Value == nil {
			b.X = xs.at(0)
			bars[i] = b
			continue
		}
		v := *e.Value
		b.X = xs.barStart(v)
		b.Width = xs.barEnd(v) - b.X
		b.Label = FormatValue(v, data.Min, data.Max, data.Unit, data.ForceSign)
		if v < 0 {
			b.Anchor = "start"
			b.LabelX = b.X + LabelOffset
		} else {
			b.LabelX = b.X + b.Width - LabelOffset
		}
		b.LabelVisible = util.TextWidth(b.Label, FontSize)+2*LabelOffset <= b.Width
		bars[i] = b
	}
	return bars
}
