// internal/palette/palette.go
// Package palette assigns colors to chart series and measurands.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// SeriesScheme is the line color scheme for time series charts.
var SeriesScheme = []string{
	"#59b1a5", "#e76f51", "#2a9d8f", "#f4a261", "#264653",
	"#8e6c8a", "#e9c46a", "#457b9d", "#c05746", "#6a994e",
	"#b5838d", "#3d5a80", "#ee6c4d", "#588157", "#9a8c98",
	"#1d3557", "#bc6c25", "#52796f", "#d62828", "#606c38",
}

const (
	// Good is the traffic light color for improvements.
	Good = "#5cb85c"
	// Bad is the traffic light color for deteriorations.
	Bad = "#d9534f"
	// Neutral is used when no better color is known.
	Neutral = "#999999"
)

var unitBase = map[string]string{
	"ms": "#1660a7",
	"s":  "#1660a7",
	"#":  "#e15759",
	"MB": "#f28e2b",
	"KB": "#f28e2b",
	"%":  "#59a14f",
}

// SeriesColor returns the color of the series at index when n series are
// drawn. Lines are colored from the end of the scheme backwards.
func SeriesColor(n, index int) string {
	if len(SeriesScheme) == 0 {
		return Neutral
	}
	i := (n - index - 1) % len(SeriesScheme)
	if i < 0 {
		i += len(SeriesScheme)
	}
	return SeriesScheme[i]
}

// TrafficLight returns Good or Bad.
func TrafficLight(good bool) string {
	if good {
		return Good
	}
	return Bad
}

// Shades returns n colors from base toward white, darkest first.
func Shades(base string, n int) []string {
	if n <= 0 {
		return nil
	}
	c, err := colorful.Hex(base)
	if err != nil {
		c, _ = colorful.Hex(Neutral)
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	out := make([]string, n)
	out[0] = c.Hex()
	for i := 1; i < n; i++ {
		t := 0.65 * float64(i) / float64(n-1)
		out[i] = c.BlendLab(white, t).Clamped().Hex()
	}
	return out
}

// Muted blends a color toward grey. Measurand groups with comparative data use
// muted colors so the traffic light bars stand out.
func Muted(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Neutral
	}
	grey := colorful.Color{R: 0.6, G: 0.6, B: 0.6}
	return c.BlendLab(grey, 0.5).Clamped().Hex()
}

// Fade blends a color toward background as if drawn with the given opacity.
func Fade(hex string, opacity float64, background string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	bg, err := colorful.Hex(background)
	if err != nil {
		bg = colorful.Color{R: 1, G: 1, B: 1}
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return bg.BlendRgb(c, opacity).Clamped().Hex()
}

// Ordinal hands out colors from a fixed range in first-seen order. The same
// key always gets the same color.
type Ordinal struct {
	colors   []string
	assigned map[string]string
}

// NewOrdinal returns an ordinal scale over colors.
func NewOrdinal(colors []string) *Ordinal {
	return &Ordinal{colors: colors, assigned: map[string]string{}}
}

// Color returns the color for key, assigning the next free one if needed.
func (o *Ordinal) Color(key string) string {
	if c, ok := o.assigned[key]; ok {
		return c
	}
	if len(o.colors) == 0 {
		return Neutral
	}
	c := o.colors[len(o.assigned)%len(o.colors)]
	o.assigned[key] = c
	return c
}

// ForUnit returns the ordinal scale for measurands of one unit.
func ForUnit(unit string, hasComparative bool) *Ordinal {
	base, ok := unitBase[unit]
	if !ok {
		base = "#76b7b2"
	}
	colors := Shades(base, 6)
	if hasComparative {
		for i, c := range colors {
			colors[i] = Muted(c)
		}
	}
	return NewOrdinal(colors)
}
