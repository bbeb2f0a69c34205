// internal/barchart/render.go
package barchart

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/mwiater/osmchart/internal/aggregation"
	"github.com/mwiater/osmchart/internal/util"
)

const (
	headerHeight = 40.0
	legendHeight = 40.0
	sidePadding  = 20.0
	minBarsWidth = 100.0
)

// Chart is a laid out aggregation chart.
type Chart struct {
	Width, Height float64
	Header        string
	SideLabels    []string
	// RowY and RowHeight place the side labels.
	RowY      []float64
	RowHeight float64
	BarsX     float64
	Bars      []Bar
	Legend    []aggregation.LegendEntry
	Stacked   bool
	Status    aggregation.Status
}

// Build lays out the transformer's current view. Bars of rows other than
// highlight are dimmed; an empty highlight dims nothing.
func Build(t *aggregation.Transformer, width float64, highlight string) Chart {
	c := Chart{
		Width:   width,
		Header:  t.Header(),
		Legend:  t.Legend(),
		Stacked: t.StackBars(),
		Status:  t.Status(),
	}
	order := t.CurrentOrder()
	c.SideLabels = t.SideLabels()
	sideWidth := 0.0
	for _, l := range c.SideLabels {
		sideWidth = max(sideWidth, util.TextWidth(l, FontSize))
	}
	c.BarsX = sideWidth + sidePadding
	barsWidth := max(width-c.BarsX, minBarsWidth)

	measurands := aggregation.SortByMeasurandOrder(t.AllMeasurands())
	perRow := 1
	gap := float64(aggregation.BarGap)
	if !c.Stacked {
		perRow = max(len(measurands), 1)
		if len(measurands) >= 2 {
			gap = 2 * aggregation.BarGap
		}
	}
	c.RowHeight = float64(perRow) * aggregation.BarBand
	for i := range order {
		c.RowY = append(c.RowY, headerHeight+float64(i)*(c.RowHeight+gap))
	}

	// Stacked bars overlap; the first measurand in display order is drawn last
	// so it stays on top.
	drawOrder := measurands
	if c.Stacked {
		drawOrder = make([]string, len(measurands))
		for i, m := range measurands {
			drawOrder[len(measurands)-1-i] = m
		}
	}
	for _, m := range drawOrder {
		data, ok := t.BarsFor(m)
		if !ok {
			continue
		}
		band := 0
		if !c.Stacked {
			band = indexOf(measurands, m)
		}
		rowY := func(row int) float64 {
			return c.RowY[row] + float64(band)*aggregation.BarBand
		}
		for _, b := range Layout(data, barsWidth, rowY) {
			b.X += c.BarsX
			b.LabelX += c.BarsX
			if highlight != "" && b.ID != highlight {
				b.Opacity = RestrainedOpacity
			}
			c.Bars = append(c.Bars, b)
		}
	}
	c.Height = headerHeight + float64(t.ChartBarsHeight()) + legendHeight
	return c
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

// Render writes the chart as a standalone SVG document.
func Render(w io.Writer, c Chart) {
	canvas := svg.New(w)
	canvas.Start(int(c.Width), int(c.Height), `font-size="12px" font-family="Roboto,Helvetica,Arial,sans-serif"`)
	defer canvas.End()

	canvas.Text(int(c.Width/2), 24, c.Header, `text-anchor="middle"`, `font-weight="bold"`, `fill="#333333"`)
	if c.Status != aggregation.StatusReady {
		canvas.Text(int(c.Width/2), int(headerHeight+20), c.Status.String(), `text-anchor="middle"`, `fill="#999999"`)
		return
	}

	for i, label := range c.SideLabels {
		if i >= len(c.RowY) {
			break
		}
		y := c.RowY[i] + c.RowHeight/2
		canvas.Text(int(c.BarsX-sidePadding/2), int(y), label, `text-anchor="end"`, `dominant-baseline="middle"`, `fill="#555555"`)
	}

	for _, b := range c.Bars {
		canvas.Group(fmt.Sprintf(`opacity="%.1f"`, b.Opacity))
		canvas.Rect(int(b.X), int(b.Y), int(b.Width+0.5), int(b.Height), "fill:"+b.Color)
		if b.LabelVisible {
			canvas.Text(int(b.LabelX), int(b.Y+b.Height/2), b.Label,
				`dominant-baseline="middle"`, fmt.Sprintf(`text-anchor="%s"`, b.Anchor), `fill="white"`, `font-weight="bold"`)
		}
		canvas.Gend()
	}

	x := 0.0
	y := c.Height - legendHeight/2
	for _, entry := range c.Legend {
		canvas.Rect(int(x), int(y-10), 10, 10, `rx="2"`, "fill:"+entry.Color)
		canvas.Text(int(x+15), int(y), entry.Label, `fill="#333333"`)
		x += util.TextWidth(entry.Label, FontSize) + 40
	}
}
