// internal/chart/render.go
package chart

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
)

const fontAttrs = `font-size="12px" font-family="Roboto,Helvetica,Arial,sans-serif"`

func px(v float64) int { return int(v + 0.5) }

// RenderSVG paints the current frame.
func (e *Engine) RenderSVG(w io.Writer) {
	RenderFrame(w, e.Frame())
}

// RenderFrame paints a frame as a standalone SVG document.
func RenderFrame(w io.Writer, f Frame) {
	canvas := svg.New(w)
	canvas.Start(px(f.Width), px(f.Height), fontAttrs, fmt.Sprintf(`style="opacity:%.2f;transition:opacity %dms"`, f.Opacity, f.OpacityFade.Milliseconds()))
	defer canvas.End()

	if f.Summary != "" {
		canvas.Text(px(f.Margin.Left+f.DrawWidth/2), px(f.Margin.Top-16), f.Summary, `text-anchor="middle"`, `fill="#555555"`)
	}

	canvas.Group(fmt.Sprintf(`transform="translate(%.0f,%.0f)"`, f.Margin.Left, f.Margin.Top))
	switch f.Status {
	case StatusLoading:
		canvas.Text(px(f.DrawWidth/2), px(f.DrawHeight/2), "loading", `text-anchor="middle"`, `fill="#999999"`)
	case StatusEmpty:
		canvas.Text(px(f.DrawWidth/2), px(f.DrawHeight/2), "no data", `text-anchor="middle"`, `fill="#999999"`)
	default:
		renderAxes(canvas, f)
		renderSeries(canvas, f)
		renderMarker(canvas, f)
	}
	if f.Brush != nil {
		canvas.Rect(px(f.Brush.X0), 0, px(f.Brush.X1-f.Brush.X0), px(f.DrawHeight), `fill="#777777"`, `fill-opacity="0.3"`)
	}
	canvas.Gend()

	renderLegend(canvas, f)
	if f.Tooltip != nil {
		renderTooltip(canvas, f.Tooltip)
	}
	if f.Menu != nil {
		renderMenu(canvas, f.Menu)
	}
}

func renderAxes(canvas *svg.SVG, f Frame) {
	canvas.Line(0, px(f.DrawHeight), px(f.DrawWidth), px(f.DrawHeight), "stroke:#888888")
	for _, t := range f.XTicks {
		x := px(t.Pos)
		canvas.Line(x, px(f.DrawHeight), x, px(f.DrawHeight+6), "stroke:#888888")
		lines := strings.Split(t.Label, "\n")
		for i, line := range lines {
			canvas.Text(x, px(f.DrawHeight+20+float64(i)*15), line, `text-anchor="middle"`, `fill="#666666"`)
		}
	}
	for _, a := range f.Axes {
		for i, t := range a.Ticks {
			y := px(t.Pos)
			if a.Grid && i > 0 {
				canvas.Line(0, y, px(a.GridWidth), y, "stroke:#cccccc;stroke-opacity:0.5;stroke-dasharray:1,1")
			}
			anchor := `text-anchor="start"`
			if a.Index == 0 {
				anchor = `text-anchor="end"`
			}
			canvas.Text(px(a.TextX), y, t.Label, anchor, `dy=".3em"`, `fill="#666666"`)
		}
		canvas.Text(0, 0, a.Title, fmt.Sprintf(`transform="translate(%.0f,%.0f) rotate(-90)"`, a.TitleX, a.TitleY), `text-anchor="middle"`, `fill="#555555"`)
	}
}

func renderSeries(canvas *svg.SVG, f Frame) {
	for _, l := range f.Lines {
		canvas.Path(pathData(l.Points), fmt.Sprintf(`id="line-%s"`, l.Key), fmt.Sprintf(`style="fill:none;stroke:%s;stroke-width:1.5;opacity:%.1f;transition:opacity %dms"`, l.Color, l.Opacity, l.Transition.Milliseconds()))
	}
	for _, d := range f.SingleDots {
		canvas.Circle(px(d.At.X), px(d.At.Y), px(DotRadius), fmt.Sprintf(`style="fill:%s;opacity:%.1f"`, d.Color, d.Opacity))
	}
	for _, p := range f.Points {
		fill := p.Color
		if p.OnMarker {
			fill = "white"
		}
		canvas.Circle(px(p.At.X), px(p.At.Y), px(p.Radius), fmt.Sprintf(`style="fill:%s;stroke:%s"`, fill, p.Color))
	}
}

func renderMarker(canvas *svg.SVG, f Frame) {
	if f.Marker == nil {
		return
	}
	x := px(f.Marker.X)
	canvas.Line(x, px(f.DrawHeight), x, 0, "stroke:#555555;stroke-width:1;pointer-events:none")
}

func renderLegend(canvas *svg.SVG, f Frame) {
	if len(f.Legend) == 0 {
		return
	}
	canvas.Group(fmt.Sprintf(`transform="translate(%.0f,%.0f)"`, f.Margin.Left, f.LegendTop))
	for _, item := range f.Legend {
		x, y := px(item.X), px(item.Y)
		canvas.Rect(x, y-px(legendSwatch), px(legendSwatch), px(legendSwatch), `rx="2"`, `ry="2"`, fmt.Sprintf(`style="fill:%s;opacity:%.1f;transition:opacity %dms"`, item.Color, item.Opacity, item.Transition.Milliseconds()))
		canvas.Text(x+15, y, item.Text, `fill="#333333"`)
	}
	canvas.Gend()
}

func renderTooltip(canvas *svg.SVG, t *Tooltip) {
	const rowHeight = 16
	width := 0.0
	for _, r := range t.Rows {
		width = max(width, float64(len(r.Label)+len(r.Value))*7+30)
	}
	canvas.Group(fmt.Sprintf(`transform="translate(%.0f,%.0f)"`, t.Left, t.Top), `opacity="0.9"`)
	canvas.Rect(0, 0, px(width), len(t.Rows)*rowHeight+8, `fill="white"`, `stroke="#cccccc"`)
	for i, r := range t.Rows {
		y := (i+1)*rowHeight + 2
		weight := "normal"
		if r.Active {
			weight = "bold"
		}
		if r.Color != "" {
			canvas.Circle(8, y-4, 4, "fill:"+r.Color)
		}
		canvas.Text(16, y, r.Label+" "+r.Value, fmt.Sprintf(`font-weight="%s"`, weight))
	}
	canvas.Gend()
}

func renderMenu(canvas *svg.SVG, m *Menu) {
	const rowHeight = 20
	canvas.Group(fmt.Sprintf(`transform="translate(%.0f,%.0f)"`, m.Left, m.Top))
	canvas.Rect(0, 0, 180, len(m.Items)*rowHeight+4, `fill="white"`, `stroke="#cccccc"`)
	for i, item := range m.Items {
		y := i*rowHeight + 2
		if item.Divider {
			canvas.Line(4, y+rowHeight/2, 176, y+rowHeight/2, "stroke:#dddddd")
			continue
		}
		canvas.Text(8, y+14, item.Title)
	}
	canvas.Gend()
}
