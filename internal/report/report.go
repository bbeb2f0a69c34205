// internal/report/report.go
// Package report writes a standalone HTML page with the rendered charts, the
// legend state, the selected points and the comparative summary.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/osmchart/internal/aggregation"
	"github.com/mwiater/osmchart/internal/barchart"
	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/palette"
	"github.com/mwiater/osmchart/internal/urlbuilder"
	"github.com/mwiater/osmchart/internal/util"
)

// Input collects what a report shows. Either chart may be nil.
type Input struct {
	Title    string
	Engine   *chart.Engine
	Bars     *aggregation.Transformer
	BarWidth float64
	// Highlight dims every bar row but this one.
	Highlight string
	Now       func() time.Time
}

// LegendRow is one series of the time series legend.
type LegendRow struct {
	Text    string `json:"text"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

// SelectedRow is one selected measurement with its result link.
type SelectedRow struct {
	Date    string `json:"date"`
	Value   string `json:"value"`
	Agent   string `json:"agent"`
	Summary string `json:"summary"`
}

// ComparisonRow is one comparative delta.
type ComparisonRow struct {
	Label       string `json:"label"`
	Measurand   string `json:"measurand"`
	Delta       string `json:"delta"`
	Color       string `json:"color"`
	Improvement bool   `json:"improvement"`
}

// Page is the view model of the report template.
type Page struct {
	Title         string
	Generated     string
	TimeSeriesSVG template.HTML
	BarChartSVG   template.HTML
	Legend        []LegendRow
	Selected      []SelectedRow
	Comparisons   []ComparisonRow
	DataJSON      template.JS
}

// Build renders both charts and collects the tables.
func Build(in Input) (Page, error) {
	now := time.Now
	if in.Now != nil {
		now = in.Now
	}
	p := Page{Title: in.Title, Generated: now().UTC().Format(time.RFC3339)}
	if p.Title == "" {
		p.Title = "osmchart report"
	}

	if in.Engine != nil {
		var buf bytes.Buffer
		in.Engine.RenderSVG(&buf)
		p.TimeSeriesSVG = template.HTML(buf.String())
		for _, entry := range in.Engine.Legend() {
			p.Legend = append(p.Legend, LegendRow{Text: entry.Text, Color: in.Engine.Color(entry.Key), Visible: entry.Visible})
		}
		for _, pt := range in.Engine.Selected() {
			row := SelectedRow{Date: pt.Date.UTC().Format("2006-01-02 15:04:05"), Agent: pt.Agent, Summary: urlbuilder.Summary(pt.Source)}
			if pt.Value != nil {
				row.Value = fmt.Sprintf("%.0f", *pt.Value)
			}
			p.Selected = append(p.Selected, row)
		}
	}

	if in.Bars != nil {
		width := in.BarWidth
		if width <= 0 {
			width = 900
		}
		var buf bytes.Buffer
		barchart.Render(&buf, barchart.Build(in.Bars, width, in.Highlight))
		p.BarChartSVG = template.HTML(buf.String())
		p.Comparisons = Comparisons(in.Bars)
	}

	payload, err := json.Marshal(struct {
		Legend      []LegendRow     `json:"legend"`
		Selected    []SelectedRow   `json:"selected"`
		Comparisons []ComparisonRow `json:"comparisons"`
	}{p.Legend, p.Selected, p.Comparisons})
	if err != nil {
		return Page{}, fmt.Errorf("encode report data: %w", err)
	}
	p.DataJSON = template.JS(payload)
	return p, nil
}

// Comparisons flattens the transformer's comparative records, sorted by
// measurand and then by label. Deltas use the precision of their group extent.
func Comparisons(t *aggregation.Transformer) []ComparisonRow {
	groups := t.GroupByMeasurandGroup()
	var rows []ComparisonRow
	for measurand, comps := range t.Comparatives() {
		for _, c := range comps {
			g := groups[c.MeasurandGroup]
			rows = append(rows, ComparisonRow{
				Label:       strings.Join(nonEmpty(c.Page, c.JobGroup, c.Browser), " | "),
				Measurand:   measurand,
				Delta:       barchart.FormatValue(c.Value, g.Min, g.Max, c.Unit, true),
				Color:       palette.TrafficLight(c.IsImprovement),
				Improvement: c.IsImprovement,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Measurand != rows[j].Measurand {
			return rows[i].Measurand < rows[j].Measurand
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Generate renders the report as HTML.
func Generate(in Input) (string, error) {
	page, err := Build(in)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write renders the report to path.
func Write(path string, in Input) error {
	html, err := Generate(in)
	if err != nil {
		return err
	}
	return util.WriteFile(path, []byte(html))
}

var reportTemplate = template.Must(template.New("chart-report").Parse(reportTemplateHTML))

const reportTemplateHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Roboto, Helvetica, Arial, sans-serif; color: #333; margin: 2rem; }
    section { margin-bottom: 2rem; }
    table { border-collapse: collapse; }
    td, th { padding: 4px 10px; border-bottom: 1px solid #eee; text-align: left; }
    .swatch { display: inline-block; width: 10px; height: 10px; border-radius: 2px; margin-right: 6px; }
    .hidden { opacity: 0.2; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <p>Generated {{.Generated}}</p>
  {{if .TimeSeriesSVG}}
  <section id="timeseries">
    {{.TimeSeriesSVG}}
    {{if .Legend}}
    <ul>
      {{range .Legend}}<li{{if not .Visible}} class="hidden"{{end}}><span class="swatch" style="background: {{.Color}}"></span>{{.Text}}</li>
      {{end}}
    </ul>
    {{end}}
  </section>
  {{end}}
  {{if .Selected}}
  <section id="selection">
    <h2>Selected points</h2>
    <table>
      <tr><th>Date</th><th>Value</th><th>Agent</th><th>Result</th></tr>
      {{range .Selected}}<tr><td>{{.Date}}</td><td>{{.Value}}</td><td>{{.Agent}}</td><td><a href="{{.Summary}}">summary</a></td></tr>
      {{end}}
    </table>
  </section>
  {{end}}
  {{if .BarChartSVG}}
  <section id="aggregation">
    {{.BarChartSVG}}
    {{if .Comparisons}}
    <table>
      <tr><th>Measurand</th><th>Series</th><th>Delta</th></tr>
      {{range .Comparisons}}<tr><td>{{.Measurand}}</td><td>{{.Label}}</td><td style="color: {{.Color}}">{{.Delta}}</td></tr>
      {{end}}
    </table>
    {{end}}
  </section>
  {{end}}
  <script id="chart-data" type="application/json">{{.DataJSON}}</script>
</body>
</html>
`
