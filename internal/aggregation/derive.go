// internal/aggregation/derive.go
package aggregation

import (
	"github.com/mwiater/osmchart/internal/labels"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/palette"
	"github.com/mwiater/osmchart/internal/translate"
)

// Comparative is a synthetic record holding value minus comparative value.
type Comparative struct {
	Key
	Original        string
	MeasurandLabel  string
	MeasurandGroup  string
	Unit            string
	Value           float64
	IsImprovement   bool
	IsDeterioration bool
}

// Entry is one bar value of a measurand.
type Entry struct {
	ID             string
	Page           string
	JobGroup       string
	Browser        string
	Measurand      string
	MeasurandLabel string
	MeasurandGroup string
	Unit           string
	Value          *float64
}

// MeasurandData describes all bars of one measurand.
type MeasurandData struct {
	ID              string
	Label           string
	MeasurandGroup  string
	Unit            string
	Color           string
	IsImprovement   bool
	IsDeterioration bool
	Series          []Entry
}

// GroupData is the value extent of a measurand group, always including 0.
type GroupData struct {
	Min            float64
	Max            float64
	HasComparative bool
}

// Improvement reports whether value compared to comparative is better for
// the group. For PERCENTAGES higher is better, everywhere else lower is.
func Improvement(group string, value, comparative float64) bool {
	diff := value - comparative
	if group == GroupPercentages {
		return diff > 0
	}
	return diff < 0
}

// DeriveComparative synthesizes improvement and deterioration records for
// every row that has both a value and a comparative value for the displayed
// aggregation. The result is keyed by the original measurand.
func (t *Transformer) DeriveComparative() map[string][]Comparative {
	return t.deriveComparative(t.filtered())
}

func (t *Transformer) deriveComparative(rows []*Record) map[string][]Comparative {
	out := map[string][]Comparative{}
	for _, r := range rows {
		v, okV := r.Values[t.aggregationValue]
		c, okC := r.Comparatives[t.aggregationValue]
		if !okV || !okC {
			continue
		}
		imp := Improvement(r.MeasurandGroup, v, c)
		suffix, label := DeteriorationSuffix, t.label(translate.KeyComparativeDeterioration, "deterioration")
		if imp {
			suffix, label = ImprovementSuffix, t.label(translate.KeyComparativeImprovement, "improvement")
		}
		key := r.Key
		key.Measurand = r.Measurand + suffix
		out[r.Measurand] = append(out[r.Measurand], Comparative{
			Key:             key,
			Original:        r.Measurand,
			MeasurandLabel:  label,
			MeasurandGroup:  r.MeasurandGroup,
			Unit:            r.Unit,
			Value:           v - c,
			IsImprovement:   imp,
			IsDeterioration: !imp,
		})
	}
	return out
}

// Comparatives returns the side table built by the last recompute.
func (t *Transformer) Comparatives() map[string][]Comparative {
	return t.comparatives
}

func (t *Transformer) measurandLabel(r *Record) string {
	if r.MeasurandLabel != "" {
		return r.MeasurandLabel
	}
	return t.label(translate.MeasurandPrefix+r.Measurand, r.Measurand)
}

func (t *Transformer) recompute() {
	rows := t.filtered()
	t.comparatives = t.deriveComparative(rows)

	type flagged struct {
		Entry
		imp, det bool
	}
	var entries []flagged
	for _, r := range rows {
		e := Entry{
			ID:             r.ID(),
			Page:           r.Page,
			JobGroup:       r.JobGroup,
			Browser:        r.Browser,
			Measurand:      r.Measurand,
			MeasurandLabel: t.measurandLabel(r),
			MeasurandGroup: r.MeasurandGroup,
			Unit:           r.Unit,
		}
		if v, ok := r.Values[t.aggregationValue]; ok {
			v := v
			e.Value = &v
		}
		entries = append(entries, flagged{Entry: e})
	}
	// Comparative rows follow all primary rows, grouped by original measurand
	// in order of first appearance.
	seen := map[string]bool{}
	for _, r := range rows {
		if seen[r.Measurand] {
			continue
		}
		seen[r.Measurand] = true
		for _, c := range t.comparatives[r.Measurand] {
			v := c.Value
			entries = append(entries, flagged{
				Entry: Entry{
					ID:             seriesValueID(c.Page, c.JobGroup, c.Browser),
					Page:           c.Page,
					JobGroup:       c.JobGroup,
					Browser:        c.Browser,
					Measurand:      c.Measurand,
					MeasurandLabel: c.MeasurandLabel,
					MeasurandGroup: c.MeasurandGroup,
					Unit:           c.Unit,
					Value:          &v,
				},
				imp: c.IsImprovement,
				det: c.IsDeterioration,
			})
		}
	}

	t.groups = map[string]GroupData{}
	for _, e := range entries {
		g := t.groups[e.MeasurandGroup]
		if e.Value != nil {
			g.Min = min(g.Min, *e.Value)
			g.Max = max(g.Max, *e.Value)
		}
		g.HasComparative = g.HasComparative || e.imp || e.det
		t.groups[e.MeasurandGroup] = g
	}

	t.measurands = map[string]*MeasurandData{}
	t.measurandOrder = nil
	for _, e := range entries {
		md, ok := t.measurands[e.Measurand]
		if !ok {
			md = &MeasurandData{
				ID:              e.Measurand,
				Label:           e.MeasurandLabel,
				MeasurandGroup:  e.MeasurandGroup,
				Unit:            e.Unit,
				IsImprovement:   e.imp,
				IsDeterioration: e.det,
			}
			t.measurands[e.Measurand] = md
			t.measurandOrder = append(t.measurandOrder, e.Measurand)
		}
		md.Series = append(md.Series, e.Entry)
	}
	for _, m := range SortByMeasurandOrder(append([]string(nil), t.measurandOrder...)) {
		t.measurands[m].Color = t.Color(m)
	}

	t.order = t.createOrder()
	descs := make([]labels.Descriptor, len(t.order))
	for i, o := range t.order {
		descs[i] = labels.Descriptor{Page: o.Page, JobGroup: o.JobGroup, Browser: o.Browser}
	}
	deriver := labels.New(descs)
	t.header = deriver.CommonHeader(true)
	if t.header != "" {
		t.header += " - " + t.AggregationLabel()
	} else {
		t.header = t.AggregationLabel()
	}
	t.sideLabels = deriver.Labels(true)

	logging.Dump("aggregation groups", t.groups)
}

// Color returns the color of a measurand. Improvement and deterioration
// measurands use the traffic light; all others an ordinal scale per unit.
// Assignments are cached for the session.
func (t *Transformer) Color(measurand string) string {
	if c, ok := t.colorCache[measurand]; ok {
		return c
	}
	md, ok := t.measurands[measurand]
	if !ok {
		return palette.Neutral
	}
	var c string
	if md.IsImprovement || md.IsDeterioration {
		c = palette.TrafficLight(md.IsImprovement)
	} else {
		scale, ok := t.unitScales[md.Unit]
		if !ok {
			scale = palette.ForUnit(md.Unit, t.groups[md.MeasurandGroup].HasComparative)
			t.unitScales[md.Unit] = scale
		}
		c = scale.Color(measurand)
	}
	t.colorCache[measurand] = c
	return c
}

// GroupByMeasurand returns the per-measurand data of the current view.
func (t *Transformer) GroupByMeasurand() map[string]MeasurandData {
	out := make(map[string]MeasurandData, len(t.measurands))
	for k, v := range t.measurands {
		out[k] = *v
	}
	return out
}

// GroupByMeasurandGroup returns the value extent per measurand group.
func (t *Transformer) GroupByMeasurandGroup() map[string]GroupData {
	out := make(map[string]GroupData, len(t.groups))
	for k, v := range t.groups {
		out[k] = v
	}
	return out
}

// AllMeasurands returns measurands in order of first appearance, comparative
// measurands last.
func (t *Transformer) AllMeasurands() []string {
	return append([]string(nil), t.measurandOrder...)
}

// HasLoadTimes reports whether the LOAD_TIMES group is present.
func (t *Transformer) HasLoadTimes() bool {
	_, ok := t.groups[GroupLoadTimes]
	return ok
}

// BarScore returns the LOAD_TIMES extent used for the score scale.
func (t *Transformer) BarScore() (lo, hi float64) {
	g, ok := t.groups[GroupLoadTimes]
	if !ok {
		return 0, 0
	}
	return min(g.Min, 0), max(g.Max, 0)
}

// Header returns the chart title.
func (t *Transformer) Header() string { return t.header }

// SideLabels returns one label per order entry.
func (t *Transformer) SideLabels() []string {
	return append([]string(nil), t.sideLabels...)
}

// LegendEntry is one measurand in the bar chart legend.
type LegendEntry struct {
	ID    string
	Color string
	Label string
}

// Legend returns the legend entries sorted by MeasurandOrder.
func (t *Transformer) Legend() []LegendEntry {
	ms := SortByMeasurandOrder(t.AllMeasurands())
	out := make([]LegendEntry, 0, len(ms))
	for _, m := range ms {
		md := t.measurands[m]
		out = append(out, LegendEntry{ID: md.ID, Color: md.Color, Label: md.Label})
	}
	return out
}

// ChartBarsHeight returns the pixel height of all bar rows.
func (t *Transformer) ChartBarsHeight() int {
	rows := len(t.order)
	if rows == 0 {
		return 0
	}
	measurands := len(t.measurands)
	bars := rows
	if !t.stackBars {
		bars = rows * measurands
	}
	gap := BarGap
	if !t.stackBars && measurands >= 2 {
		gap = 2 * BarGap
	}
	return (rows-1)*gap + bars*BarBand
}
