// internal/aggregation/order.go
package aggregation

import "sort"

// OrderEntry is one bar row.
type OrderEntry struct {
	Page     string
	JobGroup string
	Browser  string
	ID       string
}

// BarData is everything needed to paint the bars of one measurand.
type BarData struct {
	ID        string
	Label     string
	Unit      string
	Color     string
	Values    []Entry
	Min       float64
	Max       float64
	ForceSign bool
}

// filtered returns the session rows selected by the active filter. asc and
// desc keep every row; a custom rule keeps matching rows in rule order.
func (t *Transformer) filtered() []*Record {
	if t.selectedFilter == FilterAsc || t.selectedFilter == FilterDesc {
		return append([]*Record(nil), t.raw...)
	}
	var out []*Record
	for _, fe := range t.filterRules[t.selectedFilter] {
		for _, r := range t.raw {
			if r.Page == fe.Page && r.JobGroup == fe.JobGroup && (fe.Browser == "" || r.Browser == fe.Browser) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Order returns the row order for filter without changing the selection.
func (t *Transformer) Order(filter string) []OrderEntry {
	if t.validFilter(filter) == t.selectedFilter {
		return append([]OrderEntry(nil), t.order...)
	}
	saved := t.selectedFilter
	t.selectedFilter = t.validFilter(filter)
	t.recompute()
	out := append([]OrderEntry(nil), t.order...)
	t.selectedFilter = saved
	t.recompute()
	return out
}

// CurrentOrder returns the row order of the active filter.
func (t *Transformer) CurrentOrder() []OrderEntry {
	return append([]OrderEntry(nil), t.order...)
}

func (t *Transformer) createOrder() []OrderEntry {
	if t.selectedFilter == FilterAsc || t.selectedFilter == FilterDesc {
		return t.sortOrder(t.selectedFilter == FilterAsc)
	}
	var out []OrderEntry
	for _, fe := range t.filterRules[t.selectedFilter] {
		if fe.Browser != "" {
			out = append(out, orderEntry(fe.Page, fe.JobGroup, fe.Browser))
			continue
		}
		out = append(out, t.ruleRows(fe.Page, fe.JobGroup)...)
	}
	return out
}

// ruleRows expands a rule entry without a browser into one row per browser
// recorded for its page and job group, in arrival order. A combination
// without records keeps a single row so its bars stay empty.
func (t *Transformer) ruleRows(page, jobGroup string) []OrderEntry {
	var out []OrderEntry
	seen := map[string]bool{}
	for _, r := range t.raw {
		if r.Page != page || r.JobGroup != jobGroup || seen[r.Browser] {
			continue
		}
		seen[r.Browser] = true
		out = append(out, orderEntry(page, jobGroup, r.Browser))
	}
	if len(out) == 0 {
		out = append(out, orderEntry(page, jobGroup, ""))
	}
	return out
}

func orderEntry(page, jobGroup, browser string) OrderEntry {
	return OrderEntry{Page: page, JobGroup: jobGroup, Browser: browser, ID: seriesValueID(page, jobGroup, browser)}
}

// rankingMeasurand picks the first measurand of MeasurandOrder present in the
// view, falling back to the first one seen.
func (t *Transformer) rankingMeasurand() *MeasurandData {
	for _, m := range MeasurandOrder {
		if md, ok := t.measurands[m]; ok {
			return md
		}
	}
	if len(t.measurandOrder) == 0 {
		return nil
	}
	return t.measurands[t.measurandOrder[0]]
}

func rankValue(e Entry) float64 {
	if e.Value == nil {
		return -1
	}
	return *e.Value
}

func (t *Transformer) sortOrder(ascending bool) []OrderEntry {
	ranking := t.rankingMeasurand()
	if ranking == nil {
		return nil
	}
	sorted := append([]Entry(nil), ranking.Series...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if ascending {
			return rankValue(sorted[i]) < rankValue(sorted[j])
		}
		return rankValue(sorted[i]) > rankValue(sorted[j])
	})

	var longest []Entry
	for _, m := range t.measurandOrder {
		if s := t.measurands[m].Series; len(s) > len(longest) {
			longest = s
		}
	}
	if len(sorted) < len(longest) {
		present := map[string]bool{}
		for _, e := range sorted {
			present[e.ID] = true
		}
		for _, e := range longest {
			if !present[e.ID] {
				present[e.ID] = true
				sorted = append(sorted, e)
			}
		}
	}

	out := make([]OrderEntry, len(sorted))
	for i, e := range sorted {
		out[i] = OrderEntry{Page: e.Page, JobGroup: e.JobGroup, Browser: e.Browser, ID: e.ID}
	}
	return out
}

// BarsFor returns the bars of measurand aligned to the current order. Rows
// without a record get a nil value so every measurand spans the same rows.
func (t *Transformer) BarsFor(measurand string) (BarData, bool) {
	md, ok := t.measurands[measurand]
	if !ok {
		return BarData{}, false
	}
	byID := make(map[string]Entry, len(md.Series))
	for _, e := range md.Series {
		byID[e.ID] = e
	}
	values := make([]Entry, len(t.order))
	for i, o := range t.order {
		if e, ok := byID[o.ID]; ok {
			values[i] = e
			continue
		}
		values[i] = Entry{ID: o.ID, Page: o.Page, JobGroup: o.JobGroup, Browser: o.Browser, Measurand: measurand}
	}
	g := t.groups[md.MeasurandGroup]
	return BarData{
		ID:        md.ID,
		Label:     md.Label,
		Unit:      md.Unit,
		Color:     md.Color,
		Values:    values,
		Min:       min(g.Min, 0),
		Max:       max(g.Max, 0),
		ForceSign: md.IsImprovement || md.IsDeterioration,
	}, true
}
