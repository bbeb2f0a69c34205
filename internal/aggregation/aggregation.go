// internal/aggregation/aggregation.go
// Package aggregation merges partial aggregation responses into one table per
// load session and derives everything the bar chart needs from it: comparative
// deltas, per-measurand series, group extents, colors and the display order.
package aggregation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/palette"
	"github.com/mwiater/osmchart/internal/translate"
)

const (
	FilterAsc  = "asc"
	FilterDesc = "desc"

	// DefaultAggregationValue is the statistic shown until a response selects another.
	DefaultAggregationValue = "avg"

	GroupPercentages = "PERCENTAGES"
	GroupLoadTimes   = "LOAD_TIMES"

	ImprovementSuffix   = "_improvement"
	DeteriorationSuffix = "_deterioration"

	// BarBand is the height of one bar, BarGap the space between two rows.
	BarBand = 40
	BarGap  = 12
)

// ErrDataShape marks a record that cannot be reconciled with the merge key.
var ErrDataShape = errors.New("aggregation record does not match expected shape")

// Status tells a consumer whether to show a spinner, a no-data hint or a chart.
type Status int

const (
	StatusLoading Status = iota
	StatusEmpty
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusEmpty:
		return "empty"
	default:
		return "ready"
	}
}

// Key identifies a merged record.
type Key struct {
	JobGroup  string
	Page      string
	Browser   string
	Measurand string
}

// Record is one merged row holding a value per aggregation kind.
type Record struct {
	Key
	MeasurandLabel string
	MeasurandGroup string
	Unit           string
	Values         map[string]float64
	Comparatives   map[string]float64
}

// ID identifies the page/job group/browser combination of a row.
func (r *Record) ID() string {
	return seriesValueID(r.Page, r.JobGroup, r.Browser)
}

func seriesValueID(page, jobGroup, browser string) string {
	if browser != "" {
		return page + ";" + jobGroup + ";" + browser
	}
	return page + ";" + jobGroup
}

// Transformer owns one aggregation load session. It is not safe for
// concurrent use; a new session must call Reset before ingesting.
type Transformer struct {
	translate translate.Func
	i18n      map[string]string

	raw   []*Record
	index map[Key]*Record

	aggregationValue string
	filterRules      map[string][]dto.FilterEntry
	selectedFilter   string
	stackBars        bool
	dataAvailable    bool

	unitScales map[string]*palette.Ordinal
	colorCache map[string]string

	comparatives   map[string][]Comparative
	measurands     map[string]*MeasurandData
	measurandOrder []string
	groups         map[string]GroupData
	order          []OrderEntry
	header         string
	sideLabels     []string
}

// New returns a transformer. A nil translator echoes keys.
func New(tr translate.Func) *Transformer {
	if tr == nil {
		tr = translate.Identity
	}
	t := &Transformer{
		translate:        tr,
		aggregationValue: DefaultAggregationValue,
		selectedFilter:   FilterDesc,
		stackBars:        true,
	}
	t.Reset()
	return t
}

// Reset starts a new load session. Filter rules and display options survive.
func (t *Transformer) Reset() {
	t.raw = nil
	t.index = map[Key]*Record{}
	t.unitScales = map[string]*palette.Ordinal{}
	t.colorCache = map[string]string{}
	t.comparatives = map[string][]Comparative{}
	t.measurands = map[string]*MeasurandData{}
	t.measurandOrder = nil
	t.groups = map[string]GroupData{}
	t.order = nil
	t.header = ""
	t.sideLabels = nil
	t.dataAvailable = false
}

// Ingest merges records into the session table. kind names the aggregation
// value carried by the records; when empty each record's own kind is used.
// Malformed records are logged and dropped. It returns the number merged.
func (t *Transformer) Ingest(records []dto.AggregationRecord, kind string, comparative bool) int {
	merged := 0
	for i, rec := range records {
		k := kind
		if k == "" {
			k = rec.AggregationValue
		}
		if err := checkShape(rec, k); err != nil {
			logging.LogTagged("aggregation", "dropping record %d: %v", i, err)
			continue
		}
		key := Key{JobGroup: rec.JobGroup, Page: rec.Page, Browser: rec.Browser, Measurand: rec.Measurand}
		entry, ok := t.index[key]
		if !ok {
			entry = &Record{
				Key:          key,
				Values:       map[string]float64{},
				Comparatives: map[string]float64{},
			}
			t.index[key] = entry
			t.raw = append(t.raw, entry)
		}
		if entry.MeasurandLabel == "" {
			entry.MeasurandLabel = rec.MeasurandLabel
		}
		if entry.MeasurandGroup == "" {
			entry.MeasurandGroup = rec.MeasurandGroup
		}
		if entry.Unit == "" {
			entry.Unit = rec.Unit
		}
		if rec.Value != nil {
			entry.Values[k] = *rec.Value
		}
		if comparative && rec.ValueComparative != nil {
			entry.Comparatives[k] = *rec.ValueComparative
		}
		merged++
	}
	return merged
}

func checkShape(rec dto.AggregationRecord, kind string) error {
	var missing []string
	if strings.TrimSpace(rec.Page) == "" {
		missing = append(missing, "page")
	}
	if strings.TrimSpace(rec.JobGroup) == "" {
		missing = append(missing, "jobGroup")
	}
	if strings.TrimSpace(rec.Measurand) == "" {
		missing = append(missing, "measurand")
	}
	if strings.TrimSpace(kind) == "" {
		missing = append(missing, "aggregationValue")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrDataShape, strings.Join(missing, ", "))
	}
	return nil
}

// SetData applies one aggregation response: merges its series and updates
// the aggregation value, filter rules, selected filter and stacking when the
// response carries them. Derived data is recomputed afterwards.
func (t *Transformer) SetData(resp dto.AggregationResponse) {
	if resp.Series != nil {
		kind := resp.AggregationValue
		if len(resp.Series) > 0 && resp.Series[0].AggregationValue != "" {
			kind = resp.Series[0].AggregationValue
		}
		if kind == "" {
			kind = t.aggregationValue
		}
		t.Ingest(resp.Series, kind, resp.HasComparativeData)
		t.dataAvailable = true
	}
	if resp.AggregationValue != "" {
		t.aggregationValue = resp.AggregationValue
	}
	if resp.FilterRules != nil {
		t.filterRules = resp.FilterRules
	}
	if resp.SelectedFilter != "" {
		t.selectedFilter = resp.SelectedFilter
	}
	t.selectedFilter = t.validFilter(t.selectedFilter)
	if resp.I18nMap != nil {
		t.i18n = resp.I18nMap
	}
	if resp.StackBars != nil {
		t.stackBars = *resp.StackBars
	}
	t.recompute()
}

func (t *Transformer) validFilter(name string) string {
	if name == FilterAsc || name == FilterDesc {
		return name
	}
	if _, ok := t.filterRules[name]; ok {
		return name
	}
	return FilterDesc
}

// Records returns the merged session table in arrival order.
func (t *Transformer) Records() []Record {
	out := make([]Record, len(t.raw))
	for i, r := range t.raw {
		out[i] = *r
	}
	return out
}

// AggregationValue returns the statistic currently displayed.
func (t *Transformer) AggregationValue() string { return t.aggregationValue }

// SelectedFilter returns the active filter after validation.
func (t *Transformer) SelectedFilter() string { return t.selectedFilter }

// StackBars reports whether measurands share one bar row.
func (t *Transformer) StackBars() bool { return t.stackBars }

// DataAvailable reports whether any response carried series.
func (t *Transformer) DataAvailable() bool { return t.dataAvailable }

// Status distinguishes a pending load from an empty result.
func (t *Transformer) Status() Status {
	switch {
	case !t.dataAvailable:
		return StatusLoading
	case len(t.order) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}

// FilterNames returns the custom rule names.
func (t *Transformer) FilterNames() []string {
	names := make([]string, 0, len(t.filterRules))
	for name := range t.filterRules {
		names = append(names, name)
	}
	return names
}

func (t *Transformer) label(key, fallback string) string {
	if v, ok := t.i18n[key]; ok && v != "" {
		return v
	}
	if v := t.translate(key); v != "" && v != key {
		return v
	}
	return fallback
}

// AggregationLabel returns "Average" or "Percentile: N%".
func (t *Transformer) AggregationLabel() string {
	if t.aggregationValue == DefaultAggregationValue {
		return "Average"
	}
	return "Percentile: " + t.aggregationValue + "%"
}
