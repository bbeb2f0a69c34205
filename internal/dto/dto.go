// internal/dto/dto.go
// Package dto defines the wire shapes consumed by the chart engine and the
// aggregation pipeline. Values are decoded once and never mutated afterwards.
package dto

import "time"

// WptInfo references the WebPageTest run that produced a measurement. The
// chart core does not interpret it beyond building navigation links and
// enforcing the single-server selection rule via BaseURL.
type WptInfo struct {
	BaseURL        string `json:"baseUrl"`
	TestID         string `json:"testId"`
	RunNumber      int    `json:"runNumber"`
	IndexInJourney int    `json:"indexInJourney"`
	Cached         bool   `json:"cached"`
}

// EventResultPoint is a single measurement of a time series.
type EventResultPoint struct {
	Date    time.Time `json:"date"`
	Value   *float64  `json:"value"`
	Agent   string    `json:"agent"`
	WptInfo WptInfo   `json:"wptInfo"`
}

// EventResultSeries is one series as delivered by the result service. The
// identifier joins measurand, page, job group and browser with " | ".
type EventResultSeries struct {
	Identifier string             `json:"identifier"`
	Data       []EventResultPoint `json:"data"`
}

// SummaryLabel is a dimension that is constant across all series of a load.
type SummaryLabel struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// EventResultData is a complete time series load.
type EventResultData struct {
	Series             map[string][]EventResultSeries `json:"series"`
	SummaryLabels      []SummaryLabel                 `json:"summaryLabels"`
	MeasurandGroups    map[string]string              `json:"measurandGroups"`
	NumberOfTimeSeries int                            `json:"numberOfTimeSeries"`
}

// AggregationRecord is one row of a partial aggregation response.
type AggregationRecord struct {
	JobGroup         string   `json:"jobGroup"`
	Page             string   `json:"page"`
	Browser          string   `json:"browser,omitempty"`
	Measurand        string   `json:"measurand"`
	MeasurandLabel   string   `json:"measurandLabel,omitempty"`
	MeasurandGroup   string   `json:"measurandGroup"`
	Unit             string   `json:"unit"`
	Value            *float64 `json:"value"`
	ValueComparative *float64 `json:"valueComparative,omitempty"`
	AggregationValue string   `json:"aggregationValue"`
}

// FilterEntry selects one page/job group combination of a filter rule.
type FilterEntry struct {
	Page     string `json:"page"`
	JobGroup string `json:"jobGroup"`
	Browser  string `json:"browser,omitempty"`
}

// AggregationResponse is one call of the aggregation endpoint. Every field is
// optional so a response can carry only a new filter or stacking choice.
type AggregationResponse struct {
	Series             []AggregationRecord      `json:"series,omitempty"`
	AggregationValue   string                   `json:"aggregationValue,omitempty"`
	HasComparativeData bool                     `json:"hasComparativeData,omitempty"`
	FilterRules        map[string][]FilterEntry `json:"filterRules,omitempty"`
	SelectedFilter     string                   `json:"selectedFilter,omitempty"`
	StackBars          *bool                    `json:"stackBars,omitempty"`
	I18nMap            map[string]string        `json:"i18nMap,omitempty"`
}

// Float returns a pointer to v. It keeps literals in tests and fixtures short.
func Float(v float64) *float64 {
	return &v
}
