// internal/timeseries/timeseries.go
// Package timeseries turns a time series load into chart-ready series grouped
// by measurand group.
package timeseries

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/translate"
)

// Point is one measurement. Points are immutable after Prepare.
type Point struct {
	Date        time.Time
	Value       *float64
	Agent       string
	TooltipText string
	Source      dto.WptInfo
}

// Equal compares date, value and source.
func (p Point) Equal(o Point) bool {
	if !p.Date.Equal(o.Date) || p.Source != o.Source {
		return false
	}
	if p.Value == nil || o.Value == nil {
		return p.Value == nil && o.Value == nil
	}
	return *p.Value == *o.Value
}

// Origin returns the test server that produced the point.
func (p Point) Origin() string {
	return p.Source.BaseURL
}

// HasValue reports whether the point can be plotted.
func (p Point) HasValue() bool {
	return p.Value != nil
}

// Series is one line of the chart, sorted ascending by date.
type Series struct {
	Key    string
	Label  string
	Values []Point
}

// Group holds the series sharing one y axis.
type Group struct {
	Name   string
	Unit   string
	Series []Series
}

// LegendEntry is the legend state of one series.
type LegendEntry struct {
	Key     string
	Text    string
	Visible bool
}

// Chart is a prepared time series load.
type Chart struct {
	Groups             []Group
	Legend             []LegendEntry
	SummaryLabel       string
	NumberOfTimeSeries int
}

// SeriesCount returns the number of series over all groups.
func (c Chart) SeriesCount() int {
	n := 0
	for _, g := range c.Groups {
		n += len(g.Series)
	}
	return n
}

// Empty reports whether there is no point to draw.
func (c Chart) Empty() bool {
	for _, g := range c.Groups {
		for _, s := range g.Series {
			if len(s.Values) > 0 {
				return false
			}
		}
	}
	return true
}

var (
	unsafeKeyChars = regexp.MustCompile(`[^_a-zA-Z0-9-]`)
	leadingDigit   = regexp.MustCompile(`^[0-9]`)
)

// Key derives a DOM and URL safe key from a series identifier.
func Key(identifier string) string {
	key := unsafeKeyChars.ReplaceAllString(identifier, "")
	return leadingDigit.ReplaceAllString(key, "_")
}

// TranslateMeasurand replaces the measurand part of an identifier with its
// display name when the catalog knows it.
func TranslateMeasurand(identifier string, tr translate.Func) string {
	parts := strings.Split(identifier, " | ")
	key := translate.MeasurandPrefix + parts[0]
	if name := tr(key); name != "" && !strings.HasPrefix(name, translate.MeasurandPrefix) {
		parts[0] = name
	}
	return strings.Join(parts, " | ")
}

// Prepare converts a load into chart series. Groups are ordered by name and
// points by date. When the summary does not already name the measurand, the
// measurand part of every identifier is translated.
func Prepare(data dto.EventResultData, tr translate.Func) Chart {
	if tr == nil {
		tr = translate.Identity
	}
	measurandInIdentifier := len(data.SummaryLabels) == 0 || data.SummaryLabels[0].Key != "measurand"

	names := make([]string, 0, len(data.Series))
	for name := range data.Series {
		names = append(names, name)
	}
	sort.Strings(names)

	chart := Chart{NumberOfTimeSeries: data.NumberOfTimeSeries}
	seen := map[string]bool{}
	for _, name := range names {
		group := Group{Name: name, Unit: data.MeasurandGroups[name]}
		for _, dtoSeries := range data.Series[name] {
			identifier := dtoSeries.Identifier
			if measurandInIdentifier {
				identifier = TranslateMeasurand(identifier, tr)
			}
			s := Series{Key: Key(identifier), Label: identifier}
			for _, p := range dtoSeries.Data {
				s.Values = append(s.Values, Point{
					Date:        p.Date,
					Value:       p.Value,
					Agent:       p.Agent,
					TooltipText: identifier + ": ",
					Source:      p.WptInfo,
				})
			}
			sort.SliceStable(s.Values, func(i, j int) bool {
				return s.Values[i].Date.Before(s.Values[j].Date)
			})
			group.Series = append(group.Series, s)
			if !seen[s.Key] {
				seen[s.Key] = true
				chart.Legend = append(chart.Legend, LegendEntry{Key: s.Key, Text: identifier, Visible: true})
			}
		}
		chart.Groups = append(chart.Groups, group)
	}
	if chart.NumberOfTimeSeries == 0 {
		chart.NumberOfTimeSeries = chart.SeriesCount()
	}
	chart.SummaryLabel = SummaryText(data.SummaryLabels, tr)
	return chart
}

// SummaryText renders "key: label | key: label" for the chart header.
func SummaryText(summary []dto.SummaryLabel, tr translate.Func) string {
	if tr == nil {
		tr = translate.Identity
	}
	parts := make([]string, 0, len(summary))
	for _, sl := range summary {
		key := tr("frontend.de.iteratec.osm.timeSeries.chart.label." + sl.Key)
		if strings.HasPrefix(key, "frontend.") {
			key = sl.Key
		}
		label := sl.Label
		if sl.Key == "measurand" {
			if name := tr(translate.MeasurandPrefix + sl.Label); !strings.HasPrefix(name, translate.MeasurandPrefix) {
				label = name
			}
		}
		parts = append(parts, key+": "+label)
	}
	return strings.Join(parts, " | ")
}
