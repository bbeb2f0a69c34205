// internal/labels/labels.go
// Package labels derives the shortest labels that still tell a set of series
// apart, plus a header naming the dimensions every series shares.
package labels

import "strings"

const (
	// GroupingDelimiter separates page, job group and browser in a grouping string.
	GroupingDelimiter = " | "
	// Delimiter joins the parts of a derived label.
	Delimiter = ", "
)

// Descriptor identifies a series by its dimensions. Grouping is only read
// when page, job group and browser are all empty.
type Descriptor struct {
	Page      string
	JobGroup  string
	Measurand string
	Browser   string
	Grouping  string
}

// Deriver holds the distinct dimension values found in a series set.
type Deriver struct {
	series     []Descriptor
	pages      []string
	jobGroups  []string
	measurands []string
	browsers   []string
}

// New collects the distinct values per dimension. Empty values are ignored.
func New(series []Descriptor) *Deriver {
	d := &Deriver{series: make([]Descriptor, len(series))}
	for i, s := range series {
		s = expandGrouping(s)
		d.series[i] = s
		d.pages = appendUnique(d.pages, s.Page)
		d.jobGroups = appendUnique(d.jobGroups, s.JobGroup)
		d.measurands = appendUnique(d.measurands, s.Measurand)
		d.browsers = appendUnique(d.browsers, s.Browser)
	}
	return d
}

func expandGrouping(s Descriptor) Descriptor {
	if s.Grouping == "" || s.Page != "" || s.JobGroup != "" || s.Browser != "" {
		return s
	}
	parts := strings.Split(s.Grouping, GroupingDelimiter)
	if len(parts) > 0 {
		s.Page = parts[0]
	}
	if len(parts) > 1 {
		s.JobGroup = parts[1]
	}
	if len(parts) > 2 {
		s.Browser = parts[2]
	}
	return s
}

func appendUnique(values []string, v string) []string {
	if v == "" {
		return values
	}
	for _, existing := range values {
		if existing == v {
			return values
		}
	}
	return append(values, v)
}

// Label returns the varying dimensions of s in page, job group, measurand,
// browser order.
func (d *Deriver) Label(s Descriptor, omitMeasurands bool) string {
	s = expandGrouping(s)
	var parts []string
	if len(d.pages) > 1 {
		parts = append(parts, s.Page)
	}
	if len(d.jobGroups) > 1 {
		parts = append(parts, s.JobGroup)
	}
	if !omitMeasurands && len(d.measurands) > 1 {
		parts = append(parts, s.Measurand)
	}
	if len(d.browsers) > 1 {
		parts = append(parts, s.Browser)
	}
	return strings.Join(parts, Delimiter)
}

// Labels returns one label per input series, in input order.
func (d *Deriver) Labels(omitMeasurands bool) []string {
	out := make([]string, len(d.series))
	for i, s := range d.series {
		out[i] = d.Label(s, omitMeasurands)
	}
	return out
}

// Series returns the descriptors with grouping strings already split.
func (d *Deriver) Series() []Descriptor {
	out := make([]Descriptor, len(d.series))
	copy(out, d.series)
	return out
}

// CommonHeader joins the dimensions with exactly one value, in job group,
// page, measurand order. Browser never appears in the header.
func (d *Deriver) CommonHeader(omitMeasurands bool) string {
	var parts []string
	if len(d.jobGroups) == 1 {
		parts = append(parts, d.jobGroups[0])
	}
	if len(d.pages) == 1 {
		parts = append(parts, d.pages[0])
	}
	if !omitMeasurands && len(d.measurands) == 1 {
		parts = append(parts, d.measurands[0])
	}
	return strings.Join(parts, Delimiter)
}
