// internal/scale/ticks.go
package scale

import (
	"time"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/vec"
)

var timeSteps = []time.Duration{
	time.Second,
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	2 * 24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
}

// XTicks returns at most n tick positions on round time steps inside the
// current domain.
func (m *Model) XTicks(n int) []time.Time {
	if n < 1 || !m.xMax.After(m.xMin) {
		return nil
	}
	span := m.xMax.Sub(m.xMin)
	for _, step := range timeSteps {
		if int(span/step) > n {
			continue
		}
		var out []time.Time
		for t := m.xMin.Truncate(step); !t.After(m.xMax); t = t.Add(step) {
			if !t.Before(m.xMin) {
				out = append(out, t)
			}
		}
		return out
	}
	// Spans longer than n months: spread evenly.
	var out []time.Time
	for _, ms := range vec.Linspace(msOf(m.xMin), msOf(m.xMax), n) {
		out = append(out, time.UnixMilli(int64(ms)).In(m.xMin.Location()))
	}
	return out
}

// YTicks returns at most n major ticks for a value axis.
func (m *Model) YTicks(axis, n int) []float64 {
	if axis < 0 || axis >= len(m.y) || n < 1 {
		return nil
	}
	major, _ := m.y[axis].Ticks(scale.TickOptions{Max: n})
	return major
}

// FormatTimeTicks labels x ticks. Weekday names are used when no two
// neighbouring ticks fall on the same day, hours and minutes otherwise. The
// date follows on a second line.
func FormatTimeTicks(ticks []time.Time) []string {
	onlyDays := true
	for i := 1; i < len(ticks); i++ {
		if ticks[i].UTC().Day() == ticks[i-1].UTC().Day() {
			onlyDays = false
			break
		}
	}
	layout := "15:04"
	if onlyDays {
		layout = "Monday"
	}
	out := make([]string, len(ticks))
	for i, t := range ticks {
		out[i] = t.Format(layout) + "\n" + t.Format("2006-01-02")
	}
	return out
}
