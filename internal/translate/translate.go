// internal/translate/translate.go
// Package translate looks up display strings by key.
package translate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Func returns the display string for key.
type Func func(key string) string

// Identity returns keys unchanged.
func Identity(key string) string { return key }

// Catalog is a flat key to text map. Missing keys echo the key.
type Catalog map[string]string

// Translate implements Func.
func (c Catalog) Translate(key string) string {
	if v, ok := c[key]; ok && v != "" {
		return v
	}
	return key
}

// Merge returns a new catalog with other's entries overriding c's.
func (c Catalog) Merge(other map[string]string) Catalog {
	out := make(Catalog, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Load reads a catalog from a JSON object file. An empty path yields the
// default catalog.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translations %s: %w", path, err)
	}
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode translations %s: %w", path, err)
	}
	return Default().Merge(entries), nil
}

// Keys used by the charts.
const (
	KeyTimestamp                = "frontend.de.iteratec.osm.timeSeries.chart.label.timestamp"
	KeyTestAgent                = "frontend.de.iteratec.osm.timeSeries.chart.label.testAgent"
	KeyComparativeImprovement   = "comparativeImprovement"
	KeyComparativeDeterioration = "comparativeDeterioration"
	MeasurandPrefix             = "frontend.de.iteratec.isr.measurand."
	ContextMenuPrefix           = "frontend.de.iteratec.osm.timeSeries.contextMenu."
)

// Default returns the built-in English strings.
func Default() Catalog {
	return Catalog{
		KeyTimestamp:                "Timestamp",
		KeyTestAgent:                "Test agent",
		KeyComparativeImprovement:   "improvement",
		KeyComparativeDeterioration: "deterioration",
		MeasurandPrefix + "DOC_COMPLETE_TIME":     "Document complete",
		MeasurandPrefix + "LOAD_TIME":             "Load time",
		MeasurandPrefix + "SPEED_INDEX":           "Speed index",
		MeasurandPrefix + "FIRST_BYTE":            "Time to first byte",
		MeasurandPrefix + "START_RENDER":          "Start render",
		MeasurandPrefix + "VISUALLY_COMPLETE":     "Visually complete",
		MeasurandPrefix + "FULLY_LOADED_TIME":     "Fully loaded",
		MeasurandPrefix + "DOM_TIME":              "DOM time",
		ContextMenuPrefix + "summary":             "Summary",
		ContextMenuPrefix + "waterfall":           "Waterfall",
		ContextMenuPrefix + "performanceReview":   "Performance review",
		ContextMenuPrefix + "contentBreakdown":    "Content breakdown",
		ContextMenuPrefix + "domains":             "Domains",
		ContextMenuPrefix + "screenshot":          "Screenshot",
		ContextMenuPrefix + "filmstrip":           "Filmstrip",
		ContextMenuPrefix + "filmstripTool":       "Filmstrip tool",
		ContextMenuPrefix + "compareFilmstrips":   "Compare filmstrips",
		ContextMenuPrefix + "selectPoint":         "Select point",
		ContextMenuPrefix + "deselectPoint":       "Deselect point",
		ContextMenuPrefix + "deselectAllPoints":   "Deselect all points",
	}
}
