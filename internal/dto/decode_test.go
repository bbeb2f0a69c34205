package dto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeTimeSeries(t *testing.T) {
	t.Parallel()

	raw := `{
	  "series": {
	    "LOAD_TIMES": [
	      {"identifier": "DOC_COMPLETE_TIME | page | group | Chrome",
	       "data": [{"date": "2024-05-01T10:00:00Z", "value": 1200, "agent": "agent-1",
	                 "wptInfo": {"baseUrl": "https://wpt.example/", "testId": "abc", "runNumber": 1}}]}
	    ]
	  },
	  "summaryLabels": [{"key": "jobGroup", "label": "group"}],
	  "measurandGroups": {"LOAD_TIMES": "ms"},
	  "numberOfTimeSeries": 1
	}`

	data, err := DecodeTimeSeries([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeTimeSeries error: %v", err)
	}
	series := data.Series["LOAD_TIMES"]
	if len(series) != 1 || len(series[0].Data) != 1 {
		t.Fatalf("unexpected series shape: %+v", data.Series)
	}
	point := series[0].Data[0]
	if point.Value == nil || *point.Value != 1200 {
		t.Fatalf("value=%v want 1200", point.Value)
	}
	if point.WptInfo.BaseURL != "https://wpt.example/" || point.WptInfo.TestID != "abc" {
		t.Fatalf("unexpected wptInfo: %+v", point.WptInfo)
	}
	if data.MeasurandGroups["LOAD_TIMES"] != "ms" {
		t.Fatalf("measurand group unit missing: %+v", data.MeasurandGroups)
	}
}

func TestDecodeTimeSeriesRejectsInvalidShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "missing series", raw: `{"summaryLabels": []}`},
		{name: "series not object", raw: `{"series": []}`},
		{name: "point without date", raw: `{"series": {"G": [{"identifier": "x", "data": [{"value": 1}]}]}}`},
		{name: "value is string", raw: `{"series": {"G": [{"identifier": "x", "data": [{"date": "2024-01-01T00:00:00Z", "value": "1"}]}]}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := DecodeTimeSeries([]byte(tt.raw)); err == nil {
				t.Fatalf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestDecodeAggregation(t *testing.T) {
	t.Parallel()

	raw := `{
	  "series": [
	    {"jobGroup": "g", "page": "p1", "measurand": "DOC_COMPLETE_TIME", "measurandGroup": "LOAD_TIMES",
	     "unit": "ms", "value": 2000, "valueComparative": 2500, "aggregationValue": "avg"}
	  ],
	  "hasComparativeData": true,
	  "filterRules": {"mine": [{"page": "p1", "jobGroup": "g"}]},
	  "selectedFilter": "asc",
	  "stackBars": false
	}`

	resp, err := DecodeAggregation([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeAggregation error: %v", err)
	}
	if len(resp.Series) != 1 || resp.Series[0].ValueComparative == nil || *resp.Series[0].ValueComparative != 2500 {
		t.Fatalf("unexpected series: %+v", resp.Series)
	}
	if !resp.HasComparativeData || resp.SelectedFilter != "asc" {
		t.Fatalf("unexpected flags: %+v", resp)
	}
	if resp.StackBars == nil || *resp.StackBars {
		t.Fatalf("stackBars=%v want false", resp.StackBars)
	}
	if got := resp.FilterRules["mine"]; len(got) != 1 || got[0].Page != "p1" {
		t.Fatalf("filter rules=%+v", resp.FilterRules)
	}
}

func TestDecodeAggregationRejectsBadFilterRule(t *testing.T) {
	t.Parallel()

	_, err := DecodeAggregation([]byte(`{"filterRules": {"mine": [{"page": "p1"}]}}`))
	if err == nil {
		t.Fatal("expected error for filter entry without jobGroup")
	}
	if !strings.Contains(err.Error(), "failed validation") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tsPath := filepath.Join(dir, "ts.json")
	if err := os.WriteFile(tsPath, []byte(`{"series": {}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := ReadTimeSeriesFile(tsPath); err != nil {
		t.Fatalf("ReadTimeSeriesFile error: %v", err)
	}
	if _, err := ReadAggregationFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
