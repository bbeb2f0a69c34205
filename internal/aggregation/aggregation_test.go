package aggregation

import (
	"reflect"
	"sort"
	"testing"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/palette"
)

type recordBuilder struct {
	rec dto.AggregationRecord
}

func newRecord() *recordBuilder {
	return &recordBuilder{rec: dto.AggregationRecord{
		AggregationValue: "avg",
		MeasurandGroup:   "UNKNOWN",
		Unit:             "?",
		Measurand:        "DOC_COMPLETE_TIME",
		MeasurandLabel:   "DOC_COMPLETE_TIME_label",
		JobGroup:         "TestJobGroup",
		Page:             "TestPage",
		Value:            dto.Float(1),
	}}
}

func (b *recordBuilder) loadTime(m string) *recordBuilder {
	b.rec.MeasurandGroup, b.rec.Unit = GroupLoadTimes, "ms"
	return b.measurand(m)
}

func (b *recordBuilder) percentage(m string) *recordBuilder {
	b.rec.MeasurandGroup, b.rec.Unit = GroupPercentages, "%"
	return b.measurand(m)
}

func (b *recordBuilder) requestSize(m string) *recordBuilder {
	b.rec.MeasurandGroup, b.rec.Unit = "REQUEST_SIZES", "MB"
	return b.measurand(m)
}

func (b *recordBuilder) requestCount(m string) *recordBuilder {
	b.rec.MeasurandGroup, b.rec.Unit = "REQUEST_COUNTS", "#"
	return b.measurand(m)
}

func (b *recordBuilder) measurand(m string) *recordBuilder {
	b.rec.Measurand, b.rec.MeasurandLabel = m, m+"_label"
	return b
}

func (b *recordBuilder) jobGroup(g string) *recordBuilder { b.rec.JobGroup = g; return b }
func (b *recordBuilder) page(p string) *recordBuilder     { b.rec.Page = p; return b }
func (b *recordBuilder) browser(br string) *recordBuilder { b.rec.Browser = br; return b }
func (b *recordBuilder) kind(k string) *recordBuilder     { b.rec.AggregationValue = k; return b }

func (b *recordBuilder) value(v float64) *recordBuilder { b.rec.Value = dto.Float(v); return b }

func (b *recordBuilder) comparative(v float64) *recordBuilder {
	b.rec.ValueComparative = dto.Float(v)
	return b
}

func (b *recordBuilder) build() dto.AggregationRecord { return b.rec }

func pages(order []OrderEntry) []string {
	out := make([]string, len(order))
	for i, o := range order {
		out[i] = o.Page
	}
	return out
}

func TestOrderAscDesc(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		Series: []dto.AggregationRecord{
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").jobGroup("g").value(2000).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p2").jobGroup("g").value(1000).build(),
		},
		SelectedFilter: "asc",
	})

	asc := pages(tr.CurrentOrder())
	if want := []string{"p2", "p1"}; !reflect.DeepEqual(asc, want) {
		t.Fatalf("asc order=%v want %v", asc, want)
	}
	desc := pages(tr.Order(FilterDesc))
	for i := range asc {
		if asc[i] != desc[len(desc)-1-i] {
			t.Fatalf("asc %v and desc %v are not reverses", asc, desc)
		}
	}
	if tr.SelectedFilter() != FilterAsc {
		t.Fatalf("Order changed the selected filter to %q", tr.SelectedFilter())
	}
}

func TestOrderMissingRankValueSortsAsMinusOne(t *testing.T) {
	t.Parallel()

	missing := newRecord().loadTime("SPEED_INDEX").page("none").build()
	missing.Value = nil
	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		Series: []dto.AggregationRecord{
			newRecord().loadTime("SPEED_INDEX").page("zero").value(0).build(),
			missing,
			newRecord().loadTime("SPEED_INDEX").page("big").value(10).build(),
		},
		SelectedFilter: FilterAsc,
	})
	if got, want := pages(tr.CurrentOrder()), []string{"none", "zero", "big"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("asc order=%v want %v", got, want)
	}
}

func TestOrderPadsFromLongestMeasurand(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		Series: []dto.AggregationRecord{
			newRecord().loadTime("SPEED_INDEX").page("p1").value(300).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").value(100).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p2").value(200).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p3").value(50).build(),
		},
	})

	order := pages(tr.CurrentOrder())
	if want := []string{"p1", "p2", "p3"}; !reflect.DeepEqual(order, want) {
		t.Fatalf("padded order=%v want %v", order, want)
	}
	bars, ok := tr.BarsFor("SPEED_INDEX")
	if !ok {
		t.Fatal("missing SPEED_INDEX bars")
	}
	if len(bars.Values) != 3 {
		t.Fatalf("bars len=%d want 3", len(bars.Values))
	}
	if bars.Values[0].Value == nil || *bars.Values[0].Value != 300 {
		t.Fatalf("first bar=%v want 300", bars.Values[0].Value)
	}
	if bars.Values[1].Value != nil || bars.Values[2].Value != nil {
		t.Fatalf("padded bars must be nil, got %+v", bars.Values[1:])
	}
}

func TestCustomFilterRule(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		Series: []dto.AggregationRecord{
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").jobGroup("g").value(1).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p2").jobGroup("g").value(2).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p3").jobGroup("g").value(3).build(),
		},
		FilterRules: map[string][]dto.FilterEntry{
			"mine": {{Page: "p3", JobGroup: "g"}, {Page: "ghost", JobGroup: "g"}, {Page: "p1", JobGroup: "g"}},
		},
		SelectedFilter: "mine",
	})

	if got, want := pages(tr.CurrentOrder()), []string{"p3", "ghost", "p1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("custom order=%v want %v", got, want)
	}
	bars, _ := tr.BarsFor("DOC_COMPLETE_TIME")
	if bars.Values[1].Value != nil || bars.Values[1].Page != "ghost" {
		t.Fatalf("missing combination must be a nil scaffold, got %+v", bars.Values[1])
	}
	if *bars.Values[0].Value != 3 || *bars.Values[2].Value != 1 {
		t.Fatalf("unexpected bar values %+v", bars.Values)
	}
	if got := tr.SideLabels(); !reflect.DeepEqual(got, []string{"p3", "ghost", "p1"}) {
		t.Fatalf("side labels=%v", got)
	}
}

func TestCustomFilterRuleWithBrowsers(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		Series: []dto.AggregationRecord{
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").jobGroup("g").browser("Chrome").value(100).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p2").jobGroup("g").browser("Chrome").value(200).build(),
			newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").jobGroup("g").browser("Firefox").value(150).build(),
		},
		FilterRules: map[string][]dto.FilterEntry{
			"mine": {{Page: "p1", JobGroup: "g"}, {Page: "ghost", JobGroup: "g"}, {Page: "p2", JobGroup: "g", Browser: "Chrome"}},
		},
		SelectedFilter: "mine",
	})

	var ids []string
	for _, o := range tr.CurrentOrder() {
		ids = append(ids, o.ID)
	}
	if want := []string{"p1;g;Chrome", "p1;g;Firefox", "ghost;g", "p2;g;Chrome"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("rule order=%v want %v", ids, want)
	}

	bars, ok := tr.BarsFor("DOC_COMPLETE_TIME")
	if !ok {
		t.Fatal("missing DOC_COMPLETE_TIME bars")
	}
	want := []*float64{dto.Float(100), dto.Float(150), nil, dto.Float(200)}
	for i, w := range want {
		got := bars.Values[i].Value
		if (got == nil) != (w == nil) || (got != nil && *got != *w) {
			t.Fatalf("bar %d (%s) value=%v want %v", i, bars.Values[i].ID, got, w)
		}
	}
}

func TestInvalidSelectedFilterFallsBackToDesc(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{SelectedFilter: "nope"})
	if tr.SelectedFilter() != FilterDesc {
		t.Fatalf("selected filter=%q want desc", tr.SelectedFilter())
	}
}

func TestMergePartialResponses(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{
		newRecord().loadTime("SPEED_INDEX").value(900).build(),
	}})
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{
		newRecord().loadTime("SPEED_INDEX").kind("50").value(850).build(),
		newRecord().loadTime("SPEED_INDEX").page("late").kind("50").value(10).build(),
	}})

	records := tr.Records()
	if len(records) != 2 {
		t.Fatalf("records=%d want 2: %+v", len(records), records)
	}
	first := records[0]
	if first.Values["avg"] != 900 || first.Values["50"] != 850 {
		t.Fatalf("merged values=%v", first.Values)
	}
	if records[1].Page != "late" {
		t.Fatalf("out of order record not appended: %+v", records[1])
	}
	if tr.AggregationValue() != "avg" {
		t.Fatalf("aggregation value changed to %q", tr.AggregationValue())
	}

	tr.SetData(dto.AggregationResponse{AggregationValue: "50"})
	if got := tr.Header(); got != "TestJobGroup - Percentile: 50%" {
		t.Fatalf("header=%q", got)
	}
}

func TestMalformedRecordsAreDropped(t *testing.T) {
	t.Parallel()

	noPage := newRecord().page("").build()
	noMeasurand := newRecord().measurand("").build()
	tr := New(nil)
	n := tr.Ingest([]dto.AggregationRecord{noPage, newRecord().build(), noMeasurand}, "avg", false)
	if n != 1 {
		t.Fatalf("merged=%d want 1", n)
	}
	if n := tr.Ingest([]dto.AggregationRecord{newRecord().kind("").build()}, "", false); n != 0 {
		t.Fatalf("record without aggregation kind merged")
	}
	if len(tr.Records()) != 1 {
		t.Fatalf("records=%d want 1", len(tr.Records()))
	}
}

func TestImprovementSignConvention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		group       string
		value       float64
		comparative float64
		wantDelta   float64
		wantImprove bool
	}{
		{name: "faster load time", group: GroupLoadTimes, value: 1000, comparative: 2500, wantDelta: -1500, wantImprove: true},
		{name: "slower load time", group: GroupLoadTimes, value: 3000, comparative: 2500, wantDelta: 500, wantImprove: false},
		{name: "higher percentage", group: GroupPercentages, value: 80, comparative: 70, wantDelta: 10, wantImprove: true},
		{name: "lower percentage", group: GroupPercentages, value: 60, comparative: 70, wantDelta: -10, wantImprove: false},
		{name: "unchanged", group: "REQUEST_COUNTS", value: 5, comparative: 5, wantDelta: 0, wantImprove: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := newRecord().value(tt.value).comparative(tt.comparative)
			b.rec.MeasurandGroup = tt.group
			tr := New(nil)
			tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{b.build()}, HasComparativeData: true})

			derived := tr.DeriveComparative()["DOC_COMPLETE_TIME"]
			if len(derived) != 1 {
				t.Fatalf("derived=%d want 1", len(derived))
			}
			c := derived[0]
			if c.Value != tt.wantDelta {
				t.Fatalf("delta=%v want %v", c.Value, tt.wantDelta)
			}
			if c.IsImprovement != tt.wantImprove || c.IsImprovement == c.IsDeterioration {
				t.Fatalf("improvement=%v deterioration=%v want improvement=%v", c.IsImprovement, c.IsDeterioration, tt.wantImprove)
			}
			suffix := DeteriorationSuffix
			if tt.wantImprove {
				suffix = ImprovementSuffix
			}
			if c.Measurand != "DOC_COMPLETE_TIME"+suffix {
				t.Fatalf("measurand=%q", c.Measurand)
			}
		})
	}
}

func TestComparativeMeasurandsAndColors(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{
		HasComparativeData: true,
		Series: []dto.AggregationRecord{
			newRecord().loadTime("SPEED_INDEX").page("page1").value(800).comparative(2000).build(),
			newRecord().loadTime("SPEED_INDEX").page("page2").value(900).comparative(500).build(),
		},
	})

	got := tr.AllMeasurands()
	sort.Strings(got)
	want := []string{"SPEED_INDEX", "SPEED_INDEX_deterioration", "SPEED_INDEX_improvement"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("measurands=%v want %v", got, want)
	}
	if c := tr.Color("SPEED_INDEX_improvement"); c != palette.Good {
		t.Fatalf("improvement color=%s want %s", c, palette.Good)
	}
	if c := tr.Color("SPEED_INDEX_deterioration"); c != palette.Bad {
		t.Fatalf("deterioration color=%s want %s", c, palette.Bad)
	}
	base := tr.Color("SPEED_INDEX")
	tr.SetData(dto.AggregationResponse{StackBars: new(bool)})
	if again := tr.Color("SPEED_INDEX"); again != base {
		t.Fatalf("color changed across recompute: %s -> %s", base, again)
	}
	group := tr.GroupByMeasurandGroup()[GroupLoadTimes]
	if !group.HasComparative || group.Min != -1200 || group.Max != 900 {
		t.Fatalf("group data=%+v", group)
	}
	bars, _ := tr.BarsFor("SPEED_INDEX_improvement")
	if !bars.ForceSign {
		t.Fatal("comparative bars must force the sign")
	}
	md := tr.GroupByMeasurand()["SPEED_INDEX_deterioration"]
	if md.Label != "deterioration" || !md.IsDeterioration {
		t.Fatalf("deterioration data=%+v", md)
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		series []dto.AggregationRecord
		want   string
	}{
		{
			name: "job group and page equal",
			series: []dto.AggregationRecord{
				newRecord().loadTime("DOC_COMPLETE_TIME").jobGroup("TestGroup").page("TestPage").build(),
				newRecord().loadTime("SPEED_INDEX").jobGroup("TestGroup").page("TestPage").build(),
			},
			want: "TestGroup, TestPage - Average",
		},
		{
			name: "job group equal",
			series: []dto.AggregationRecord{
				newRecord().loadTime("DOC_COMPLETE_TIME").jobGroup("TestGroup").page("TestPage").build(),
				newRecord().loadTime("SPEED_INDEX").jobGroup("TestGroup").page("TestPage").build(),
				newRecord().loadTime("DOC_COMPLETE_TIME").jobGroup("TestGroup").page("TestPage2").build(),
			},
			want: "TestGroup - Average",
		},
		{
			name: "page equal",
			series: []dto.AggregationRecord{
				newRecord().loadTime("DOC_COMPLETE_TIME").jobGroup("TestGroup1").page("TestPage").build(),
				newRecord().loadTime("DOC_COMPLETE_TIME").jobGroup("TestGroup2").page("TestPage").build(),
			},
			want: "TestPage - Average",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := New(nil)
			tr.SetData(dto.AggregationResponse{Series: tt.series})
			if got := tr.Header(); got != tt.want {
				t.Fatalf("Header()=%q want %q", got, tt.want)
			}
		})
	}
}

func TestStackBarsIsSticky(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	if !tr.StackBars() {
		t.Fatal("stack bars must default to true")
	}
	off, on := false, true
	tr.SetData(dto.AggregationResponse{StackBars: &off})
	if tr.StackBars() {
		t.Fatal("expected stack bars off")
	}
	tr.SetData(dto.AggregationResponse{})
	if tr.StackBars() {
		t.Fatal("empty response must not reset stack bars")
	}
	tr.SetData(dto.AggregationResponse{StackBars: &on})
	if !tr.StackBars() {
		t.Fatal("expected stack bars on")
	}
}

func TestLoadTimesAndBarScore(t *testing.T) {
	t.Parallel()

	bytes := newRecord().requestSize("FULLY_LOADED_INCOMING_BYTES").build()
	cs := newRecord().percentage("CS_BY_WPT_DOC_COMPLETE").build()
	reqs := newRecord().requestCount("DOC_COMPLETE_REQUESTS").build()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{bytes, cs, reqs}})
	if tr.HasLoadTimes() {
		t.Fatal("unexpected load times")
	}

	tests := []struct {
		name   string
		series []dto.AggregationRecord
		lo, hi float64
	}{
		{
			name: "starting from 0",
			series: []dto.AggregationRecord{
				newRecord().requestSize("FULLY_LOADED_INCOMING_BYTES").value(5000).build(),
				newRecord().loadTime("FIRST_BYTE").value(2000).build(),
				newRecord().loadTime("SPEED_INDEX").value(1500).build(),
			},
			lo: 0, hi: 2000,
		},
		{
			name: "negative min",
			series: []dto.AggregationRecord{
				newRecord().loadTime("FIRST_BYTE").value(2000).build(),
				newRecord().loadTime("SPEED_INDEX").value(-10).build(),
			},
			lo: -10, hi: 2000,
		},
		{
			name: "ending at 0",
			series: []dto.AggregationRecord{
				newRecord().requestSize("FULLY_LOADED_INCOMING_BYTES").value(-5000).build(),
				newRecord().loadTime("FIRST_BYTE").value(-2000).build(),
				newRecord().loadTime("SPEED_INDEX").value(-10).build(),
			},
			lo: -2000, hi: 0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tr := New(nil)
			tr.SetData(dto.AggregationResponse{Series: tt.series})
			if !tr.HasLoadTimes() {
				t.Fatal("expected load times")
			}
			lo, hi := tr.BarScore()
			if lo != tt.lo || hi != tt.hi {
				t.Fatalf("BarScore()=(%v,%v) want (%v,%v)", lo, hi, tt.lo, tt.hi)
			}
		})
	}
}

func TestSortByMeasurandOrder(t *testing.T) {
	t.Parallel()

	got := SortByMeasurandOrder([]string{
		"CS_BY_WPT_DOC_COMPLETE",
		"DOC_COMPLETE_REQUESTS",
		"FULLY_LOADED_INCOMING_BYTES",
		"foo_bar",
		"FIRST_BYTE",
		"VISUALLY_COMPLETE",
	})
	want := []string{
		"CS_BY_WPT_DOC_COMPLETE",
		"VISUALLY_COMPLETE",
		"FIRST_BYTE",
		"FULLY_LOADED_INCOMING_BYTES",
		"DOC_COMPLETE_REQUESTS",
		"foo_bar",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SortByMeasurandOrder=%v want %v", got, want)
	}
}

func TestStatusAndReset(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	if tr.Status() != StatusLoading {
		t.Fatalf("status=%v want loading", tr.Status())
	}
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{}})
	if tr.Status() != StatusEmpty {
		t.Fatalf("status=%v want empty", tr.Status())
	}
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{newRecord().build()}})
	if tr.Status() != StatusReady {
		t.Fatalf("status=%v want ready", tr.Status())
	}
	tr.Reset()
	if len(tr.Records()) != 0 || tr.Status() != StatusLoading {
		t.Fatalf("reset left %d records, status %v", len(tr.Records()), tr.Status())
	}
}

func TestChartBarsHeightAndLegend(t *testing.T) {
	t.Parallel()

	tr := New(nil)
	tr.SetData(dto.AggregationResponse{Series: []dto.AggregationRecord{
		newRecord().loadTime("DOC_COMPLETE_TIME").page("p1").build(),
		newRecord().loadTime("DOC_COMPLETE_TIME").page("p2").build(),
		newRecord().loadTime("SPEED_INDEX").page("p1").build(),
	}})
	if got, want := tr.ChartBarsHeight(), BarGap+2*BarBand; got != want {
		t.Fatalf("stacked height=%d want %d", got, want)
	}
	off := false
	tr.SetData(dto.AggregationResponse{StackBars: &off})
	if got, want := tr.ChartBarsHeight(), 2*BarGap+4*BarBand; got != want {
		t.Fatalf("grouped height=%d want %d", got, want)
	}
	legend := tr.Legend()
	if len(legend) != 2 || legend[0].ID != "SPEED_INDEX" || legend[1].ID != "DOC_COMPLETE_TIME" {
		t.Fatalf("legend=%+v", legend)
	}
	if legend[0].Label != "SPEED_INDEX_label" {
		t.Fatalf("legend label=%q", legend[0].Label)
	}
}
