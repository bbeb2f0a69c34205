// internal/aggregation/measurands.go
package aggregation

import "sort"

// MeasurandOrder ranks measurands for legends, coloring and the choice of the
// measurand that asc/desc filters sort by. Unlisted measurands rank last.
var MeasurandOrder = []string{
	"CS_BY_WPT_VISUALLY_COMPLETE",
	"CS_BY_WPT_DOC_COMPLETE",
	"FULLY_LOADED_TIME",
	"VISUALLY_COMPLETE",
	"VISUALLY_COMPLETE_99",
	"VISUALLY_COMPLETE_95",
	"VISUALLY_COMPLETE_90",
	"VISUALLY_COMPLETE_85",
	"CONSISTENTLY_INTERACTIVE",
	"FIRST_INTERACTIVE",
	"SPEED_INDEX",
	"DOC_COMPLETE_TIME",
	"LOAD_TIME",
	"START_RENDER",
	"DOM_TIME",
	"FIRST_BYTE",
	"FULLY_LOADED_INCOMING_BYTES",
	"DOC_COMPLETE_INCOMING_BYTES",
	"FULLY_LOADED_REQUEST_COUNT",
	"DOC_COMPLETE_REQUESTS",
}

var measurandRank = func() map[string]int {
	m := make(map[string]int, len(MeasurandOrder))
	for i, name := range MeasurandOrder {
		m[name] = i
	}
	return m
}()

func rankOf(measurand string) int {
	if r, ok := measurandRank[measurand]; ok {
		return r
	}
	return len(MeasurandOrder)
}

// SortByMeasurandOrder sorts measurands in place by MeasurandOrder. Unknown
// measurands keep their relative order at the end.
func SortByMeasurandOrder(measurands []string) []string {
	sort.SliceStable(measurands, func(i, j int) bool {
		return rankOf(measurands[i]) < rankOf(measurands[j])
	})
	return measurands
}
