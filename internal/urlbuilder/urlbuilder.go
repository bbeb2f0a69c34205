// internal/urlbuilder/urlbuilder.go
// Package urlbuilder builds WebPageTest result links for a measured point.
package urlbuilder

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwiater/osmchart/internal/dto"
)

// Option selects a per-run result page.
type Option string

const (
	Waterfall         Option = "details"
	PerformanceReview Option = "performance_optimization"
	ContentBreakdown  Option = "breakdown"
	Domains           Option = "domains"
	Screenshot        Option = "screen_shot"
)

// FilmstripToolBase is the external filmstrip viewer.
const FilmstripToolBase = "https://iteratec.github.io/wpt-filmstrip/"

func base(info dto.WptInfo) string {
	if strings.HasSuffix(info.BaseURL, "/") {
		return info.BaseURL
	}
	return info.BaseURL + "/"
}

func cachedFlag(info dto.WptInfo) int {
	if info.Cached {
		return 1
	}
	return 0
}

// Summary links to the test overview.
func Summary(info dto.WptInfo) string {
	return base(info) + "result/" + url.PathEscape(info.TestID) + "/"
}

// ByOption links to one result page of the run. The waterfall jumps to the
// journey step of the point.
func ByOption(info dto.WptInfo, opt Option) string {
	if opt == Waterfall {
		q := url.Values{}
		q.Set("test", info.TestID)
		q.Set("run", strconv.Itoa(info.RunNumber))
		q.Set("cached", strconv.Itoa(cachedFlag(info)))
		link := base(info) + "details.php?" + q.Encode()
		if info.IndexInJourney > 0 {
			link += "#waterfall_view_step" + strconv.Itoa(info.IndexInJourney)
		}
		return link
	}
	link := fmt.Sprintf("%sresult/%s/%d/%s/", base(info), url.PathEscape(info.TestID), info.RunNumber, opt)
	if info.Cached {
		link += "cached/"
	}
	return link
}

func filmstripTest(info dto.WptInfo) string {
	test := fmt.Sprintf("%s-r:%d-c:%d", info.TestID, info.RunNumber, cachedFlag(info))
	if info.IndexInJourney > 0 {
		test += "-s:" + strconv.Itoa(info.IndexInJourney)
	}
	return test
}

// Filmstrip links to the WebPageTest visual comparison of a single run.
func Filmstrip(info dto.WptInfo) string {
	return FilmstripComparison([]dto.WptInfo{info})
}

// FilmstripComparison compares the runs of several points side by side. All
// points are expected to come from the same server; the first one decides.
func FilmstripComparison(infos []dto.WptInfo) string {
	if len(infos) == 0 {
		return ""
	}
	tests := make([]string, len(infos))
	for i, info := range infos {
		tests[i] = filmstripTest(info)
	}
	return base(infos[0]) + "video/compare.php?tests=" + strings.Join(tests, ",") + "&ival=100&end=visual"
}

// FilmstripTool opens the run in the external filmstrip viewer.
func FilmstripTool(info dto.WptInfo) string {
	q := url.Values{}
	q.Set("wptUrl", base(info))
	q.Set("testId", info.TestID)
	q.Set("view", "filmstrip")
	q.Set("run", strconv.Itoa(info.RunNumber))
	q.Set("cached", strconv.Itoa(cachedFlag(info)))
	q.Set("step", strconv.Itoa(max(info.IndexInJourney, 1)))
	return FilmstripToolBase + "#" + q.Encode()
}
