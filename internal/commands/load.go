// internal/commands/load.go
package osmchart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mwiater/osmchart/internal/aggregation"
	"github.com/mwiater/osmchart/internal/appconfig"
	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/fetch"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/timeseries"
	"github.com/mwiater/osmchart/internal/translate"
)

var errNoInput = errors.New("no input: pass --input or configure dataUrl")

func catalog(cfg *appconfig.Config) (translate.Catalog, error) {
	return translate.Load(cfg.Translations)
}

func fetcher(cfg *appconfig.Config) *fetch.Manager {
	return fetch.New(http.DefaultClient, cfg.RequestTimeout())
}

// chartOptions maps the configuration onto engine options. Links opened
// from the chart are logged, selection conflicts are logged as warnings.
func chartOptions(cfg *appconfig.Config, tr translate.Func) chart.Options {
	return chart.Options{
		Width:          float64(cfg.ChartWidth()),
		Height:         float64(cfg.ChartHeight()),
		Transition:     cfg.Transition(),
		ResizeDebounce: cfg.ResizeDebounce(),
		Translate:      tr,
		Navigate: func(url string) {
			logging.LogTagged("chart", "open %s", url)
		},
		OnSelectionError: func(p timeseries.Point, err error) {
			logging.LogTagged("chart", "selection rejected for %s: %v", p.Origin(), err)
		},
	}
}

// loadTimeSeries reads input, or fetches the configured data URL.
func loadTimeSeries(ctx context.Context, cfg *appconfig.Config, input string) (dto.EventResultData, error) {
	switch {
	case input != "":
		return dto.ReadTimeSeriesFile(input)
	case cfg.DataURL != "":
		return fetcher(cfg).TimeSeries(ctx, cfg.DataURL)
	default:
		return dto.EventResultData{}, errNoInput
	}
}

// loadAggregation merges every partial response into one transformer. The
// responses are applied in order so later ones may switch the filter or the
// stacking.
func loadAggregation(inputs []string, tr translate.Func) (*aggregation.Transformer, error) {
	if len(inputs) == 0 {
		return nil, errNoInput
	}
	t := aggregation.New(tr)
	for _, path := range inputs {
		resp, err := dto.ReadAggregationFile(path)
		if err != nil {
			return nil, err
		}
		t.SetData(resp)
	}
	return t, nil
}

// applyView narrows an aggregation to a filter rule and bar layout.
func applyView(t *aggregation.Transformer, filter string, stack, stackSet bool) {
	resp := dto.AggregationResponse{SelectedFilter: filter}
	if stackSet {
		resp.StackBars = &stack
	}
	t.SetData(resp)
}

// chartScript is a scripted sequence of chart intents.
type chartScript struct {
	hide   []string
	focus  string
	brush  [2]float64
	brushd bool
}

func (s chartScript) apply(e *chart.Engine) error {
	for _, key := range s.hide {
		if !hasSeries(e, key) {
			return fmt.Errorf("unknown series %q", key)
		}
		e.OnLegendClick(key, true)
	}
	if s.focus != "" {
		if !hasSeries(e, s.focus) {
			return fmt.Errorf("unknown series %q", s.focus)
		}
		e.OnLegendClick(s.focus, false)
	}
	if s.brushd {
		e.OnBrushStart(s.brush[0])
		e.OnBrushMove(s.brush[1])
		if !e.OnBrush(s.brush[0], s.brush[1]) {
			return fmt.Errorf("brush %.0f..%.0f selects no time range", s.brush[0], s.brush[1])
		}
	}
	return nil
}

func hasSeries(e *chart.Engine, key string) bool {
	for _, entry := range e.Legend() {
		if entry.Key == key {
			return true
		}
	}
	return false
}
