// internal/commands/report.go
package osmchart

import (
	"fmt"

	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/report"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	timeSeries  string
	aggregation []string
	output      string
	title       string
	filter      string
	highlight   string
	hide        []string
	focus       string
}

var reportOpts reportOptions

// reportCmd implements 'report'.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a self-contained HTML report",
	Long: `Write an HTML page holding the time series chart, the aggregation chart and
tables of the legend, the selected points and the comparative deltas. Either
chart may be omitted; at least one input is required.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := reportOpts
		if !cmd.Flags().Changed("filter") {
			opts.filter = GetConfig().FilterName()
		}
		if err := writeReport(cmd, opts); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.output)
		return nil
	},
}

func writeReport(cmd *cobra.Command, opts reportOptions) error {
	cfg := GetConfig()
	tr, err := catalog(cfg)
	if err != nil {
		return err
	}
	in := report.Input{Title: opts.title, BarWidth: float64(cfg.BarChartWidth()), Highlight: opts.highlight}

	if opts.timeSeries != "" || (len(opts.aggregation) == 0 && cfg.DataURL != "") {
		data, err := loadTimeSeries(contextOrBackground(cmd.Context()), cfg, opts.timeSeries)
		if err != nil {
			return fmt.Errorf("load time series: %w", err)
		}
		engine := chart.New(chartOptions(cfg, tr.Translate))
		engine.Load(data)
		if err := (chartScript{hide: opts.hide, focus: opts.focus}).apply(engine); err != nil {
			return err
		}
		in.Engine = engine
	}
	if len(opts.aggregation) > 0 {
		t, err := loadAggregation(opts.aggregation, tr.Translate)
		if err != nil {
			return fmt.Errorf("load aggregation: %w", err)
		}
		applyView(t, opts.filter, false, false)
		in.Bars = t
	}
	if in.Engine == nil && in.Bars == nil {
		return errNoInput
	}
	return report.Write(opts.output, in)
}

func init() {
	reportCmd.Flags().StringVarP(&reportOpts.timeSeries, "timeseries", "t", "", "time series JSON file")
	reportCmd.Flags().StringSliceVarP(&reportOpts.aggregation, "aggregation", "a", nil, "aggregation JSON files, merged in order")
	reportCmd.Flags().StringVarP(&reportOpts.output, "out", "o", "report.html", "HTML output path")
	reportCmd.Flags().StringVar(&reportOpts.title, "title", "", "page title")
	reportCmd.Flags().StringVar(&reportOpts.filter, "filter", "desc", "bar order: asc, desc or a filter rule name")
	reportCmd.Flags().StringVar(&reportOpts.highlight, "highlight", "", "aggregation row id to keep undimmed")
	reportCmd.Flags().StringSliceVar(&reportOpts.hide, "hide", nil, "series keys to hide")
	reportCmd.Flags().StringVar(&reportOpts.focus, "focus", "", "series key to show alone")
	rootCmd.AddCommand(reportCmd)
}
