// internal/commands/render_aggregation.go
package osmchart

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/aclements/go-moremath/stats"
	"github.com/fatih/color"
	"github.com/mwiater/osmchart/internal/aggregation"
	"github.com/mwiater/osmchart/internal/barchart"
	"github.com/mwiater/osmchart/internal/util"
	"github.com/spf13/cobra"
)

type renderAggregationOptions struct {
	inputs    []string
	output    string
	filter    string
	stack     bool
	highlight string
	summary   bool
}

var aggregationOpts renderAggregationOptions

// renderAggregationCmd implements 'render aggregation'.
var renderAggregationCmd = &cobra.Command{
	Use:   "aggregation",
	Short: "Render an aggregation bar chart as SVG",
	Long: `Render one or more partial aggregation responses as a horizontal bar chart.
Responses are merged in the order given, so a comparative response may follow
the current one. The bar order follows --filter: asc, desc or a custom rule name.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := aggregationOpts
		if !cmd.Flags().Changed("filter") {
			opts.filter = GetConfig().FilterName()
		}
		return renderAggregation(opts, cmd.Flags().Changed("stack"), cmd.OutOrStdout())
	},
}

func renderAggregation(opts renderAggregationOptions, stackSet bool, out io.Writer) error {
	cfg := GetConfig()
	tr, err := catalog(cfg)
	if err != nil {
		return err
	}
	t, err := loadAggregation(opts.inputs, tr.Translate)
	if err != nil {
		return fmt.Errorf("load aggregation: %w", err)
	}
	applyView(t, opts.filter, opts.stack, stackSet)

	c := barchart.Build(t, float64(cfg.BarChartWidth()), opts.highlight)
	var buf bytes.Buffer
	barchart.Render(&buf, c)
	if opts.output == "" {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := util.WriteFile(opts.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	fmt.Fprintf(out, "wrote %s (%d rows, %s)\n", opts.output, len(c.SideLabels), c.Status)
	if opts.summary {
		printSummary(out, t)
	}
	return nil
}

// printSummary writes the mean per measurand and every comparative delta,
// improvements in green and deteriorations in red.
func printSummary(out io.Writer, t *aggregation.Transformer) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(out, "\n%s\n", bold(t.Header()))
	for _, m := range t.AllMeasurands() {
		bars, ok := t.BarsFor(m)
		if !ok {
			continue
		}
		var values []float64
		for _, e := range bars.Values {
			if e.Value != nil {
				values = append(values, *e.Value)
			}
		}
		if len(values) == 0 {
			fmt.Fprintf(out, "  %s  no values\n", util.PadRight(bars.Label, 28))
			continue
		}
		mean := barchart.FormatValue(stats.Mean(values), bars.Min, bars.Max, bars.Unit, false)
		fmt.Fprintf(out, "  %s  mean %s over %d bars\n", util.PadRight(bars.Label, 28), mean, len(values))
	}

	groups := t.GroupByMeasurandGroup()
	comps := t.Comparatives()
	ids := make([]string, 0, len(comps))
	for id := range comps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, c := range comps[id] {
			g := groups[c.MeasurandGroup]
			delta := barchart.FormatValue(c.Value, g.Min, g.Max, c.Unit, true)
			paint := red
			if c.IsImprovement {
				paint = green
			}
			row := c.Page + ";" + c.JobGroup
			if c.Browser != "" {
				row += ";" + c.Browser
			}
			fmt.Fprintf(out, "  %s %s %s %s\n", util.PadRight(row, 32), util.PadRight(id, 24), util.PadRight(c.MeasurandLabel, 14), paint(delta))
		}
	}
}

func init() {
	renderAggregationCmd.Flags().StringSliceVarP(&aggregationOpts.inputs, "input", "i", nil, "aggregation JSON files, merged in order")
	renderAggregationCmd.Flags().StringVarP(&aggregationOpts.output, "out", "o", "", "SVG output path (defaults to stdout)")
	renderAggregationCmd.Flags().StringVar(&aggregationOpts.filter, "filter", "desc", "bar order: asc, desc or a filter rule name")
	renderAggregationCmd.Flags().BoolVar(&aggregationOpts.stack, "stack", false, "stack the bars of one row")
	renderAggregationCmd.Flags().StringVar(&aggregationOpts.highlight, "highlight", "", "row id to keep undimmed")
	renderAggregationCmd.Flags().BoolVar(&aggregationOpts.summary, "summary", true, "print means and comparative deltas")
	renderCmd.AddCommand(renderAggregationCmd)
}
