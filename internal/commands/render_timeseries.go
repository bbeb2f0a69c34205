// internal/commands/render_timeseries.go
package osmchart

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mwiater/osmchart/internal/chart"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/mwiater/osmchart/internal/util"
	"github.com/spf13/cobra"
)

type renderTimeSeriesOptions struct {
	input  string
	output string
	hide   []string
	focus  string
	brush  string
	watch  bool
}

var timeSeriesOpts renderTimeSeriesOptions

// renderTimeSeriesCmd implements 'render timeseries'.
var renderTimeSeriesCmd = &cobra.Command{
	Use:   "timeseries",
	Short: "Render a time series chart as SVG",
	Long: `Render a time series load as an SVG line chart. Series can be hidden or
focused and the time axis can be zoomed with a pixel range, as a pointer would
do in the interactive chart. With --watch the chart is re-rendered whenever the
input file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := timeSeriesOpts
		script, err := opts.script()
		if err != nil {
			return err
		}
		render := func(ctx context.Context) error {
			return renderTimeSeries(ctx, opts, script, cmd.OutOrStdout())
		}
		if err := render(cmd.Context()); err != nil {
			return err
		}
		if !opts.watch {
			return nil
		}
		if opts.input == "" {
			return fmt.Errorf("--watch needs --input")
		}
		ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
		defer stop()
		return watchFile(ctx, opts.input, func() {
			if err := render(ctx); err != nil {
				logging.LogTagged("render", "re-render failed: %v", err)
			}
		})
	},
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func (o renderTimeSeriesOptions) script() (chartScript, error) {
	s := chartScript{hide: o.hide, focus: o.focus}
	if o.brush == "" {
		return s, nil
	}
	from, to, ok := strings.Cut(o.brush, ":")
	if !ok {
		return s, fmt.Errorf("--brush must be FROM:TO pixels, got %q", o.brush)
	}
	x0, err := strconv.ParseFloat(from, 64)
	if err != nil {
		return s, fmt.Errorf("--brush: %w", err)
	}
	x1, err := strconv.ParseFloat(to, 64)
	if err != nil {
		return s, fmt.Errorf("--brush: %w", err)
	}
	s.brush, s.brushd = [2]float64{x0, x1}, true
	return s, nil
}

func renderTimeSeries(ctx context.Context, opts renderTimeSeriesOptions, script chartScript, out io.Writer) error {
	cfg := GetConfig()
	tr, err := catalog(cfg)
	if err != nil {
		return err
	}
	data, err := loadTimeSeries(contextOrBackground(ctx), cfg, opts.input)
	if err != nil {
		return fmt.Errorf("load time series: %w", err)
	}
	engine := chart.New(chartOptions(cfg, tr.Translate))
	engine.Load(data)
	if err := script.apply(engine); err != nil {
		return err
	}

	var buf bytes.Buffer
	engine.RenderSVG(&buf)
	if opts.output == "" {
		_, err := out.Write(buf.Bytes())
		return err
	}
	if err := util.WriteFile(opts.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	fmt.Fprintf(out, "wrote %s (%d series, %s)\n", opts.output, engine.Chart().SeriesCount(), engine.Status())
	return nil
}

func init() {
	renderTimeSeriesCmd.Flags().StringVarP(&timeSeriesOpts.input, "input", "i", "", "time series JSON file (defaults to fetching dataUrl)")
	renderTimeSeriesCmd.Flags().StringVarP(&timeSeriesOpts.output, "out", "o", "", "SVG output path (defaults to stdout)")
	renderTimeSeriesCmd.Flags().StringSliceVar(&timeSeriesOpts.hide, "hide", nil, "series keys to hide")
	renderTimeSeriesCmd.Flags().StringVar(&timeSeriesOpts.focus, "focus", "", "series key to show alone")
	renderTimeSeriesCmd.Flags().StringVar(&timeSeriesOpts.brush, "brush", "", "zoom to a FROM:TO pixel range of the drawing area")
	renderTimeSeriesCmd.Flags().BoolVarP(&timeSeriesOpts.watch, "watch", "w", false, "re-render when the input file changes")
	renderCmd.AddCommand(renderTimeSeriesCmd)
}
