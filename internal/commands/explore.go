// internal/commands/explore.go
package osmchart

import (
	"fmt"

	"github.com/mwiater/osmchart/internal/dto"
	"github.com/mwiater/osmchart/internal/tui"
	"github.com/spf13/cobra"
)

var (
	exploreInput  string
	exploreOutput string
)

// exploreCmd implements 'explore'.
var exploreCmd = &cobra.Command{
	Use:   "explore [url]",
	Short: "Explore a time series chart in the terminal",
	Long: `Open the interactive time series explorer. Data comes from --input, from the
url argument or from the configured dataUrl; a url source can be reloaded with R.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newExplorer(exploreInput, args)
		if err != nil {
			return err
		}
		return tui.Run(m)
	},
}

func newExplorer(input string, args []string) (*tui.Model, error) {
	cfg := GetConfig()
	tr, err := catalog(cfg)
	if err != nil {
		return nil, err
	}
	opts := tui.Options{Chart: chartOptions(cfg, tr.Translate), Output: exploreOutput}

	if input != "" {
		data, err := dto.ReadTimeSeriesFile(input)
		if err != nil {
			return nil, fmt.Errorf("load time series: %w", err)
		}
		return tui.New(&data, opts), nil
	}
	source := cfg.DataURL
	if len(args) == 1 {
		source = args[0]
	}
	if source == "" {
		return nil, errNoInput
	}
	opts.Source = source
	opts.Fetcher = fetcher(cfg)
	return tui.New(nil, opts), nil
}

func init() {
	exploreCmd.Flags().StringVarP(&exploreInput, "input", "i", "", "time series JSON file")
	exploreCmd.Flags().StringVarP(&exploreOutput, "out", "o", "osmchart.svg", "SVG path written by the write key")
	rootCmd.AddCommand(exploreCmd)
}
