// internal/commands/render.go
package osmchart

import (
	"github.com/spf13/cobra"
)

// renderCmd groups the commands that write charts as SVG.
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Group commands for rendering charts",
	Long:  `The 'render' command groups subcommands that lay out a chart from JSON input and write it as SVG.`,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
