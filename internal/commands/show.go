// internal/commands/show.go
package osmchart

import (
	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying information",
	Long:  `The 'show' command is a parent command for displaying information such as the loaded configuration.`,
}

func init() {
	rootCmd.AddCommand(showCmd)
}
