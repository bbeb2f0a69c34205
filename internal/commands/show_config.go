// internal/commands/show_config.go
package osmchart

import (
	"fmt"

	"github.com/mwiater/osmchart/internal/appconfig"
	"github.com/spf13/cobra"
)

// showConfigCmd represents the 'show config' command
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the current configuration",
	Long:  `Displays the currently loaded configuration after defaults, the config file, environment variables and flags are merged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), *cfg)
		return nil
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
}
