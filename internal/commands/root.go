// internal/commands/root.go
package osmchart

import (
	"fmt"
	"os"

	"github.com/mwiater/osmchart/internal/appconfig"
	"github.com/mwiater/osmchart/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "osmchart",
	Short:         "osmchart renders and explores performance measurement charts",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		cfg, err := appconfig.Decode(viper.GetViper())
		if err != nil {
			return err
		}
		if viper.ConfigFileUsed() != "" && fileExists(viper.ConfigFileUsed()) {
			cfg.ConfigPath = viper.ConfigFileUsed()
		} else {
			cfg.ConfigPath = ""
		}
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)
		logging.Dump("config", currentConfig)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	appconfig.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/osmchart.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Int("width", 0, "outer width of the time series chart in pixels")
	rootCmd.PersistentFlags().Int("height", 0, "outer height of the time series chart in pixels")
	rootCmd.PersistentFlags().Int("barWidth", 0, "outer width of the aggregation chart in pixels")
	rootCmd.PersistentFlags().Int("transitionMs", 0, "series fade duration in milliseconds")
	rootCmd.PersistentFlags().Int("resizeDebounceMs", 0, "redraw delay after a resize in milliseconds")
	rootCmd.PersistentFlags().Int("timeout", 0, "seconds to wait for a data fetch")
	rootCmd.PersistentFlags().String("translations", "", "JSON file with display strings")
	rootCmd.PersistentFlags().String("dataUrl", "", "endpoint serving time series data")

	for _, name := range []string{"debug", "logFile", "width", "height", "barWidth", "transitionMs", "resizeDebounceMs", "timeout", "translations", "dataUrl"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.SetEnvPrefix("OSMCHART")
	viper.AutomaticEnv()
}

// ensureConfigLoaded reads the config. A missing default file is not an error.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if cfgFile == appconfig.DefaultConfigPath && !fileExists(cfgFile) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	if currentConfig == nil {
		return &appconfig.Config{}
	}
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
