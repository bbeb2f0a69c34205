package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, cfg Config) {
	if cfg.ConfigPath == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", cfg.ConfigPath)
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Chart Size:       %dx%d\n", cfg.ChartWidth(), cfg.ChartHeight())
	fmt.Fprintf(out, "  Bar Chart Width:  %d\n", cfg.BarChartWidth())
	fmt.Fprintf(out, "  Resize Debounce:  %s\n", cfg.ResizeDebounce())
	fmt.Fprintf(out, "  Transition:       %s\n", cfg.Transition())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
	fmt.Fprintf(out, "  Default Filter:   %s\n", cfg.FilterName())
	if cfg.Translations != "" {
		fmt.Fprintf(out, "  Translations:     %s\n", cfg.Translations)
	}
	if cfg.DataURL != "" {
		fmt.Fprintf(out, "  Data URL:         %s\n", cfg.DataURL)
	}
}
