// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/osmchart.json"
	// defaultWidth and defaultHeight are the outer time series chart size.
	defaultWidth  = 1000
	defaultHeight = 600
	// defaultBarWidth is the outer aggregation chart width.
	defaultBarWidth = 900
	// defaultResizeDebounce matches the redraw delay after the last resize event.
	defaultResizeDebounce = 500 * time.Millisecond
	// defaultTransition is the opacity transition applied to series and legend.
	defaultTransition = 500 * time.Millisecond
	// defaultRequestTimeout bounds one chart data fetch.
	defaultRequestTimeout = 30 * time.Second
	// defaultFilter sorts aggregation rows by descending value.
	defaultFilter = "desc"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug            bool   `json:"debug"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	BarWidth         int    `json:"barWidth,omitempty"`
	ResizeDebounceMs int    `json:"resizeDebounceMs,omitempty"`
	TransitionMs     int    `json:"transitionMs,omitempty"`
	TimeoutSeconds   int    `json:"timeout,omitempty"`
	LogFile          string `json:"logFile,omitempty"`
	Translations     string `json:"translations,omitempty"`
	Filter           string `json:"filter,omitempty"`
	DataURL          string `json:"dataUrl,omitempty"`
	ConfigPath       string `json:"-" mapstructure:"-"`
}

// ChartWidth returns the outer width of the time series chart.
func (c Config) ChartWidth() int {
	if c.Width <= 0 {
		return defaultWidth
	}
	return c.Width
}

// ChartHeight returns the outer height of the time series chart.
func (c Config) ChartHeight() int {
	if c.Height <= 0 {
		return defaultHeight
	}
	return c.Height
}

// BarChartWidth returns the outer width of the aggregation chart.
func (c Config) BarChartWidth() int {
	if c.BarWidth <= 0 {
		return defaultBarWidth
	}
	return c.BarWidth
}

// ResizeDebounce returns the quiet period after a resize before redrawing.
func (c Config) ResizeDebounce() time.Duration {
	if c.ResizeDebounceMs <= 0 {
		return defaultResizeDebounce
	}
	return time.Duration(c.ResizeDebounceMs) * time.Millisecond
}

// Transition returns the opacity transition duration.
func (c Config) Transition() time.Duration {
	if c.TransitionMs <= 0 {
		return defaultTransition
	}
	return time.Duration(c.TransitionMs) * time.Millisecond
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "osmchart.log"
}

// FilterName returns the aggregation filter applied when none is requested.
func (c Config) FilterName() string {
	if f := strings.TrimSpace(c.Filter); f != "" {
		return f
	}
	return defaultFilter
}

// Validate rejects values that cannot describe a drawable chart.
func (c Config) Validate() error {
	var errs []error
	if c.Width < 0 || c.Height < 0 || c.BarWidth < 0 {
		errs = append(errs, errors.New("chart dimensions must not be negative"))
	}
	if c.ResizeDebounceMs < 0 || c.TransitionMs < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.DataURL != "" && !strings.HasPrefix(c.DataURL, "http://") && !strings.HasPrefix(c.DataURL, "https://") {
		errs = append(errs, fmt.Errorf("dataUrl %q is not an http(s) URL", c.DataURL))
	}
	return errors.Join(errs...)
}

// SetDefaults registers every default on v so that merged config, flags and
// environment all resolve to concrete values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("width", defaultWidth)
	v.SetDefault("height", defaultHeight)
	v.SetDefault("barWidth", defaultBarWidth)
	v.SetDefault("resizeDebounceMs", int(defaultResizeDebounce/time.Millisecond))
	v.SetDefault("transitionMs", int(defaultTransition/time.Millisecond))
	v.SetDefault("timeout", int(defaultRequestTimeout/time.Second))
	v.SetDefault("logFile", "osmchart.log")
	v.SetDefault("filter", defaultFilter)
}

// Decode materializes the merged state of v.
func Decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	// viper keys are case-insensitive; timeout does not match the field name.
	cfg.TimeoutSeconds = v.GetInt("timeout")
	cfg.ConfigPath = v.ConfigFileUsed()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load reads the configuration file at path on top of the defaults. An empty
// path uses DefaultConfigPath; a missing default file yields the defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	SetDefaults(v)
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !explicit && (errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			cfg, err := Decode(v)
			cfg.ConfigPath = ""
			return cfg, err
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	return Decode(v)
}
