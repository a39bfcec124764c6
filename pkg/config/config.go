// Package config provides configuration loading and management for mprviewer.
// It handles loading configuration from YAML or TOML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Percentile methods understood by the auto-window estimator
const (
	MethodLinear    = "linear"
	MethodEmpirical = "empirical"
)

// ControlRange is the declared range and starting value of one integer control
type ControlRange struct {
	Min     int `yaml:"min" toml:"min"`
	Max     int `yaml:"max" toml:"max"`
	Default int `yaml:"default" toml:"default"`
}

// Config represents the application configuration
type Config struct {
	// Input controls which files in a directory are treated as scans
	Input struct {
		// Extensions lists the recognized file extensions, lower case with the dot
		Extensions []string `yaml:"extensions" toml:"extensions"`
	} `yaml:"input" toml:"input"`

	// Window parameters for the automatic contrast estimate
	Window struct {
		// LowerPercentile and UpperPercentile bound the robust intensity range
		LowerPercentile float64 `yaml:"lowerPercentile" toml:"lower_percentile"`
		UpperPercentile float64 `yaml:"upperPercentile" toml:"upper_percentile"`

		// MinWidth is the smallest window width the estimator returns
		MinWidth float64 `yaml:"minWidth" toml:"min_width"`

		// Method is the percentile method, "linear" or "empirical"
		Method string `yaml:"method" toml:"method"`
	} `yaml:"window" toml:"window"`

	// Viewer parameters for the interaction controls
	Viewer struct {
		// StartAtMidpoint selects the central slices after a load instead of zero
		StartAtMidpoint bool `yaml:"startAtMidpoint" toml:"start_at_midpoint"`

		// WindowWidth and WindowLevel are the ranges of the WW and WL controls
		WindowWidth ControlRange `yaml:"windowWidth" toml:"window_width"`
		WindowLevel ControlRange `yaml:"windowLevel" toml:"window_level"`
	} `yaml:"viewer" toml:"viewer"`

	// Render parameters for the plot backend
	Render struct {
		// PanelWidth is the width of each rendered panel in inches
		PanelWidth float64 `yaml:"panelWidth" toml:"panel_width"`

		// LineWidth is the crosshair width in points
		LineWidth float64 `yaml:"lineWidth" toml:"line_width"`

		// LineAlpha is the crosshair opacity in [0, 1]
		LineAlpha float64 `yaml:"lineAlpha" toml:"line_alpha"`

		// Background is the panel background as #rrggbb
		Background string `yaml:"background" toml:"background"`

		// Format is the output image extension, for example "png"
		Format string `yaml:"format" toml:"format"`
	} `yaml:"render" toml:"render"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" toml:"verbose"`

		// LogFile sends log output to a rotating file when set
		LogFile string `yaml:"logFile" toml:"log_file"`

		// MaxLogSize is the rotation size in megabytes
		MaxLogSize int `yaml:"maxLogSize" toml:"max_log_size"`

		// MaxLogAge is the retention of rotated files in days
		MaxLogAge int `yaml:"maxLogAge" toml:"max_log_age"`
	} `yaml:"output" toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.Extensions = []string{".dcm"}

	// Robust window from the 1st and 99th percentiles
	cfg.Window.LowerPercentile = 1
	cfg.Window.UpperPercentile = 99
	cfg.Window.MinWidth = 1.0
	cfg.Window.Method = MethodLinear

	cfg.Viewer.StartAtMidpoint = true
	cfg.Viewer.WindowWidth = ControlRange{Min: 1, Max: 3000, Default: 400}
	cfg.Viewer.WindowLevel = ControlRange{Min: -1000, Max: 2000, Default: 40}

	cfg.Render.PanelWidth = 5
	cfg.Render.LineWidth = 1.5
	cfg.Render.LineAlpha = 0.8
	cfg.Render.Background = "#222222"
	cfg.Render.Format = "png"

	cfg.Output.Verbose = false
	cfg.Output.MaxLogSize = 10
	cfg.Output.MaxLogAge = 7

	return cfg
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if len(c.Input.Extensions) == 0 {
		return fmt.Errorf("input.extensions must not be empty")
	}
	lo, hi := c.Window.LowerPercentile, c.Window.UpperPercentile
	if lo < 0 || hi > 100 || lo > hi {
		return fmt.Errorf("window percentiles must satisfy 0 <= lower <= upper <= 100, got %g and %g", lo, hi)
	}
	if c.Window.MinWidth < 1 {
		return fmt.Errorf("window.minWidth must be at least 1, got %g", c.Window.MinWidth)
	}
	switch c.Window.Method {
	case MethodLinear, MethodEmpirical:
	default:
		return fmt.Errorf("unknown percentile method %q", c.Window.Method)
	}
	for name, r := range map[string]ControlRange{
		"viewer.windowWidth": c.Viewer.WindowWidth,
		"viewer.windowLevel": c.Viewer.WindowLevel,
	} {
		if r.Min > r.Max {
			return fmt.Errorf("%s: min %d exceeds max %d", name, r.Min, r.Max)
		}
	}
	if c.Viewer.WindowWidth.Min < 1 {
		return fmt.Errorf("viewer.windowWidth.min must be at least 1")
	}
	if c.Render.PanelWidth <= 0 {
		return fmt.Errorf("render.panelWidth must be positive")
	}
	if c.Render.LineAlpha < 0 || c.Render.LineAlpha > 1 {
		return fmt.Errorf("render.lineAlpha must be within [0, 1]")
	}
	return nil
}

// LoadConfig loads configuration from a YAML or TOML file.
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if isTOML(configPath) {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	for i, ext := range cfg.Input.Extensions {
		cfg.Input.Extensions[i] = normalizeExtension(ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// SaveConfig saves the configuration, as TOML when the path ends in .toml and YAML otherwise
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var data []byte
	if isTOML(configPath) {
		var sb strings.Builder
		if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		data = []byte(sb.String())
	} else {
		var err error
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
