package config

import (
	"fmt"
	"net/url"
	"time"

	"golang.org/x/text/language"
)

// MaxRowsPerPage caps table.rows_per_page
const MaxRowsPerPage = 1000

// DefaultBaseURL is the hosted analysis API
const DefaultBaseURL = "https://real-estate-app-ql5f.onrender.com/api"

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	Table   TableConfig  `yaml:"table" json:"table"`
	Chart   ChartConfig  `yaml:"chart" json:"chart"`
	Output  OutputConfig `yaml:"output" json:"output"`
}

// APIConfig configures the remote analysis service
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // service root, endpoints are joined onto it
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // per-request timeout
	UserAgent string        `yaml:"user_agent" json:"user_agent"` // sent on every request
}

// TableConfig configures the data table view
type TableConfig struct {
	RowsPerPage int    `yaml:"rows_per_page" json:"rows_per_page"` // values below 1 fall back to 5
	Locale      string `yaml:"locale" json:"locale"`               // BCP 47 tag used for string sorting
}

// ChartConfig configures chart rendering
type ChartConfig struct {
	DefaultMode string `yaml:"default_mode" json:"default_mode"` // composed|line|bar|area
	Height      int    `yaml:"height" json:"height"`             // plot rows in the terminal
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv|prompt
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // default|high-contrast|minimal
	ExportDir     string `yaml:"export_dir" json:"export_dir"`         // where CSV exports are written
	Verbose       bool   `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   60 * time.Second, // hosted backend cold-starts slowly
			UserAgent: "estateinsights",
		},
		Table: TableConfig{
			RowsPerPage: 5,
			Locale:      "en",
		},
		Chart: ChartConfig{
			DefaultMode: "composed",
			Height:      12,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			ExportDir:     ".",
			Verbose:       false,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateTableConfig(); err != nil {
		return err
	}
	if err := c.validateChartConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAPIConfig() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api base_url: %s (must be an http or https URL)", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid api base_url: %s (missing host)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be greater than 0")
	}
	return nil
}

func (c *Config) validateTableConfig() error {
	if c.Table.RowsPerPage < 0 {
		return fmt.Errorf("rows_per_page must be non-negative")
	}
	if c.Table.RowsPerPage > MaxRowsPerPage {
		return fmt.Errorf("rows_per_page must be at most %d", MaxRowsPerPage)
	}
	if c.Table.Locale != "" {
		if _, err := language.Parse(c.Table.Locale); err != nil {
			return fmt.Errorf("invalid table locale %q: %w", c.Table.Locale, err)
		}
	}
	return nil
}

func (c *Config) validateChartConfig() error {
	if c.Chart.DefaultMode != "" {
		validModes := map[string]bool{
			"composed": true,
			"line":     true,
			"bar":      true,
			"area":     true,
		}
		if !validModes[c.Chart.DefaultMode] {
			return fmt.Errorf("invalid chart mode: %s (must be one of: composed, line, bar, area)", c.Chart.DefaultMode)
		}
	}
	if c.Chart.Height < 4 {
		return fmt.Errorf("chart height must be at least 4")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
			"prompt":   true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv, prompt)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}

// LocaleTag returns the parsed table locale, English when unset or invalid
func (c *Config) LocaleTag() language.Tag {
	if c.Table.Locale == "" {
		return language.English
	}
	tag, err := language.Parse(c.Table.Locale)
	if err != nil {
		return language.English
	}
	return tag
}
