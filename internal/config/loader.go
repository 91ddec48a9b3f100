package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.estateinsights.yaml",               // Project-specific config (highest priority)
	"~/.config/estateinsights/config.yaml", // User config
	"/etc/estateinsights/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override
const EnvPrefix = "ESTATE_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. ESTATE_* environment variables
// 3. ./.estateinsights.yaml
// 4. ~/.config/estateinsights/config.yaml
// 5. /etc/estateinsights/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig fileConfig
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// fileConfig mirrors Config with pointer booleans so an explicit false
// in a file can be told apart from an omitted key.
type fileConfig struct {
	Version string      `yaml:"version"`
	API     APIConfig   `yaml:"api"`
	Table   TableConfig `yaml:"table"`
	Chart   ChartConfig `yaml:"chart"`
	Output  struct {
		DefaultFormat string `yaml:"default_format"`
		ColorMode     string `yaml:"color_mode"`
		Theme         string `yaml:"theme"`
		ExportDir     string `yaml:"export_dir"`
		Verbose       *bool  `yaml:"verbose"`
	} `yaml:"output"`
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// API Config
		EnvPrefix + "API_BASE_URL":   func(v string) error { config.API.BaseURL = v; return nil },
		EnvPrefix + "API_TIMEOUT":    func(v string) error { return parseDuration(v, &config.API.Timeout) },
		EnvPrefix + "API_USER_AGENT": func(v string) error { config.API.UserAgent = v; return nil },

		// Table Config
		EnvPrefix + "TABLE_ROWS_PER_PAGE": func(v string) error { return parseInt(v, &config.Table.RowsPerPage) },
		EnvPrefix + "TABLE_LOCALE":        func(v string) error { config.Table.Locale = v; return nil },

		// Chart Config
		EnvPrefix + "CHART_DEFAULT_MODE": func(v string) error { config.Chart.DefaultMode = v; return nil },
		EnvPrefix + "CHART_HEIGHT":       func(v string) error { return parseInt(v, &config.Chart.Height) },

		// Output Config
		EnvPrefix + "OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		EnvPrefix + "OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		EnvPrefix + "OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		EnvPrefix + "OUTPUT_EXPORT_DIR":     func(v string) error { config.Output.ExportDir = v; return nil },
		EnvPrefix + "OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed")
		}
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges a parsed file into dst. Only values present in the
// file overwrite dst.
func mergeConfigs(dst *Config, src *fileConfig) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeAPIConfig(&dst.API, &src.API)
	mergeTableConfig(&dst.Table, &src.Table)
	mergeChartConfig(&dst.Chart, &src.Chart)

	if src.Output.DefaultFormat != "" {
		dst.Output.DefaultFormat = src.Output.DefaultFormat
	}
	if src.Output.ColorMode != "" {
		dst.Output.ColorMode = src.Output.ColorMode
	}
	if src.Output.Theme != "" {
		dst.Output.Theme = src.Output.Theme
	}
	if src.Output.ExportDir != "" {
		dst.Output.ExportDir = src.Output.ExportDir
	}
	if src.Output.Verbose != nil {
		dst.Output.Verbose = *src.Output.Verbose
	}
}

func mergeAPIConfig(dst, src *APIConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.UserAgent != "" {
		dst.UserAgent = src.UserAgent
	}
}

func mergeTableConfig(dst, src *TableConfig) {
	if src.RowsPerPage != 0 {
		dst.RowsPerPage = src.RowsPerPage
	}
	if src.Locale != "" {
		dst.Locale = src.Locale
	}
}

func mergeChartConfig(dst, src *ChartConfig) {
	if src.DefaultMode != "" {
		dst.DefaultMode = src.DefaultMode
	}
	if src.Height != 0 {
		dst.Height = src.Height
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
