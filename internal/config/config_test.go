package config

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("Expected base URL %s, got %s", DefaultBaseURL, cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 60*time.Second {
		t.Errorf("Expected API timeout 60s, got %v", cfg.API.Timeout)
	}
	if cfg.Table.RowsPerPage != 5 {
		t.Errorf("Expected 5 rows per page, got %d", cfg.Table.RowsPerPage)
	}
	if cfg.Chart.DefaultMode != "composed" {
		t.Errorf("Expected composed chart mode, got %s", cfg.Chart.DefaultMode)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.API.BaseURL = "example.com/api" },
			wantErr: true,
			errMsg:  "must be an http or https URL",
		},
		{
			name:    "base url without host",
			mutate:  func(c *Config) { c.API.BaseURL = "https:///api" },
			wantErr: true,
			errMsg:  "missing host",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.API.Timeout = 0 },
			wantErr: true,
			errMsg:  "api timeout must be greater than 0",
		},
		{
			name:    "negative rows per page",
			mutate:  func(c *Config) { c.Table.RowsPerPage = -1 },
			wantErr: true,
			errMsg:  "rows_per_page must be non-negative",
		},
		{
			name:    "rows per page above the cap",
			mutate:  func(c *Config) { c.Table.RowsPerPage = MaxRowsPerPage + 1 },
			wantErr: true,
			errMsg:  "rows_per_page must be at most 1000",
		},
		{
			name:    "rows per page at the cap",
			mutate:  func(c *Config) { c.Table.RowsPerPage = MaxRowsPerPage },
			wantErr: false,
		},
		{
			name:    "zero rows per page is allowed",
			mutate:  func(c *Config) { c.Table.RowsPerPage = 0 },
			wantErr: false,
		},
		{
			name:    "invalid locale",
			mutate:  func(c *Config) { c.Table.Locale = "not a locale!" },
			wantErr: true,
			errMsg:  "invalid table locale",
		},
		{
			name:    "invalid chart mode",
			mutate:  func(c *Config) { c.Chart.DefaultMode = "pie" },
			wantErr: true,
			errMsg:  "invalid chart mode: pie (must be one of: composed, line, bar, area)",
		},
		{
			name:    "chart too short",
			mutate:  func(c *Config) { c.Chart.Height = 2 },
			wantErr: true,
			errMsg:  "chart height must be at least 4",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format: invalid (must be one of: json, text, markdown, csv, prompt)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "sometimes" },
			wantErr: true,
			errMsg:  "invalid color mode: sometimes (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.Output.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon (must be one of: default, high-contrast, minimal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestLocaleTag(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LocaleTag() != language.English {
		t.Errorf("Expected English, got %v", cfg.LocaleTag())
	}

	cfg.Table.Locale = "mr-IN"
	if cfg.LocaleTag() != language.MustParse("mr-IN") {
		t.Errorf("Expected mr-IN, got %v", cfg.LocaleTag())
	}

	cfg.Table.Locale = ""
	if cfg.LocaleTag() != language.English {
		t.Errorf("Expected English fallback, got %v", cfg.LocaleTag())
	}
}

func TestConfigMerging(t *testing.T) {
	dst := DefaultConfig()
	dst.Output.Verbose = true

	verbose := false
	src := &fileConfig{
		API:   APIConfig{BaseURL: "http://localhost:8000/api"},
		Table: TableConfig{RowsPerPage: 10},
	}
	src.Output.DefaultFormat = "json"
	src.Output.Verbose = &verbose

	mergeConfigs(dst, src)

	if dst.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("Expected base URL override, got %s", dst.API.BaseURL)
	}
	if dst.Table.RowsPerPage != 10 {
		t.Errorf("Expected 10 rows per page, got %d", dst.Table.RowsPerPage)
	}
	if dst.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", dst.Output.DefaultFormat)
	}
	if dst.Output.Verbose {
		t.Errorf("Expected explicit verbose=false to override")
	}

	// unset values in source keep destination
	if dst.API.Timeout != 60*time.Second {
		t.Errorf("Expected API timeout to remain 60s, got %v", dst.API.Timeout)
	}
	if dst.Table.Locale != "en" {
		t.Errorf("Expected locale to remain en, got %s", dst.Table.Locale)
	}
}

func TestMergeKeepsVerboseWhenOmitted(t *testing.T) {
	dst := DefaultConfig()
	dst.Output.Verbose = true

	mergeConfigs(dst, &fileConfig{})
	if !dst.Output.Verbose {
		t.Error("Omitted verbose key should not reset verbose")
	}
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "relative path",
			input:    "./config.yaml",
			expected: "./config.yaml",
		},
		{
			name:     "absolute path",
			input:    "/etc/estateinsights/config.yaml",
			expected: "/etc/estateinsights/config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := expandPath(tt.input); result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}

	if result := expandPath("~/.config/estateinsights/config.yaml"); strings.HasPrefix(result, "~") {
		t.Errorf("Expected path to be expanded, got %s", result)
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != 3 {
		t.Fatalf("Expected 3 config paths, got %d", len(paths))
	}
	if paths[0] != "./.estateinsights.yaml" {
		t.Errorf("Expected project config first, got %s", paths[0])
	}
	if strings.HasPrefix(paths[1], "~") {
		t.Errorf("Expected user path to be expanded, got %s", paths[1])
	}
	if paths[2] != "/etc/estateinsights/config.yaml" {
		t.Errorf("Expected system config last, got %s", paths[2])
	}
}

func TestSampleConfigsLoad(t *testing.T) {
	for name, content := range map[string]string{"full": SampleConfig(), "minimal": MinimalSampleConfig()} {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, content)
			cfg, err := NewLoader().LoadConfig(path)
			if err != nil {
				t.Fatalf("Sample config failed to load: %v", err)
			}
			if cfg.API.BaseURL != DefaultBaseURL {
				t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
			}
		})
	}
}
