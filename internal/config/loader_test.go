package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test-config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return configPath
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	loader := &Loader{configPaths: nil}

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
api:
  base_url: "http://localhost:8000/api"
  timeout: 15s
table:
  rows_per_page: 10
  locale: "hi"
chart:
  default_mode: "bar"
output:
  default_format: "json"
  theme: "minimal"
  verbose: true
`)

	cfg, err := NewLoader().LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000/api" {
		t.Errorf("Expected local base URL, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Expected API timeout 15s, got %v", cfg.API.Timeout)
	}
	if cfg.Table.RowsPerPage != 10 {
		t.Errorf("Expected 10 rows per page, got %d", cfg.Table.RowsPerPage)
	}
	if cfg.Table.Locale != "hi" {
		t.Errorf("Expected locale hi, got %s", cfg.Table.Locale)
	}
	if cfg.Chart.DefaultMode != "bar" {
		t.Errorf("Expected chart mode bar, got %s", cfg.Chart.DefaultMode)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Output.Theme != "minimal" {
		t.Errorf("Expected theme minimal, got %s", cfg.Output.Theme)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	// untouched keys keep defaults
	if cfg.Chart.Height != 12 {
		t.Errorf("Expected default chart height, got %d", cfg.Chart.Height)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	configPath := writeConfig(t, `version: "1.0"
api:
  base_url: "http://localhost
  timeout: 15s
`)

	if _, err := NewLoader().LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	configPath := writeConfig(t, `output:
  default_format: "xml"
`)

	_, err := NewLoader().LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestLoadConfigMergesSearchPaths(t *testing.T) {
	dir := t.TempDir()
	high := filepath.Join(dir, "high.yaml")
	low := filepath.Join(dir, "low.yaml")

	if err := os.WriteFile(low, []byte("api:\n  base_url: \"http://low/api\"\ntable:\n  rows_per_page: 7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(high, []byte("api:\n  base_url: \"http://high/api\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	loader := &Loader{configPaths: []string{high, low}, warn: func(string, ...interface{}) {}}
	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.BaseURL != "http://high/api" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.API.BaseURL)
	}
	if cfg.Table.RowsPerPage != 7 {
		t.Errorf("Expected lower priority value to survive, got %d", cfg.Table.RowsPerPage)
	}
}

func TestLoadConfigWarnsOnBrokenSearchPath(t *testing.T) {
	broken := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(broken, []byte("api: ["), 0o600); err != nil {
		t.Fatal(err)
	}

	var warned bool
	loader := &Loader{configPaths: []string{broken}, warn: func(string, ...interface{}) { warned = true }}
	if _, err := loader.LoadConfig(""); err != nil {
		t.Fatalf("Broken search path should not fail the load: %v", err)
	}
	if !warned {
		t.Error("Expected a warning for the broken file")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ESTATE_API_BASE_URL", "http://127.0.0.1:9000/api")
	t.Setenv("ESTATE_API_TIMEOUT", "5s")
	t.Setenv("ESTATE_TABLE_ROWS_PER_PAGE", "8")
	t.Setenv("ESTATE_CHART_DEFAULT_MODE", "area")
	t.Setenv("ESTATE_OUTPUT_VERBOSE", "true")
	t.Setenv("ESTATE_OUTPUT_EXPORT_DIR", "/tmp/exports")

	cfg := DefaultConfig()
	if err := NewLoader().applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:9000/api" {
		t.Errorf("Expected base URL override, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.API.Timeout)
	}
	if cfg.Table.RowsPerPage != 8 {
		t.Errorf("Expected 8 rows per page, got %d", cfg.Table.RowsPerPage)
	}
	if cfg.Chart.DefaultMode != "area" {
		t.Errorf("Expected chart mode area, got %s", cfg.Chart.DefaultMode)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.ExportDir != "/tmp/exports" {
		t.Errorf("Expected export dir override, got %s", cfg.Output.ExportDir)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "ESTATE_TABLE_ROWS_PER_PAGE", "not-a-number"},
		{"invalid bool", "ESTATE_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "ESTATE_API_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)

			if err := NewLoader().applyEnvOverrides(DefaultConfig()); err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			}
		})
	}
}

func TestParseHelpers(t *testing.T) {
	var duration time.Duration
	if err := parseDuration("30s", &duration); err != nil || duration != 30*time.Second {
		t.Errorf("parseDuration: got %v, %v", duration, err)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}

	var value int
	if err := parseInt("42", &value); err != nil || value != 42 {
		t.Errorf("parseInt: got %d, %v", value, err)
	}
	if err := parseInt("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}

	var flag bool
	if err := parseBool("true", &flag); err != nil || !flag {
		t.Errorf("parseBool: got %v, %v", flag, err)
	}
	if err := parseBool("not-a-bool", &flag); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	tempFile := filepath.Join(t.TempDir(), "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "double dots inside a name", path: "estate..config.yaml"},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "proc file access",
			path:    "/proc/self/environ.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
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
