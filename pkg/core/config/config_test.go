package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRequestDelay(t *testing.T) {
	tests := []struct {
		raw      string
		expected time.Duration
	}{
		{"100ms", 100 * time.Millisecond},
		{"2s", 2 * time.Second},
		{"0.1", 100 * time.Millisecond},
		{"0.5", 500 * time.Millisecond},
		{"", 100 * time.Millisecond},
		{"garbage", 100 * time.Millisecond},
		{"-5s", 100 * time.Millisecond},
	}

	for _, tc := range tests {
		got := SECConfig{RateLimitDelay: tc.raw}.RequestDelay()
		if got != tc.expected {
			t.Errorf("RequestDelay(%q) = %v, want %v", tc.raw, got, tc.expected)
		}
	}
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load with no file: %v", err)
	}
	if cfg.SEC.BaseURL != "https://www.sec.gov" {
		t.Errorf("default base_url = %q", cfg.SEC.BaseURL)
	}
	if cfg.Download.MaxReportsPerCompany != 5 {
		t.Errorf("default max_reports_per_company = %d", cfg.Download.MaxReportsPerCompany)
	}
	if len(cfg.Download.FormTypes) != 1 || cfg.Download.FormTypes[0] != "10-K" {
		t.Errorf("default form_types = %v", cfg.Download.FormTypes)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for explicitly named missing config")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
sec:
  user_agent: "test-suite test@example.com"
  rate_limit_delay: 10ms
download:
  output_dir: out
  max_reports_per_company: 2
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SEC.UserAgent != "test-suite test@example.com" {
		t.Errorf("user_agent = %q", cfg.SEC.UserAgent)
	}
	if cfg.Download.OutputDir != "out" {
		t.Errorf("output_dir = %q", cfg.Download.OutputDir)
	}
	if cfg.Download.MaxReportsPerCompany != 2 {
		t.Errorf("max_reports_per_company = %d", cfg.Download.MaxReportsPerCompany)
	}
	// Untouched keys keep defaults.
	if cfg.SEC.APIURL != "https://data.sec.gov" {
		t.Errorf("api_url lost default: %q", cfg.SEC.APIURL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SEC_USER_AGENT", "env-agent env@example.com")
	t.Setenv("SECDL_OUTPUT_DIR", "env-out")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SEC.UserAgent != "env-agent env@example.com" {
		t.Errorf("env user_agent not applied: %q", cfg.SEC.UserAgent)
	}
	if cfg.Download.OutputDir != "env-out" {
		t.Errorf("env output_dir not applied: %q", cfg.Download.OutputDir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"empty user agent", func(c *Config) { c.SEC.UserAgent = " " }, false},
		{"zero max reports", func(c *Config) { c.Download.MaxReportsPerCompany = 0 }, false},
		{"no form types", func(c *Config) { c.Download.FormTypes = nil }, false},
		{"negative years back", func(c *Config) { c.Download.YearsBack = -1 }, false},
		{"bad format", func(c *Config) { c.Conversion.OutputFormat = "docx" }, false},
		{"markdown format", func(c *Config) { c.Conversion.OutputFormat = "markdown" }, true},
	}

	for _, tc := range tests {
		cfg := Defaults()
		tc.mutate(cfg)
		err := cfg.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestInitAndShowRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.yaml")

	if err := Init(path); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := Init(path); err == nil {
		t.Fatal("second Init should refuse to overwrite")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	dump, err := cfg.Dump()
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	for _, want := range []string{"base_url:", "output_dir:", "form_types:", "output_format: pdf"} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump missing %q:\n%s", want, dump)
		}
	}
}
