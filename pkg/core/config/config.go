package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPath is where Init writes and Load looks when no path is given.
const DefaultPath = "config/config.yaml"

// Config holds every tunable of the tool. Zero values are filled from
// Defaults, then an optional YAML file, then environment overrides.
type Config struct {
	SEC        SECConfig        `yaml:"sec"`
	Download   DownloadConfig   `yaml:"download"`
	Conversion ConversionConfig `yaml:"conversion"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SECConfig describes the EDGAR endpoints and request policy.
type SECConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIURL         string `yaml:"api_url"`
	EdgarURL       string `yaml:"edgar_url"`
	UserAgent      string `yaml:"user_agent"`
	RateLimitDelay string `yaml:"rate_limit_delay"`
}

// RequestDelay parses rate_limit_delay, accepting either a Go duration
// ("250ms") or bare seconds ("0.1"). Unparseable values fall back to the
// default delay.
func (c SECConfig) RequestDelay() time.Duration {
	s := strings.TrimSpace(c.RateLimitDelay)
	if s == "" {
		return 100 * time.Millisecond
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return 100 * time.Millisecond
}

// DownloadConfig controls what is fetched and where it lands.
type DownloadConfig struct {
	OutputDir            string   `yaml:"output_dir"`
	FormTypes            []string `yaml:"form_types"`
	MaxReportsPerCompany int      `yaml:"max_reports_per_company"`
	YearsBack            int      `yaml:"years_back"`
}

// ConversionConfig controls the rendered outputs.
type ConversionConfig struct {
	// OutputFormat is one of "pdf", "html" or "markdown". "pdf" also keeps
	// the intermediate HTML next to it.
	OutputFormat       string `yaml:"output_format"`
	IncludeAttachments bool   `yaml:"include_attachments"`
}

// LoggingConfig selects log verbosity and an optional file sink.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		SEC: SECConfig{
			BaseURL:        "https://www.sec.gov",
			APIURL:         "https://data.sec.gov",
			EdgarURL:       "https://www.sec.gov/Archives/edgar",
			UserAgent:      "secdl/1.0 (admin@example.com)",
			RateLimitDelay: "100ms",
		},
		Download: DownloadConfig{
			OutputDir:            "data/reports",
			FormTypes:            []string{"10-K"},
			MaxReportsPerCompany: 5,
			YearsBack:            5,
		},
		Conversion: ConversionConfig{
			OutputFormat:       "pdf",
			IncludeAttachments: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// Load builds the effective configuration: defaults, overlaid with the YAML
// file at path (optional unless explicitly given), overlaid with environment
// variables. An empty path checks SECDL_CONFIG and then DefaultPath; a
// missing file is only an error when the caller named it.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	explicit := path != ""
	if path == "" {
		path = os.Getenv("SECDL_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No file, run on defaults.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SEC_USER_AGENT"); v != "" {
		c.SEC.UserAgent = v
	}
	if v := os.Getenv("SECDL_OUTPUT_DIR"); v != "" {
		c.Download.OutputDir = v
	}
	if v := os.Getenv("SECDL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SEC.UserAgent) == "" {
		return fmt.Errorf("config: sec.user_agent must not be empty (SEC requires a contact identity)")
	}
	if len(c.Download.FormTypes) == 0 {
		return fmt.Errorf("config: download.form_types must list at least one form")
	}
	if c.Download.MaxReportsPerCompany < 1 {
		return fmt.Errorf("config: download.max_reports_per_company must be >= 1, got %d", c.Download.MaxReportsPerCompany)
	}
	if c.Download.YearsBack < 0 {
		return fmt.Errorf("config: download.years_back must be >= 0, got %d", c.Download.YearsBack)
	}
	switch strings.ToLower(c.Conversion.OutputFormat) {
	case "pdf", "html", "markdown":
	default:
		return fmt.Errorf("config: conversion.output_format %q not one of pdf, html, markdown", c.Conversion.OutputFormat)
	}
	return nil
}

// Dump renders the configuration as YAML, as used by `config --show`.
func (c *Config) Dump() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(out), nil
}

// Init writes the default configuration to path, creating parent directories.
// Refuses to clobber an existing file.
func Init(path string) error {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}
	out, err := Defaults().Dump()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
