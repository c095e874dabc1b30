// Package config loads gacor settings from a YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/gacor/internal/logger"
	"github.com/pfrederiksen/gacor/internal/scraper"
)

// Config holds application configuration.
type Config struct {
	Addr         string        `yaml:"addr"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`
	Parser       string        `yaml:"parser"`
	LogLevel     string        `yaml:"log_level"`
	Tracing      Tracing       `yaml:"tracing"`
	Scrape       Scrape        `yaml:"scrape"`
}

// Tracing configures the OTLP exporter. An empty endpoint disables tracing.
type Tracing struct {
	Endpoint string `yaml:"endpoint"`
}

// Scrape configures the multi-provider CLI scrape.
type Scrape struct {
	Concurrency int     `yaml:"concurrency"`
	Rate        float64 `yaml:"rate"` // requests per second, 0 = unlimited
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Addr:         ":8080",
		FetchTimeout: scraper.DefaultTimeout,
		UserAgent:    scraper.UserAgent,
		Parser:       scraper.ParserPattern,
		LogLevel:     "info",
		Scrape: Scrape{
			Concurrency: 4,
			Rate:        2,
		},
	}
}

// configPaths returns the list of paths to search for a config file.
func configPaths() []string {
	paths := []string{
		".gacor.yaml",
		".gacor.yml",
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "gacor", "config.yaml"),
			filepath.Join(home, ".config", "gacor", "config.yml"),
		)
	}

	return paths
}

// Load loads configuration and validates it.
// Priority: explicit path > env GACOR_CONFIG > search paths > defaults, with
// environment overrides applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("GACOR_CONFIG")
	}

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, err
		}
	} else {
		for _, candidate := range configPaths() {
			if _, err := os.Stat(candidate); err == nil {
				if err := cfg.loadFromFile(candidate); err != nil {
					return nil, err
				}
				break
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if port := os.Getenv("PORT"); port != "" {
		c.Addr = ":" + port
	}
	if v := os.Getenv("GACOR_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing GACOR_FETCH_TIMEOUT: %w", err)
		}
		c.FetchTimeout = d
	}
	if v := os.Getenv("GACOR_PARSER"); v != "" {
		c.Parser = v
	}
	if v := os.Getenv("GACOR_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Tracing.Endpoint = v
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout)
	}
	if _, err := scraper.ExtractorFor(c.Parser); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Scrape.Concurrency < 0 {
		return fmt.Errorf("scrape.concurrency must not be negative")
	}
	if c.Scrape.Rate < 0 {
		return fmt.Errorf("scrape.rate must not be negative")
	}
	return nil
}
