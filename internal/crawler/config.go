package crawler

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config captures every configuration knob that influences a crawl run.
// All values originate from Viper so the crawler can be configured via files,
// env vars, or CLI flags.
type Config struct {
	UserAgent      string
	OutputDir      string
	MaxConcurrency int
	MaxDepth       int
	Workers        int
	RequestTimeout time.Duration
}

// LoadConfig constructs a Config by reading from Viper.
func LoadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		UserAgent:      v.GetString("crawler.user_agent"),
		OutputDir:      v.GetString("crawler.output_dir"),
		MaxConcurrency: v.GetInt("crawler.max_concurrency"),
		MaxDepth:       v.GetInt("crawler.max_depth"),
		Workers:        v.GetInt("crawler.workers"),
		RequestTimeout: v.GetDuration("crawler.request_timeout"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("crawler.output_dir must be set")
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("crawler.max_concurrency must be >= 1")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0")
	}
	if c.Workers < 1 {
		return fmt.Errorf("crawler.workers must be >= 1")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	return nil
}

// Params derives the per-call crawl parameters from the loaded configuration.
func (c Config) Params() Params {
	return Params{
		OutputDir:      c.OutputDir,
		MaxConcurrency: c.MaxConcurrency,
		MaxDepth:       c.MaxDepth,
		Workers:        c.Workers,
	}
}
