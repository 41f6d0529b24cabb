package config

import (
	"errors"
	"fmt"
	"strings"

	"reprise/internal/invocation"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLastfm(); err != nil {
		return err
	}
	if err := c.validateThrottle(); err != nil {
		return err
	}
	if err := c.validateRefresh(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLastfm() error {
	if c.Lastfm.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reprise/config.toml"
		}
		return fmt.Errorf("lastfm.api_key is required. Set LASTFM_API_KEY env var or edit %s (create with 'reprise config init')", defaultPath)
	}
	if !strings.HasPrefix(c.Lastfm.BaseURL, "http://") && !strings.HasPrefix(c.Lastfm.BaseURL, "https://") {
		return fmt.Errorf("lastfm.base_url must be an http(s) URL, got %q", c.Lastfm.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"lastfm.call_attempts":           c.Lastfm.CallAttempts,
		"lastfm.request_timeout_seconds": c.Lastfm.RequestTimeoutSeconds,
	}); err != nil {
		return err
	}
	if c.Lastfm.RetryDelaySeconds < 0 {
		return errors.New("lastfm.retry_delay_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateThrottle() error {
	return ensurePositiveMap(map[string]int{
		"throttle.max_calls":      c.Throttle.MaxCalls,
		"throttle.window_seconds": c.Throttle.WindowSeconds,
	})
}

func (c *Config) validateRefresh() error {
	if err := ensurePositiveMap(map[string]int{
		"refresh.interval_seconds": c.Refresh.IntervalSeconds,
		"refresh.workers":          c.Refresh.Workers,
	}); err != nil {
		return err
	}
	if c.Refresh.ChartPages < 0 {
		return errors.New("refresh.chart_pages must be >= 0")
	}
	for _, job := range c.Refresh.Jobs {
		if _, ok := invocation.ParseCallType(job); !ok {
			return fmt.Errorf("refresh.jobs: unknown call type %q", job)
		}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
