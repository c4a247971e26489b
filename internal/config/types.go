package config

import (
	"fmt"
	"path/filepath"
	"time"
)

// Duration wraps time.Duration for YAML unmarshalling.
type Duration struct {
	time.Duration
	explicit bool
}

// UnmarshalText parses a textual duration, accepting empty strings.
func (d *Duration) UnmarshalText(text []byte) error {
	d.explicit = true
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = dur
	return nil
}

// MarshalText renders the duration using time.Duration formatting.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsSet reports whether the duration was explicitly provided or non-zero.
func (d Duration) IsSet() bool {
	return d.explicit || d.Duration != 0
}

const (
	defaultRefreshInterval = time.Second
	defaultNameTTL         = 60 * time.Second
	defaultAPIAddr         = "127.0.0.1:7663"
)

// Config mirrors the reap.yaml document structure.
type Config struct {
	Refresh RefreshSpec `yaml:"refresh"`
	Names   NamesSpec   `yaml:"names"`
	API     APISpec     `yaml:"api"`
}

// RefreshSpec configures the background snapshot refresher.
type RefreshSpec struct {
	Interval Duration `yaml:"interval"`
}

// NamesSpec configures friendly-name resolution.
type NamesSpec struct {
	TTL         Duration `yaml:"ttl"`
	DesktopDirs []string `yaml:"desktopDirs"`
	Docker      bool     `yaml:"docker"`
}

// APISpec configures the control API listener.
type APISpec struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if !c.Refresh.Interval.IsSet() {
		c.Refresh.Interval.Duration = defaultRefreshInterval
	}
	if !c.Names.TTL.IsSet() {
		c.Names.TTL.Duration = defaultNameTTL
	}
	if c.API.Addr == "" {
		c.API.Addr = defaultAPIAddr
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Refresh.Interval.Duration <= 0 {
		return fmt.Errorf("refresh.interval: must be positive, got %s", c.Refresh.Interval.Duration)
	}
	if c.Names.TTL.Duration <= 0 {
		return fmt.Errorf("names.ttl: must be positive, got %s", c.Names.TTL.Duration)
	}
	for i, dir := range c.Names.DesktopDirs {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("names.desktopDirs[%d]: %q is not an absolute path", i, dir)
		}
	}
	return nil
}
