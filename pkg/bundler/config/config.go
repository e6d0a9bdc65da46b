package config

import (
	"fmt"
)

const (
	// DefaultVersion is reported when no build version was injected.
	DefaultVersion = "dev"

	// DefaultJobs copies one reference at a time.
	DefaultJobs = 1
)

// Config holds bundler settings. It is immutable after NewConfig returns.
type Config struct {
	force          bool
	joshuaHome     string
	decoderOptions string
	jobs           int
	maxCopyRate    int64
	literalPrefix  bool
	checksums      bool
	manifest       bool
	version        string
}

// Option configures a Config.
type Option func(*Config)

// NewConfig returns a Config with defaults applied, then opts.
func NewConfig(opts ...Option) *Config {
	c := &Config{
		jobs:    DefaultJobs,
		version: DefaultVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithForce allows an existing destination directory to be replaced.
func WithForce(force bool) Option {
	return func(c *Config) {
		c.force = force
	}
}

// WithJoshuaHome sets the decoder installation root embedded in the launcher.
func WithJoshuaHome(home string) Option {
	return func(c *Config) {
		c.joshuaHome = home
	}
}

// WithDecoderOptions sets extra decoder options appended to the launcher command.
func WithDecoderOptions(opts string) Option {
	return func(c *Config) {
		c.decoderOptions = opts
	}
}

// WithJobs sets how many references may be copied concurrently.
func WithJobs(jobs int) Option {
	return func(c *Config) {
		c.jobs = jobs
	}
}

// WithMaxCopyRate caps copy throughput in bytes per second. Zero means unlimited.
func WithMaxCopyRate(bytesPerSecond int64) Option {
	return func(c *Config) {
		c.maxCopyRate = bytesPerSecond
	}
}

// WithLiteralPrefix treats any path that starts with the origin directory
// string as already resolved, instead of checking path containment.
func WithLiteralPrefix(literal bool) Option {
	return func(c *Config) {
		c.literalPrefix = literal
	}
}

// WithChecksums enables checksums.txt generation.
func WithChecksums(enabled bool) Option {
	return func(c *Config) {
		c.checksums = enabled
	}
}

// WithManifest enables bundle.yaml generation.
func WithManifest(enabled bool) Option {
	return func(c *Config) {
		c.manifest = enabled
	}
}

// WithVersion sets the tool version recorded in generated files.
func WithVersion(version string) Option {
	return func(c *Config) {
		if version != "" {
			c.version = version
		}
	}
}

// Force returns whether an existing destination may be replaced.
func (c *Config) Force() bool { return c.force }

// JoshuaHome returns the decoder installation root, possibly empty.
func (c *Config) JoshuaHome() string { return c.joshuaHome }

// DecoderOptions returns the extra decoder options.
func (c *Config) DecoderOptions() string { return c.decoderOptions }

// Jobs returns the copy concurrency.
func (c *Config) Jobs() int { return c.jobs }

// MaxCopyRate returns the copy throughput cap in bytes per second.
func (c *Config) MaxCopyRate() int64 { return c.maxCopyRate }

// LiteralPrefix returns whether origin containment uses a string prefix match.
func (c *Config) LiteralPrefix() bool { return c.literalPrefix }

// IncludeChecksums returns whether checksums.txt is generated.
func (c *Config) IncludeChecksums() bool { return c.checksums }

// IncludeManifest returns whether bundle.yaml is generated.
func (c *Config) IncludeManifest() bool { return c.manifest }

// Version returns the tool version.
func (c *Config) Version() string { return c.version }

// Validate checks the configuration for out of range values.
func (c *Config) Validate() error {
	if c.jobs < 1 {
		return fmt.Errorf("invalid jobs: %d (must be at least 1)", c.jobs)
	}
	if c.maxCopyRate < 0 {
		return fmt.Errorf("invalid max copy rate: %d (must not be negative)", c.maxCopyRate)
	}
	return nil
}
