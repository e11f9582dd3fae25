// Package config handles objkit.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/tliron/commonlog"

	"github.com/chazu/objkit/rt"
)

// FileName is the configuration file looked up by Load and FindAndLoad.
const FileName = "objkit.toml"

// FormatVersion is the configuration format this build writes.
const FormatVersion = "1.0.0"

// SupportedFormats is the range of configuration formats this build reads.
const SupportedFormats = ">= 1.0, < 2.0"

// Config represents an objkit.toml file.
type Config struct {
	Version string        `toml:"version"`
	Runtime RuntimeConfig `toml:"runtime"`
	Log     LogConfig     `toml:"log"`
	Monitor MonitorConfig `toml:"monitor"`

	// Path is the file the configuration was loaded from, empty for Default.
	Path string `toml:"-"`
}

// RuntimeConfig configures the object runtime.
type RuntimeConfig struct {
	StrictAffinity *bool `toml:"strict-affinity"`
	PoolCapacity   int   `toml:"pool-capacity"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// MonitorConfig configures the live-instance monitor.
type MonitorConfig struct {
	Enabled  bool   `toml:"enabled"`
	Interval string `toml:"interval"`
}

// Default returns the configuration used when no objkit.toml exists.
func Default() *Config {
	strict := true
	return &Config{
		Version: FormatVersion,
		Runtime: RuntimeConfig{
			StrictAffinity: &strict,
			PoolCapacity:   rt.DefaultPoolCapacity,
		},
		Monitor: MonitorConfig{
			Interval: rt.DefaultMonitorInterval.String(),
		},
	}
}

// Load parses objkit.toml from the given directory. Missing settings take
// their default values.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile parses the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if _, err := toml.Decode(string(data), c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Path, err = filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FindAndLoad walks up from startDir to find an objkit.toml file, then
// loads it. It returns Default() if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks the format version and every setting.
func (c *Config) Validate() error {
	if err := CheckFormat(c.Version); err != nil {
		return err
	}
	if c.Runtime.PoolCapacity < 0 {
		return fmt.Errorf("runtime.pool-capacity must not be negative, got %d", c.Runtime.PoolCapacity)
	}
	if c.Log.Verbosity < -4 || c.Log.Verbosity > 2 {
		return fmt.Errorf("log.verbosity must be between -4 and 2, got %d", c.Log.Verbosity)
	}
	if _, err := c.MonitorInterval(); err != nil {
		return err
	}
	return nil
}

// CheckFormat reports whether version is a format this build can read.
func CheckFormat(version string) error {
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid format version %q: %w", version, err)
	}
	supported, err := semver.NewConstraint(SupportedFormats)
	if err != nil {
		return err
	}
	if !supported.Check(v) {
		return fmt.Errorf("format version %s not supported (want %s)", v, SupportedFormats)
	}
	return nil
}

// MonitorInterval returns the parsed monitor interval.
func (c *Config) MonitorInterval() (time.Duration, error) {
	if c.Monitor.Interval == "" {
		return rt.DefaultMonitorInterval, nil
	}
	d, err := time.ParseDuration(c.Monitor.Interval)
	if err != nil {
		return 0, fmt.Errorf("monitor.interval: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("monitor.interval must be positive, got %s", d)
	}
	return d, nil
}

// StrictAffinity returns the effective strict-affinity setting.
func (c *Config) StrictAffinity() bool {
	return c.Runtime.StrictAffinity == nil || *c.Runtime.StrictAffinity
}

// Apply configures logging and the runtime. If the monitor is enabled it
// returns a started Monitor that the caller must stop.
func (c *Config) Apply() (*rt.Monitor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var logPath *string
	if c.Log.File != "" {
		logPath = &c.Log.File
	}
	commonlog.Configure(c.Log.Verbosity, logPath)

	rt.SetStrictAffinity(c.StrictAffinity())
	rt.SetPoolCapacity(c.Runtime.PoolCapacity)

	if !c.Monitor.Enabled {
		return nil, nil
	}
	interval, _ := c.MonitorInterval()
	m := rt.NewMonitor(nil, interval)
	m.Start()
	return m, nil
}
