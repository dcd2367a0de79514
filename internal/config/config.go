// Package config loads the noaaclock YAML configuration and applies .env and
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/location"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is read when no path is given and NOAACLOCK_CONFIG is unset
	DefaultConfigFile = "noaaclock.yaml"

	// DefaultRefreshInterval is how often the engine rebuilds its table
	DefaultRefreshInterval = 5 * time.Second

	// InlineProviderName names the provider built from the locations list
	InlineProviderName = "config"

	EnvConfig   = "NOAACLOCK_CONFIG"
	EnvLocation = "NOAACLOCK_LOCATION"
	EnvDataset  = "NOAACLOCK_DATASET"
	EnvLogFile  = "NOAACLOCK_LOG_FILE"
)

// Config is the complete noaaclock configuration
type Config struct {
	Location        string         `yaml:"location,omitempty"`
	HomeTimezone    *float64       `yaml:"home-timezone,omitempty"`
	Coordinates     *Coordinates   `yaml:"coordinates,omitempty"`
	Dataset         string         `yaml:"dataset,omitempty"`
	LocationDB      string         `yaml:"location-db,omitempty"`
	Locations       []LocationYAML `yaml:"locations,omitempty"`
	RefreshInterval time.Duration  `yaml:"refresh-interval,omitempty"`
	HTTP            HTTPConfig     `yaml:"http,omitempty"`
	LogFile         string         `yaml:"log-file,omitempty"`
	Debug           bool           `yaml:"debug,omitempty"`
}

// Coordinates selects a location by position instead of by name. The timezone
// must already include any daylight saving; no rule is applied.
type Coordinates struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  float64 `yaml:"timezone"`
}

// LocationYAML is one entry of the inline locations list
type LocationYAML struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  float64 `yaml:"timezone"`
	DST       string  `yaml:"dst,omitempty"`
}

// HTTPConfig configures the HTTP renderer. An empty listen address disables it.
type HTTPConfig struct {
	ListenAddr string `yaml:"listen-addr,omitempty"`
}

// Load reads the configuration file at path. With an empty path the file named
// by NOAACLOCK_CONFIG is used, falling back to DefaultConfigFile, which may be
// absent. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvConfig)
		explicit = path != ""
	}
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLocation); v != "" {
		c.Location = v
	}
	if v := os.Getenv(EnvDataset); v != "" {
		c.Dataset = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

func (c *Config) applyDefaults() {
	if c.Dataset == "" {
		c.Dataset = location.DefaultDatasetFile
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	if c.RefreshInterval < 0 {
		return fmt.Errorf("refresh-interval must be positive, got %v", c.RefreshInterval)
	}
	if c.HomeTimezone != nil && (*c.HomeTimezone < -14 || *c.HomeTimezone > 14) {
		return fmt.Errorf("home-timezone %v outside [-14, 14]", *c.HomeTimezone)
	}
	if c.Coordinates != nil {
		if _, err := c.Coordinates.Location(); err != nil {
			return fmt.Errorf("coordinates: %w", err)
		}
	}
	for i, l := range c.Locations {
		if _, err := l.Location(); err != nil {
			return fmt.Errorf("locations[%d]: %w", i, err)
		}
	}
	return nil
}

// Location returns the explicit position as a location without daylight saving
func (c Coordinates) Location() (location.Location, error) {
	name := fmt.Sprintf("%g,%g", c.Latitude, c.Longitude)
	return location.New(name, c.Latitude, c.Longitude, c.Timezone, dst.None)
}

// Location converts the YAML entry
func (l LocationYAML) Location() (location.Location, error) {
	return location.New(l.Name, l.Latitude, l.Longitude, l.Timezone, dst.ParseRule(l.DST))
}

// InlineProvider returns the locations list as a provider
func (c *Config) InlineProvider() *location.StaticProvider {
	p := location.NewStaticProvider(InlineProviderName)
	for _, l := range c.Locations {
		loc, err := l.Location()
		if err != nil {
			continue
		}
		p.Add(loc)
	}
	return p
}
