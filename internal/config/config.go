package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"wikipatrol/internal/monitor"
	"wikipatrol/internal/notify"
	"wikipatrol/internal/storage"
	"wikipatrol/internal/wiki"
)

// Config holds the application configuration.
type Config struct {
	Wiki    wiki.Config    `yaml:"wiki"`
	Monitor MonitorConfig  `yaml:"monitor"`
	Rules   monitor.Policy `yaml:"rules"`
	Storage storage.Config `yaml:"storage"`
	Notify  notify.Config  `yaml:"notify"`
	Logging LoggingConfig  `yaml:"logging"`
}

// MonitorConfig holds pipeline scheduling settings.
type MonitorConfig struct {
	// Interval between runs. Zero means run once and exit.
	Interval time.Duration `yaml:"interval"`

	// FetchWorkers bounds concurrent content-pair fetches.
	FetchWorkers int `yaml:"fetch_workers"`
}

// DefaultMonitorConfig returns default scheduling settings.
func DefaultMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Interval:     0,
		FetchWorkers: 4,
	}
}

// ApplyDefaults fills in missing values with defaults.
func (c *MonitorConfig) ApplyDefaults() {
	if c.FetchWorkers == 0 {
		c.FetchWorkers = 4
	}
}

// Validate validates the configuration.
func (c *MonitorConfig) Validate() error {
	if c.Interval < 0 {
		return fmt.Errorf("monitor.interval must not be negative")
	}
	if c.FetchWorkers < 1 {
		return fmt.Errorf("monitor.fetch_workers must be positive, got %d", c.FetchWorkers)
	}
	return nil
}

// Load loads configuration in the order: defaults -> file -> validate.
// A missing file is fine; the defaults then apply as-is (though wiki.api_url
// has no default and will fail validation).
func Load(path string) (*Config, error) {
	return load(path, "")
}

// LoadWithAPIURL loads like Load but forces the wiki endpoint, so the
// binary can run from the command line without a config file.
func LoadWithAPIURL(path, apiURL string) (*Config, error) {
	return load(path, apiURL)
}

func load(path, apiURL string) (*Config, error) {
	cfg := &Config{
		Wiki:    wiki.DefaultConfig(),
		Monitor: DefaultMonitorConfig(),
		Rules:   monitor.DefaultPolicy(),
		Storage: storage.DefaultConfig(),
		Notify:  notify.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if apiURL != "" {
		cfg.Wiki.APIURL = apiURL
	}

	cfg.Wiki.ApplyDefaults()
	cfg.Monitor.ApplyDefaults()
	cfg.Storage.ApplyDefaults()
	cfg.Notify.ApplyDefaults()
	cfg.Logging.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Wiki.Validate(); err != nil {
		return err
	}
	if err := c.Monitor.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Notify.Validate(); err != nil {
		return err
	}
	return c.Logging.Validate()
}
