package wiki

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds settings for the MediaWiki API client.
type Config struct {
	// APIURL is the full URL of the target wiki's api.php endpoint.
	APIURL string `yaml:"api_url"`

	// UserAgent identifies this tool; wiki farms require a real one.
	UserAgent string `yaml:"user_agent"`

	// Limit is the recent-changes batch size (MediaWiki caps at 500).
	Limit int `yaml:"limit"`

	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent: "wikipatrol (+https://github.com/wikipatrol/wikipatrol)",
		Limit:     100,
		Timeout:   30 * time.Second,
	}
}

// ApplyDefaults fills in missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = "wikipatrol (+https://github.com/wikipatrol/wikipatrol)"
	}
	if c.Limit == 0 {
		c.Limit = 100
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("wiki.api_url is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("wiki.api_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("wiki.api_url must be http(s), got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("wiki.api_url has no host: %q", c.APIURL)
	}
	if c.Limit < 1 || c.Limit > 500 {
		return fmt.Errorf("wiki.limit must be between 1 and 500, got %d", c.Limit)
	}
	return nil
}

// Host returns the wiki's host name, used to key persisted state.
func (c Config) Host() (string, error) {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return "", fmt.Errorf("parsing wiki.api_url: %w", err)
	}
	return u.Host, nil
}
