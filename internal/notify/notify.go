// Package notify publishes finished reports to a NATS subject so other
// tooling (review queues, chat bridges) can pick them up. Disabled by
// default; the report always goes to stdout regardless.
package notify

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// Config holds settings for report publishing.
type Config struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// DefaultConfig returns the default notify configuration.
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		URL:     nats.DefaultURL,
		Subject: "wikipatrol.reports",
	}
}

// ApplyDefaults fills in missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = nats.DefaultURL
	}
	if c.Subject == "" {
		c.Subject = "wikipatrol.reports"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("notify.url is required when notify is enabled")
	}
	if c.Subject == "" {
		return fmt.Errorf("notify.subject is required when notify is enabled")
	}
	return nil
}

// Notifier delivers one report per run.
type Notifier interface {
	Publish(ctx context.Context, wiki, report string) error
	Close()
}

// New returns a NATS-backed notifier, or a no-op one when disabled.
func New(cfg Config) (Notifier, error) {
	if !cfg.Enabled {
		return noopNotifier{}, nil
	}
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", cfg.URL, err)
	}
	return &natsNotifier{nc: nc, subject: cfg.Subject}, nil
}

type natsNotifier struct {
	nc      *nats.Conn
	subject string
}

// Publish sends the report on <subject>.<wiki host>, e.g.
// wikipatrol.reports.en.wikipedia.org.
func (n *natsNotifier) Publish(ctx context.Context, wiki, report string) error {
	subject := n.subject + "." + wiki
	if err := n.nc.Publish(subject, []byte(report)); err != nil {
		return fmt.Errorf("publishing report to %s: %w", subject, err)
	}
	if err := n.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flushing report to %s: %w", subject, err)
	}
	return nil
}

func (n *natsNotifier) Close() {
	n.nc.Close()
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, string, string) error { return nil }
func (noopNotifier) Close()                                        {}
