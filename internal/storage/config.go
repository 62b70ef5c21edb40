package storage

import (
	"fmt"
	"time"
)

// Config selects and configures the watermark store backend.
type Config struct {
	// Backend type: "file" or "mongodb"
	Backend string `yaml:"backend"`

	File  FileConfig  `yaml:"file"`
	Mongo MongoConfig `yaml:"mongodb"`
}

// FileConfig holds settings for the flat-file backend.
type FileConfig struct {
	// Dir is the directory holding one watermark file per wiki host.
	Dir string `yaml:"dir"`
}

// MongoConfig holds settings for the MongoDB backend.
type MongoConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Collection     string        `yaml:"collection"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig() Config {
	return Config{
		Backend: "file",
		File: FileConfig{
			Dir: "state",
		},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "wikipatrol",
			Collection:     "watermarks",
			ConnectTimeout: 5 * time.Second,
		},
	}
}

// ApplyDefaults fills in missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.File.Dir == "" {
		c.File.Dir = "state"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "wikipatrol"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "watermarks"
	}
	if c.Mongo.ConnectTimeout == 0 {
		c.Mongo.ConnectTimeout = 5 * time.Second
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case "file":
		if c.File.Dir == "" {
			return fmt.Errorf("storage.file.dir is required")
		}
	case "mongodb":
		if c.Mongo.URI == "" {
			return fmt.Errorf("storage.mongodb.uri is required")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("storage.mongodb.database is required")
		}
	default:
		return fmt.Errorf("storage.backend must be 'file' or 'mongodb', got %q", c.Backend)
	}
	return nil
}
