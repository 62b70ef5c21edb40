package storage

import (
	"context"
	"fmt"
)

// NewStore creates the watermark store selected by the configuration.
func NewStore(ctx context.Context, cfg Config) (WatermarkStore, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.File)
	case "mongodb":
		return NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
