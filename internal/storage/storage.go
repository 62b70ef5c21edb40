package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no watermark is on record for a wiki.
var ErrNotFound = errors.New("watermark not found")

// Watermark is the pair of highest-seen feed identifiers for one wiki.
// The recent-change counter and the log counter advance independently,
// so both are tracked.
type Watermark struct {
	ChangeID int64 `json:"change_id" bson:"change_id"`
	LogID    int64 `json:"log_id" bson:"log_id"`
}

// None is the watermark used when nothing is on record. Both counters sit
// below any real identifier, so every observed change is considered new.
func None() Watermark {
	return Watermark{ChangeID: -1, LogID: -1}
}

// WatermarkStore persists watermarks keyed by wiki host.
//
// Load returns ErrNotFound when the wiki has no watermark on record.
type WatermarkStore interface {
	Load(ctx context.Context, wiki string) (Watermark, error)
	Store(ctx context.Context, wiki string, mark Watermark) error
	Close(ctx context.Context) error
}
