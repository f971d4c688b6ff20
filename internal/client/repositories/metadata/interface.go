// Package metadata stores small key/value items the client needs across
// runs: username, session token, and the sync checkpoint.
package metadata

import (
	"context"
	"time"
)

// Well-known metadata keys.
const (
	KeyUsername   = "username"
	KeySession    = "session"
	KeyCheckpoint = "last_sync_timestamp"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error

	// GetCheckpoint returns the download cursor: the start instant of the
	// last fully completed sync run, bounding server ingestion from below.
	// The epoch is returned if no sync has completed yet.
	GetCheckpoint(ctx context.Context) (time.Time, error)

	// SetCheckpoint persists the download cursor. Outside of a forced full
	// sync the cursor only ever moves forward.
	SetCheckpoint(ctx context.Context, ts time.Time) error
}
