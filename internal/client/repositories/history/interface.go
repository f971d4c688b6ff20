package history

import (
	"context"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/client/models"
)

// Repository is the local store contract the sync engine runs against.
// Implementations are backed by a local SQLite database. All writes the sync
// engine performs are idempotent inserts keyed by record id; history rows are
// never updated or deleted.
type Repository interface {
	// InsertIfAbsent stores the record unless a row with the same id already
	// exists. Returns true when a row was inserted.
	InsertIfAbsent(ctx context.Context, record *models.HistoryRecord) (bool, error)

	// RecordsSince returns records with timestamp strictly after ts,
	// excluding those originating from excludeHost (pass "" to exclude none),
	// ordered ascending by timestamp.
	RecordsSince(ctx context.Context, ts time.Time, excludeHost string) ([]*models.HistoryRecord, error)

	// Unsynced returns records originating from host that have not yet been
	// acknowledged by the server, ordered ascending by timestamp.
	Unsynced(ctx context.Context, host string) ([]*models.HistoryRecord, error)

	// MarkSynced flags the given ids as acknowledged by the server.
	MarkSynced(ctx context.Context, ids []string) error

	// ResetSynced clears all synced flags (forced full sync).
	ResetSynced(ctx context.Context) error

	// Count returns the total number of local records.
	Count(ctx context.Context) (int64, error)

	// CountSynced returns the number of records already acknowledged.
	CountSynced(ctx context.Context) (int64, error)

	// MaxTimestamp returns the newest record timestamp, or the zero time if
	// the store is empty.
	MaxTimestamp(ctx context.Context) (time.Time, error)

	// List returns the most recent records, newest first, capped at limit.
	List(ctx context.Context, limit int) ([]*models.HistoryRecord, error)
}
