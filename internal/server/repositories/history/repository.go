package history

import (
	"context"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/server/models"
)

type Repository interface {
	// Add stores blobs for userID. An id that already exists for the user is
	// an idempotent no-op so partial-batch uploads are safely retried.
	Add(ctx context.Context, userID string, blobs []*models.HistoryBlob) error

	// Count returns the total blob count for the user.
	Count(ctx context.Context, userID string) (int64, error)

	// Since returns blobs ingested strictly after syncTs whose (timestamp, id)
	// is strictly after the (historyTs, historyId) keyset cursor, excluding
	// those uploaded by excludeHost (pass "" to exclude none), ordered
	// ascending by (timestamp, id) and capped at limit.
	Since(ctx context.Context, userID string, syncTs, historyTs time.Time, historyId, excludeHost string, limit int) ([]*models.HistoryBlob, error)
}
