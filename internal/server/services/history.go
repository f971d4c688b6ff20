package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/api"
	"github.com/dmitrijs2005/histkeeper/internal/server/models"
	"github.com/dmitrijs2005/histkeeper/internal/server/repositories/history"
)

// HistoryService relays encrypted blobs between the transport layer and
// storage. Every operation is scoped by the user id established by the auth
// middleware; cross-user access is impossible by construction because the id
// is part of every storage key.
type HistoryService struct {
	repo     history.Repository
	pageSize int
}

func NewHistoryService(repo history.Repository, pageSize int) *HistoryService {
	return &HistoryService{repo: repo, pageSize: pageSize}
}

// PageSize returns the maximum number of blobs one sync-history response
// carries. Clients detect exhaustion by receiving a shorter page.
func (s *HistoryService) PageSize() int {
	return s.pageSize
}

// Add stores uploaded blobs; duplicates by id are idempotent no-ops.
func (s *HistoryService) Add(ctx context.Context, userID string, blobs []api.HistoryBlob) error {
	rows := make([]*models.HistoryBlob, 0, len(blobs))
	for i := range blobs {
		b := &blobs[i]
		rows = append(rows, &models.HistoryBlob{
			UserID:     userID,
			Id:         b.Id,
			Timestamp:  b.Timestamp,
			Hostname:   b.Hostname,
			Ciphertext: b.Ciphertext,
			Nonce:      b.Nonce,
		})
	}
	return s.repo.Add(ctx, userID, rows)
}

func (s *HistoryService) Count(ctx context.Context, userID string) (int64, error) {
	return s.repo.Count(ctx, userID)
}

// Sync returns one page of blobs for the user: ingested strictly after
// syncTs, with (timestamp, id) strictly after the (historyTs, historyId)
// cursor, excluding excludeHost, ascending by (timestamp, id).
func (s *HistoryService) Sync(ctx context.Context, userID string, syncTs, historyTs time.Time, historyId, excludeHost string) ([]api.HistoryBlob, error) {
	rows, err := s.repo.Since(ctx, userID, syncTs, historyTs, historyId, excludeHost, s.pageSize)
	if err != nil {
		return nil, err
	}

	blobs := make([]api.HistoryBlob, 0, len(rows))
	for _, row := range rows {
		blobs = append(blobs, api.HistoryBlob{
			Id:         row.Id,
			Timestamp:  row.Timestamp,
			Hostname:   row.Hostname,
			Ciphertext: row.Ciphertext,
			Nonce:      row.Nonce,
		})
	}
	return blobs, nil
}
