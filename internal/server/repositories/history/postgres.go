// Package history provides the PostgreSQL-backed repository for server-side
// encrypted blob persistence and sync queries. Ciphertext and nonce are
// stored and served verbatim; the server has no key and nothing here
// inspects them.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/dbx"
	"github.com/dmitrijs2005/histkeeper/internal/server/models"
)

// PostgresRepository implements blob storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add inserts the batch, treating duplicates as no-ops. When the repository
// is bound to a full *sql.DB the whole batch goes into one transaction, so a
// failed upload never leaves half a batch behind.
func (r *PostgresRepository) Add(ctx context.Context, userID string, blobs []*models.HistoryBlob) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return addAll(ctx, tx, userID, blobs)
		})
	}
	return addAll(ctx, r.db, userID, blobs)
}

func addAll(ctx context.Context, db dbx.DBTX, userID string, blobs []*models.HistoryBlob) error {
	query := `
		INSERT INTO history (user_id, id, timestamp, hostname, ciphertext, nonce)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, id) DO NOTHING
	`
	for _, b := range blobs {
		_, err := db.ExecContext(ctx, query,
			userID, b.Id, b.Timestamp, b.Hostname, b.Ciphertext, b.Nonce)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT count(1) FROM history WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// Since pages the user's blobs for a sync run. syncTs bounds ingestion from
// below so late uploads are never lost to a cursor that already moved past
// their record timestamp; (historyTs, historyId) is a keyset cursor, which
// keeps pagination exact when many blobs share one timestamp.
func (r *PostgresRepository) Since(ctx context.Context, userID string, syncTs, historyTs time.Time, historyId, excludeHost string, limit int) ([]*models.HistoryBlob, error) {
	query := `
		SELECT user_id, id, timestamp, hostname, ciphertext, nonce, created_at
		FROM history
		WHERE user_id = $1
		  AND created_at > $2
		  AND (timestamp, id) > ($3::timestamptz, $4::text)
		  AND hostname != $5
		ORDER BY timestamp ASC, id ASC
		LIMIT $6
	`
	rows, err := r.db.QueryContext(ctx, query, userID, syncTs, historyTs, historyId, excludeHost, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryBlob
	for rows.Next() {
		var item models.HistoryBlob
		if err := rows.Scan(
			&item.UserID, &item.Id, &item.Timestamp, &item.Hostname,
			&item.Ciphertext, &item.Nonce, &item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
