package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/client/models"
	"github.com/dmitrijs2005/histkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Timestamps are stored as integer unix nanoseconds, durations as integer
// nanoseconds.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, timestamp, hostname, command, cwd, exit_code, duration, session, synced`

func scanRecord(scan func(dest ...any) error) (*models.HistoryRecord, error) {
	var r models.HistoryRecord
	var ts, duration int64
	if err := scan(&r.Id, &ts, &r.Hostname, &r.Command, &r.Cwd, &r.ExitCode, &duration, &r.Session, &r.Synced); err != nil {
		return nil, err
	}
	r.Timestamp = time.Unix(0, ts).UTC()
	r.Duration = time.Duration(duration)
	return &r, nil
}

func (r *SQLiteRepository) queryRecords(ctx context.Context, query string, args ...any) ([]*models.HistoryRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select history: %w", err)
	}
	defer rows.Close()

	var result []*models.HistoryRecord
	for rows.Next() {
		item, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// InsertIfAbsent inserts the record, treating an existing id as a no-op.
// Re-downloading an already-stored record must never fail or duplicate.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, rec *models.HistoryRecord) (bool, error) {
	query := `INSERT INTO history (id, timestamp, hostname, command, cwd, exit_code, duration, session, synced)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		rec.Id, rec.Timestamp.UnixNano(), rec.Hostname, rec.Command, rec.Cwd,
		rec.ExitCode, int64(rec.Duration), rec.Session, rec.Synced)
	if err != nil {
		return false, fmt.Errorf("failed to insert history record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n == 1, nil
}

func (r *SQLiteRepository) RecordsSince(ctx context.Context, ts time.Time, excludeHost string) ([]*models.HistoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM history WHERE timestamp > ?`
	args := []any{ts.UnixNano()}
	if excludeHost != "" {
		query += ` AND hostname != ?`
		args = append(args, excludeHost)
	}
	query += ` ORDER BY timestamp ASC`
	return r.queryRecords(ctx, query, args...)
}

func (r *SQLiteRepository) Unsynced(ctx context.Context, host string) ([]*models.HistoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM history WHERE synced = 0 AND hostname = ? ORDER BY timestamp ASC`
	return r.queryRecords(ctx, query, host)
}

// MarkSynced flags ids as acknowledged. Unknown ids are ignored: marking is
// retried together with uploads, which are themselves idempotent.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `UPDATE history SET synced = 1 WHERE id IN (` + placeholders + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to mark records synced: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ResetSynced(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE history SET synced = 0`); err != nil {
		return fmt.Errorf("failed to reset synced flags: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(1) FROM history`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) CountSynced(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(1) FROM history WHERE synced = 1`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count synced history: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) MaxTimestamp(ctx context.Context) (time.Time, error) {
	var ts sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT max(timestamp) FROM history`).Scan(&ts)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("failed to get max timestamp: %w", err)
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Unix(0, ts.Int64).UTC(), nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.HistoryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM history ORDER BY timestamp DESC LIMIT ?`
	return r.queryRecords(ctx, query, limit)
}
