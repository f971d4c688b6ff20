package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/api"
	"github.com/dmitrijs2005/histkeeper/internal/client/models"
	"github.com/dmitrijs2005/histkeeper/internal/client/remote"
	"github.com/dmitrijs2005/histkeeper/internal/client/repositories/history"
	"github.com/dmitrijs2005/histkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/histkeeper/internal/logging"
)

// SyncService reconciles the local history store with the remote encrypted
// blob store. One call to Sync is one full run through the phases
// negotiate -> upload -> download -> commit; any failure aborts the run and
// leaves both the store and the checkpoint in their last-known-good state, so
// a run is always safe to retry as a whole. The service never retries
// internally.
//
// Concurrent runs for the same host must be prevented by the caller (see
// lockfile.Acquire): interleaved checkpoint writes could regress the cursor.
type SyncService struct {
	remote   remote.API
	history  history.Repository
	metadata metadata.Repository
	logger   logging.Logger
	key      []byte
	host     string
	pageSize int

	// now is a seam for tests that pin the run start instant.
	now func() time.Time
}

func NewSyncService(r remote.API, h history.Repository, m metadata.Repository, l logging.Logger, key []byte, host string, pageSize int) *SyncService {
	return &SyncService{
		remote:   r,
		history:  h,
		metadata: m,
		logger:   l.With("module", "sync"),
		key:      key,
		host:     host,
		pageSize: pageSize,
		now:      time.Now,
	}
}

// Sync performs one sync run. With force set, the checkpoint is reset to the
// epoch and all synced flags are cleared, forcing renegotiation over the
// whole server-side history (first-time setup on a new device, or recovery
// after local store corruption). Re-uploading and re-downloading everything
// is harmless: the server and the local store are both idempotent on id.
func (s *SyncService) Sync(ctx context.Context, force bool) error {
	if force {
		if err := s.history.ResetSynced(ctx); err != nil {
			return fmt.Errorf("force reset: %w", err)
		}
		if err := s.metadata.SetCheckpoint(ctx, time.Unix(0, 0).UTC()); err != nil {
			return fmt.Errorf("force reset: %w", err)
		}
		s.logger.Info(ctx, "forced full sync, checkpoint reset")
	}

	if err := s.negotiate(ctx); err != nil {
		return fmt.Errorf("negotiate: %w", err)
	}

	if err := s.upload(ctx); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	if err := s.download(ctx); err != nil {
		return fmt.Errorf("download: %w", err)
	}

	return nil
}

// negotiate compares the server blob count with the local count of already
// synced records. The comparison is a coarse health signal only; the
// authoritative cursor is the checkpoint, so a mismatch is logged rather
// than acted upon.
func (s *SyncService) negotiate(ctx context.Context) error {
	remoteCount, err := s.remote.Count(ctx)
	if err != nil {
		return err
	}
	localSynced, err := s.history.CountSynced(ctx)
	if err != nil {
		return err
	}
	if remoteCount != localSynced {
		s.logger.Info(ctx, "store counts diverge", "remote", remoteCount, "local_synced", localSynced)
	}
	return nil
}

// upload encrypts every not-yet-acknowledged record from this host and sends
// it in batches. Records are flagged synced only after the server has
// acknowledged the batch; a failed batch leaves its flags untouched and the
// next run re-sends it (the server treats id as the idempotency key).
func (s *SyncService) upload(ctx context.Context) error {
	records, err := s.history.Unsynced(ctx, s.host)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	s.logger.Info(ctx, "uploading history", "records", len(records))

	for start := 0; start < len(records); start += s.pageSize {
		end := min(start+s.pageSize, len(records))
		batch := records[start:end]

		blobs := make([]api.HistoryBlob, 0, len(batch))
		ids := make([]string, 0, len(batch))
		for _, rec := range batch {
			blob, err := models.EncryptRecord(rec, s.key)
			if err != nil {
				return fmt.Errorf("encrypt record %s: %w", rec.Id, err)
			}
			blobs = append(blobs, *blob)
			ids = append(ids, rec.Id)
		}

		if err := s.remote.AddHistory(ctx, blobs); err != nil {
			return err
		}
		if err := s.history.MarkSynced(ctx, ids); err != nil {
			return err
		}
	}

	return nil
}

// download pulls pages of blobs the server ingested after the checkpoint,
// excluding this host, until the server returns a short page. The durable
// checkpoint lives in the server ingestion domain: a slow upload carrying an
// old record timestamp still lands after the checkpoint and is picked up by
// the next run instead of being lost behind a timestamp cursor that already
// moved past it. Within a run, pages are walked with a (timestamp, id)
// keyset cursor, so blobs sharing one timestamp never fall between pages.
//
// The checkpoint only advances after the whole run succeeded. A crash
// mid-run re-downloads the window; inserts are idempotent so that is a
// harmless no-op pass.
func (s *SyncService) download(ctx context.Context) error {
	checkpoint, err := s.metadata.GetCheckpoint(ctx)
	if err != nil {
		return err
	}

	// The next checkpoint is fixed before the first page is requested, so a
	// blob ingested while this run is paging is at worst re-downloaded by
	// the next run, never skipped.
	runStart := s.now().UTC()

	cursorTs := time.Unix(0, 0).UTC()
	cursorId := ""
	total := 0

	for {
		blobs, err := s.remote.SyncHistory(ctx, checkpoint, cursorTs, cursorId, s.host)
		if err != nil {
			return err
		}
		if len(blobs) > s.pageSize {
			return fmt.Errorf("%w: server returned %d blobs for page size %d", remote.ErrProtocol, len(blobs), s.pageSize)
		}

		for i := range blobs {
			blob := &blobs[i]

			rec, err := models.DecryptBlob(blob, s.key)
			if err != nil {
				// Likely a key mismatch affecting the whole batch; skipping
				// silently could hide real data loss.
				return fmt.Errorf("decrypt blob id=%s timestamp=%s host=%s: %w",
					blob.Id, blob.Timestamp.Format(time.RFC3339Nano), blob.Hostname, err)
			}

			// Records downloaded from the server are by definition already
			// stored there.
			rec.Synced = true

			// Dedup on id regardless of what the server sent: a compliant
			// server never echoes this host's records, but we do not rely
			// on that.
			inserted, err := s.history.InsertIfAbsent(ctx, rec)
			if err != nil {
				return fmt.Errorf("insert record %s: %w", rec.Id, err)
			}
			if inserted {
				total++
			}
		}

		if len(blobs) > 0 {
			// pages are ordered by (timestamp, id); the last blob is the cursor
			last := &blobs[len(blobs)-1]
			cursorTs, cursorId = last.Timestamp, last.Id
		}

		if len(blobs) < s.pageSize {
			break
		}
	}

	if err := s.metadata.SetCheckpoint(ctx, runStart); err != nil {
		return err
	}

	if total > 0 {
		s.logger.Info(ctx, "downloaded history", "records", total, "checkpoint", runStart)
	}

	return nil
}
