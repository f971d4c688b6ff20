// Package models holds the client-side history record and its encrypted
// transport form.
package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryRecord is one executed shell command. Records are immutable once
// created: there is no update or delete in the sync protocol, so merging two
// histories is a set union keyed by Id.
type HistoryRecord struct {
	Id        string
	Timestamp time.Time
	Hostname  string
	Command   string
	Cwd       string
	ExitCode  int64
	Duration  time.Duration
	Session   string
	Synced    bool
}

// NewHistoryRecord assigns a fresh UUIDv4 id and the current instant.
// Id is the primary deduplication key for the lifetime of the record.
func NewHistoryRecord(hostname, command, cwd string, exitCode int64, duration time.Duration, session string) *HistoryRecord {
	return &HistoryRecord{
		Id:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Hostname:  hostname,
		Command:   command,
		Cwd:       cwd,
		ExitCode:  exitCode,
		Duration:  duration,
		Session:   session,
	}
}

// Payload is the serialized-then-encrypted part of a record. Id, Timestamp
// and Hostname are deliberately excluded: they travel in the clear on the
// blob so the server can index and range-query without decrypting (an
// accepted metadata leak).
type Payload struct {
	Command  string        `json:"command"`
	Cwd      string        `json:"cwd"`
	ExitCode int64         `json:"exit_code"`
	Duration time.Duration `json:"duration"`
	Session  string        `json:"session,omitempty"`
}

// Payload extracts the encryptable fields of the record.
func (r *HistoryRecord) Payload() Payload {
	return Payload{
		Command:  r.Command,
		Cwd:      r.Cwd,
		ExitCode: r.ExitCode,
		Duration: r.Duration,
		Session:  r.Session,
	}
}
