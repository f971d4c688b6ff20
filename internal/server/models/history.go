package models

import "time"

// HistoryBlob is one stored encrypted record, keyed by (UserID, Id).
// Timestamp and Hostname are clear so the server can answer range queries
// and host-scoped filters without decrypting; CreatedAt is the server-side
// ingestion instant used to bound sync queries against racing uploads.
type HistoryBlob struct {
	UserID     string
	Id         string
	Timestamp  time.Time
	Hostname   string
	Ciphertext []byte
	Nonce      []byte
	CreatedAt  time.Time
}
