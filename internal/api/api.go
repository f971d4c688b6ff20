// Package api defines the closed set of JSON request/response shapes spoken
// between the histkeeper client and the relay server. The server never sees
// plaintext history: Ciphertext/Nonce are opaque to it, while Id, Timestamp
// and Hostname stay clear so the server can index, deduplicate and answer
// range queries without decrypting anything.
//
// Error responses use a uniform body, ErrorResponse, with a non-2xx status.
package api

import "time"

type RegisterRequest struct {
	Username string `json:"username"`
	Salt     []byte `json:"salt"`
	Verifier []byte `json:"verifier"`
}

type RegisterResponse struct {
	Session string `json:"session"`
}

type SaltResponse struct {
	Salt []byte `json:"salt"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Verifier []byte `json:"verifier"`
}

type LoginResponse struct {
	Session string `json:"session"`
}

// HistoryBlob is the wire and storage form of one encrypted history record.
// Ciphertext is the authenticated encryption of the record payload; Nonce is
// unique per blob and stored alongside it.
type HistoryBlob struct {
	Id         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Hostname   string    `json:"hostname"`
	Ciphertext []byte    `json:"ciphertext"`
	Nonce      []byte    `json:"nonce"`
}

// AddHistoryRequest uploads a batch of blobs. Re-uploading an existing id is
// an idempotent no-op so partial-batch failures can be retried in full.
type AddHistoryRequest struct {
	History []HistoryBlob `json:"history"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

// SyncHistoryRequest asks for one page of blobs the requesting host has not
// seen yet. SyncTs is the ingestion lower bound: only blobs the server
// recorded strictly after it are considered, so a slow upload carrying an
// old record timestamp is still picked up by the next run. (HistoryTs,
// HistoryId) is the within-run pagination cursor: blobs ordered and keyset-
// filtered by (timestamp, id) strictly after the pair. Blobs uploaded by
// Host are excluded. Results are capped at the server page size.
type SyncHistoryRequest struct {
	SyncTs    time.Time `json:"sync_ts"`
	HistoryTs time.Time `json:"history_ts"`
	HistoryId string    `json:"history_id,omitempty"`
	Host      string    `json:"host"`
}

type SyncHistoryResponse struct {
	History []HistoryBlob `json:"history"`
}

type ErrorResponse struct {
	Reason string `json:"reason"`
}
