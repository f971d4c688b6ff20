package models

import (
	"github.com/dmitrijs2005/histkeeper/internal/api"
	"github.com/dmitrijs2005/histkeeper/internal/cryptox"
)

// EncryptRecord converts a record to its server-storable form: the payload is
// serialized and sealed under key with a fresh nonce; id, timestamp and
// hostname are copied in the clear.
func EncryptRecord(r *HistoryRecord, key []byte) (*api.HistoryBlob, error) {
	ciphertext, nonce, err := cryptox.EncryptPayload(r.Payload(), key)
	if err != nil {
		return nil, err
	}
	return &api.HistoryBlob{
		Id:         r.Id,
		Timestamp:  r.Timestamp,
		Hostname:   r.Hostname,
		Ciphertext: ciphertext,
		Nonce:      nonce,
	}, nil
}

// DecryptBlob restores a record from its encrypted form. A ciphertext that
// does not verify yields cryptox.ErrAuthenticationFailure; no partial record
// is ever returned.
func DecryptBlob(blob *api.HistoryBlob, key []byte) (*HistoryRecord, error) {
	var p Payload
	if err := cryptox.DecryptPayload(blob.Ciphertext, blob.Nonce, key, &p); err != nil {
		return nil, err
	}
	return &HistoryRecord{
		Id:        blob.Id,
		Timestamp: blob.Timestamp,
		Hostname:  blob.Hostname,
		Command:   p.Command,
		Cwd:       p.Cwd,
		ExitCode:  p.ExitCode,
		Duration:  p.Duration,
		Session:   p.Session,
	}, nil
}
