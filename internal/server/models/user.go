// Package models holds the server-side row types. The server stores only
// opaque material: a password verifier for auth and encrypted blobs for
// history. Plaintext never reaches it.
package models

import "time"

type User struct {
	ID        string
	Username  string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
