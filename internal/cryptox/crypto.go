// Package cryptox implements the cipher engine: argon2id key derivation and
// AES-256-GCM authenticated encryption of history record payloads. It does no
// I/O beyond the key file helpers and never persists plaintext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrEncodingFailure signals that a payload could not be serialized
	// before encryption. Well-formed records never trigger it, so treat it
	// as a programming-error signal rather than a runtime condition.
	ErrEncodingFailure = errors.New("payload encoding failure")

	// ErrAuthenticationFailure signals that a ciphertext/nonce/key triple
	// did not verify: tampering, corruption, or the wrong key. Decryption
	// must fail hard on it, never return partial plaintext.
	ErrAuthenticationFailure = errors.New("ciphertext authentication failure")
)

// NonceSize is the AES-GCM nonce length in bytes. Every encryption draws a
// fresh nonce from crypto/rand; reuse under the same key would be a
// correctness violation, so uniqueness is enforced by construction.
const NonceSize = 12

// MakeVerifier returns the value the server stores to check a login attempt:
// a sha256 hash of the master key. The server never sees the key itself.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// DeriveMasterKey derives the 32-byte symmetric master key from a password
// and per-user salt using argon2id. The same (password, salt) pair yields the
// same key on every machine, which is how a second device decrypts history
// without any key transfer.
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// EncryptPayload serializes v to JSON and encrypts it with AES-GCM under key.
//
// The key must be a valid AES key length (16, 24, or 32 bytes). A new random
// 12-byte nonce is generated for each call; ciphertext and nonce are returned
// separately so the nonce can travel in the clear alongside the blob.
func EncryptPayload(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	nonce = make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aesgcm.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// DecryptPayload decrypts ciphertext with AES-GCM and unmarshals the
// resulting JSON into v. The key and nonce must be the ones used by
// EncryptPayload; any mismatch or corruption yields ErrAuthenticationFailure.
func DecryptPayload(ciphertext, nonce, key []byte, v any) error {
	block, err := aes.NewCipher(key)
	if err != nil {
		return err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthenticationFailure, err)
	}

	return json.Unmarshal(plaintext, v)
}
