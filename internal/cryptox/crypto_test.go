package cryptox

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPayload struct {
	Command  string `json:"command"`
	ExitCode int64  `json:"exit_code"`
}

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, 32)
}

func TestEncryptDecryptPayload_RoundTrip(t *testing.T) {
	key := testKey()
	in := testPayload{Command: "git status", ExitCode: 0}

	ciphertext, nonce, err := EncryptPayload(in, key)
	require.NoError(t, err)
	assert.Len(t, nonce, NonceSize)
	assert.NotEmpty(t, ciphertext)

	var out testPayload
	require.NoError(t, DecryptPayload(ciphertext, nonce, key, &out))
	assert.Equal(t, in, out)
}

func TestEncryptPayload_NonceUnique(t *testing.T) {
	key := testKey()
	in := testPayload{Command: "ls -la"}

	c1, n1, err := EncryptPayload(in, key)
	require.NoError(t, err)
	c2, n2, err := EncryptPayload(in, key)
	require.NoError(t, err)

	// same plaintext, same key: nonces and ciphertexts must still differ
	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, c1, c2)
}

func TestDecryptPayload_TamperedCiphertext(t *testing.T) {
	key := testKey()
	ciphertext, nonce, err := EncryptPayload(testPayload{Command: "rm -rf /tmp/x"}, key)
	require.NoError(t, err)

	for i := range ciphertext {
		tampered := bytes.Clone(ciphertext)
		tampered[i] ^= 0x01

		var out testPayload
		err := DecryptPayload(tampered, nonce, key, &out)
		require.Error(t, err, "bit flip at byte %d must not verify", i)
		assert.ErrorIs(t, err, ErrAuthenticationFailure)
	}
}

func TestDecryptPayload_TamperedNonce(t *testing.T) {
	key := testKey()
	ciphertext, nonce, err := EncryptPayload(testPayload{Command: "make test"}, key)
	require.NoError(t, err)

	tampered := bytes.Clone(nonce)
	tampered[0] ^= 0x80

	var out testPayload
	err = DecryptPayload(ciphertext, tampered, key, &out)
	assert.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestDecryptPayload_WrongKey(t *testing.T) {
	ciphertext, nonce, err := EncryptPayload(testPayload{Command: "whoami"}, testKey())
	require.NoError(t, err)

	otherKey := bytes.Repeat([]byte{0x43}, 32)
	var out testPayload
	err = DecryptPayload(ciphertext, nonce, otherKey, &out)
	assert.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestEncryptPayload_EncodingFailure(t *testing.T) {
	// channels cannot be marshaled to JSON
	_, _, err := EncryptPayload(make(chan int), testKey())
	assert.ErrorIs(t, err, ErrEncodingFailure)
}

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveMasterKey(password, salt)
	key2 := DeriveMasterKey(password, salt)

	assert.Equal(t, key1, key2)
	assert.Len(t, key1, 32)
}

func TestDeriveMasterKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveMasterKey(password, []byte("salt-1"))
	key2 := DeriveMasterKey(password, []byte("salt-2"))

	assert.NotEqual(t, key1, key2)
}

func TestMakeVerifier_NotTheKey(t *testing.T) {
	key := DeriveMasterKey([]byte("pw"), []byte("salt"))
	verifier := MakeVerifier(key)

	assert.Len(t, verifier, 32)
	assert.NotEqual(t, key, verifier)
	assert.Equal(t, verifier, MakeVerifier(key))
}

func TestDecryptPayload_NeverPartial(t *testing.T) {
	key := testKey()
	ciphertext, nonce, err := EncryptPayload(testPayload{Command: "original"}, key)
	require.NoError(t, err)

	tampered := bytes.Clone(ciphertext)
	tampered[len(tampered)-1] ^= 0xFF

	out := testPayload{Command: "untouched"}
	err = DecryptPayload(tampered, nonce, key, &out)
	require.True(t, errors.Is(err, ErrAuthenticationFailure))
	// the destination must not have been written to
	assert.Equal(t, "untouched", out.Command)
}
