package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPassword(t *testing.T, pw []byte, err error) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) { return pw, err }
}

func TestGetPassword(t *testing.T) {
	stubPassword(t, []byte("hunter2"), nil)

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), pw)
	assert.Contains(t, out.String(), "Enter password:")
}

func TestGetPassword_Error(t *testing.T) {
	stubPassword(t, nil, errors.New("no tty"))

	var out bytes.Buffer
	_, err := GetPassword(&out)
	assert.Error(t, err)
}
