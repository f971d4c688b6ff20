package cryptox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/histkeeper/internal/common"
)

func TestSaveLoadKey_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "key")
	key := common.GenerateRandByteArray(common.KeyLength)

	require.NoError(t, SaveKey(path, key))

	loaded, err := LoadKey(path)
	require.NoError(t, err)
	assert.Equal(t, key, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadKey_Missing(t *testing.T) {
	_, err := LoadKey(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestLoadKey_WrongLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, SaveKey(path, []byte("short")))

	_, err := LoadKey(path)
	assert.Error(t, err)
}

func TestLoadKey_NotBase64(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("!!! not base64 !!!"), 0o600))

	_, err := LoadKey(path)
	assert.Error(t, err)
}
