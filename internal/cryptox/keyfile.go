package cryptox

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/histkeeper/internal/common"
)

// SaveKey writes the master key to path, base64-encoded, creating parent
// directories as needed. The file is created with 0600: it is the only local
// secret that unlocks the whole history.
func SaveKey(path string, key []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	encoded := base64.StdEncoding.EncodeToString(key)
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	return nil
}

// LoadKey reads and decodes the master key from path.
func LoadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	key, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return nil, fmt.Errorf("decode key file: %w", err)
	}
	if len(key) != common.KeyLength {
		return nil, fmt.Errorf("key file %s: unexpected key length %d", path, len(key))
	}
	return key, nil
}
