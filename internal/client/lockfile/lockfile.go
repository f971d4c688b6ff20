// Package lockfile provides the single-flight guard around a sync run.
// Two concurrent runs for the same host could interleave checkpoint writes
// and regress or skip cursor ranges, so at most one may be in flight.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ErrLocked means another process currently holds the lock.
var ErrLocked = errors.New("another sync is already running")

// Acquire creates the lock file exclusively and writes the holder pid into
// it. The returned release function removes the file and must be called even
// on failure paths (typically via defer).
func Acquire(path string) (release func(), err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
		}
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
	cerr := f.Close()
	if werr != nil || cerr != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", errors.Join(werr, cerr))
	}

	return func() { _ = os.Remove(path) }, nil
}
