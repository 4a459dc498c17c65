package session

import (
	"fmt"
	"io"
)

// Supported KeyValueStore backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend opens the named backend at path. The returned closer must be
// closed when the store is no longer needed.
func OpenBackend(backend, path string) (KeyValueStore, io.Closer, error) {
	switch backend {
	case BackendFile, "":
		kv, err := NewFileKV(path)
		if err != nil {
			return nil, nil, err
		}
		return kv, nopCloser{}, nil
	case BackendSQLite:
		kv, err := OpenSQLiteKV(path)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	case BackendMemory:
		return NewMemoryKV(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported session storage backend: %q (valid: file, sqlite, memory)", backend)
	}
}
