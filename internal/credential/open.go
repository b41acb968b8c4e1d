package credential

import (
	"fmt"
	"path/filepath"
)

// Open returns the Storage for the named backend ("keyring", "sqlite", or
// "memory") along with a function that releases it.
func Open(backend, path string) (Storage, func() error, error) {
	noop := func() error { return nil }

	switch backend {
	case "memory":
		return NewMemory(), noop, nil
	case "sqlite":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "keyring":
		k, err := OpenKeyring(filepath.Dir(path))
		if err != nil {
			return nil, nil, err
		}
		return k, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", backend)
	}
}
