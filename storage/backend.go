package storage

import (
	"fmt"

	"markestedt/copyman/settings"
)

// Backend is a settings persister that owns resources
type Backend interface {
	settings.Persister
	Name() string
	Close() error
}

// OpenBackend opens the named backend ("file" or "sqlite") rooted at dir
func OpenBackend(name, dir string) (Backend, error) {
	switch name {
	case "file":
		return NewFileStore(dir), nil
	case "sqlite":
		db, err := Open(dir)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", name)
	}
}
