package store

import (
	"fmt"
	"path/filepath"

	"accord/internal/domain"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Backend is a profile and message store that holds resources until closed.
type Backend interface {
	domain.ProfileStore
	domain.MessageStore
	Close() error
}

// Open returns the backend named by kind. The file backend lives in dir; the
// sqlite backend uses sqlitePath, or accord.db under dir when empty.
func Open(kind, dir, sqlitePath string) (Backend, error) {
	switch kind {
	case "", KindFile:
		return NewFileStore(dir), nil
	case KindSQLite:
		if sqlitePath == "" {
			sqlitePath = filepath.Join(dir, "accord.db")
		}
		return OpenSQLStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
