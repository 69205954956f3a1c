// Package store persists the ordered section list between runs.
//
// Two backends are provided:
//   - [FileStore]: a single JSON document in the record format of [io]
//   - [SQLStore]: SQLite through GORM, keeping every save as a snapshot
//
// Both rebuild sections through [section.New] on load, so coefficients and
// derived geometry always come from the current lookup tables.
//
// [io]: github.com/matzehuels/revetment/pkg/io
package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/section"
)

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store loads and saves the ordered section list.
type Store interface {
	// Load returns the saved sections in order. An empty store yields an empty list.
	Load(ctx context.Context) ([]section.Section, error)
	// Save replaces the saved list with sections.
	Save(ctx context.Context, sections []section.Section) error
	// Path returns where the data lives.
	Path() string
	Close() error
}

// Historian is implemented by stores that keep earlier saves.
type Historian interface {
	// History lists snapshots, newest first. A limit <= 0 returns all of them.
	History(ctx context.Context, limit int) ([]Snapshot, error)
	// LoadSnapshot returns the sections saved in the snapshot with the given id.
	LoadSnapshot(ctx context.Context, id string) ([]section.Section, error)
}

// Snapshot describes one save.
type Snapshot struct {
	ID        string
	CreatedAt time.Time
	Count     int
}

// Options configures [Open].
type Options struct {
	Backend string      // "file" (default) or "sqlite"
	Path    string      // file or database path
	Logger  *log.Logger // optional
}

// Open returns the store selected by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		s, err := NewFileStore(opts.Path)
		if err != nil {
			return nil, err
		}
		s.logger = opts.Logger
		return s, nil
	case BackendSQLite:
		return NewSQLStore(opts.Path, opts.Logger)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown storage backend: %q (must be %s or %s)", opts.Backend, BackendFile, BackendSQLite)
}

func debugf(l *log.Logger, msg string, keyvals ...any) {
	if l != nil {
		l.Debug(msg, keyvals...)
	}
}
