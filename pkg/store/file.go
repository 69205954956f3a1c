package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/revetment/pkg/errors"
	rio "github.com/matzehuels/revetment/pkg/io"
	"github.com/matzehuels/revetment/pkg/section"
)

// FileStore keeps the section list in one JSON file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	logger *log.Logger
}

// NewFileStore returns a store backed by the JSON file at path.
// The parent directory is created if needed; the file itself is created on
// the first save.
func NewFileStore(path string) (*FileStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create store dir")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) ([]section.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			debugf(s.logger, "store empty", "path", s.path)
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store file")
	}

	sections, err := rio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Context(err, "load %s", s.path)
	}
	debugf(s.logger, "loaded sections", "path", s.path, "count", len(sections))
	return sections, nil
}

func (s *FileStore) Save(ctx context.Context, sections []section.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := rio.WriteJSON(&buf, sections); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode sections")
	}

	// Replace atomically; readers never see a partial document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write store file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "replace store file")
	}
	debugf(s.logger, "saved sections", "path", s.path, "count", len(sections))
	return nil
}

// Path returns the JSON file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
