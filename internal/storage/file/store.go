// Package file stores a roster as a single JSON document on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/hatchery/internal/game/roster"
	"github.com/cory-johannsen/hatchery/internal/storage"
)

// documentPerm is the mode of a newly created document.
const documentPerm os.FileMode = 0o644

// Store persists a roster document at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

var _ storage.Store = (*Store)(nil)

// New returns a Store for path.
//
// Precondition: path must be non-empty; logger must be non-nil.
func New(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("file store path is required")
	}
	return &Store{path: filepath.Clean(path), logger: logger}, nil
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and decodes the document.
//
// Postcondition: Returns the roster, storage.ErrNotFound if the file does not
// exist, a *roster.IOError, or a *roster.DecodeError.
func (s *Store) Load(ctx context.Context) (*roster.Roster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", s.path, storage.ErrNotFound)
		}
		return nil, &roster.IOError{Op: "read", Path: s.path, Err: err}
	}
	defer f.Close()

	r, err := roster.LoadFrom(f)
	if err != nil {
		var ioErr *roster.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = s.path
		}
		return nil, err
	}
	s.logger.Debug("roster loaded", zap.String("path", s.path), zap.Int("members", r.Len()))
	return r.WithLogger(s.logger), nil
}

// Save writes the roster to a temporary file in the same directory and renames
// it over the document, so readers never observe a partial write. An existing
// document keeps its permissions.
func (s *Store) Save(ctx context.Context, r *roster.Roster) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := r.SaveTo(tmp); err != nil {
		_ = tmp.Close()
		var ioErr *roster.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = s.path
		}
		return err
	}
	if err := tmp.Chmod(s.documentMode()); err != nil {
		_ = tmp.Close()
		return &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	committed = true

	s.logger.Debug("roster saved", zap.String("path", s.path), zap.Int("members", r.Len()))
	return nil
}

// documentMode is the permission of the existing document, or documentPerm
// when none has been written yet.
func (s *Store) documentMode() os.FileMode {
	if fi, err := os.Stat(s.path); err == nil {
		return fi.Mode().Perm()
	}
	return documentPerm
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}
