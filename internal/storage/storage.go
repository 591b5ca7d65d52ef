// Package storage defines the persistence boundary for rosters.
package storage

import (
	"context"
	"errors"

	"github.com/cory-johannsen/hatchery/internal/game/roster"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("roster not found")

// Store loads and saves a whole roster.
type Store interface {
	// Load returns the most recently saved roster, ErrNotFound, a
	// *roster.IOError, or a *roster.DecodeError.
	Load(ctx context.Context) (*roster.Roster, error)
	// Save persists every member of r, replacing the previous save.
	Save(ctx context.Context, r *roster.Roster) error
	// Close releases the store's resources.
	Close() error
}

// LoadOrEmpty loads from s and falls back to an empty roster when nothing has
// been saved yet. Other failures are returned unchanged.
func LoadOrEmpty(ctx context.Context, s Store) (*roster.Roster, error) {
	r, err := s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return roster.New(), nil
	}
	return r, err
}
