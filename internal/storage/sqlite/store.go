// Package sqlite keeps an append-only history of roster snapshots in an
// embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/cory-johannsen/hatchery/internal/game/roster"
	"github.com/cory-johannsen/hatchery/internal/storage"
)

// Snapshot describes one saved roster document.
type Snapshot struct {
	ID        string
	Roster    string
	Members   int
	CreatedAt time.Time
}

// Store persists roster snapshots for a single named roster.
type Store struct {
	db     *sql.DB
	path   string
	roster string
	logger *zap.Logger
	now    func() time.Time
}

var _ storage.Store = (*Store)(nil)

func dsn(path string) string {
	return filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path, applies pending migrations, and returns a
// Store scoped to rosterName.
//
// Precondition: path and rosterName must be non-empty; logger must be non-nil.
// Postcondition: Returns a ready Store or a non-nil error.
func Open(path, rosterName string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	if strings.TrimSpace(rosterName) == "" {
		return nil, errors.New("roster name is required")
	}
	if _, err := Migrate(path, "up", 0); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{
		db:     db,
		path:   filepath.Clean(path),
		roster: rosterName,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save appends a new snapshot holding the encoded roster.
func (s *Store) Save(ctx context.Context, r *roster.Roster) error {
	_, err := s.SaveSnapshot(ctx, r)
	return err
}

// SaveSnapshot appends a new snapshot and returns its metadata.
//
// Postcondition: Returns the Snapshot with a fresh UUID, or a non-nil error.
func (s *Store) SaveSnapshot(ctx context.Context, r *roster.Roster) (Snapshot, error) {
	doc, err := roster.Encode(r.Members())
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding roster: %w", err)
	}
	snap := Snapshot{
		ID:        uuid.NewString(),
		Roster:    s.roster,
		Members:   r.Len(),
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO roster_snapshots (id, roster, document, member_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Roster, string(doc), snap.Members, toMillis(snap.CreatedAt),
	)
	if err != nil {
		return Snapshot{}, &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	s.logger.Debug("roster snapshot saved",
		zap.String("id", snap.ID),
		zap.String("roster", snap.Roster),
		zap.Int("members", snap.Members),
	)
	return snap, nil
}

// Load returns the newest snapshot of the roster.
//
// Postcondition: Returns the roster, storage.ErrNotFound when no snapshot
// exists, a *roster.IOError, or a *roster.DecodeError.
func (s *Store) Load(ctx context.Context) (*roster.Roster, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document FROM roster_snapshots
		 WHERE roster = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT 1`,
		s.roster,
	)
	return s.decodeRow(row, s.roster)
}

// LoadSnapshot returns the roster stored in the snapshot with the given id.
func (s *Store) LoadSnapshot(ctx context.Context, id string) (*roster.Roster, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT document FROM roster_snapshots WHERE id = ? AND roster = ?`,
		id, s.roster,
	)
	return s.decodeRow(row, id)
}

func (s *Store) decodeRow(row *sql.Row, key string) (*roster.Roster, error) {
	var doc string
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		return nil, &roster.IOError{Op: "read", Path: s.path, Err: err}
	}
	members, err := roster.Decode([]byte(doc))
	if err != nil {
		return nil, err
	}
	return roster.FromMembers(members).WithLogger(s.logger), nil
}

// List returns snapshot metadata for the roster, newest first.
//
// Postcondition: Returns a non-nil slice (may be empty) or a non-nil error.
func (s *Store) List(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, roster, member_count, created_at FROM roster_snapshots
		 WHERE roster = ?
		 ORDER BY created_at DESC, rowid DESC`,
		s.roster,
	)
	if err != nil {
		return nil, &roster.IOError{Op: "read", Path: s.path, Err: err}
	}
	defer rows.Close()

	snaps := make([]Snapshot, 0)
	for rows.Next() {
		var (
			snap    Snapshot
			created int64
		)
		if err := rows.Scan(&snap.ID, &snap.Roster, &snap.Members, &created); err != nil {
			return nil, &roster.IOError{Op: "read", Path: s.path, Err: err}
		}
		snap.CreatedAt = fromMillis(created)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &roster.IOError{Op: "read", Path: s.path, Err: err}
	}
	return snaps, nil
}

// Prune deletes all but the newest keep snapshots of the roster and returns
// how many were removed.
//
// Precondition: keep >= 1.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 1 {
		return 0, fmt.Errorf("keep must be >= 1, got %d", keep)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM roster_snapshots
		 WHERE roster = ? AND id NOT IN (
		   SELECT id FROM roster_snapshots
		   WHERE roster = ?
		   ORDER BY created_at DESC, rowid DESC
		   LIMIT ?
		 )`,
		s.roster, s.roster, keep,
	)
	if err != nil {
		return 0, &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, &roster.IOError{Op: "write", Path: s.path, Err: err}
	}
	return n, nil
}
