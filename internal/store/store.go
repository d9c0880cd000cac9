// Package store reads board snapshots straight from the application's SQLite
// database. The schema is owned by the web application; this package only
// ever reads it.
//
// The connection is opened lazily on the first fetch so that a server
// configured for the database but never asked about a board does not touch
// the file at all.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/HendryAvila/board-mcp/internal/board"
	"github.com/bytedance/sonic"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// RecentLimit caps the comments and activity entries in a card snapshot.
const RecentLimit = 20

// Store is the direct-database board.Source.
type Store struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// New returns a Store for the SQLite file at path. Nothing is opened yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Describe implements board.Source.
func (s *Store) Describe() string { return "local database" }

// Close releases the connection if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// conn opens the database on first use and reuses it afterwards.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db, nil
	}

	// sql.Open would happily create an empty file; a missing database is a
	// configuration problem, not an empty board.
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("store: database %s: %w", s.path, err)
	}

	db, err := openDB("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// Pragmas are per connection, so keep exactly one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s.db = db
	return db, nil
}

// FetchBoard implements board.Source.
func (s *Store) FetchBoard(ctx context.Context, boardID string) (*board.Board, error) {
	var b board.Board
	if err := s.fetchDoc(ctx, boardQuery, boardID, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, board.NotFound("Board", boardID)
		}
		return nil, err
	}
	return &b, nil
}

// FetchCard implements board.Source.
func (s *Store) FetchCard(ctx context.Context, cardID string) (*board.Card, error) {
	var c board.Card
	if err := s.fetchDoc(ctx, cardQuery, cardID, &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, board.NotFound("Card", cardID)
		}
		return nil, err
	}
	return &c, nil
}

// fetchDoc runs a single-document query and decodes the JSON into out.
func (s *Store) fetchDoc(ctx context.Context, query, id string, out any) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	var doc string
	if err := db.QueryRowContext(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("store: query: %w", err)
	}
	if err := sonic.ConfigStd.UnmarshalFromString(doc, out); err != nil {
		return fmt.Errorf("store: decoding snapshot: %w", err)
	}
	return nil
}
