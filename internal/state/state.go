// Package state persists the StrengthLog session credential across process
// restarts, so an MCP server restart does not force a fresh password login.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/claude/strengthlog-mcp/internal/strengthlog"
)

// ErrNoSession is returned by Load when no credential has been saved yet.
var ErrNoSession = errors.New("no saved session")

// Store keeps a single credential row in a SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at dir/session.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session (
		id            INTEGER PRIMARY KEY CHECK (id = 1),
		id_token      TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_id       TEXT NOT NULL,
		token_expiry  TEXT NOT NULL,
		saved_at      TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session table: %w", err)
	}

	return &Store{db: db}, nil
}

// Save upserts the credential. The table holds exactly one row.
func (s *Store) Save(st strengthlog.State) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO session (id, id_token, refresh_token, user_id, token_expiry)
		 VALUES (1, ?, ?, ?, ?)`,
		st.IDToken, st.RefreshToken, st.UserID, st.TokenExpiry,
	)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load returns the saved credential, or ErrNoSession.
func (s *Store) Load() (strengthlog.State, error) {
	var st strengthlog.State
	err := s.db.QueryRow(
		`SELECT id_token, refresh_token, user_id, token_expiry FROM session WHERE id = 1`,
	).Scan(&st.IDToken, &st.RefreshToken, &st.UserID, &st.TokenExpiry)
	if errors.Is(err, sql.ErrNoRows) {
		return strengthlog.State{}, ErrNoSession
	}
	if err != nil {
		return strengthlog.State{}, fmt.Errorf("loading session: %w", err)
	}
	return st, nil
}

// Clear removes any saved credential.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM session`)
	return err
}

// Close closes the session database.
func (s *Store) Close() error {
	return s.db.Close()
}
