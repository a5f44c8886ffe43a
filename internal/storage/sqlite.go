// Package storage provides the SQLite results ledger for finished matches.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/chicken-war/internal/engine"
)

// DefaultPath is the ledger location used when none is configured.
const DefaultPath = "~/.chickenwar/results.db"

// Store manages the SQLite database connection for the results ledger.
type Store struct {
	db *sql.DB
}

// MatchRecord is one finished match.
type MatchRecord struct {
	ID         int64
	MatchID    string
	LogicA     string
	LogicB     string
	SizeA      int
	SizeB      int
	WinnerTeam int    // 0 = team A, 1 = team B, -1 = draw or undecided
	Reason     string // "completed", "tick_limit"
	Ticks      int64
	KillsA     int
	KillsB     int
	Errors     string // empty unless a logic failed
	DurationMs int64
	CreatedAt  time.Time
}

// WinnerLogic returns the name of the winning logic, or "" for a draw.
func (r MatchRecord) WinnerLogic() string {
	switch r.WinnerTeam {
	case 0:
		return r.LogicA
	case 1:
		return r.LogicB
	default:
		return ""
	}
}

// LogicStats aggregates the ledger for one logic across both team slots.
type LogicStats struct {
	Logic   string
	Matches int
	Wins    int
	Losses  int
	Draws   int
	Kills   int
}

// WinRate returns wins divided by matches, 0 when nothing was played.
func (s LogicStats) WinRate() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Matches)
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows a single writer; concurrent matches share one connection.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			logic_a TEXT NOT NULL,
			logic_b TEXT NOT NULL,
			size_a INTEGER NOT NULL,
			size_b INTEGER NOT NULL,
			winner_team INTEGER NOT NULL DEFAULT -1,
			reason TEXT NOT NULL,
			ticks INTEGER NOT NULL DEFAULT 0,
			kills_a INTEGER NOT NULL DEFAULT 0,
			kills_b INTEGER NOT NULL DEFAULT 0,
			errors TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_logic_a ON matches(logic_a);
		CREATE INDEX IF NOT EXISTS idx_matches_logic_b ON matches(logic_b);
		CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished match.
// Returns the ID of the inserted record.
func (s *Store) SaveMatch(m MatchRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO matches
		 (match_id, logic_a, logic_b, size_a, size_b, winner_team, reason, ticks, kills_a, kills_b, errors, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID,
		m.LogicA,
		m.LogicB,
		m.SizeA,
		m.SizeB,
		m.WinnerTeam,
		m.Reason,
		m.Ticks,
		m.KillsA,
		m.KillsB,
		m.Errors,
		m.DurationMs,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save match: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const matchColumns = `id, match_id, logic_a, logic_b, size_a, size_b, winner_team,
		reason, ticks, kills_a, kills_b, errors, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (MatchRecord, error) {
	var m MatchRecord
	var createdAt any
	err := row.Scan(
		&m.ID,
		&m.MatchID,
		&m.LogicA,
		&m.LogicB,
		&m.SizeA,
		&m.SizeB,
		&m.WinnerTeam,
		&m.Reason,
		&m.Ticks,
		&m.KillsA,
		&m.KillsB,
		&m.Errors,
		&m.DurationMs,
		&createdAt,
	)
	if err != nil {
		return m, err
	}
	m.CreatedAt = parseTime(createdAt)
	return m, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MatchByID retrieves a match by its match ID.
// Returns nil without error if it does not exist.
func (s *Store) MatchByID(matchID string) (*MatchRecord, error) {
	row := s.db.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE match_id = ?`, matchID)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	return &m, nil
}

// RecentMatches retrieves the most recent matches, newest first.
func (s *Store) RecentMatches(limit int) ([]MatchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchRecord
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// LogicStats aggregates wins, losses and draws per logic. A logic that
// plays both sides of a match is counted once per side.
func (s *Store) LogicStats() ([]LogicStats, error) {
	rows, err := s.db.Query(`
		SELECT logic, COUNT(*), SUM(win), SUM(loss), SUM(draw), SUM(kills)
		FROM (
			SELECT logic_a AS logic,
			       CASE WHEN winner_team = 0 THEN 1 ELSE 0 END AS win,
			       CASE WHEN winner_team = 1 THEN 1 ELSE 0 END AS loss,
			       CASE WHEN winner_team = -1 THEN 1 ELSE 0 END AS draw,
			       kills_a AS kills
			FROM matches
			UNION ALL
			SELECT logic_b,
			       CASE WHEN winner_team = 1 THEN 1 ELSE 0 END,
			       CASE WHEN winner_team = 0 THEN 1 ELSE 0 END,
			       CASE WHEN winner_team = -1 THEN 1 ELSE 0 END,
			       kills_b
			FROM matches
		)
		GROUP BY logic
		ORDER BY logic`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get logic stats: %w", err)
	}
	defer rows.Close()

	var stats []LogicStats
	for rows.Next() {
		var st LogicStats
		if err := rows.Scan(&st.Logic, &st.Matches, &st.Wins, &st.Losses, &st.Draws, &st.Kills); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearMatches deletes every recorded match.
func (s *Store) ClearMatches() error {
	if _, err := s.db.Exec("DELETE FROM matches"); err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// SaveMatchResult implements engine.ResultRecorder.
// This adapter allows the engine to save match results without direct storage dependency.
func (s *Store) SaveMatchResult(data engine.MatchResultData) error {
	_, err := s.SaveMatch(MatchRecord{
		MatchID:    data.MatchID,
		LogicA:     data.LogicA,
		LogicB:     data.LogicB,
		SizeA:      data.SizeA,
		SizeB:      data.SizeB,
		WinnerTeam: data.WinnerTeam,
		Reason:     data.Reason,
		Ticks:      int64(data.Ticks),
		KillsA:     data.KillsA,
		KillsB:     data.KillsB,
		Errors:     data.Errors,
		DurationMs: data.DurationMs,
	})
	return err
}

// Ensure Store implements ResultRecorder
var _ engine.ResultRecorder = (*Store)(nil)
