// Package storage provides SQLite-based persistence for autopilot benchmark
// runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
//
// Run records are statistics about controller strategies. They are never
// read back as a player's high score.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqliteTime is the layout CURRENT_TIMESTAMP produces.
const sqliteTime = "2006-01-02 15:04:05"

// Store manages the SQLite database connection for the run log.
// It is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// RunRecord is one benchmarked episode.
type RunRecord struct {
	ID         int64
	RunID      string // Groups the episodes of one bench invocation
	Mode       string
	Strategy   string
	Seed       int64
	Ticks      int
	Score      float64
	Gates      int
	InBand     int
	Flaps      int
	Contacts   int
	Terminated bool
	CreatedAt  time.Time
}

// BandRate returns the share of gates crossed inside the margin band.
func (r RunRecord) BandRate() float64 {
	if r.Gates == 0 {
		return 0
	}
	return float64(r.InBand) / float64(r.Gates)
}

// StrategyStats aggregates the run log for one strategy.
type StrategyStats struct {
	Strategy   string
	Runs       int
	AvgScore   float64
	BestScore  float64
	Gates      int
	InBand     int
	Contacts   int
	Terminated int
	LastRun    time.Time
}

// BandRate returns the share of gates crossed inside the margin band.
func (s StrategyStats) BandRate() float64 {
	if s.Gates == 0 {
		return 0
	}
	return float64(s.InBand) / float64(s.Gates)
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

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			strategy TEXT NOT NULL,
			seed INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			score REAL NOT NULL,
			gates INTEGER NOT NULL DEFAULT 0,
			in_band INTEGER NOT NULL DEFAULT 0,
			flaps INTEGER NOT NULL DEFAULT 0,
			contacts INTEGER NOT NULL DEFAULT 0,
			terminated INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
		CREATE INDEX IF NOT EXISTS idx_runs_strategy ON runs(strategy);
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

// SaveRun records one benchmarked episode and returns its row ID.
func (s *Store) SaveRun(r RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, mode, strategy, seed, ticks, score, gates, in_band, flaps, contacts, terminated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Mode, r.Strategy, r.Seed, r.Ticks, r.Score,
		r.Gates, r.InBand, r.Flaps, r.Contacts, r.Terminated,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SaveRuns records a batch of episodes in one transaction.
func (s *Store) SaveRuns(records []RunRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO runs
		 (run_id, mode, strategy, seed, ticks, score, gates, in_band, flaps, contacts, terminated)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Join(fmt.Errorf("storage: cannot prepare insert: %w", err), tx.Rollback())
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.RunID, r.Mode, r.Strategy, r.Seed, r.Ticks, r.Score,
			r.Gates, r.InBand, r.Flaps, r.Contacts, r.Terminated,
		); err != nil {
			return errors.Join(fmt.Errorf("storage: cannot save run: %w", err), tx.Rollback())
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit runs: %w", err)
	}
	return nil
}

const runColumns = `id, run_id, mode, strategy, seed, ticks, score, gates, in_band, flaps, contacts, terminated, created_at`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// RunsByStrategy retrieves the most recent runs of one strategy.
func (s *Store) RunsByStrategy(strategy string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE strategy = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		strategy, limit,
	)
}

// RunsByRunID retrieves every episode of one bench invocation.
func (s *Store) RunsByRunID(runID string) ([]RunRecord, error) {
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE run_id = ? ORDER BY id`,
		runID,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var createdAt any
		if err := rows.Scan(
			&r.ID, &r.RunID, &r.Mode, &r.Strategy, &r.Seed, &r.Ticks, &r.Score,
			&r.Gates, &r.InBand, &r.Flaps, &r.Contacts, &r.Terminated, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return records, nil
}

// StrategyStats aggregates the run log per strategy, sorted by strategy.
func (s *Store) StrategyStats() ([]StrategyStats, error) {
	rows, err := s.db.Query(
		`SELECT strategy, COUNT(*), AVG(score), MAX(score),
		        SUM(gates), SUM(in_band), SUM(contacts), SUM(terminated), MAX(created_at)
		 FROM runs
		 GROUP BY strategy
		 ORDER BY strategy`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get strategy stats: %w", err)
	}
	defer rows.Close()

	var stats []StrategyStats
	for rows.Next() {
		var st StrategyStats
		var lastRun any
		if err := rows.Scan(
			&st.Strategy, &st.Runs, &st.AvgScore, &st.BestScore,
			&st.Gates, &st.InBand, &st.Contacts, &st.Terminated, &lastRun,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats = append(stats, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ClearRuns deletes every run record.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string values from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(sqliteTime, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
