// Package storage provides SQLite-based persistence for run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// Only run summaries and census samples are stored, never board state.
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

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// RunRecord summarizes one finished simulation run.
type RunRecord struct {
	ID            int64
	Scenario      string
	Seed          int64
	Width         int
	Height        int
	Species       int
	Aggression    string
	Ticks         uint64
	Survivors     int
	Dominant      string // Empty if nothing was recorded
	DominantShare float64
	Entropy       float64
	Duration      time.Duration
	CreatedAt     time.Time
}

// CensusPoint is one sampled census of a run.
type CensusPoint struct {
	Tick          uint64
	Survivors     int
	Dominant      string
	DominantShare float64
	Entropy       float64
	HealthMean    float64
}

// ScenarioStats contains aggregated statistics for a scenario.
type ScenarioStats struct {
	Scenario     string
	Runs         int
	AvgTicks     float64
	AvgSurvivors float64
	Monocultures int // Runs that ended with a single species
	LastRun      time.Time
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
			scenario TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			species INTEGER NOT NULL,
			aggression TEXT NOT NULL DEFAULT 'normal',
			ticks INTEGER NOT NULL DEFAULT 0,
			survivors INTEGER NOT NULL DEFAULT 0,
			dominant TEXT,
			dominant_share REAL NOT NULL DEFAULT 0,
			entropy REAL NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);

		CREATE TABLE IF NOT EXISTS census (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			tick INTEGER NOT NULL,
			survivors INTEGER NOT NULL,
			dominant TEXT NOT NULL,
			dominant_share REAL NOT NULL,
			entropy REAL NOT NULL,
			health_mean REAL NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_census_run ON census(run_id, tick);
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

// SaveRun records a finished run together with its census samples.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(run RunRecord, census []CensusPoint) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO runs
		 (scenario, seed, width, height, species, aggression, ticks, survivors, dominant, dominant_share, entropy, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Scenario,
		run.Seed,
		run.Width,
		run.Height,
		run.Species,
		run.Aggression,
		int64(run.Ticks),
		run.Survivors,
		nullString(run.Dominant),
		run.DominantShare,
		run.Entropy,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	if len(census) > 0 {
		stmt, err := tx.Prepare(
			`INSERT INTO census (run_id, tick, survivors, dominant, dominant_share, entropy, health_mean)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return 0, fmt.Errorf("storage: cannot prepare census insert: %w", err)
		}
		defer stmt.Close()

		for _, p := range census {
			if _, err := stmt.Exec(id, int64(p.Tick), p.Survivors, p.Dominant, p.DominantShare, p.Entropy, p.HealthMean); err != nil {
				return 0, fmt.Errorf("storage: cannot save census: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, scenario, seed, width, height, species, aggression, ticks,
	survivors, dominant, dominant_share, entropy, duration_ms, created_at`

// RecentRuns retrieves the most recent runs, optionally filtered by scenario.
// An empty scenario matches every run.
func (s *Store) RecentRuns(scenario string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR scenario = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		scenario, scenario, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run by its ID. Returns nil if it does not exist.
func (s *Store) RunByID(id int64) (*RunRecord, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	return &run, nil
}

// RunCensus retrieves the census samples of a run in tick order.
func (s *Store) RunCensus(runID int64) ([]CensusPoint, error) {
	rows, err := s.db.Query(
		`SELECT tick, survivors, dominant, dominant_share, entropy, health_mean
		 FROM census
		 WHERE run_id = ?
		 ORDER BY tick`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query census: %w", err)
	}
	defer rows.Close()

	var points []CensusPoint
	for rows.Next() {
		var p CensusPoint
		var tick int64
		if err := rows.Scan(&tick, &p.Survivors, &p.Dominant, &p.DominantShare, &p.Entropy, &p.HealthMean); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		p.Tick = uint64(tick)
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return points, nil
}

// ClearRuns deletes all runs of the given scenario and their census samples.
func (s *Store) ClearRuns(scenario string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM census WHERE run_id IN (SELECT id FROM runs WHERE scenario = ?)",
		scenario,
	); err != nil {
		return fmt.Errorf("storage: cannot clear census: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE scenario = ?", scenario); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit clear: %w", err)
	}
	return nil
}

// GetScenarioStats retrieves statistics for every scenario that has been run.
func (s *Store) GetScenarioStats() (map[string]*ScenarioStats, error) {
	rows, err := s.db.Query(
		`SELECT scenario, COUNT(*), AVG(ticks), AVG(survivors),
		        SUM(CASE WHEN survivors = 1 THEN 1 ELSE 0 END), MAX(created_at)
		 FROM runs
		 GROUP BY scenario`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scenario stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ScenarioStats)
	for rows.Next() {
		var st ScenarioStats
		var lastRun any
		if err := rows.Scan(&st.Scenario, &st.Runs, &st.AvgTicks, &st.AvgSurvivors, &st.Monocultures, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastRun = parseTime(lastRun)
		stats[st.Scenario] = &st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var run RunRecord
	var ticks, durationMs int64
	var dominant sql.NullString
	var createdAt any

	if err := row.Scan(
		&run.ID,
		&run.Scenario,
		&run.Seed,
		&run.Width,
		&run.Height,
		&run.Species,
		&run.Aggression,
		&ticks,
		&run.Survivors,
		&dominant,
		&run.DominantShare,
		&run.Entropy,
		&durationMs,
		&createdAt,
	); err != nil {
		return RunRecord{}, err
	}

	run.Ticks = uint64(ticks)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	if dominant.Valid {
		run.Dominant = dominant.String
	}
	run.CreatedAt = parseTime(createdAt)
	return run, nil
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

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
