// Package runstore provides SQLite-backed archival of transpile runs: one
// row per run with its outcome and circuit metrics, one row per pass
// execution. The archive backs the CLI's history view and offline pipeline
// tuning.
package runstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/qdag-xyz/go-qdag/passmanager"
)

// Store handles SQLite database operations for run archival.
type Store struct {
	db *sql.DB
}

// Run is one archived transpile run.
type Run struct {
	ID         string    `json:"id"`
	State      string    `json:"state"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Passes     int       `json:"passes"`
	FailedPass string    `json:"failed_pass,omitempty"`
	Error      string    `json:"error,omitempty"`
	Depth      int       `json:"depth"`
	Size       int       `json:"size"`
	Width      int       `json:"width"`
}

// PassRow is one archived pass execution.
type PassRow struct {
	RunID     string        `json:"run_id"`
	Seq       int           `json:"seq"`
	Pass      string        `json:"pass"`
	Kind      string        `json:"kind"`
	GroupIdx  int           `json:"group_idx"`
	Iteration int           `json:"iteration"`
	Duration  time.Duration `json:"duration"`
	Changed   bool          `json:"changed"`
	Error     string        `json:"error,omitempty"`
}

// New creates a Store backed by the database at the given path. Use
// ":memory:" for an ephemeral archive.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		state TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		passes INTEGER NOT NULL DEFAULT 0,
		failed_pass TEXT,
		error TEXT,
		depth INTEGER NOT NULL DEFAULT 0,
		size INTEGER NOT NULL DEFAULT 0,
		width INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS pass_executions (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		pass TEXT NOT NULL,
		kind TEXT NOT NULL,
		group_idx INTEGER NOT NULL,
		iteration INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		changed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_pass_executions_pass ON pass_executions(pass);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveResult archives a finished framework run with its pass records.
func (s *Store) SaveResult(res *passmanager.Result) error {
	run := Run{
		ID:         res.RunID,
		State:      string(res.State),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Passes:     len(res.Records),
		FailedPass: res.FailedPass,
		Depth:      -1,
		Width:      res.DAG.Width(),
		Size:       res.DAG.Size(),
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	if depth, err := res.DAG.Depth(); err == nil {
		run.Depth = depth
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs
		(id, state, started_at, finished_at, passes, failed_pass, error, depth, size, width)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.State, run.StartedAt, run.FinishedAt, run.Passes,
		run.FailedPass, run.Error, run.Depth, run.Size, run.Width)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, rec := range res.Records {
		_, err = tx.Exec(`INSERT INTO pass_executions
			(run_id, seq, pass, kind, group_idx, iteration, duration_ns, changed, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, rec.Seq, rec.Pass, string(rec.Kind), rec.Group,
			rec.Iteration, int64(rec.Duration), rec.Changed, rec.Err)
		if err != nil {
			return fmt.Errorf("insert pass %d: %w", rec.Seq, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns archived runs, most recent first, up to limit (0 means
// no limit).
func (s *Store) ListRuns(limit int) ([]Run, error) {
	query := `SELECT id, state, started_at, finished_at, passes,
		COALESCE(failed_pass, ''), COALESCE(error, ''), depth, size, width
		FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.State, &r.StartedAt, &r.FinishedAt, &r.Passes,
			&r.FailedPass, &r.Error, &r.Depth, &r.Size, &r.Width); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns one archived run by ID.
func (s *Store) GetRun(id string) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT id, state, started_at, finished_at, passes,
		COALESCE(failed_pass, ''), COALESCE(error, ''), depth, size, width
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.State, &r.StartedAt, &r.FinishedAt, &r.Passes,
			&r.FailedPass, &r.Error, &r.Depth, &r.Size, &r.Width)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return &r, nil
}

// PassExecutions returns the archived pass rows of a run in sequence order.
func (s *Store) PassExecutions(runID string) ([]PassRow, error) {
	rows, err := s.db.Query(`SELECT run_id, seq, pass, kind, group_idx, iteration,
		duration_ns, changed, COALESCE(error, '')
		FROM pass_executions WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}
	defer rows.Close()

	var out []PassRow
	for rows.Next() {
		var p PassRow
		var durNs int64
		if err := rows.Scan(&p.RunID, &p.Seq, &p.Pass, &p.Kind, &p.GroupIdx,
			&p.Iteration, &durNs, &p.Changed, &p.Error); err != nil {
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		p.Duration = time.Duration(durNs)
		out = append(out, p)
	}
	return out, rows.Err()
}

// PassStats aggregates execution count and total duration per pass name
// across the whole archive.
func (s *Store) PassStats() (map[string]PassStat, error) {
	rows, err := s.db.Query(`SELECT pass, COUNT(*), SUM(duration_ns), SUM(changed)
		FROM pass_executions GROUP BY pass`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]PassStat)
	for rows.Next() {
		var name string
		var st PassStat
		var durNs int64
		if err := rows.Scan(&name, &st.Executions, &durNs, &st.Changes); err != nil {
			return nil, fmt.Errorf("scan stat: %w", err)
		}
		st.TotalDuration = time.Duration(durNs)
		stats[name] = st
	}
	return stats, rows.Err()
}

// PassStat summarizes one pass's archived executions.
type PassStat struct {
	Executions    int
	Changes       int
	TotalDuration time.Duration
}
