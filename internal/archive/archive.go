package archive

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	problem     TEXT    NOT NULL,
	mode        TEXT    NOT NULL,
	strategy    TEXT    NOT NULL,
	outcome     TEXT    NOT NULL,
	duration_ms REAL    NOT NULL,
	nodes       INTEGER NOT NULL,
	checks      INTEGER NOT NULL,
	backtracks  INTEGER NOT NULL,
	schedule    TEXT    NOT NULL,
	created_at  INTEGER NOT NULL
)`

// Run is the outcome of one finished solve or validation. Schedule holds the schedule as CSV
type Run struct {
	Id         int64
	Problem    string
	Mode       string
	Strategy   string
	Outcome    string
	DurationMs float64
	Nodes      uint64
	Checks     uint64
	Backtracks uint64
	Schedule   string
	CreatedAt  time.Time
}

// Archive keeps finished runs in a sqlite database
type Archive struct {
	db *sql.DB
}

func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}
	return &Archive{db: db}, nil
}

func (archive *Archive) Close() error {
	return archive.db.Close()
}

// Record stores the run and returns its id. A zero CreatedAt is replaced by the current time
func (archive *Archive) Record(run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	result, err := archive.db.Exec(
		`INSERT INTO runs (problem, mode, strategy, outcome, duration_ms, nodes, checks, backtracks, schedule, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.Problem, run.Mode, run.Strategy, run.Outcome, run.DurationMs,
		int64(run.Nodes), int64(run.Checks), int64(run.Backtracks), run.Schedule, run.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return result.LastInsertId()
}

// Runs lists the stored runs of the problem, oldest first. An empty problem lists every run
func (archive *Archive) Runs(problem string) ([]Run, error) {
	rows, err := archive.db.Query(
		`SELECT id, problem, mode, strategy, outcome, duration_ms, nodes, checks, backtracks, schedule, created_at
		 FROM runs WHERE ? = '' OR problem = ? ORDER BY id`,
		problem, problem,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		var run Run
		var nodes, checks, backtracks, createdAt int64
		if err := rows.Scan(&run.Id, &run.Problem, &run.Mode, &run.Strategy, &run.Outcome, &run.DurationMs,
			&nodes, &checks, &backtracks, &run.Schedule, &createdAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Nodes, run.Checks, run.Backtracks = uint64(nodes), uint64(checks), uint64(backtracks)
		run.CreatedAt = time.UnixMilli(createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
