// Package journal records batch runs in a local SQLite file: one row per
// run plus the design assets the run could not locate. The journal is a
// best-effort collaborator; every failure here is reported as a warning and
// never fails the batch.
package journal

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/swanseaprintco/manifest-press/constants"
)

const schema = `
CREATE TABLE IF NOT EXISTS batch_runs (
	run_id TEXT PRIMARY KEY,
	batch_ref TEXT NOT NULL,
	pages INTEGER NOT NULL DEFAULT 0,
	items INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	fatal_error TEXT,
	started_at INTEGER NOT NULL,
	finished_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_batch_runs_ref ON batch_runs(batch_ref);

CREATE TABLE IF NOT EXISTS missing_assets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES batch_runs(run_id),
	asset_path TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_missing_assets_run ON missing_assets(run_id);
`

// Journal is the batch run register.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the journal database at path and applies the
// schema.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db, logger: logger}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Begin registers a new run and returns its ID.
func (j *Journal) Begin(batchRef string) uuid.UUID {
	runID := uuid.New()
	_, err := j.db.Exec(
		`INSERT INTO batch_runs (run_id, batch_ref, status, started_at) VALUES (?, ?, ?, ?)`,
		runID.String(), batchRef, string(constants.RunStatusRunning), time.Now().Unix(),
	)
	if err != nil {
		j.logger.Warn("journal.begin.failed", "error", err)
	}
	return runID
}

// Finish marks the run complete with its page and item counts and stores the
// missing-asset list.
func (j *Journal) Finish(runID uuid.UUID, pages, items int, missingAssets []string) {
	_, err := j.db.Exec(
		`UPDATE batch_runs SET status = ?, pages = ?, items = ?, finished_at = ? WHERE run_id = ?`,
		string(constants.RunStatusOK), pages, items, time.Now().Unix(), runID.String(),
	)
	if err != nil {
		j.logger.Warn("journal.finish.failed", "error", err)
		return
	}
	for _, path := range missingAssets {
		if _, err := j.db.Exec(
			`INSERT INTO missing_assets (run_id, asset_path) VALUES (?, ?)`,
			runID.String(), path,
		); err != nil {
			j.logger.Warn("journal.asset.failed", "error", err)
			return
		}
	}
}

// Fail marks the run failed with its fatal error.
func (j *Journal) Fail(runID uuid.UUID, fatal error) {
	msg := ""
	if fatal != nil {
		msg = fatal.Error()
	}
	_, err := j.db.Exec(
		`UPDATE batch_runs SET status = ?, fatal_error = ?, finished_at = ? WHERE run_id = ?`,
		string(constants.RunStatusFailed), msg, time.Now().Unix(), runID.String(),
	)
	if err != nil {
		j.logger.Warn("journal.fail.failed", "error", err)
	}
}

// Run is one journal row, as read back by reporting tools.
type Run struct {
	RunID      string
	BatchRef   string
	Pages      int
	Items      int
	Status     constants.RunStatus
	FatalError string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Runs lists the most recent runs, newest first.
func (j *Journal) Runs(limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := j.db.Query(
		`SELECT run_id, batch_ref, pages, items, status, COALESCE(fatal_error, ''), started_at, COALESCE(finished_at, 0)
		 FROM batch_runs ORDER BY started_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var status string
		var started, finished int64
		if err := rows.Scan(&r.RunID, &r.BatchRef, &r.Pages, &r.Items, &status, &r.FatalError, &started, &finished); err != nil {
			return nil, err
		}
		r.Status = constants.RunStatus(status)
		r.StartedAt = time.Unix(started, 0)
		if finished > 0 {
			r.FinishedAt = time.Unix(finished, 0)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MissingAssets lists the asset paths recorded for one run.
func (j *Journal) MissingAssets(runID uuid.UUID) ([]string, error) {
	rows, err := j.db.Query(
		`SELECT asset_path FROM missing_assets WHERE run_id = ? ORDER BY id`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("list missing assets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		out = append(out, path)
	}
	return out, rows.Err()
}
