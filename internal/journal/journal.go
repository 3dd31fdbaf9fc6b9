package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrRunNotFound is returned when no run matches an identifier.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when a run ID prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Journal is a SQLite-backed run history.
type Journal struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// BeginRun records the start of a batch over root and returns the new run ID.
func (j *Journal) BeginRun(ctx context.Context, root, policy string) (string, error) {
	id := uuid.NewString()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, root, policy, started_at) VALUES (?, ?, ?, ?)`,
		id, root, policy, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordFile appends the outcome of one file to a run.
func (j *Journal) RecordFile(ctx context.Context, runID string, entry FileEntry) error {
	recorded := entry.RecordedAt
	if recorded.IsZero() {
		recorded = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO files (run_id, path, status, reason, error, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, entry.Path, entry.Status,
		nullableString(entry.Reason), nullableString(entry.Error),
		formatTime(recorded),
	)
	if err != nil {
		return fmt.Errorf("insert file outcome: %w", err)
	}
	return nil
}

// FinishRun stores the final tally of a run.
func (j *Journal) FinishRun(ctx context.Context, runID string, s Summary) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs
         SET finished_at = ?, processed = ?, updated = ?, skipped = ?, failed = ?,
             interrupted = ?, elapsed_ms = ?
         WHERE id = ?`,
		formatTime(time.Now()), s.Processed, s.Updated, s.Skipped, s.Failed,
		boolToInt(s.Interrupted), s.Elapsed.Milliseconds(), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `id, root, policy, started_at, finished_at, processed, updated, skipped, failed, interrupted, elapsed_ms`

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all runs.
func (j *Journal) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// GetRun finds a run by full ID or unique ID prefix.
func (j *Journal) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrRunNotFound)
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ORDER BY id = ? DESC, started_at DESC LIMIT 2`,
		idOrPrefix, stripWildcards(idOrPrefix)+"%", idOrPrefix,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// RunFiles returns the file outcomes of a run in recording order.
func (j *Journal) RunFiles(ctx context.Context, runID string) ([]FileEntry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT path, status, reason, error, recorded_at FROM files WHERE run_id = ? ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var (
			entry    FileEntry
			reason   sql.NullString
			errText  sql.NullString
			recorded string
		)
		if err := rows.Scan(&entry.Path, &entry.Status, &reason, &errText, &recorded); err != nil {
			return nil, fmt.Errorf("scan file outcome: %w", err)
		}
		entry.Reason = reason.String
		entry.Error = errText.String
		entry.RecordedAt = parseTime(recorded)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list run files: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run         Run
		started     string
		finished    sql.NullString
		interrupted int
		elapsedMS   int64
	)
	if err := row.Scan(&run.ID, &run.Root, &run.Policy, &started, &finished,
		&run.Processed, &run.Updated, &run.Skipped, &run.Failed, &interrupted, &elapsedMS); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = parseTime(started)
	if finished.Valid {
		t := parseTime(finished.String)
		run.FinishedAt = &t
	}
	run.Interrupted = interrupted != 0
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return &run, nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func stripWildcards(value string) string {
	return strings.NewReplacer(`%`, ``, `_`, ``).Replace(value)
}
