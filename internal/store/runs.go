package store

import (
	"context"
	"database/sql"
	"fmt"
)

// resetSentinel is far enough in the past that any real date differs from it,
// forcing the next TryMarkRun to succeed.
const resetSentinel = "1970-01-01"

// TryMarkRun atomically claims today's run for a task key. The conditional
// upsert is a compare-and-swap on the stored date: exactly one of any number
// of concurrent callers sees true per (key, day), the rest see false.
func (p *PgStore) TryMarkRun(ctx context.Context, taskKey, today string) (bool, error) {
	stmt := `
INSERT INTO task_runs (task_key, last_run)
VALUES ($1, $2::date)
ON CONFLICT (task_key) DO UPDATE SET last_run = EXCLUDED.last_run
WHERE task_runs.last_run <> EXCLUDED.last_run
`
	res, err := p.db.ExecContext(ctx, stmt, taskKey, today)
	if err != nil {
		return false, fmt.Errorf("mark run key=%s: %w", taskKey, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark run key=%s rows: %w", taskKey, err)
	}
	return n > 0, nil
}

// LastRun returns the stored last-run date for a key, or "" when the task has
// never run.
func (p *PgStore) LastRun(ctx context.Context, taskKey string) (string, error) {
	var date string
	err := p.db.GetContext(ctx, &date,
		`SELECT last_run::text FROM task_runs WHERE task_key = $1`, taskKey)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select last run key=%s: %w", taskKey, err)
	}
	return date, nil
}

// ResetRun rewinds a task key to the sentinel date so the next TryMarkRun
// succeeds regardless of when the task actually last ran.
func (p *PgStore) ResetRun(ctx context.Context, taskKey string) error {
	stmt := `
INSERT INTO task_runs (task_key, last_run)
VALUES ($1, $2::date)
ON CONFLICT (task_key) DO UPDATE SET last_run = EXCLUDED.last_run
`
	if _, err := p.db.ExecContext(ctx, stmt, taskKey, resetSentinel); err != nil {
		return fmt.Errorf("reset run key=%s: %w", taskKey, err)
	}
	return nil
}
