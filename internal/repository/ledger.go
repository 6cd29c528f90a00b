package repository

import (
	"context"
	"fmt"
	"time"
)

// LedgerSummary aggregates the logged time of one project.
type LedgerSummary struct {
	ProjectID     string
	ProjectName   string
	EntryCount    int
	LoggedSeconds int64
	LastEntryAt   *time.Time
}

// HasActivity reports whether any closed session was logged.
func (s LedgerSummary) HasActivity() bool {
	return s.EntryCount > 0
}

// ListLedgerSummaries returns one summary per project ordered by name.
// Only closed sessions with a positive duration are counted.
func (r *ProjectRepository) ListLedgerSummaries(ctx context.Context) ([]LedgerSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			p.id,
			p.name,
			COUNT(e.id) AS entry_count,
			COALESCE(SUM(e.duration_seconds), 0)::BIGINT AS logged_seconds,
			MAX(e.start_time) AS last_entry_at
		FROM projects p
		LEFT JOIN time_entries e
			ON e.project_id = p.id
			AND e.duration_seconds IS NOT NULL
			AND e.duration_seconds > 0
		GROUP BY p.id, p.name
		ORDER BY p.name, p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query ledger summaries: %w", err)
	}
	defer rows.Close()

	var summaries []LedgerSummary
	for rows.Next() {
		var s LedgerSummary
		if err := rows.Scan(&s.ProjectID, &s.ProjectName, &s.EntryCount, &s.LoggedSeconds, &s.LastEntryAt); err != nil {
			return nil, fmt.Errorf("scan ledger summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger summary rows: %w", err)
	}

	return summaries, nil
}
