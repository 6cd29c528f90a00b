package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// TimeEntryRepository reads the time ledger.
type TimeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository creates a new TimeEntryRepository.
func NewTimeEntryRepository(pool *pgxpool.Pool) *TimeEntryRepository {
	return &TimeEntryRepository{pool: pool}
}

// ListByProject returns every logged session of a project, open ones included.
// Filtering of unusable entries is left to the pace engine.
func (r *TimeEntryRepository) ListByProject(ctx context.Context, projectID string) ([]domain.TimeEntry, error) {
	query, args, err := psql.
		Select("id", "work_item_id", "start_time", "duration_seconds").
		From("time_entries").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("start_time ASC NULLS FIRST", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByProject query for time entries: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query time entries for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		var (
			entry      domain.TimeEntry
			workItemID *string
			startTime  *time.Time
		)
		if err := rows.Scan(&entry.ID, &workItemID, &startTime, &entry.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scan time entry: %w", err)
		}
		if workItemID != nil {
			entry.WorkItemID = *workItemID
		}
		if startTime != nil {
			entry.StartTime = *startTime
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate time entry rows: %w", err)
	}

	return entries, nil
}
