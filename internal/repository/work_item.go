package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/budgetpace/internal/domain"
)

// WorkItemRepository reads the budgeted scope items of a project.
type WorkItemRepository struct {
	pool *pgxpool.Pool
}

// NewWorkItemRepository creates a new WorkItemRepository.
func NewWorkItemRepository(pool *pgxpool.Pool) *WorkItemRepository {
	return &WorkItemRepository{pool: pool}
}

// ListByProject returns the work items of a project ordered by position.
func (r *WorkItemRepository) ListByProject(ctx context.Context, projectID string) ([]domain.WorkItemBudget, error) {
	query, args, err := psql.
		Select("id", "project_id", "label", "estimated_work_days", "position").
		From("work_items").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByProject query for work items: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work items for project %s: %w", projectID, err)
	}
	defer rows.Close()

	var items []domain.WorkItemBudget
	for rows.Next() {
		var item domain.WorkItemBudget
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.Label, &item.EstimatedWorkDays, &item.Position); err != nil {
			return nil, fmt.Errorf("scan work item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work item rows: %w", err)
	}

	return items, nil
}
