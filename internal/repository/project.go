package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mtlprog/budgetpace/internal/domain"
)

var projectColumns = []string{"id", "name", "fallback_work_days", "deadline", "created_at"}

// ProjectRepository handles database operations for projects.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.FallbackWorkDays,
		&project.Deadline,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return &project, nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query, args, err := psql.
		Select(projectColumns...).
		From("projects").
		Where(sq.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for project %s: %w", projectID, err)
	}

	project, err := scanProject(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, fmt.Errorf("project %s: %w", projectID, err)
		}
		return nil, err
	}
	return project, nil
}
