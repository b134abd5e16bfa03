package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadichii/kadichii/internal/domain"
)

// "ord" because "order" is a reserved word.
type ColumnRepo struct {
	pool *pgxpool.Pool
}

func NewColumnRepo(pool *pgxpool.Pool) *ColumnRepo {
	return &ColumnRepo{pool: pool}
}

func (r *ColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO columns (id, project_id, title, ord, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.ProjectID, c.Title, c.Order, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Create: %w", err)
	}

	return nil
}

func (r *ColumnRepo) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Column, error) {
	var c domain.Column

	err := r.pool.QueryRow(ctx,
		`SELECT id, project_id, title, ord, created_at
		 FROM columns WHERE project_id = $1 AND id = $2`,
		projectID, id,
	).Scan(&c.ID, &c.ProjectID, &c.Title, &c.Order, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("columnRepo.GetByID: %w", err)
	}

	return &c, nil
}

func (r *ColumnRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Column, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, title, ord, created_at
		 FROM columns WHERE project_id = $1 ORDER BY ord, title`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("columnRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	var columns []*domain.Column
	for rows.Next() {
		var c domain.Column
		err = rows.Scan(&c.ID, &c.ProjectID, &c.Title, &c.Order, &c.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("columnRepo.ListByProject: scan: %w", err)
		}
		columns = append(columns, &c)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("columnRepo.ListByProject: rows: %w", err)
	}

	return columns, nil
}

func (r *ColumnRepo) Rename(ctx context.Context, projectID, id uuid.UUID, title string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE columns SET title = $1 WHERE project_id = $2 AND id = $3`,
		title, projectID, id,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Rename: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Rename: %w", domain.ErrNotFound)
	}

	return nil
}

// Reorder persists every rank in one transaction so a concurrent reader
// never observes a half-applied ordering.
func (r *ColumnRepo) Reorder(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("columnRepo.Reorder: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, rank := range ranks {
		_, err = tx.Exec(ctx,
			`UPDATE columns SET ord = $1 WHERE project_id = $2 AND id = $3`,
			rank.Order, projectID, rank.ID,
		)
		if err != nil {
			return fmt.Errorf("columnRepo.Reorder: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("columnRepo.Reorder: commit: %w", err)
	}

	return nil
}

func (r *ColumnRepo) NextOrder(ctx context.Context, projectID uuid.UUID) (int, error) {
	var next int

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(ord) + 1, 0) FROM columns WHERE project_id = $1`,
		projectID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("columnRepo.NextOrder: %w", err)
	}

	return next, nil
}

func (r *ColumnRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND column_id = $2`,
		projectID, id,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: count tasks: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("columnRepo.Delete: %w", domain.ErrColumnNotEmpty)
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM columns WHERE project_id = $1 AND id = $2`,
		projectID, id,
	)
	if err != nil {
		return fmt.Errorf("columnRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("columnRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
