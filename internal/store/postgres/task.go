package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadichii/kadichii/internal/domain"
)

type TaskRepo struct {
	pool *pgxpool.Pool
}

func NewTaskRepo(pool *pgxpool.Pool) *TaskRepo {
	return &TaskRepo{pool: pool}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	checklist, assignees, err := marshalTaskJSON(t)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO tasks (id, project_id, column_id, title, description, due_date, checklist, assignees, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.ProjectID, t.ColumnID, t.Title, t.Description,
		t.DueDate, checklist, assignees, t.CreatorID,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Create: %w", err)
	}

	return nil
}

func (r *TaskRepo) GetByID(ctx context.Context, projectID, id uuid.UUID) (*domain.Task, error) {
	t, err := scanTask(r.pool.QueryRow(ctx,
		`SELECT id, project_id, column_id, title, description, due_date, checklist, assignees, creator_id, created_at, updated_at
		 FROM tasks WHERE project_id = $1 AND id = $2`,
		projectID, id,
	))
	if err != nil {
		return nil, fmt.Errorf("taskRepo.GetByID: %w", err)
	}

	return t, nil
}

func (r *TaskRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, column_id, title, description, due_date, checklist, assignees, creator_id, created_at, updated_at
		 FROM tasks WHERE project_id = $1 ORDER BY created_at, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("taskRepo.ListByProject: scan: %w", err)
		}
		tasks = append(tasks, t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("taskRepo.ListByProject: rows: %w", err)
	}

	return tasks, nil
}

func (r *TaskRepo) Update(ctx context.Context, t *domain.Task) error {
	checklist, assignees, err := marshalTaskJSON(t)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET column_id = $1, title = $2, description = $3, due_date = $4, checklist = $5, assignees = $6, updated_at = now()
		 WHERE project_id = $7 AND id = $8`,
		t.ColumnID, t.Title, t.Description, t.DueDate, checklist, assignees,
		t.ProjectID, t.ID,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) UpdateColumn(ctx context.Context, projectID, id, columnID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET column_id = $1, updated_at = now()
		 WHERE project_id = $2 AND id = $3`,
		columnID, projectID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.UpdateColumn: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.UpdateColumn: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) UpdateChecklist(ctx context.Context, projectID, id uuid.UUID, items []domain.ChecklistItem) error {
	checklist, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("taskRepo.UpdateChecklist: marshal: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tasks SET checklist = $1, updated_at = now()
		 WHERE project_id = $2 AND id = $3`,
		checklist, projectID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.UpdateChecklist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.UpdateChecklist: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, projectID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE project_id = $1 AND id = $2`,
		projectID, id,
	)
	if err != nil {
		return fmt.Errorf("taskRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("taskRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TaskRepo) CountByColumn(ctx context.Context, projectID, columnID uuid.UUID) (int, error) {
	var count int

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND column_id = $2`,
		projectID, columnID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("taskRepo.CountByColumn: %w", err)
	}

	return count, nil
}

func marshalTaskJSON(t *domain.Task) (checklist, assignees []byte, err error) {
	checklist, err = json.Marshal(t.Checklist)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal checklist: %w", err)
	}
	assignees, err = json.Marshal(t.Assignees)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal assignees: %w", err)
	}
	return checklist, assignees, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var checklist, assignees []byte

	err := row.Scan(&t.ID, &t.ProjectID, &t.ColumnID, &t.Title, &t.Description,
		&t.DueDate, &checklist, &assignees, &t.CreatorID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err = json.Unmarshal(checklist, &t.Checklist); err != nil {
		return nil, fmt.Errorf("unmarshal checklist: %w", err)
	}
	if err = json.Unmarshal(assignees, &t.Assignees); err != nil {
		return nil, fmt.Errorf("unmarshal assignees: %w", err)
	}

	return &t, nil
}
