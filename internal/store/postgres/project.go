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

type ProjectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// CreateWithDefaults inserts the project, its three seed columns, the owner's
// member row, and the project id in the owner's profile, all in one
// transaction. A failure anywhere leaves no trace of the project.
func (r *ProjectRepo) CreateWithDefaults(ctx context.Context, p *domain.Project, ownerEmail string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("projectRepo.CreateWithDefaults: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO projects (id, name, description, owner_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.OwnerID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.CreateWithDefaults: insert project: %w", err)
	}

	for i, title := range domain.SeedColumnTitles {
		_, err = tx.Exec(ctx,
			`INSERT INTO columns (id, project_id, title, ord, created_at)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), p.ID, title, i, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("projectRepo.CreateWithDefaults: seed column: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO members (user_id, project_id, email, role, joined_at)
		 VALUES ($1, $2, lower($3), $4, $5)`,
		p.OwnerID, p.ID, ownerEmail, domain.RoleOwner, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.CreateWithDefaults: owner member: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET project_ids = array_append(project_ids, $1), updated_at = now()
		 WHERE id = $2 AND NOT ($1 = ANY(project_ids))`,
		p.ID, p.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.CreateWithDefaults: owner profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("projectRepo.CreateWithDefaults: commit: %w", err)
	}

	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, owner_id, created_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("projectRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("projectRepo.GetByID: %w", err)
	}

	return &p, nil
}

// ListByIDs fetches projects in chunks of at most idChunkSize ids per query,
// preserving the order of the input ids in the result.
func (r *ProjectRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Project, error) {
	byID := make(map[uuid.UUID]*domain.Project, len(ids))

	for start := 0; start < len(ids); start += idChunkSize {
		end := min(start+idChunkSize, len(ids))

		rows, err := r.pool.Query(ctx,
			`SELECT id, name, description, owner_id, created_at
			 FROM projects WHERE id = ANY($1)`,
			ids[start:end],
		)
		if err != nil {
			return nil, fmt.Errorf("projectRepo.ListByIDs: %w", err)
		}

		for rows.Next() {
			var p domain.Project
			err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("projectRepo.ListByIDs: scan: %w", err)
			}
			byID[p.ID] = &p
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("projectRepo.ListByIDs: rows: %w", err)
		}
	}

	projects := make([]*domain.Project, 0, len(byID))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			projects = append(projects, p)
		}
	}

	return projects, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET name = $1, description = $2 WHERE id = $3`,
		p.Name, p.Description, p.ID,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projectRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

// DeleteCascade removes the project and every dependent collection, and
// strips the project id from each member's profile, in one transaction.
func (r *ProjectRepo) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("projectRepo.DeleteCascade: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE users SET project_ids = array_remove(project_ids, $1), updated_at = now()
		 WHERE $1 = ANY(project_ids)`,
		id,
	)
	if err != nil {
		return fmt.Errorf("projectRepo.DeleteCascade: member profiles: %w", err)
	}

	for _, table := range []string{"strokes", "chat_messages", "invitations", "members", "tasks", "columns"} {
		_, err = tx.Exec(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1`, table), id,
		)
		if err != nil {
			return fmt.Errorf("projectRepo.DeleteCascade: delete %s: %w", table, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("projectRepo.DeleteCascade: delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("projectRepo.DeleteCascade: %w", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("projectRepo.DeleteCascade: commit: %w", err)
	}

	return nil
}
