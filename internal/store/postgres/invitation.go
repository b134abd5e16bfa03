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

type InvitationRepo struct {
	pool *pgxpool.Pool
}

func NewInvitationRepo(pool *pgxpool.Pool) *InvitationRepo {
	return &InvitationRepo{pool: pool}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO invitations (id, email, project_id, project_name, invited_by, status, created_at)
		 VALUES ($1, lower($2), $3, $4, $5, $6, $7)`,
		inv.ID, inv.Email, inv.ProjectID, inv.ProjectName,
		inv.InvitedBy, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("invitationRepo.Create: %w", err)
	}

	return nil
}

func (r *InvitationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	var inv domain.Invitation

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, project_id, project_name, invited_by, status, created_at
		 FROM invitations WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.Email, &inv.ProjectID, &inv.ProjectName, &inv.InvitedBy, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("invitationRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.GetByID: %w", err)
	}

	return &inv, nil
}

func (r *InvitationRepo) ListPendingByEmail(ctx context.Context, email string) ([]*domain.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, project_id, project_name, invited_by, status, created_at
		 FROM invitations WHERE email = lower($1) AND status = $2 ORDER BY created_at`,
		email, domain.InvitationPending,
	)
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.ListPendingByEmail: %w", err)
	}
	defer rows.Close()

	var invitations []*domain.Invitation
	for rows.Next() {
		var inv domain.Invitation
		err = rows.Scan(&inv.ID, &inv.Email, &inv.ProjectID, &inv.ProjectName, &inv.InvitedBy, &inv.Status, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("invitationRepo.ListPendingByEmail: scan: %w", err)
		}
		invitations = append(invitations, &inv)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.ListPendingByEmail: rows: %w", err)
	}

	return invitations, nil
}

func (r *InvitationRepo) FindPending(ctx context.Context, projectID uuid.UUID, email string) (*domain.Invitation, error) {
	var inv domain.Invitation

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, project_id, project_name, invited_by, status, created_at
		 FROM invitations WHERE project_id = $1 AND email = lower($2) AND status = $3`,
		projectID, email, domain.InvitationPending,
	).Scan(&inv.ID, &inv.Email, &inv.ProjectID, &inv.ProjectName, &inv.InvitedBy, &inv.Status, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("invitationRepo.FindPending: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("invitationRepo.FindPending: %w", err)
	}

	return &inv, nil
}

// Accept marks the invitation accepted, inserts the member row, and adds the
// project to the user's profile, all in one transaction.
func (r *InvitationRepo) Accept(ctx context.Context, id, userID uuid.UUID, email string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("invitationRepo.Accept: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var projectID uuid.UUID
	err = tx.QueryRow(ctx,
		`UPDATE invitations SET status = $1 WHERE id = $2 AND status = $3
		 RETURNING project_id`,
		domain.InvitationAccepted, id, domain.InvitationPending,
	).Scan(&projectID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("invitationRepo.Accept: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("invitationRepo.Accept: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO members (user_id, project_id, email, role, joined_at)
		 VALUES ($1, $2, lower($3), $4, now())
		 ON CONFLICT (user_id, project_id) DO NOTHING`,
		userID, projectID, email, domain.RoleMember,
	)
	if err != nil {
		return fmt.Errorf("invitationRepo.Accept: insert member: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET project_ids = array_append(project_ids, $1), updated_at = now()
		 WHERE id = $2 AND NOT ($1 = ANY(project_ids))`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("invitationRepo.Accept: update profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("invitationRepo.Accept: commit: %w", err)
	}

	return nil
}

func (r *InvitationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM invitations WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("invitationRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invitationRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}
