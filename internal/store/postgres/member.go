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

type MemberRepo struct {
	pool *pgxpool.Pool
}

func NewMemberRepo(pool *pgxpool.Pool) *MemberRepo {
	return &MemberRepo{pool: pool}
}

func (r *MemberRepo) Add(ctx context.Context, m *domain.Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (user_id, project_id, email, role, joined_at)
		 VALUES ($1, $2, lower($3), $4, $5)`,
		m.UserID, m.ProjectID, m.Email, m.Role, m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("memberRepo.Add: %w", err)
	}

	return nil
}

func (r *MemberRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Member, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, project_id, email, role, joined_at
		 FROM members WHERE project_id = $1 ORDER BY joined_at, user_id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("memberRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	var members []*domain.Member
	for rows.Next() {
		var m domain.Member
		err = rows.Scan(&m.UserID, &m.ProjectID, &m.Email, &m.Role, &m.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("memberRepo.ListByProject: scan: %w", err)
		}
		members = append(members, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("memberRepo.ListByProject: rows: %w", err)
	}

	return members, nil
}

func (r *MemberRepo) GetByEmail(ctx context.Context, projectID uuid.UUID, email string) (*domain.Member, error) {
	var m domain.Member

	err := r.pool.QueryRow(ctx,
		`SELECT user_id, project_id, email, role, joined_at
		 FROM members WHERE project_id = $1 AND email = lower($2)`,
		projectID, email,
	).Scan(&m.UserID, &m.ProjectID, &m.Email, &m.Role, &m.JoinedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("memberRepo.GetByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("memberRepo.GetByEmail: %w", err)
	}

	return &m, nil
}

func (r *MemberRepo) Remove(ctx context.Context, projectID, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM members WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("memberRepo.Remove: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("memberRepo.Remove: %w", domain.ErrNotFound)
	}

	return nil
}
