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

// idChunkSize caps how many ids go into one ANY() query when resolving
// profile batches.
const idChunkSize = 30

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, display_name, avatar_kind, avatar_value, project_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, nilIfEmpty(u.PasswordHash),
		u.DisplayName, string(u.Avatar.Kind), u.Avatar.Value,
		u.Projects, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Create: %w", err)
	}

	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, display_name, avatar_kind, avatar_value, project_ids, created_at, updated_at
		 FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByID: %w", err)
	}

	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := r.scanOne(r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, display_name, avatar_kind, avatar_value, project_ids, created_at, updated_at
		 FROM users WHERE email = lower($1)`,
		email,
	))
	if err != nil {
		return nil, fmt.Errorf("userRepo.GetByEmail: %w", err)
	}

	return u, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $1, password_hash = $2, display_name = $3, avatar_kind = $4, avatar_value = $5, updated_at = now()
		 WHERE id = $6`,
		u.Email, nilIfEmpty(u.PasswordHash),
		u.DisplayName, string(u.Avatar.Kind), u.Avatar.Value,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("userRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("userRepo.Delete: %w", domain.ErrNotFound)
	}

	return nil
}

// ListByIDs resolves profiles in chunks of at most idChunkSize ids per query.
// Ids with no matching profile are silently skipped.
func (r *UserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.User, error) {
	var users []*domain.User

	for start := 0; start < len(ids); start += idChunkSize {
		end := min(start+idChunkSize, len(ids))

		rows, err := r.pool.Query(ctx,
			`SELECT id, email, password_hash, display_name, avatar_kind, avatar_value, project_ids, created_at, updated_at
			 FROM users WHERE id = ANY($1)`,
			ids[start:end],
		)
		if err != nil {
			return nil, fmt.Errorf("userRepo.ListByIDs: %w", err)
		}

		for rows.Next() {
			u, err := r.scanOne(rows)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("userRepo.ListByIDs: scan: %w", err)
			}
			users = append(users, u)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("userRepo.ListByIDs: rows: %w", err)
		}
	}

	return users, nil
}

func (r *UserRepo) AddProject(ctx context.Context, userID, projectID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET project_ids = array_append(project_ids, $1), updated_at = now()
		 WHERE id = $2 AND NOT ($1 = ANY(project_ids))`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("userRepo.AddProject: %w", err)
	}
	// Zero rows means the user is gone or already had the project; only the
	// former is an error.
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, userID); err != nil {
			return fmt.Errorf("userRepo.AddProject: %w", domain.ErrNotFound)
		}
	}

	return nil
}

func (r *UserRepo) RemoveProject(ctx context.Context, userID, projectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET project_ids = array_remove(project_ids, $1), updated_at = now()
		 WHERE id = $2`,
		projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("userRepo.RemoveProject: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *UserRepo) scanOne(row rowScanner) (*domain.User, error) {
	var u domain.User
	var passwordHash *string
	var avatarKind, avatarValue string

	err := row.Scan(&u.ID, &u.Email, &passwordHash, &u.DisplayName,
		&avatarKind, &avatarValue, &u.Projects, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	u.PasswordHash = derefStr(passwordHash)
	u.Avatar = domain.Avatar{Kind: domain.AvatarKind(avatarKind), Value: avatarValue}
	if u.Projects == nil {
		u.Projects = []uuid.UUID{}
	}

	return &u, nil
}

// --- Helpers ---

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
