package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a global profile. Projects is a denormalized list of project IDs
// the user belongs to; it is the membership index used to list a user's
// projects without scanning every member row.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	DisplayName  string
	Avatar       Avatar
	Projects     []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser creates a profile with the defaults the product seeds at sign-up:
// display name from the local part of the email, placeholder avatar.
func NewUser(email, passwordHash string) *User {
	email = strings.ToLower(email)
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	now := time.Now()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  name,
		Avatar:       DefaultAvatar(email),
		Projects:     []uuid.UUID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByIDs fetches profiles for the given ids. Implementations fetch in
	// chunks of at most 30 ids per query.
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	AddProject(ctx context.Context, userID, projectID uuid.UUID) error
	RemoveProject(ctx context.Context, userID, projectID uuid.UUID) error
}
