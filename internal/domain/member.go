package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	RoleOwner  MemberRole = "owner"
	RoleMember MemberRole = "member"
)

// Member is a per-project membership row. Email is denormalized (lowercase)
// so membership checks don't need a profile lookup.
type Member struct {
	UserID    uuid.UUID
	ProjectID uuid.UUID
	Email     string
	Role      MemberRole
	JoinedAt  time.Time
}

// MemberProfile is the enriched view shown in UI: the membership row joined
// at read time with the global user profile.
type MemberProfile struct {
	UserID uuid.UUID
	Email  string
	Role   MemberRole
	Name   string
	Avatar Avatar
}

type MemberRepository interface {
	Add(ctx context.Context, m *Member) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Member, error)
	GetByEmail(ctx context.Context, projectID uuid.UUID, email string) (*Member, error)
	Remove(ctx context.Context, projectID, userID uuid.UUID) error
}

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation lives in a global collection (not nested under the project) so
// it can be queried by invitee email across projects.
type Invitation struct {
	ID          uuid.UUID
	Email       string
	ProjectID   uuid.UUID
	ProjectName string
	InvitedBy   string // inviter email
	Status      InvitationStatus
	CreatedAt   time.Time
}

type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]*Invitation, error)
	FindPending(ctx context.Context, projectID uuid.UUID, email string) (*Invitation, error)

	// Accept atomically marks the invitation accepted, inserts the member
	// row, and adds the project to the user's profile.
	Accept(ctx context.Context, id, userID uuid.UUID, email string) error

	Delete(ctx context.Context, id uuid.UUID) error
}
