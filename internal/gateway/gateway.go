// Package gateway defines the narrow surface through which clients talk to
// the remote store. Everything visible to more than one user at a time is
// kept fresh through subscriptions rather than one-shot reads: the store is
// multi-writer and the client never assumes exclusive access.
package gateway

import (
	"context"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
)

// Teardown stops a subscription and releases its server-side resources.
// Callers must invoke it exactly once, on teardown of the consuming view.
type Teardown func()

// Gateway is the sole point of contact with the remote store.
//
// Contract:
//   - One-shot reads return state that was true at some point during the
//     call; no staleness guarantee beyond that.
//   - Subscriptions invoke the callback once immediately with current state,
//     then again on every remote change matching the query, until torn down.
//     Each delivery is a full snapshot, never a diff.
//   - Writes propagate errors to the caller without retrying.
//   - Unset optional fields are omitted from writes entirely.
type Gateway interface {
	// Projects
	Project(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	Projects(ctx context.Context) ([]*domain.Project, error)
	CreateProject(ctx context.Context, name, description string) (*domain.Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, name, description string) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Columns
	Columns(ctx context.Context, projectID uuid.UUID) ([]domain.Column, error)
	SubscribeColumns(ctx context.Context, projectID uuid.UUID, fn func([]domain.Column)) (Teardown, error)
	CreateColumn(ctx context.Context, projectID uuid.UUID, title string) (*domain.Column, error)
	RenameColumn(ctx context.Context, projectID, columnID uuid.UUID, title string) error
	DeleteColumn(ctx context.Context, projectID, columnID uuid.UUID) error
	ReorderColumns(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error

	// Tasks
	Tasks(ctx context.Context, projectID uuid.UUID) ([]domain.Task, error)
	SubscribeTasks(ctx context.Context, projectID uuid.UUID, fn func([]domain.Task)) (Teardown, error)
	CreateTask(ctx context.Context, t *domain.Task) (*domain.Task, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	UpdateTaskColumn(ctx context.Context, projectID, taskID, columnID uuid.UUID) error
	UpdateTaskChecklist(ctx context.Context, projectID, taskID uuid.UUID, items []domain.ChecklistItem) error
	DeleteTask(ctx context.Context, projectID, taskID uuid.UUID) error

	// Members and invitations
	Members(ctx context.Context, projectID uuid.UUID) ([]domain.MemberProfile, error)
	Invite(ctx context.Context, projectID uuid.UUID, email string) error
	PendingInvitations(ctx context.Context) ([]*domain.Invitation, error)
	AcceptInvitation(ctx context.Context, invitationID uuid.UUID) error
	DeclineInvitation(ctx context.Context, invitationID uuid.UUID) error

	// Chat
	SendMessage(ctx context.Context, projectID uuid.UUID, text string) error
	SubscribeChat(ctx context.Context, projectID uuid.UUID, fn func([]domain.ChatMessage)) (Teardown, error)

	// Whiteboard
	DrawStroke(ctx context.Context, projectID uuid.UUID, points []domain.Point, color string) error
	SubscribeStrokes(ctx context.Context, projectID uuid.UUID, fn func([]domain.Stroke)) (Teardown, error)
	ClearStrokes(ctx context.Context, projectID uuid.UUID) error
}
