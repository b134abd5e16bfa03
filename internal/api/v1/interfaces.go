package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Users() domain.UserRepository
	Projects() domain.ProjectRepository
	Columns() domain.ColumnRepository
	Tasks() domain.TaskRepository
	Members() domain.MemberRepository
	Invitations() domain.InvitationRepository
	Chat() domain.ChatRepository
	Strokes() domain.StrokeRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
}

// EventPublisher abstracts change notification fan-out for handler testing.
// *redis.PubSub satisfies this interface.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}
