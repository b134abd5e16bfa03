package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is append-only, ordered by server-assigned timestamp.
// Sender fields are a snapshot taken at send time.
type ChatMessage struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	SenderID     uuid.UUID
	SenderName   string
	SenderAvatar Avatar
	Text         string
	Timestamp    time.Time
}

// NewChatMessage creates a message with the timestamp assigned server-side.
func NewChatMessage(projectID uuid.UUID, sender *User, text string) (*ChatMessage, error) {
	if text == "" {
		return nil, errors.New("chat: text is required")
	}
	return &ChatMessage{
		ID:           uuid.New(),
		ProjectID:    projectID,
		SenderID:     sender.ID,
		SenderName:   sender.DisplayName,
		SenderAvatar: sender.Avatar,
		Text:         text,
		Timestamp:    time.Now(),
	}, nil
}

type ChatRepository interface {
	Append(ctx context.Context, m *ChatMessage) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*ChatMessage, error)
}
