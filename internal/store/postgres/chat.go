package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kadichii/kadichii/internal/domain"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

func (r *ChatRepo) Append(ctx context.Context, m *domain.ChatMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO chat_messages (id, project_id, sender_id, sender_name, sender_avatar_kind, sender_avatar_value, text, ts)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.ProjectID, m.SenderID, m.SenderName,
		string(m.SenderAvatar.Kind), m.SenderAvatar.Value,
		m.Text, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("chatRepo.Append: %w", err)
	}

	return nil
}

func (r *ChatRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, sender_id, sender_name, sender_avatar_kind, sender_avatar_value, text, ts
		 FROM chat_messages WHERE project_id = $1 ORDER BY ts, id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListByProject: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		var avatarKind, avatarValue string

		err = rows.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.SenderName,
			&avatarKind, &avatarValue, &m.Text, &m.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("chatRepo.ListByProject: scan: %w", err)
		}

		m.SenderAvatar = domain.Avatar{Kind: domain.AvatarKind(avatarKind), Value: avatarValue}
		messages = append(messages, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("chatRepo.ListByProject: rows: %w", err)
	}

	return messages, nil
}
