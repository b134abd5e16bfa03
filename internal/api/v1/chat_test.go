package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/kadichii/kadichii/internal/api/v1"
	"github.com/kadichii/kadichii/internal/domain"
)

// ---------------------------------------------------------------------------
// POST /projects/{projectID}/chat
// ---------------------------------------------------------------------------

func TestSendMessage(t *testing.T) {
	t.Parallel()

	t.Run("snapshots_sender_profile", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()
		pub := &mockPublisher{}

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleMember),
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
					assert.Equal(t, uid, id)
					return &domain.User{ID: uid, Email: "alice@example.com", DisplayName: "Alice"}, nil
				},
			},
			chat: &mockChatRepo{
				appendFunc: func(_ context.Context, msg *domain.ChatMessage) error {
					assert.Equal(t, pid, msg.ProjectID)
					assert.Equal(t, uid, msg.SenderID)
					assert.Equal(t, "Alice", msg.SenderName)
					assert.False(t, msg.Timestamp.IsZero())
					return nil
				},
			},
		}
		v1.RegisterChatRoutes(api, store, pub)

		resp := api.PostCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String()+"/chat", map[string]any{
			"text": "hola equipo",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.ChatMessage
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, "hola equipo", body.Text)

		require.Len(t, pub.channels, 1)
		assert.Equal(t, "chat:"+pid.String(), pub.channels[0])
	})

	t.Run("non_member_forbidden", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: &mockMemberRepo{
				getByEmailFunc: func(_ context.Context, _ uuid.UUID, _ string) (*domain.Member, error) {
					return nil, domain.ErrNotFound
				},
			},
			users: &mockUserRepo{},
			chat:  &mockChatRepo{},
		}
		v1.RegisterChatRoutes(api, store, nil)

		resp := api.PostCtx(userCtx(uid, "mallory@example.com"), "/projects/"+pid.String()+"/chat", map[string]any{
			"text": "intruso",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /projects/{projectID}/chat
// ---------------------------------------------------------------------------

func TestListMessages(t *testing.T) {
	t.Parallel()

	t.Run("send_order", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()
		now := time.Now().Truncate(time.Second)

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleMember),
			chat: &mockChatRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.ChatMessage, error) {
					return []*domain.ChatMessage{
						{ID: uuid.New(), ProjectID: pid, SenderName: "Alice", Text: "primero", Timestamp: now},
						{ID: uuid.New(), ProjectID: pid, SenderName: "Bob", Text: "segundo", Timestamp: now.Add(time.Second)},
					}, nil
				},
			},
		}
		v1.RegisterChatRoutes(api, store, nil)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String()+"/chat")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []domain.ChatMessage
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		require.Len(t, body, 2)
		assert.Equal(t, "primero", body[0].Text)
		assert.Equal(t, "segundo", body[1].Text)
	})

	t.Run("empty_history_returns_empty_array", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleMember),
			chat: &mockChatRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.ChatMessage, error) {
					return nil, nil
				},
			},
		}
		v1.RegisterChatRoutes(api, store, nil)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String()+"/chat")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})
}
