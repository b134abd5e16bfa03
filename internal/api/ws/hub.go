package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	v1 "github.com/kadichii/kadichii/internal/api/v1"
	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/server/middleware"
	redisstore "github.com/kadichii/kadichii/internal/store/redis"
)

// Hub manages WebSocket connections backed by Redis pub/sub. Handlers
// publish a bare change notification; the hub re-reads the collection and
// pushes a full snapshot, so a dropped notification only delays convergence
// until the next one.
type Hub struct {
	pubsub *redisstore.PubSub
	store  v1.DataStore
}

// NewHub creates a new WebSocket hub.
func NewHub(pubsub *redisstore.PubSub, store v1.DataStore) *Hub {
	return &Hub{pubsub: pubsub, store: store}
}

// ServeColumns streams full column snapshots for a project.
func (h *Hub) ServeColumns(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.ColumnsChannel, func(ctx context.Context, projectID uuid.UUID) (any, error) {
		return h.store.Columns().ListByProject(ctx, projectID)
	})
}

// ServeTasks streams full task snapshots for a project.
func (h *Hub) ServeTasks(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.TasksChannel, func(ctx context.Context, projectID uuid.UUID) (any, error) {
		return h.store.Tasks().ListByProject(ctx, projectID)
	})
}

// ServeChat streams full chat history snapshots for a project.
func (h *Hub) ServeChat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.ChatChannel, func(ctx context.Context, projectID uuid.UUID) (any, error) {
		return h.store.Chat().ListByProject(ctx, projectID)
	})
}

// ServeWhiteboard streams full stroke snapshots for a project.
func (h *Hub) ServeWhiteboard(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, redisstore.WhiteboardChannel, func(ctx context.Context, projectID uuid.UUID) (any, error) {
		return h.store.Strokes().ListByProject(ctx, projectID)
	})
}

func (h *Hub) serve(
	w http.ResponseWriter,
	r *http.Request,
	channelFor func(uuid.UUID) string,
	snapshot func(ctx context.Context, projectID uuid.UUID) (any, error),
) {
	email, ok := middleware.UserEmailFromContext(r.Context())
	if !ok {
		http.Error(w, "missing user", http.StatusUnauthorized)
		return
	}

	projectIDStr := chi.URLParam(r, "projectID")
	projectID, err := uuid.Parse(projectIDStr)
	if err != nil {
		http.Error(w, "invalid project id", http.StatusBadRequest)
		return
	}

	if _, err := h.store.Members().GetByEmail(r.Context(), projectID, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "not a member of this project", http.StatusForbidden)
			return
		}
		http.Error(w, "membership check failed", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	channel := channelFor(projectID)

	messages, cleanup, err := h.pubsub.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	// Initial snapshot so the client starts from current state rather than
	// waiting for the first change.
	if err := h.push(ctx, conn, projectID, snapshot); err != nil {
		log.Debug().Err(err).Str("channel", channel).Msg("websocket initial snapshot")
		return
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case _, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if err := h.push(ctx, conn, projectID, snapshot); err != nil {
				log.Debug().Err(err).Str("channel", channel).Msg("websocket push")
				return
			}
		}
	}
}

func (h *Hub) push(
	ctx context.Context,
	conn *websocket.Conn,
	projectID uuid.UUID,
	snapshot func(ctx context.Context, projectID uuid.UUID) (any, error),
) error {
	data, err := snapshot(ctx, projectID)
	if err != nil {
		return fmt.Errorf("ws.Hub.push: snapshot: %w", err)
	}

	payload, err := json.Marshal(Snapshot{Type: "snapshot", Data: data})
	if err != nil {
		return fmt.Errorf("ws.Hub.push: marshal: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("ws.Hub.push: write: %w", err)
	}

	return nil
}

// Publish sends an event payload to a Redis channel. Convenience wrapper for
// callers that hold the hub but not the pub/sub client.
func (h *Hub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := h.pubsub.Publish(ctx, channel, payload); err != nil {
		return fmt.Errorf("ws.Hub.Publish: %w", err)
	}
	return nil
}
