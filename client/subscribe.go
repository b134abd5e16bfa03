package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/gateway"
)

// snapshotEnvelope mirrors the server's WebSocket frame. Every frame carries
// the whole collection; the previous state is discarded on arrival.
type snapshotEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) SubscribeColumns(ctx context.Context, projectID uuid.UUID, fn func([]domain.Column)) (gateway.Teardown, error) {
	return subscribe(ctx, c, "/ws/projects/"+projectID.String()+"/columns", fn)
}

func (c *Client) SubscribeTasks(ctx context.Context, projectID uuid.UUID, fn func([]domain.Task)) (gateway.Teardown, error) {
	return subscribe(ctx, c, "/ws/projects/"+projectID.String()+"/tasks", fn)
}

func (c *Client) SubscribeChat(ctx context.Context, projectID uuid.UUID, fn func([]domain.ChatMessage)) (gateway.Teardown, error) {
	return subscribe(ctx, c, "/ws/projects/"+projectID.String()+"/chat", fn)
}

func (c *Client) SubscribeStrokes(ctx context.Context, projectID uuid.UUID, fn func([]domain.Stroke)) (gateway.Teardown, error) {
	return subscribe(ctx, c, "/ws/projects/"+projectID.String()+"/whiteboard", fn)
}

// subscribe dials a snapshot stream and pumps decoded collections into fn
// until torn down. The first frame arrives before subscribe returns, so the
// caller sees current state immediately.
func subscribe[T any](ctx context.Context, c *Client, path string, fn func([]T)) (gateway.Teardown, error) {
	wsURL := toWebSocketURL(c.baseURL) + path

	dialCtx, dialCancel := context.WithTimeout(ctx, defaultTimeout)
	defer dialCancel()

	conn, _, err := websocket.Dial(dialCtx, wsURL, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + c.token}},
	})
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", path, err)
	}

	streamCtx, cancel := context.WithCancel(ctx)

	// Block for the initial snapshot so subscribers never start empty-handed.
	first, err := readSnapshot[T](streamCtx, conn)
	if err != nil {
		cancel()
		_ = conn.Close(websocket.StatusInternalError, "initial snapshot failed")
		return nil, fmt.Errorf("client: %s: %w", path, err)
	}
	fn(first)

	go func() {
		defer conn.CloseNow()
		for {
			snapshot, err := readSnapshot[T](streamCtx, conn)
			if err != nil {
				if streamCtx.Err() == nil {
					log.Debug().Err(err).Str("path", path).Msg("client: snapshot stream closed")
				}
				return
			}
			fn(snapshot)
		}
	}()

	teardown := func() {
		cancel()
		_ = conn.Close(websocket.StatusNormalClosure, "subscription torn down")
	}
	return teardown, nil
}

func readSnapshot[T any](ctx context.Context, conn *websocket.Conn) ([]T, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var env snapshotEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}

	var items []T
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &items); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func toWebSocketURL(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	default:
		return baseURL
	}
}
