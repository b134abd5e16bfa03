package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/kadichii/kadichii/internal/api/v1"
	"github.com/kadichii/kadichii/internal/board"
	"github.com/kadichii/kadichii/internal/domain"
)

// ---------------------------------------------------------------------------
// GET /projects/{projectID}/board
// ---------------------------------------------------------------------------

func TestGetBoard(t *testing.T) {
	t.Parallel()

	t.Run("ordered_lanes_with_tasks", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()
		todoID := uuid.New()
		doneID := uuid.New()
		goneID := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleMember),
			columns: &mockColumnRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.Column, error) {
					return []*domain.Column{
						{ID: doneID, ProjectID: pid, Title: "Done", Order: 1},
						{ID: todoID, ProjectID: pid, Title: "To Do", Order: 0},
					}, nil
				},
			},
			tasks: &mockTaskRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.Task, error) {
					return []*domain.Task{
						{ID: uuid.New(), ProjectID: pid, ColumnID: todoID, Title: "write docs"},
						{ID: uuid.New(), ProjectID: pid, ColumnID: doneID, Title: "ship it"},
						{ID: uuid.New(), ProjectID: pid, ColumnID: goneID, Title: "orphan"},
					}, nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String()+"/board")

		require.Equal(t, http.StatusOK, resp.Code)

		var lanes []board.Lane
		err := json.Unmarshal(resp.Body.Bytes(), &lanes)
		require.NoError(t, err)
		require.Len(t, lanes, 2)
		assert.Equal(t, "To Do", lanes[0].Column.Title)
		require.Len(t, lanes[0].Tasks, 1)
		assert.Equal(t, "write docs", lanes[0].Tasks[0].Title)
		assert.Equal(t, "Done", lanes[1].Column.Title)
		require.Len(t, lanes[1].Tasks, 1)
		assert.Equal(t, "ship it", lanes[1].Tasks[0].Title)
	})

	t.Run("empty_board", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleMember),
			columns: &mockColumnRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.Column, error) {
					return nil, nil
				},
			},
			tasks: &mockTaskRepo{
				listByProjectFunc: func(_ context.Context, _ uuid.UUID) ([]*domain.Task, error) {
					return nil, nil
				},
			},
		}
		v1.RegisterBoardRoutes(api, store)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String()+"/board")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})

	t.Run("non_member_forbidden", func(t *testing.T) {
		t.Parallel()

		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uuid.New(), "alice@example.com", domain.RoleMember),
		}
		v1.RegisterBoardRoutes(api, store)

		resp := api.GetCtx(userCtx(uuid.New(), "mallory@example.com"), "/projects/"+pid.String()+"/board")

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
