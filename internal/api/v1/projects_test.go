package v1_test

import (
	"context"
	"encoding/json"
	"errors"
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
// POST /projects
// ---------------------------------------------------------------------------

func TestCreateProject(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		var gotEmail string
		_, api := humatest.New(t)
		store := &mockDataStore{
			projects: &mockProjectRepo{
				createWithDefaultsFunc: func(_ context.Context, p *domain.Project, ownerEmail string) error {
					gotEmail = ownerEmail
					assert.Equal(t, uid, p.OwnerID)
					return nil
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PostCtx(userCtx(uid, "alice@example.com"), "/projects", map[string]any{
			"name":        "Lanzamiento Q3",
			"description": "release planning",
		})

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "alice@example.com", gotEmail)

		var body domain.Project
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		assert.Equal(t, "Lanzamiento Q3", body.Name)
		assert.Equal(t, uid, body.OwnerID)
		assert.NotEqual(t, uuid.Nil, body.ID)
	})

	t.Run("missing_user_context", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		store := &mockDataStore{
			projects: &mockProjectRepo{},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PostCtx(context.Background(), "/projects", map[string]any{
			"name": "orphan",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("store_error", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			projects: &mockProjectRepo{
				createWithDefaultsFunc: func(_ context.Context, _ *domain.Project, _ string) error {
					return errors.New("db: connection refused")
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PostCtx(userCtx(uid, "alice@example.com"), "/projects", map[string]any{
			"name": "failing",
		})

		assert.Equal(t, http.StatusInternalServerError, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// GET /projects
// ---------------------------------------------------------------------------

func TestListProjects(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		p1 := uuid.New()
		p2 := uuid.New()
		now := time.Now().Truncate(time.Second)

		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
					assert.Equal(t, uid, id)
					return &domain.User{ID: uid, Email: "alice@example.com", Projects: []uuid.UUID{p1, p2}}, nil
				},
			},
			projects: &mockProjectRepo{
				listByIDsFunc: func(_ context.Context, ids []uuid.UUID) ([]*domain.Project, error) {
					assert.Equal(t, []uuid.UUID{p1, p2}, ids)
					return []*domain.Project{
						{ID: p1, Name: "alpha", OwnerID: uid, CreatedAt: now},
						{ID: p2, Name: "beta", OwnerID: uid, CreatedAt: now},
					}, nil
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []domain.Project
		err := json.Unmarshal(resp.Body.Bytes(), &body)
		require.NoError(t, err)
		require.Len(t, body, 2)
		assert.Equal(t, "alpha", body[0].Name)
		assert.Equal(t, "beta", body[1].Name)
	})

	t.Run("no_projects_returns_empty_array", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		_, api := humatest.New(t)
		store := &mockDataStore{
			users: &mockUserRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
					return &domain.User{ID: uid, Email: "alice@example.com"}, nil
				},
			},
			projects: &mockProjectRepo{
				listByIDsFunc: func(_ context.Context, _ []uuid.UUID) ([]*domain.Project, error) {
					return nil, nil
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.GetCtx(userCtx(uid, "alice@example.com"), "/projects")

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, "[]", resp.Body.String())
	})
}

// ---------------------------------------------------------------------------
// PUT /projects/{id}
// ---------------------------------------------------------------------------

func TestUpdateProject(t *testing.T) {
	t.Parallel()

	t.Run("owner_can_update", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()
		existing := &domain.Project{ID: pid, Name: "old", OwnerID: uid, CreatedAt: time.Now()}

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleOwner),
			projects: &mockProjectRepo{
				getByIDFunc: func(_ context.Context, _ uuid.UUID) (*domain.Project, error) {
					return existing, nil
				},
				updateFunc: func(_ context.Context, p *domain.Project) error {
					assert.Equal(t, "new", p.Name)
					return nil
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PutCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String(), map[string]any{
			"name": "new",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("member_cannot_update", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members:  memberOf(pid, uid, "bob@example.com", domain.RoleMember),
			projects: &mockProjectRepo{},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PutCtx(userCtx(uid, "bob@example.com"), "/projects/"+pid.String(), map[string]any{
			"name": "new",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
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
			projects: &mockProjectRepo{},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.PutCtx(userCtx(uid, "mallory@example.com"), "/projects/"+pid.String(), map[string]any{
			"name": "new",
		})

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}

// ---------------------------------------------------------------------------
// DELETE /projects/{id}
// ---------------------------------------------------------------------------

func TestDeleteProject(t *testing.T) {
	t.Parallel()

	t.Run("owner_cascade_delete", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members: memberOf(pid, uid, "alice@example.com", domain.RoleOwner),
			projects: &mockProjectRepo{
				deleteCascadeFunc: func(_ context.Context, id uuid.UUID) error {
					assert.Equal(t, pid, id)
					return nil
				},
			},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.DeleteCtx(userCtx(uid, "alice@example.com"), "/projects/"+pid.String())

		assert.Equal(t, http.StatusNoContent, resp.Code)
	})

	t.Run("member_cannot_delete", func(t *testing.T) {
		t.Parallel()

		uid := uuid.New()
		pid := uuid.New()

		_, api := humatest.New(t)
		store := &mockDataStore{
			members:  memberOf(pid, uid, "bob@example.com", domain.RoleMember),
			projects: &mockProjectRepo{},
		}
		v1.RegisterProjectRoutes(api, store)

		resp := api.DeleteCtx(userCtx(uid, "bob@example.com"), "/projects/"+pid.String())

		assert.Equal(t, http.StatusForbidden, resp.Code)
	})
}
