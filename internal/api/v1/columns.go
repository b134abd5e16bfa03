package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/store/redis"
)

type CreateColumnInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"Column title"`
	}
}

type CreateColumnOutput struct {
	Body *domain.Column
}

type ListColumnsInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type ListColumnsOutput struct {
	Body []*domain.Column
}

type RenameColumnInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Column ID"`
	Body      struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"New column title"`
	}
}

type ReorderColumnsInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Ranks []domain.ColumnRank `json:"ranks" minItems:"1" doc:"New order for every column"`
	}
}

type DeleteColumnInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Column ID"`
}

func RegisterColumnRoutes(api huma.API, store DataStore, pub EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-column",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/columns",
		Summary:     "Add a column at the end of the board",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *CreateColumnInput) (*CreateColumnOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		order, err := store.Columns().NextOrder(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to compute column order", err)
		}

		c, err := domain.NewColumn(input.ProjectID, input.Body.Title, order)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if createErr := store.Columns().Create(ctx, c); createErr != nil {
			return nil, huma.Error500InternalServerError("failed to create column", createErr)
		}

		notifyChanged(ctx, pub, redis.ColumnsChannel(input.ProjectID))
		return &CreateColumnOutput{Body: c}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-columns",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/columns",
		Summary:     "List a project's columns in board order",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *ListColumnsInput) (*ListColumnsOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		columns, err := store.Columns().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list columns", err)
		}
		if columns == nil {
			columns = []*domain.Column{}
		}

		return &ListColumnsOutput{Body: columns}, nil
	})

	// Registered before rename-column so routers that match in registration
	// order (e.g. humatest's flow router) don't let "{id}" capture "order".
	huma.Register(api, huma.Operation{
		OperationID: "reorder-columns",
		Method:      http.MethodPut,
		Path:        "/projects/{projectID}/columns/order",
		Summary:     "Persist a new rank for every column in one batch",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *ReorderColumnsInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		err := store.Columns().Reorder(ctx, input.ProjectID, input.Body.Ranks)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to reorder columns", err)
		}

		notifyChanged(ctx, pub, redis.ColumnsChannel(input.ProjectID))
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-column",
		Method:      http.MethodPut,
		Path:        "/projects/{projectID}/columns/{id}",
		Summary:     "Rename a column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *RenameColumnInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		err := store.Columns().Rename(ctx, input.ProjectID, input.ID, input.Body.Title)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to rename column", err)
		}

		notifyChanged(ctx, pub, redis.ColumnsChannel(input.ProjectID))
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-column",
		Method:      http.MethodDelete,
		Path:        "/projects/{projectID}/columns/{id}",
		Summary:     "Delete an empty column",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *DeleteColumnInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		err := store.Columns().Delete(ctx, input.ProjectID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrColumnNotEmpty) {
				return nil, huma.Error409Conflict("column still has tasks")
			}
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete column", err)
		}

		notifyChanged(ctx, pub, redis.ColumnsChannel(input.ProjectID))
		return nil, nil
	})
}
