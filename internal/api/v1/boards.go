package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/board"
	"github.com/kadichii/kadichii/internal/domain"
)

type GetBoardInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type GetBoardOutput struct {
	Body []board.Lane
}

// RegisterBoardRoutes exposes the nested board view as a one-shot read, the
// same derivation subscribing clients compute locally.
func RegisterBoardRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/board",
		Summary:     "Get the derived board: ordered columns with their tasks",
		Tags:        []string{"Columns"},
	}, func(ctx context.Context, input *GetBoardInput) (*GetBoardOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		columns, err := store.Columns().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list columns", err)
		}
		tasks, err := store.Tasks().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}

		cols := make([]domain.Column, 0, len(columns))
		for _, c := range columns {
			cols = append(cols, *c)
		}
		ts := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			ts = append(ts, *t)
		}

		return &GetBoardOutput{Body: board.Derive(cols, ts)}, nil
	})
}
