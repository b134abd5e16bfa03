package v1

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/store/redis"
)

type DrawStrokeInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		Points []domain.Point `json:"points" minItems:"2" doc:"Stroke path"`
		Color  string         `json:"color" minLength:"1" maxLength:"32" doc:"Stroke color"`
	}
}

type DrawStrokeOutput struct {
	Body *domain.Stroke
}

type ListStrokesInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type ListStrokesOutput struct {
	Body []*domain.Stroke
}

type ClearWhiteboardInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

func RegisterWhiteboardRoutes(api huma.API, store DataStore, pub EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "draw-stroke",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/whiteboard/strokes",
		Summary:     "Append a stroke to the project whiteboard",
		Tags:        []string{"Whiteboard"},
	}, func(ctx context.Context, input *DrawStrokeInput) (*DrawStrokeOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		s, err := domain.NewStroke(input.ProjectID, input.Body.Points, input.Body.Color)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		if appendErr := store.Strokes().Append(ctx, s); appendErr != nil {
			return nil, huma.Error500InternalServerError("failed to save stroke", appendErr)
		}

		notifyChanged(ctx, pub, redis.WhiteboardChannel(input.ProjectID))
		return &DrawStrokeOutput{Body: s}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-strokes",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/whiteboard/strokes",
		Summary:     "List whiteboard strokes in draw order",
		Tags:        []string{"Whiteboard"},
	}, func(ctx context.Context, input *ListStrokesInput) (*ListStrokesOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		strokes, err := store.Strokes().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list strokes", err)
		}
		if strokes == nil {
			strokes = []*domain.Stroke{}
		}

		return &ListStrokesOutput{Body: strokes}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "clear-whiteboard",
		Method:      http.MethodDelete,
		Path:        "/projects/{projectID}/whiteboard/strokes",
		Summary:     "Clear the project whiteboard",
		Tags:        []string{"Whiteboard"},
	}, func(ctx context.Context, input *ClearWhiteboardInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		if err := store.Strokes().ClearProject(ctx, input.ProjectID); err != nil {
			return nil, huma.Error500InternalServerError("failed to clear whiteboard", err)
		}

		notifyChanged(ctx, pub, redis.WhiteboardChannel(input.ProjectID))
		return nil, nil
	})
}
