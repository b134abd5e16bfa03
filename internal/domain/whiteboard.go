package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one completed freehand path on a project's whiteboard.
// Append-only; "clear" deletes all strokes for the project in one batch.
type Stroke struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Points    []Point
	Color     string
	CreatedAt time.Time
}

// NewStroke creates a Stroke with the timestamp assigned server-side.
// A stroke needs at least two points to describe a visible line.
func NewStroke(projectID uuid.UUID, points []Point, color string) (*Stroke, error) {
	if projectID == uuid.Nil {
		return nil, errors.New("stroke: project ID is required")
	}
	if len(points) < 2 {
		return nil, errors.New("stroke: at least two points required")
	}
	if color == "" {
		return nil, errors.New("stroke: color is required")
	}
	return &Stroke{
		ID:        uuid.New(),
		ProjectID: projectID,
		Points:    points,
		Color:     color,
		CreatedAt: time.Now(),
	}, nil
}

type StrokeRepository interface {
	Append(ctx context.Context, s *Stroke) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Stroke, error)
	ClearProject(ctx context.Context, projectID uuid.UUID) error
}
