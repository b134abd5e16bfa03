package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Column is a named, ordered lane within a project's board. Order values are
// kept as contiguous integers; reorders persist a dense rank for every
// column in one batch. Ties (possible between clients racing) break by title.
type Column struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Title     string
	Order     int
	CreatedAt time.Time
}

// NewColumn creates a Column with validated required fields.
func NewColumn(projectID uuid.UUID, title string, order int) (*Column, error) {
	if projectID == uuid.Nil {
		return nil, errors.New("column: project ID is required")
	}
	if title == "" {
		return nil, errors.New("column: title is required")
	}
	return &Column{
		ID:        uuid.New(),
		ProjectID: projectID,
		Title:     title,
		Order:     order,
		CreatedAt: time.Now(),
	}, nil
}

// ColumnRank pairs a column id with its new order for a batched reorder.
type ColumnRank struct {
	ID    uuid.UUID `json:"id"`
	Order int       `json:"order"`
}

type ColumnRepository interface {
	Create(ctx context.Context, c *Column) error
	GetByID(ctx context.Context, projectID, id uuid.UUID) (*Column, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Column, error)
	Rename(ctx context.Context, projectID, id uuid.UUID, title string) error

	// Reorder persists all ranks in one transaction.
	Reorder(ctx context.Context, projectID uuid.UUID, ranks []ColumnRank) error

	// NextOrder returns the order value one past the current maximum.
	NextOrder(ctx context.Context, projectID uuid.UUID) (int, error)

	Delete(ctx context.Context, projectID, id uuid.UUID) error
}
