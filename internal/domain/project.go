package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
}

// NewProject creates a Project with validated required fields.
func NewProject(ownerID uuid.UUID, name, description string) (*Project, error) {
	if ownerID == uuid.Nil {
		return nil, errors.New("project: owner ID is required")
	}
	if name == "" {
		return nil, errors.New("project: name is required")
	}
	return &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}, nil
}

// SeedColumnTitles are the three columns every new project starts with.
var SeedColumnTitles = []string{"Por Hacer", "En Progreso", "Hecho"}

type ProjectRepository interface {
	// CreateWithDefaults atomically creates the project, its seed columns,
	// the owner's member row, and adds the project to the owner's profile.
	CreateWithDefaults(ctx context.Context, p *Project, ownerEmail string) error

	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Project, error)
	Update(ctx context.Context, p *Project) error

	// DeleteCascade atomically removes the project and every dependent
	// collection (columns, tasks, members, messages, invitations, strokes)
	// and strips the project id from each member's profile.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}
