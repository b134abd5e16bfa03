package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ChecklistItem ids are generated client-side, not store-assigned.
type ChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Assignee is a denormalized snapshot of a member at assignment time.
type Assignee struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar Avatar    `json:"avatar"`
	Email  string    `json:"email"`
}

// Task belongs to exactly one project and one column at a time. Moving a
// task between columns is a ColumnID field update, not a structural move.
type Task struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	ColumnID    uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	Checklist   []ChecklistItem
	Assignees   []Assignee
	CreatorID   *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask creates a Task with validated required fields.
func NewTask(projectID, columnID uuid.UUID, title string, creatorID *uuid.UUID) (*Task, error) {
	if projectID == uuid.Nil {
		return nil, errors.New("task: project ID is required")
	}
	if columnID == uuid.Nil {
		return nil, errors.New("task: column ID is required")
	}
	if title == "" {
		return nil, errors.New("task: title is required")
	}
	now := time.Now()
	return &Task{
		ID:        uuid.New(),
		ProjectID: projectID,
		ColumnID:  columnID,
		Title:     title,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, projectID, id uuid.UUID) (*Task, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)
	Update(ctx context.Context, t *Task) error

	// UpdateColumn moves the task without touching any other field, so a
	// drag between lanes can't clobber a concurrent edit.
	UpdateColumn(ctx context.Context, projectID, id, columnID uuid.UUID) error

	// UpdateChecklist replaces the checklist without touching other fields.
	UpdateChecklist(ctx context.Context, projectID, id uuid.UUID, items []ChecklistItem) error

	Delete(ctx context.Context, projectID, id uuid.UUID) error
	CountByColumn(ctx context.Context, projectID, columnID uuid.UUID) (int, error)
}
