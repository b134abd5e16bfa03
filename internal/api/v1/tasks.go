package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
	"github.com/kadichii/kadichii/internal/store/redis"
)

type CreateTaskInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	Body      struct {
		ColumnID    uuid.UUID              `json:"column_id" doc:"Column to create the task in"`
		Title       string                 `json:"title" minLength:"1" maxLength:"255" doc:"Task title"`
		Description string                 `json:"description,omitempty" maxLength:"8000" doc:"Task description"`
		DueDate     *time.Time             `json:"due_date,omitempty" doc:"Optional due date"`
		Checklist   []domain.ChecklistItem `json:"checklist,omitempty" doc:"Initial checklist items"`
		Assignees   []domain.Assignee      `json:"assignees,omitempty" doc:"Initial assignees"`
	}
}

type CreateTaskOutput struct {
	Body *domain.Task
}

type ListTasksInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
}

type ListTasksOutput struct {
	Body []*domain.Task
}

type GetTaskInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Task ID"`
}

type GetTaskOutput struct {
	Body *domain.Task
}

type UpdateTaskInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Task ID"`
	Body      struct {
		Title       *string                 `json:"title,omitempty" maxLength:"255" doc:"Task title"`
		Description *string                 `json:"description,omitempty" maxLength:"8000" doc:"Task description"`
		ColumnID    *uuid.UUID              `json:"column_id,omitempty" doc:"Move the task to this column"`
		DueDate     *time.Time              `json:"due_date,omitempty" doc:"Due date; omit to keep, null to clear"`
		ClearDue    bool                    `json:"clear_due,omitempty" doc:"Clear the due date"`
		Checklist   *[]domain.ChecklistItem `json:"checklist,omitempty" doc:"Replace the checklist"`
		Assignees   *[]domain.Assignee      `json:"assignees,omitempty" doc:"Replace the assignee list"`
	}
}

type UpdateTaskOutput struct {
	Body *domain.Task
}

type MoveTaskInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Task ID"`
	Body      struct {
		ColumnID uuid.UUID `json:"column_id" doc:"Destination column"`
	}
}

type UpdateChecklistInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Task ID"`
	Body      struct {
		Checklist []domain.ChecklistItem `json:"checklist" doc:"Full replacement checklist"`
	}
}

type DeleteTaskInput struct {
	ProjectID uuid.UUID `path:"projectID" doc:"Project ID"`
	ID        uuid.UUID `path:"id" doc:"Task ID"`
}

func RegisterTaskRoutes(api huma.API, store DataStore, pub EventPublisher) {
	huma.Register(api, huma.Operation{
		OperationID: "create-task",
		Method:      http.MethodPost,
		Path:        "/projects/{projectID}/tasks",
		Summary:     "Create a task in a column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *CreateTaskInput) (*CreateTaskOutput, error) {
		userID, _, err := currentUser(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		if _, err := store.Columns().GetByID(ctx, input.ProjectID, input.Body.ColumnID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to check column", err)
		}

		t, err := domain.NewTask(input.ProjectID, input.Body.ColumnID, input.Body.Title, &userID)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}
		t.Description = input.Body.Description
		t.DueDate = input.Body.DueDate
		t.Checklist = input.Body.Checklist
		t.Assignees = input.Body.Assignees

		if createErr := store.Tasks().Create(ctx, t); createErr != nil {
			return nil, huma.Error500InternalServerError("failed to create task", createErr)
		}

		notifyChanged(ctx, pub, redis.TasksChannel(input.ProjectID))
		return &CreateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tasks",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/tasks",
		Summary:     "List all tasks in a project",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *ListTasksInput) (*ListTasksOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		tasks, err := store.Tasks().ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tasks", err)
		}
		if tasks == nil {
			tasks = []*domain.Task{}
		}

		return &ListTasksOutput{Body: tasks}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/projects/{projectID}/tasks/{id}",
		Summary:     "Get a task by ID",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *GetTaskInput) (*GetTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		t, err := store.Tasks().GetByID(ctx, input.ProjectID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		return &GetTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPut,
		Path:        "/projects/{projectID}/tasks/{id}",
		Summary:     "Update a task's fields",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateTaskInput) (*UpdateTaskOutput, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		t, err := store.Tasks().GetByID(ctx, input.ProjectID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to get task", err)
		}

		if input.Body.Title != nil {
			if *input.Body.Title == "" {
				return nil, huma.Error400BadRequest("task title cannot be empty")
			}
			t.Title = *input.Body.Title
		}
		if input.Body.Description != nil {
			t.Description = *input.Body.Description
		}
		if input.Body.ColumnID != nil {
			if _, err := store.Columns().GetByID(ctx, input.ProjectID, *input.Body.ColumnID); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, huma.Error404NotFound("column not found")
				}
				return nil, huma.Error500InternalServerError("failed to check column", err)
			}
			t.ColumnID = *input.Body.ColumnID
		}
		if input.Body.DueDate != nil {
			t.DueDate = input.Body.DueDate
		}
		if input.Body.ClearDue {
			t.DueDate = nil
		}
		if input.Body.Checklist != nil {
			t.Checklist = *input.Body.Checklist
		}
		if input.Body.Assignees != nil {
			t.Assignees = *input.Body.Assignees
		}

		if updateErr := store.Tasks().Update(ctx, t); updateErr != nil {
			return nil, huma.Error500InternalServerError("failed to update task", updateErr)
		}

		notifyChanged(ctx, pub, redis.TasksChannel(input.ProjectID))
		return &UpdateTaskOutput{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPut,
		Path:        "/projects/{projectID}/tasks/{id}/column",
		Summary:     "Move a task to another column",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *MoveTaskInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		if _, err := store.Columns().GetByID(ctx, input.ProjectID, input.Body.ColumnID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("column not found")
			}
			return nil, huma.Error500InternalServerError("failed to check column", err)
		}

		err := store.Tasks().UpdateColumn(ctx, input.ProjectID, input.ID, input.Body.ColumnID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to move task", err)
		}

		notifyChanged(ctx, pub, redis.TasksChannel(input.ProjectID))
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task-checklist",
		Method:      http.MethodPut,
		Path:        "/projects/{projectID}/tasks/{id}/checklist",
		Summary:     "Replace a task's checklist",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *UpdateChecklistInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		err := store.Tasks().UpdateChecklist(ctx, input.ProjectID, input.ID, input.Body.Checklist)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to update checklist", err)
		}

		notifyChanged(ctx, pub, redis.TasksChannel(input.ProjectID))
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-task",
		Method:      http.MethodDelete,
		Path:        "/projects/{projectID}/tasks/{id}",
		Summary:     "Delete a task",
		Tags:        []string{"Tasks"},
	}, func(ctx context.Context, input *DeleteTaskInput) (*struct{}, error) {
		if _, err := requireMember(ctx, store, input.ProjectID); err != nil {
			return nil, err
		}

		err := store.Tasks().Delete(ctx, input.ProjectID, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("task not found")
			}
			return nil, huma.Error500InternalServerError("failed to delete task", err)
		}

		notifyChanged(ctx, pub, redis.TasksChannel(input.ProjectID))
		return nil, nil
	})
}
