package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
)

// Writer is the slice of the remote gateway the coordinator mutates through.
type Writer interface {
	UpdateTaskColumn(ctx context.Context, projectID, taskID, columnID uuid.UUID) error
	UpdateTaskChecklist(ctx context.Context, projectID, taskID uuid.UUID, items []domain.ChecklistItem) error
	ReorderColumns(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error
	RenameColumn(ctx context.Context, projectID, columnID uuid.UUID, title string) error
	DeleteColumn(ctx context.Context, projectID, columnID uuid.UUID) error
}

// DefaultChecklistWindow is the quiet window for coalescing checklist writes.
const DefaultChecklistWindow = time.Second

type checklistSave struct {
	taskID uuid.UUID
	items  []domain.ChecklistItem
	batch  *checklistBatch // identity of the batch that scheduled this save
}

// checklistBatch is one task's in-flight debounced checklist edit: its own
// quiet-window timer plus the task's checklist from before the batch began,
// so a failed flush reverts only that task.
type checklistBatch struct {
	debounce *Debouncer[checklistSave]
	prev     []domain.ChecklistItem
}

// Coordinator wraps user-initiated board mutations in the optimistic
// protocol: capture the previous snapshot, apply the change to local state
// synchronously, issue the remote write, and on failure restore the snapshot
// and surface a notification. On success nothing more happens — the live
// subscription later delivers the server's converged state, which supersedes
// the optimistic value.
type Coordinator struct {
	projectID uuid.UUID
	state     *State
	remote    Writer
	notify    Notifier

	// ctx bounds deferred checklist flushes to the lifetime of the view.
	ctx context.Context

	mu      sync.Mutex
	window  time.Duration
	batches map[uuid.UUID]*checklistBatch // keyed by task, so edits on different tasks never coalesce
}

// NewCoordinator creates a coordinator for one project view. ctx should be
// cancelled when the view is torn down.
func NewCoordinator(ctx context.Context, projectID uuid.UUID, state *State, remote Writer, notify Notifier, checklistWindow time.Duration) *Coordinator {
	if checklistWindow <= 0 {
		checklistWindow = DefaultChecklistWindow
	}
	return &Coordinator{
		projectID: projectID,
		state:     state,
		remote:    remote,
		notify:    notify,
		ctx:       ctx,
		window:    checklistWindow,
		batches:   make(map[uuid.UUID]*checklistBatch),
	}
}

// MoveTask reassigns a task to another column. Dropping a task on the column
// it is already in is a no-op.
func (c *Coordinator) MoveTask(ctx context.Context, taskID, columnID uuid.UUID) error {
	prev := c.state.Tasks()

	moved := false
	next := make([]domain.Task, len(prev))
	for i, t := range prev {
		if t.ID == taskID && t.ColumnID != columnID {
			t.ColumnID = columnID
			moved = true
		}
		next[i] = t
	}
	if !moved {
		return nil
	}

	c.state.SetTasks(next)

	if err := c.remote.UpdateTaskColumn(ctx, c.projectID, taskID, columnID); err != nil {
		c.state.SetTasks(prev)
		c.notify.Failure("No se pudo mover la tarea. Inténtalo de nuevo.")
		return fmt.Errorf("board.MoveTask: %w", err)
	}
	return nil
}

// ReorderColumns applies the given left-to-right column sequence, assigning
// a dense integer rank to every column and persisting all ranks in one
// batched write.
func (c *Coordinator) ReorderColumns(ctx context.Context, orderedIDs []uuid.UUID) error {
	prev := c.state.Columns()

	rank := make(map[uuid.UUID]int, len(orderedIDs))
	for i, id := range orderedIDs {
		rank[id] = i
	}

	next := make([]domain.Column, len(prev))
	ranks := make([]domain.ColumnRank, 0, len(prev))
	for i, col := range prev {
		if r, ok := rank[col.ID]; ok {
			col.Order = r
		}
		next[i] = col
		ranks = append(ranks, domain.ColumnRank{ID: col.ID, Order: col.Order})
	}

	c.state.SetColumns(next)

	if err := c.remote.ReorderColumns(ctx, c.projectID, ranks); err != nil {
		c.state.SetColumns(prev)
		c.notify.Failure("No se pudo reordenar las columnas.")
		return fmt.Errorf("board.ReorderColumns: %w", err)
	}
	return nil
}

// RenameColumn updates a column title optimistically.
func (c *Coordinator) RenameColumn(ctx context.Context, columnID uuid.UUID, title string) error {
	if title == "" {
		c.notify.Failure("El nombre de la columna no puede estar vacío.")
		return domain.ErrConflict
	}

	prev := c.state.Columns()
	next := make([]domain.Column, len(prev))
	for i, col := range prev {
		if col.ID == columnID {
			col.Title = title
		}
		next[i] = col
	}
	c.state.SetColumns(next)

	if err := c.remote.RenameColumn(ctx, c.projectID, columnID, title); err != nil {
		c.state.SetColumns(prev)
		c.notify.Failure("No se pudo renombrar la columna.")
		return fmt.Errorf("board.RenameColumn: %w", err)
	}
	return nil
}

// DeleteColumn removes an empty column. A column still holding tasks is
// rejected locally, before any remote call, so no task is ever orphaned.
func (c *Coordinator) DeleteColumn(ctx context.Context, columnID uuid.UUID) error {
	for _, t := range c.state.Tasks() {
		if t.ColumnID == columnID {
			c.notify.Failure("La columna no está vacía. Mueve las tareas antes de eliminarla.")
			return domain.ErrColumnNotEmpty
		}
	}

	prev := c.state.Columns()
	next := make([]domain.Column, 0, len(prev))
	for _, col := range prev {
		if col.ID != columnID {
			next = append(next, col)
		}
	}
	c.state.SetColumns(next)

	if err := c.remote.DeleteColumn(ctx, c.projectID, columnID); err != nil {
		c.state.SetColumns(prev)
		c.notify.Failure("No se pudo eliminar la columna.")
		return fmt.Errorf("board.DeleteColumn: %w", err)
	}
	return nil
}

// ToggleChecklistItem flips one checklist item locally and schedules a
// coalesced remote write: only the last checklist state within the quiet
// window is persisted, not one write per toggle. Coalescing is per task —
// rapid toggles on two different tasks produce two writes, never one
// swallowing the other. If a deferred write fails, that task's checklist
// reverts to the state from before its batch began, not merely the latest
// toggle.
func (c *Coordinator) ToggleChecklistItem(taskID uuid.UUID, itemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.state.Tasks()

	var before, items []domain.ChecklistItem
	next := make([]domain.Task, len(prev))
	for i, t := range prev {
		if t.ID == taskID {
			before = t.Checklist
			list := make([]domain.ChecklistItem, len(t.Checklist))
			copy(list, t.Checklist)
			for j := range list {
				if list[j].ID == itemID {
					list[j].Completed = !list[j].Completed
				}
			}
			t.Checklist = list
			items = list
		}
		next[i] = t
	}
	if items == nil {
		return // unknown task: nothing to toggle
	}

	b, ok := c.batches[taskID]
	if !ok {
		b = &checklistBatch{prev: before}
		b.debounce = NewDebouncer(c.window, c.flushChecklist)
		c.batches[taskID] = b
	}
	c.state.SetTasks(next)
	b.debounce.Trigger(checklistSave{taskID: taskID, items: items, batch: b})
}

// FlushChecklist persists every pending checklist batch immediately. Call on
// view teardown so a trailing edit is not lost.
func (c *Coordinator) FlushChecklist() {
	c.mu.Lock()
	pending := make([]*Debouncer[checklistSave], 0, len(c.batches))
	for _, b := range c.batches {
		pending = append(pending, b.debounce)
	}
	c.mu.Unlock()

	for _, d := range pending {
		d.Flush()
	}
}

func (c *Coordinator) flushChecklist(save checklistSave, gen uint64) {
	err := c.remote.UpdateTaskChecklist(c.ctx, c.projectID, save.taskID, save.items)

	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.batches[save.taskID]
	if !ok || b != save.batch || b.debounce.Superseded(gen) {
		// A newer batch for this task is pending or already flushed; its
		// outcome governs.
		return
	}
	delete(c.batches, save.taskID)

	if err != nil {
		// Revert only this task's checklist; batches on other tasks stand.
		tasks := c.state.Tasks()
		next := make([]domain.Task, len(tasks))
		for i, t := range tasks {
			if t.ID == save.taskID {
				t.Checklist = b.prev
			}
			next[i] = t
		}
		c.state.SetTasks(next)
		c.notify.Failure("No se pudo guardar la checklist.")
	}
}
