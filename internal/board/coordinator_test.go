package board

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadichii/kadichii/internal/domain"
)

var errRemote = errors.New("remote write failed")

type mockWriter struct {
	updateTaskColumnFn    func(ctx context.Context, projectID, taskID, columnID uuid.UUID) error
	updateTaskChecklistFn func(ctx context.Context, projectID, taskID uuid.UUID, items []domain.ChecklistItem) error
	reorderColumnsFn      func(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error
	renameColumnFn        func(ctx context.Context, projectID, columnID uuid.UUID, title string) error
	deleteColumnFn        func(ctx context.Context, projectID, columnID uuid.UUID) error
}

func (m *mockWriter) UpdateTaskColumn(ctx context.Context, projectID, taskID, columnID uuid.UUID) error {
	if m.updateTaskColumnFn != nil {
		return m.updateTaskColumnFn(ctx, projectID, taskID, columnID)
	}
	return nil
}

func (m *mockWriter) UpdateTaskChecklist(ctx context.Context, projectID, taskID uuid.UUID, items []domain.ChecklistItem) error {
	if m.updateTaskChecklistFn != nil {
		return m.updateTaskChecklistFn(ctx, projectID, taskID, items)
	}
	return nil
}

func (m *mockWriter) ReorderColumns(ctx context.Context, projectID uuid.UUID, ranks []domain.ColumnRank) error {
	if m.reorderColumnsFn != nil {
		return m.reorderColumnsFn(ctx, projectID, ranks)
	}
	return nil
}

func (m *mockWriter) RenameColumn(ctx context.Context, projectID, columnID uuid.UUID, title string) error {
	if m.renameColumnFn != nil {
		return m.renameColumnFn(ctx, projectID, columnID, title)
	}
	return nil
}

func (m *mockWriter) DeleteColumn(ctx context.Context, projectID, columnID uuid.UUID) error {
	if m.deleteColumnFn != nil {
		return m.deleteColumnFn(ctx, projectID, columnID)
	}
	return nil
}

type recordingNotifier struct {
	mu       sync.Mutex
	failures []string
}

func (n *recordingNotifier) Success(string) {}

func (n *recordingNotifier) Failure(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, msg)
}

func (n *recordingNotifier) failureCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failures)
}

func newTestCoordinator(t *testing.T, remote *mockWriter) (*Coordinator, *State, *recordingNotifier) {
	t.Helper()
	state := NewState()
	notify := &recordingNotifier{}
	c := NewCoordinator(context.Background(), uuid.New(), state, remote, notify, 20*time.Millisecond)
	return c, state, notify
}

func TestMoveTaskOptimisticThenConfirmed(t *testing.T) {
	t.Parallel()

	from, to := col("Por Hacer", 0), col("En Progreso", 1)
	task := taskIn(from.ID, "t")

	var wrote bool
	remote := &mockWriter{
		updateTaskColumnFn: func(_ context.Context, _, taskID, columnID uuid.UUID) error {
			wrote = true
			assert.Equal(t, task.ID, taskID)
			assert.Equal(t, to.ID, columnID)
			return nil
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{from, to})
	state.SetTasks([]domain.Task{task})

	require.NoError(t, c.MoveTask(context.Background(), task.ID, to.ID))

	assert.True(t, wrote)
	assert.Equal(t, to.ID, state.Tasks()[0].ColumnID)
	assert.Zero(t, notify.failureCount())
}

func TestMoveTaskRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	from, to := col("Por Hacer", 0), col("En Progreso", 1)
	task := taskIn(from.ID, "t")

	remote := &mockWriter{
		updateTaskColumnFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
			return errRemote
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{task})
	prev := state.Tasks()

	err := c.MoveTask(context.Background(), task.ID, to.ID)
	require.ErrorIs(t, err, errRemote)

	// State is exactly the pre-mutation snapshot, not a re-derivation.
	assert.Equal(t, prev, state.Tasks())
	assert.Equal(t, 1, notify.failureCount())
}

func TestMoveTaskSameColumnIsNoop(t *testing.T) {
	t.Parallel()

	home := col("Por Hacer", 0)
	task := taskIn(home.ID, "t")

	remote := &mockWriter{
		updateTaskColumnFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
			t.Fatal("no remote write expected for a same-column drop")
			return nil
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{task})

	require.NoError(t, c.MoveTask(context.Background(), task.ID, home.ID))
}

func TestMoveTaskUnknownTaskIsNoop(t *testing.T) {
	t.Parallel()

	c, state, _ := newTestCoordinator(t, &mockWriter{
		updateTaskColumnFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) error {
			t.Fatal("no remote write expected for an unknown task")
			return nil
		},
	})
	state.SetTasks([]domain.Task{taskIn(uuid.New(), "t")})

	require.NoError(t, c.MoveTask(context.Background(), uuid.New(), uuid.New()))
}

func TestReorderColumnsAssignsDenseRanksInOneWrite(t *testing.T) {
	t.Parallel()

	a, b, cc := col("A", 0), col("B", 1), col("C", 2)

	var writes int
	var gotRanks []domain.ColumnRank
	remote := &mockWriter{
		reorderColumnsFn: func(_ context.Context, _ uuid.UUID, ranks []domain.ColumnRank) error {
			writes++
			gotRanks = ranks
			return nil
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{a, b, cc})

	require.NoError(t, c.ReorderColumns(context.Background(), []uuid.UUID{cc.ID, a.ID, b.ID}))

	assert.Equal(t, 1, writes, "all ranks persist in a single batched write")
	byID := map[uuid.UUID]int{}
	for _, r := range gotRanks {
		byID[r.ID] = r.Order
	}
	assert.Equal(t, map[uuid.UUID]int{cc.ID: 0, a.ID: 1, b.ID: 2}, byID)

	lanes := state.Board()
	require.Len(t, lanes, 3)
	assert.Equal(t, "C", lanes[0].Column.Title)
	assert.Equal(t, "A", lanes[1].Column.Title)
	assert.Equal(t, "B", lanes[2].Column.Title)
}

func TestReorderColumnsRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	a, b := col("A", 0), col("B", 1)
	remote := &mockWriter{
		reorderColumnsFn: func(context.Context, uuid.UUID, []domain.ColumnRank) error {
			return errRemote
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{a, b})
	prev := state.Columns()

	err := c.ReorderColumns(context.Background(), []uuid.UUID{b.ID, a.ID})
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, prev, state.Columns())
	assert.Equal(t, 1, notify.failureCount())
}

func TestRenameColumnRejectsEmptyTitleLocally(t *testing.T) {
	t.Parallel()

	target := col("Viejo", 0)
	remote := &mockWriter{
		renameColumnFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			t.Fatal("no remote write expected for an empty title")
			return nil
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{target})

	err := c.RenameColumn(context.Background(), target.ID, "")
	require.Error(t, err)
	assert.Equal(t, "Viejo", state.Columns()[0].Title)
	assert.Equal(t, 1, notify.failureCount())
}

func TestRenameColumnRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	target := col("Viejo", 0)
	remote := &mockWriter{
		renameColumnFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			return errRemote
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{target})

	err := c.RenameColumn(context.Background(), target.ID, "Nuevo")
	require.ErrorIs(t, err, errRemote)
	assert.Equal(t, "Viejo", state.Columns()[0].Title)
}

func TestDeleteColumnGuardsLocallyWhenNotEmpty(t *testing.T) {
	t.Parallel()

	target := col("Ocupada", 0)
	remote := &mockWriter{
		deleteColumnFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			t.Fatal("no remote call expected when the column holds tasks")
			return nil
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{target})
	state.SetTasks([]domain.Task{taskIn(target.ID, "t")})

	err := c.DeleteColumn(context.Background(), target.ID)
	require.ErrorIs(t, err, domain.ErrColumnNotEmpty)
	assert.Len(t, state.Columns(), 1)
	assert.Equal(t, 1, notify.failureCount())
}

func TestDeleteColumnRemovesEmptyColumn(t *testing.T) {
	t.Parallel()

	target, other := col("Vacía", 0), col("Otra", 1)
	c, state, _ := newTestCoordinator(t, &mockWriter{})
	state.SetColumns([]domain.Column{target, other})

	require.NoError(t, c.DeleteColumn(context.Background(), target.ID))

	got := state.Columns()
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)
}

func TestDeleteColumnRollsBackOnFailure(t *testing.T) {
	t.Parallel()

	target := col("Vacía", 0)
	remote := &mockWriter{
		deleteColumnFn: func(context.Context, uuid.UUID, uuid.UUID) error {
			return errRemote
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetColumns([]domain.Column{target})

	err := c.DeleteColumn(context.Background(), target.ID)
	require.ErrorIs(t, err, errRemote)
	assert.Len(t, state.Columns(), 1)
}

func checklistTask(columnID uuid.UUID, items ...domain.ChecklistItem) domain.Task {
	t := taskIn(columnID, "with checklist")
	t.Checklist = items
	return t
}

func TestToggleChecklistAppliesLocallyAndCoalesces(t *testing.T) {
	t.Parallel()

	home := col("Por Hacer", 0)
	task := checklistTask(home.ID,
		domain.ChecklistItem{ID: "i1", Text: "uno"},
		domain.ChecklistItem{ID: "i2", Text: "dos"},
	)

	var mu sync.Mutex
	var writes int
	var final []domain.ChecklistItem
	remote := &mockWriter{
		updateTaskChecklistFn: func(_ context.Context, _, _ uuid.UUID, items []domain.ChecklistItem) error {
			mu.Lock()
			defer mu.Unlock()
			writes++
			final = items
			return nil
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{task})

	c.ToggleChecklistItem(task.ID, "i1")
	c.ToggleChecklistItem(task.ID, "i2")
	c.ToggleChecklistItem(task.ID, "i1")

	// Every toggle is visible locally right away.
	got := state.Tasks()[0].Checklist
	assert.False(t, got[0].Completed)
	assert.True(t, got[1].Completed)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return writes == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, final, 2)
	assert.False(t, final[0].Completed, "i1 toggled twice lands back at false")
	assert.True(t, final[1].Completed)
}

func TestToggleChecklistRevertsWholeBatchOnFailure(t *testing.T) {
	t.Parallel()

	home := col("Por Hacer", 0)
	task := checklistTask(home.ID,
		domain.ChecklistItem{ID: "i1", Text: "uno"},
		domain.ChecklistItem{ID: "i2", Text: "dos"},
	)

	remote := &mockWriter{
		updateTaskChecklistFn: func(context.Context, uuid.UUID, uuid.UUID, []domain.ChecklistItem) error {
			return errRemote
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{task})
	prev := state.Tasks()

	c.ToggleChecklistItem(task.ID, "i1")
	c.ToggleChecklistItem(task.ID, "i2")
	c.FlushChecklist()

	// The failed flush restores the snapshot from before the first toggle of
	// the batch, not just the last toggle.
	assert.Equal(t, prev, state.Tasks())
	assert.Equal(t, 1, notify.failureCount())
}

func TestToggleChecklistCoalescesPerTask(t *testing.T) {
	t.Parallel()

	home := col("Por Hacer", 0)
	taskA := checklistTask(home.ID, domain.ChecklistItem{ID: "a1", Text: "uno"})
	taskB := checklistTask(home.ID, domain.ChecklistItem{ID: "b1", Text: "dos"})

	var mu sync.Mutex
	saved := map[uuid.UUID][]domain.ChecklistItem{}
	remote := &mockWriter{
		updateTaskChecklistFn: func(_ context.Context, _, taskID uuid.UUID, items []domain.ChecklistItem) error {
			mu.Lock()
			defer mu.Unlock()
			saved[taskID] = items
			return nil
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{taskA, taskB})

	// Edits on two different tasks inside one quiet window must both persist.
	c.ToggleChecklistItem(taskA.ID, "a1")
	c.ToggleChecklistItem(taskB.ID, "b1")
	c.FlushChecklist()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, saved, 2)
	require.Len(t, saved[taskA.ID], 1)
	assert.True(t, saved[taskA.ID][0].Completed)
	require.Len(t, saved[taskB.ID], 1)
	assert.True(t, saved[taskB.ID][0].Completed)
	assert.Zero(t, notify.failureCount())
}

func TestToggleChecklistFailureRevertsOnlyThatTask(t *testing.T) {
	t.Parallel()

	home := col("Por Hacer", 0)
	taskA := checklistTask(home.ID, domain.ChecklistItem{ID: "a1", Text: "uno"})
	taskB := checklistTask(home.ID, domain.ChecklistItem{ID: "b1", Text: "dos"})

	remote := &mockWriter{
		updateTaskChecklistFn: func(_ context.Context, _, taskID uuid.UUID, _ []domain.ChecklistItem) error {
			if taskID == taskA.ID {
				return errRemote
			}
			return nil
		},
	}
	c, state, notify := newTestCoordinator(t, remote)
	state.SetTasks([]domain.Task{taskA, taskB})

	c.ToggleChecklistItem(taskA.ID, "a1")
	c.ToggleChecklistItem(taskB.ID, "b1")
	c.FlushChecklist()

	got := state.Tasks()
	require.Len(t, got, 2)
	assert.False(t, got[0].Checklist[0].Completed, "task A reverts to its pre-batch checklist")
	assert.True(t, got[1].Checklist[0].Completed, "task B's successful write stands")
	assert.Equal(t, 1, notify.failureCount())
}

func TestToggleChecklistUnknownTaskIsNoop(t *testing.T) {
	t.Parallel()

	remote := &mockWriter{
		updateTaskChecklistFn: func(context.Context, uuid.UUID, uuid.UUID, []domain.ChecklistItem) error {
			t.Fatal("no remote write expected for an unknown task")
			return nil
		},
	}
	c, state, _ := newTestCoordinator(t, remote)
	state.SetTasks(nil)

	c.ToggleChecklistItem(uuid.New(), "i1")
	c.FlushChecklist()
}
