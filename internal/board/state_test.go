package board

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadichii/kadichii/internal/domain"
)

func col(title string, order int) domain.Column {
	return domain.Column{ID: uuid.New(), Title: title, Order: order}
}

func taskIn(columnID uuid.UUID, title string) domain.Task {
	return domain.Task{ID: uuid.New(), ColumnID: columnID, Title: title}
}

func TestDeriveOrdersByRankThenTitle(t *testing.T) {
	t.Parallel()

	done := col("Hecho", 2)
	doing := col("En Progreso", 1)
	todo := col("Por Hacer", 0)
	// Two columns sharing a rank fall back to title order.
	extraA := col("Archivo", 1)

	lanes := Derive([]domain.Column{done, doing, todo, extraA}, nil)

	require.Len(t, lanes, 4)
	assert.Equal(t, "Por Hacer", lanes[0].Column.Title)
	assert.Equal(t, "Archivo", lanes[1].Column.Title)
	assert.Equal(t, "En Progreso", lanes[2].Column.Title)
	assert.Equal(t, "Hecho", lanes[3].Column.Title)
}

func TestDeriveAssignsTasksToTheirColumn(t *testing.T) {
	t.Parallel()

	todo := col("Por Hacer", 0)
	doing := col("En Progreso", 1)

	a := taskIn(todo.ID, "a")
	b := taskIn(doing.ID, "b")
	c := taskIn(todo.ID, "c")

	lanes := Derive([]domain.Column{todo, doing}, []domain.Task{a, b, c})

	require.Len(t, lanes, 2)
	assert.Equal(t, []domain.Task{a, c}, lanes[0].Tasks)
	assert.Equal(t, []domain.Task{b}, lanes[1].Tasks)
}

func TestDeriveHidesOrphanedTasks(t *testing.T) {
	t.Parallel()

	todo := col("Por Hacer", 0)
	orphan := taskIn(uuid.New(), "stray")
	kept := taskIn(todo.ID, "kept")

	lanes := Derive([]domain.Column{todo}, []domain.Task{orphan, kept})

	require.Len(t, lanes, 1)
	assert.Equal(t, []domain.Task{kept}, lanes[0].Tasks)
}

func TestDeriveIsPure(t *testing.T) {
	t.Parallel()

	columns := []domain.Column{col("B", 1), col("A", 0)}
	tasks := []domain.Task{taskIn(columns[0].ID, "t")}

	first := Derive(columns, tasks)
	second := Derive(columns, tasks)

	assert.Equal(t, first, second)
	// Input slices are untouched.
	assert.Equal(t, "B", columns[0].Title)
}

func TestDeriveEmptyColumnGetsEmptyLane(t *testing.T) {
	t.Parallel()

	empty := col("Vacía", 0)
	lanes := Derive([]domain.Column{empty}, nil)

	require.Len(t, lanes, 1)
	assert.NotNil(t, lanes[0].Tasks)
	assert.Empty(t, lanes[0].Tasks)
}

func TestStateSnapshotReplacement(t *testing.T) {
	t.Parallel()

	s := NewState()
	first := []domain.Column{col("A", 0), col("B", 1)}
	s.SetColumns(first)
	require.Len(t, s.Columns(), 2)

	// A later snapshot replaces the collection outright, including removals.
	second := []domain.Column{first[1]}
	s.SetColumns(second)

	got := s.Columns()
	require.Len(t, got, 1)
	assert.Equal(t, "B", got[0].Title)
}

func TestStateBoardDerivesFromCurrentSnapshots(t *testing.T) {
	t.Parallel()

	s := NewState()
	todo := col("Por Hacer", 0)
	s.SetColumns([]domain.Column{todo})
	s.SetTasks([]domain.Task{taskIn(todo.ID, "t")})

	lanes := s.Board()
	require.Len(t, lanes, 1)
	assert.Len(t, lanes[0].Tasks, 1)

	// Tasks snapshot referencing a column that is gone: tasks simply vanish
	// from the view until the next column snapshot arrives.
	s.SetColumns(nil)
	assert.Empty(t, s.Board())
}
