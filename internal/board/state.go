// Package board holds the client-side state of one project's kanban board
// and the optimistic-mutation machinery that keeps it responsive while the
// remote store confirms writes.
package board

import (
	"sort"
	"sync"

	"github.com/kadichii/kadichii/internal/domain"
)

// Lane is one rendered column: the column itself plus the tasks that
// currently belong to it, in snapshot order.
type Lane struct {
	Column domain.Column `json:"column"`
	Tasks  []domain.Task `json:"tasks"`
}

// State is the authoritative-for-this-client copy of a project's columns and
// tasks. The two collections are independent: each is replaced wholesale by
// its own subscription snapshot, and the nested view is re-derived from
// whatever pair of snapshots currently exists. Snapshots from different
// subscriptions may be momentarily inconsistent with each other; deriving
// from scratch tolerates that.
type State struct {
	mu      sync.RWMutex
	columns []domain.Column
	tasks   []domain.Task
}

func NewState() *State {
	return &State{}
}

// SetColumns replaces the column collection outright. Invoked only from the
// initial fetch or a subscription callback — never merged field-by-field.
func (s *State) SetColumns(columns []domain.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns = columns
}

// SetTasks replaces the task collection outright.
func (s *State) SetTasks(tasks []domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
}

// Columns returns the current column snapshot.
func (s *State) Columns() []domain.Column {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.columns
}

// Tasks returns the current task snapshot.
func (s *State) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks
}

// Board derives the render-ready nested view from the current snapshots.
func (s *State) Board() []Lane {
	s.mu.RLock()
	columns, tasks := s.columns, s.tasks
	s.mu.RUnlock()
	return Derive(columns, tasks)
}

// Derive produces the ordered sequence of lanes: columns sorted by ascending
// order (ties broken by title), each carrying the tasks whose ColumnID
// matches it. A task referencing no existing column appears in no lane.
// Pure and side-effect-free: identical inputs yield identical output.
func Derive(columns []domain.Column, tasks []domain.Task) []Lane {
	sorted := make([]domain.Column, len(columns))
	copy(sorted, columns)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].Title < sorted[j].Title
	})

	lanes := make([]Lane, len(sorted))
	for i, col := range sorted {
		lane := Lane{Column: col, Tasks: []domain.Task{}}
		for _, t := range tasks {
			if t.ColumnID == col.ID {
				lane.Tasks = append(lane.Tasks, t)
			}
		}
		lanes[i] = lane
	}
	return lanes
}
