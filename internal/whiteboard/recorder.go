// Package whiteboard captures freehand drawing gestures into strokes and
// replays stroke snapshots onto a canvas. Capture is local-first: the line
// being drawn renders immediately and only the finished stroke is persisted.
package whiteboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kadichii/kadichii/internal/domain"
)

// Canvas is the drawing surface the recorder and replayer paint onto.
type Canvas interface {
	Clear()
	Line(from, to domain.Point, color string)
}

// Store is the slice of the remote gateway the whiteboard needs.
type Store interface {
	DrawStroke(ctx context.Context, projectID uuid.UUID, points []domain.Point, color string) error
	ClearStrokes(ctx context.Context, projectID uuid.UUID) error
}

// Recorder turns pointer gestures into strokes. It is idle until Begin,
// accumulates points while capturing, and on End persists the finished
// stroke. A gesture that never moved (fewer than two points) is discarded:
// a tap is not a drawing.
type Recorder struct {
	projectID uuid.UUID
	canvas    Canvas
	store     Store

	mu        sync.Mutex
	capturing bool
	points    []domain.Point
	color     string
}

func NewRecorder(projectID uuid.UUID, canvas Canvas, store Store) *Recorder {
	return &Recorder{projectID: projectID, canvas: canvas, store: store}
}

// Begin starts capturing a stroke in the given color. A Begin while already
// capturing restarts the gesture.
func (r *Recorder) Begin(at domain.Point, color string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.capturing = true
	r.points = []domain.Point{at}
	r.color = color
}

// Extend appends a point to the gesture and paints the new segment so the
// line trails the pointer with no remote round-trip. Ignored when idle.
func (r *Recorder) Extend(at domain.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.capturing {
		return
	}
	last := r.points[len(r.points)-1]
	r.points = append(r.points, at)
	r.canvas.Line(last, at, r.color)
}

// End finishes the gesture and persists the stroke. Gestures with fewer than
// two points are dropped without a remote call. Ignored when idle.
func (r *Recorder) End(ctx context.Context) error {
	r.mu.Lock()
	if !r.capturing {
		r.mu.Unlock()
		return nil
	}
	points := r.points
	color := r.color
	r.capturing = false
	r.points = nil
	r.mu.Unlock()

	if len(points) < 2 {
		return nil
	}
	if err := r.store.DrawStroke(ctx, r.projectID, points, color); err != nil {
		return fmt.Errorf("whiteboard.End: %w", err)
	}
	return nil
}

// Capturing reports whether a gesture is in progress.
func (r *Recorder) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capturing
}

// Clear wipes the shared whiteboard for everyone. The canvas clears for
// other participants through their stroke subscriptions delivering an empty
// snapshot; the local canvas clears the same way, keeping one code path.
func (r *Recorder) Clear(ctx context.Context) error {
	if err := r.store.ClearStrokes(ctx, r.projectID); err != nil {
		return fmt.Errorf("whiteboard.Clear: %w", err)
	}
	return nil
}

// Replay wipes the canvas and redraws every stroke in snapshot order. It
// takes the element type stroke subscriptions deliver, so a snapshot feeds
// straight in. Pure with respect to the snapshot: replaying the same strokes
// yields the same picture, so it is safe to call on every delivery.
func Replay(canvas Canvas, strokes []domain.Stroke) {
	canvas.Clear()
	for _, s := range strokes {
		for i := 1; i < len(s.Points); i++ {
			canvas.Line(s.Points[i-1], s.Points[i], s.Color)
		}
	}
}
