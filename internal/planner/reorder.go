package planner

import (
	"fmt"
	"slices"

	"github.com/sandeepkv93/timebox/internal/model"
)

// Move relocates the todo at from to index to, keeping every other entry in
// its relative order. Equal indices are a no-op.
func Move(d model.Day, from, to int) (model.Day, error) {
	n := len(d.Todos)
	if from < 0 || from >= n || to < 0 || to >= n {
		return d, fmt.Errorf("%w: %d -> %d of %d", ErrIndexOutOfRange, from, to, n)
	}
	if from == to {
		return d, nil
	}
	if d.Todos[from].IsPlaceholder() {
		return d, ErrNotDraggable
	}
	out := d.Clone()
	item := out.Todos[from]
	out.Todos = slices.Delete(out.Todos, from, from+1)
	out.Todos = slices.Insert(out.Todos, to, item)
	return out, nil
}

// NoIndex marks an unset drag index.
const NoIndex = -1

// DragState is the transient drag-and-drop state of the todo list.
type DragState struct {
	Source int
	Over   int
}

func NewDragState() DragState {
	return DragState{Source: NoIndex, Over: NoIndex}
}

func (s DragState) Active() bool {
	return s.Source != NoIndex
}

// Begin starts dragging index i. Only titled entries can be dragged.
func (s DragState) Begin(d model.Day, i int) (DragState, bool) {
	if i < 0 || i >= len(d.Todos) || d.Todos[i].IsPlaceholder() {
		return s, false
	}
	return DragState{Source: i, Over: i}, true
}

func (s DragState) Hover(i int) DragState {
	if !s.Active() {
		return s
	}
	s.Over = i
	return s
}

// Drop ends the drag and returns the move to apply. ok is false when no
// move should happen (unset source or drop on the source itself).
func (s DragState) Drop() (next DragState, from, to int, ok bool) {
	from, to = s.Source, s.Over
	next = NewDragState()
	if from == NoIndex || to == NoIndex || from == to {
		return next, from, to, false
	}
	return next, from, to, true
}

// Reset clears the drag state (drag end or leave).
func (s DragState) Reset() DragState {
	return NewDragState()
}
