// Package planner keeps the three views of a day (todo list, priority slots
// and schedule time-blocks) consistent. Every function takes a model.Day by
// value and returns a new one; the input is never mutated.
package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/timebox/internal/model"
)

var (
	ErrTaskNotFound        = errors.New("planner: task not found")
	ErrLastTask            = errors.New("planner: last task cannot be deleted")
	ErrInvalidSlot         = errors.New("planner: priority slot out of range")
	ErrTitleRequired       = errors.New("planner: title is required")
	ErrIndexOutOfRange     = errors.New("planner: todo index out of range")
	ErrNotDraggable        = errors.New("planner: untitled todo cannot be moved")
	ErrConfirmationPending = errors.New("planner: confirmation pending")
	ErrNothingPending      = errors.New("planner: nothing to confirm")
)

// SetTaskTitle renames a task and propagates the new title to every priority
// slot and time-block referencing it.
func SetTaskTitle(d model.Day, id model.TaskID, title string) (model.Day, error) {
	i := d.TodoIndex(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	out := d.Clone()
	out.Todos[i].Title = title
	for slot := range out.Priorities {
		if out.Priorities[slot].TaskID == id {
			out.Priorities[slot].Text = title
		}
	}
	if b, ok := out.Blocks[id]; ok {
		b.Title = title
		out.Blocks[id] = b
	}
	return out, nil
}

// DeleteTask removes a task from the todo list and cascades to priorities and
// the schedule. The sole remaining task cannot be deleted.
func DeleteTask(d model.Day, id model.TaskID) (model.Day, error) {
	i := d.TodoIndex(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if len(d.Todos) <= 1 {
		return d, ErrLastTask
	}
	out := d.Clone()
	out.Todos = append(out.Todos[:i], out.Todos[i+1:]...)
	for slot := range out.Priorities {
		if out.Priorities[slot].TaskID == id {
			out.Priorities[slot] = model.Priority{}
		}
	}
	delete(out.Blocks, id)
	return out, nil
}

// AssignPriority fills a slot from text. Text equal to an existing task title
// becomes a reference to that task, moved out of any other slot; other text is
// stored free-standing. Empty text clears the slot.
func AssignPriority(d model.Day, slot int, text string) (model.Day, error) {
	if slot < 0 || slot >= model.PrioritySlots {
		return d, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	out := d.Clone()
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		out.Priorities[slot] = model.Priority{}
		return out, nil
	}
	for _, t := range out.Todos {
		if strings.TrimSpace(t.Title) == trimmed {
			out = unlinkPriority(out, t.ID)
			out.Priorities[slot] = model.Priority{TaskID: t.ID, Text: t.Title}
			return out, nil
		}
	}
	out.Priorities[slot] = model.Priority{Text: text}
	return out, nil
}

// LinkPriority points a slot at a task, clearing any other slot that already
// referenced it.
func LinkPriority(d model.Day, slot int, id model.TaskID) (model.Day, error) {
	if slot < 0 || slot >= model.PrioritySlots {
		return d, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	t, ok := d.Task(id)
	if !ok {
		return d, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	out := unlinkPriority(d.Clone(), id)
	out.Priorities[slot] = model.Priority{TaskID: id, Text: t.Title}
	return out, nil
}

func ClearPriority(d model.Day, slot int) (model.Day, error) {
	return AssignPriority(d, slot, "")
}

func unlinkPriority(d model.Day, id model.TaskID) model.Day {
	for slot := range d.Priorities {
		if d.Priorities[slot].TaskID == id {
			d.Priorities[slot] = model.Priority{}
		}
	}
	return d
}

// AppendPlaceholder appends an empty todo row.
func AppendPlaceholder(d model.Day, id model.TaskID, now time.Time) model.Day {
	out := d.Clone()
	out.Todos = append(out.Todos, model.Task{ID: id, CreatedAt: now})
	return out
}

func SetCompleted(d model.Day, id model.TaskID, done bool) (model.Day, error) {
	i := d.TodoIndex(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	out := d.Clone()
	out.Todos[i].Completed = done
	return out, nil
}

func SetTaskNotes(d model.Day, id model.TaskID, notes string) (model.Day, error) {
	i := d.TodoIndex(id)
	if i < 0 {
		return d, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	out := d.Clone()
	out.Todos[i].Notes = notes
	if b, ok := out.Blocks[id]; ok {
		b.Notes = notes
		out.Blocks[id] = b
	}
	return out, nil
}

// SetCell writes free text into a grid cell. Empty text removes the cell.
func SetCell(d model.Day, key model.CellKey, text string) model.Day {
	out := d.Clone()
	if strings.TrimSpace(text) == "" {
		delete(out.Cells, key)
		return out
	}
	out.Cells[key] = text
	return out
}

func SetNotes(d model.Day, notes string) model.Day {
	out := d.Clone()
	out.Notes = notes
	return out
}

// Duplicate describes an existing entry whose title collides with a new one.
type Duplicate struct {
	Title string
	// TaskID is set when the collision is with a todo.
	TaskID model.TaskID
	// Slot is the priority slot of a free-text collision, or -1.
	Slot int
}

// FindDuplicate scans todo titles and priority texts for title, ignoring the
// task identified by exclude and any slot listed in skipSlots.
func FindDuplicate(d model.Day, title string, exclude model.TaskID, skipSlots ...int) (Duplicate, bool) {
	want := strings.TrimSpace(title)
	if want == "" {
		return Duplicate{}, false
	}
	for _, t := range d.Todos {
		if t.ID == exclude {
			continue
		}
		if strings.TrimSpace(t.Title) == want {
			return Duplicate{Title: t.Title, TaskID: t.ID, Slot: -1}, true
		}
	}
	for slot, p := range d.Priorities {
		if p.IsReference() || slices.Contains(skipSlots, slot) {
			// references mirror a todo title, already checked above
			continue
		}
		if strings.TrimSpace(p.Text) == want {
			return Duplicate{Title: p.Text, Slot: slot}, true
		}
	}
	return Duplicate{}, false
}
