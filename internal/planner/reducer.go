package planner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/timebox/internal/model"
)

// Action is a named state transition applied by Reducer.Reduce.
type Action interface {
	action()
}

type AddPlaceholder struct{}

type RenameTask struct {
	ID    model.TaskID
	Title string
}

type ToggleCompleted struct {
	ID model.TaskID
}

type EditTaskNotes struct {
	ID    model.TaskID
	Notes string
}

type RemoveTask struct {
	ID model.TaskID
}

type SetPriority struct {
	Slot int
	Text string
}

type ClearSlot struct {
	Slot int
}

type EditCell struct {
	Key  model.CellKey
	Text string
}

type EditNotes struct {
	Notes string
}

type ToggleTheme struct{}

type SubmitForm struct {
	Form Form
}

type MoveTodo struct {
	From int
	To   int
}

// Replace swaps in a loaded document. It does not count as an edit.
type Replace struct {
	Day model.Day
}

type Confirm struct{}

type Cancel struct{}

func (AddPlaceholder) action()  {}
func (RenameTask) action()      {}
func (ToggleCompleted) action() {}
func (EditTaskNotes) action()   {}
func (RemoveTask) action()      {}
func (SetPriority) action()     {}
func (ClearSlot) action()       {}
func (EditCell) action()        {}
func (EditNotes) action()       {}
func (ToggleTheme) action()     {}
func (SubmitForm) action()      {}
func (MoveTodo) action()        {}
func (Replace) action()         {}
func (Confirm) action()         {}
func (Cancel) action()          {}

// Confirmation is a write held back because its title collides with an
// existing entry. It is resolved only by Confirm or Cancel.
type Confirmation struct {
	Action    Action
	Duplicate Duplicate
}

type State struct {
	Day     model.Day
	Pending *Confirmation
	// Revision increases on every change to Day.
	Revision uint64
}

func NewState(d model.Day) State {
	return State{Day: d}
}

// Outcome reports what a reduction did.
type Outcome struct {
	Changed              bool
	AwaitingConfirmation bool
	// TaskID is the task created or touched, when there is one.
	TaskID model.TaskID
	Err    error
}

type Reducer struct {
	NewID func() model.TaskID
	Now   func() time.Time
}

func NewReducer() Reducer {
	return Reducer{NewID: NewTaskID, Now: time.Now}
}

// NewTaskID returns a time-ordered identifier so ids sort by creation.
func NewTaskID() model.TaskID {
	id, err := uuid.NewV7()
	if err != nil {
		return model.TaskID(uuid.NewString())
	}
	return model.TaskID(id.String())
}

func (r Reducer) Reduce(s State, a Action) (State, Outcome) {
	switch typed := a.(type) {
	case Confirm:
		if s.Pending == nil {
			return s, Outcome{Err: ErrNothingPending}
		}
		held := s.Pending.Action
		s.Pending = nil
		return r.apply(s, held, false)
	case Cancel:
		if s.Pending == nil {
			return s, Outcome{Err: ErrNothingPending}
		}
		s.Pending = nil
		return s, Outcome{}
	case Replace:
		s.Day = typed.Day.Clone()
		s.Pending = nil
		return s, Outcome{}
	}
	if s.Pending != nil {
		return s, Outcome{Err: ErrConfirmationPending, AwaitingConfirmation: true}
	}
	return r.apply(s, a, true)
}

func (r Reducer) apply(s State, a Action, gate bool) (State, Outcome) {
	var (
		next model.Day
		out  Outcome
		err  error
	)
	switch typed := a.(type) {
	case AddPlaceholder:
		id := r.NewID()
		next = AppendPlaceholder(s.Day, id, r.now())
		out.TaskID = id
	case RenameTask:
		if gate {
			if dup, ok := FindDuplicate(s.Day, typed.Title, typed.ID); ok {
				return hold(s, a, dup)
			}
		}
		next, err = SetTaskTitle(s.Day, typed.ID, typed.Title)
		out.TaskID = typed.ID
	case ToggleCompleted:
		t, ok := s.Day.Task(typed.ID)
		if !ok {
			return s, Outcome{Err: fmt.Errorf("%w: %s", ErrTaskNotFound, typed.ID)}
		}
		next, err = SetCompleted(s.Day, typed.ID, !t.Completed)
		out.TaskID = typed.ID
	case EditTaskNotes:
		next, err = SetTaskNotes(s.Day, typed.ID, typed.Notes)
		out.TaskID = typed.ID
	case RemoveTask:
		next, err = DeleteTask(s.Day, typed.ID)
	case SetPriority:
		next, err = AssignPriority(s.Day, typed.Slot, typed.Text)
	case ClearSlot:
		next, err = ClearPriority(s.Day, typed.Slot)
	case EditCell:
		next = SetCell(s.Day, typed.Key, typed.Text)
	case EditNotes:
		next = SetNotes(s.Day, typed.Notes)
	case ToggleTheme:
		next = s.Day.Clone()
		next.Theme = next.Theme.Toggle()
	case SubmitForm:
		sub, subErr := typed.Form.Submission()
		if subErr != nil {
			return s, Outcome{Err: subErr}
		}
		if gate {
			var skip []int
			if sub.SourceSlot >= 0 {
				skip = append(skip, sub.SourceSlot)
			}
			if dup, ok := FindDuplicate(s.Day, sub.Title, sub.Target, skip...); ok {
				return hold(s, a, dup)
			}
		}
		next, out.TaskID, err = UpsertFromForm(s.Day, sub, r.NewID(), r.now())
	case MoveTodo:
		if typed.From == typed.To {
			return s, Outcome{}
		}
		next, err = Move(s.Day, typed.From, typed.To)
	default:
		return s, Outcome{}
	}
	if err != nil {
		return s, Outcome{Err: err}
	}
	s.Day = next
	s.Revision++
	out.Changed = true
	return s, out
}

func hold(s State, a Action, dup Duplicate) (State, Outcome) {
	s.Pending = &Confirmation{Action: a, Duplicate: dup}
	return s, Outcome{AwaitingConfirmation: true}
}

func (r Reducer) now() time.Time {
	if r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}
