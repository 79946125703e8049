package planner

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timebox/internal/model"
)

type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// FormSource records which view opened the form.
type FormSource string

const (
	SourceTodo     FormSource = "todo"
	SourcePriority FormSource = "priority"
)

// TimeFields is one 12-hour time input as typed.
type TimeFields struct {
	Hour     string
	Minute   string
	Meridiem model.Meridiem
}

func (f TimeFields) IsBlank() bool {
	return strings.TrimSpace(f.Hour) == "" && strings.TrimSpace(f.Minute) == ""
}

// Clock converts the fields to 24-hour time. An empty minute reads as :00.
// Anything malformed reports false.
func (f TimeFields) Clock() (model.Clock, bool) {
	hour, err := strconv.Atoi(strings.TrimSpace(f.Hour))
	if err != nil {
		return model.Clock{}, false
	}
	minute := 0
	if padded := model.PadMinute(f.Minute); padded != "" {
		minute, _ = strconv.Atoi(padded)
	}
	meridiem := f.Meridiem
	if meridiem == "" {
		meridiem = model.AM
	}
	c, err := model.To24Hour(hour, minute, meridiem)
	if err != nil {
		return model.Clock{}, false
	}
	return c, true
}

// FieldsFromClock fills the form fields from a stored 24-hour time.
func FieldsFromClock(c model.Clock) TimeFields {
	c12 := model.To12Hour(c)
	return TimeFields{
		Hour:     strconv.Itoa(c12.Hour),
		Minute:   fmt.Sprintf("%02d", c12.Minute),
		Meridiem: c12.Meridiem,
	}
}

// Form is the add/edit task form state.
type Form struct {
	Mode   FormMode
	Target model.TaskID
	Source FormSource
	// SourceSlot is the priority slot the form was opened from, or -1.
	SourceSlot int
	Title      string
	Notes      string
	Start      TimeFields
	End        TimeFields
	// Priority is 0 for none, 1..3 for a slot.
	Priority int
}

func OpenCreate() Form {
	return Form{
		Mode:       FormCreate,
		Source:     SourceTodo,
		SourceSlot: -1,
		Start:      TimeFields{Meridiem: model.AM},
		End:        TimeFields{Meridiem: model.AM},
	}
}

// OpenEdit pre-populates the form from the task, its time-block and the
// priority slot referencing it.
func OpenEdit(d model.Day, id model.TaskID, source FormSource) (Form, error) {
	t, ok := d.Task(id)
	if !ok {
		return Form{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	f := OpenCreate()
	f.Mode = FormEdit
	f.Target = id
	f.Source = source
	f.Title = t.Title
	f.Notes = t.Notes
	if b, ok := d.Blocks[id]; ok {
		f.Start = FieldsFromClock(b.Start)
		f.End = FieldsFromClock(b.End)
		if f.Notes == "" {
			f.Notes = b.Notes
		}
	}
	if slot := d.PrioritySlotFor(id); slot >= 0 {
		f.Priority = slot + 1
		if source == SourcePriority {
			f.SourceSlot = slot
		}
	}
	return f, nil
}

// OpenPriority opens the form for a priority slot. A referenced slot edits its
// task; a free-text or empty slot creates a task bound to that slot.
func OpenPriority(d model.Day, slot int) (Form, error) {
	if slot < 0 || slot >= model.PrioritySlots {
		return Form{}, fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	p := d.Priorities[slot]
	if p.IsReference() {
		return OpenEdit(d, p.TaskID, SourcePriority)
	}
	f := OpenCreate()
	f.Source = SourcePriority
	f.SourceSlot = slot
	f.Title = p.Text
	f.Priority = slot + 1
	return f, nil
}

// TimeRange is a complete start/end pair in 24-hour time.
type TimeRange struct {
	Start model.Clock
	End   model.Clock
}

// Submission is a validated form ready to be committed.
type Submission struct {
	Mode       FormMode
	Target     model.TaskID
	SourceSlot int
	Title      string
	Notes      string
	// Range is nil unless both ends were complete.
	Range         *TimeRange
	ClearRange    bool
	Priority      int
	ClearPriority bool
}

// Submission validates the form. Only the title is required; partial or
// malformed times are dropped without error.
func (f Form) Submission() (Submission, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return Submission{}, ErrTitleRequired
	}
	if f.Priority < 0 || f.Priority > model.PrioritySlots {
		return Submission{}, fmt.Errorf("%w: %d", ErrInvalidSlot, f.Priority)
	}
	if f.Mode == FormEdit && f.Target.IsZero() {
		return Submission{}, fmt.Errorf("%w: edit without target", ErrTaskNotFound)
	}
	s := Submission{
		Mode:       f.Mode,
		Target:     f.Target,
		SourceSlot: f.SourceSlot,
		Title:      title,
		Notes:      strings.TrimSpace(f.Notes),
		Priority:   f.Priority,
	}
	start, okStart := f.Start.Clock()
	end, okEnd := f.End.Clock()
	if okStart && okEnd {
		s.Range = &TimeRange{Start: start, End: end}
	}
	if f.Mode == FormEdit {
		s.ClearRange = f.Start.IsBlank() && f.End.IsBlank()
		s.ClearPriority = f.Priority == 0
	}
	return s, nil
}

// UpsertFromForm commits a submission across all three views. newID is used
// only when creating.
func UpsertFromForm(d model.Day, s Submission, newID model.TaskID, now time.Time) (model.Day, model.TaskID, error) {
	var (
		out model.Day
		id  model.TaskID
		err error
	)
	switch s.Mode {
	case FormEdit:
		id = s.Target
		if out, err = SetTaskTitle(d, id, s.Title); err != nil {
			return d, "", err
		}
		if out, err = SetTaskNotes(out, id, s.Notes); err != nil {
			return d, "", err
		}
	default:
		id = newID
		if id.IsZero() {
			return d, "", fmt.Errorf("%w: missing id for new task", ErrTaskNotFound)
		}
		out = d.Clone()
		out.Todos = append(out.Todos, model.Task{ID: id, Title: s.Title, Notes: s.Notes, CreatedAt: now})
	}

	switch {
	case s.Range != nil:
		out.Blocks[id] = model.TimeBlock{
			TaskID: id,
			Title:  s.Title,
			Start:  s.Range.Start,
			End:    s.Range.End,
			Notes:  s.Notes,
		}
	case s.ClearRange:
		delete(out.Blocks, id)
	}

	switch {
	case s.Priority >= 1:
		if out, err = LinkPriority(out, s.Priority-1, id); err != nil {
			return d, "", err
		}
	case s.ClearPriority:
		out = unlinkPriority(out, id)
	}

	// a free-text slot the form was opened from is promoted to the task
	if src := s.SourceSlot; src >= 0 && src < model.PrioritySlots && src != s.Priority-1 {
		if p := out.Priorities[src]; !p.IsReference() && !p.IsEmpty() {
			out.Priorities[src] = model.Priority{}
		}
	}
	return out, id, nil
}
