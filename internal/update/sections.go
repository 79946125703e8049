package update

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/scheduler"
)

func (m Model) handleScheduleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCellCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCellCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollSchedule(-m.schedule.Height / 2)
		m.userScrolled()
	case key.Matches(msg, m.keys.PageDown):
		m.scrollSchedule(m.schedule.Height / 2)
		m.userScrolled()
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit(editTarget{kind: editCell, cell: m.schedCursor}, m.State.Day.Cells[m.schedCursor])
	case key.Matches(msg, m.keys.Clear), key.Matches(msg, m.keys.Delete):
		if _, ok := m.State.Day.Cells[m.schedCursor]; ok {
			m.apply(planner.EditCell{Key: m.schedCursor, Text: ""})
			m.setStatus("cleared "+cellLabel(m.schedCursor), false)
		}
	case key.Matches(msg, m.keys.NewTask), key.Matches(msg, m.keys.Form):
		return m.openForm(m.createFormAtCursor()), nil
	}
	return m, nil
}

// createFormAtCursor opens a create form starting at the selected cell and
// lasting half an hour.
func (m Model) createFormAtCursor() planner.Form {
	f := planner.OpenCreate()
	hour, ok := grid.HourForRow(m.schedCursor.Row)
	if !ok {
		return f
	}
	start := model.Clock{Hour: hour, Minute: m.schedCursor.Half}
	endMinutes := (start.Minutes() + 30) % (24 * 60)
	end := model.Clock{Hour: endMinutes / 60, Minute: endMinutes % 60}
	f.Start = planner.FieldsFromClock(start)
	f.End = planner.FieldsFromClock(end)
	return f
}

func (m *Model) moveCellCursor(delta int) {
	idx := m.schedCursor.Row*2 + m.schedCursor.Half/30 + delta
	idx = max(0, min(idx, grid.Rows*2-1))
	m.schedCursor = model.CellKey{Row: idx / 2, Half: (idx % 2) * 30}
	m.ensureCursorVisible()
}

func (m *Model) ensureCursorVisible() {
	line := m.lineForCursor()
	switch {
	case line < m.schedule.YOffset:
		m.schedule.SetYOffset(line)
	case line >= m.schedule.YOffset+m.schedule.Height:
		m.schedule.SetYOffset(line - m.schedule.Height + 1)
	}
}

func (m *Model) scrollSchedule(lines int) {
	m.schedule.SetYOffset(m.schedule.YOffset + lines)
}

// userScrolled restarts the idle window after which the grid recenters.
func (m *Model) userScrolled() {
	m.arm(scheduler.HandleIdle, m.settings.IdleRecenter)
}

// recenter scrolls the grid so the current time sits in its top third.
func (m *Model) recenter() {
	pos, ok := grid.CurrentTimePosition(m.clock)
	if !ok {
		return
	}
	off := m.settings.layout().RecenterOffset(pos, float64(m.schedule.Height))
	m.schedule.SetYOffset(int(off))
}

func (m *Model) jumpToNow() {
	m.clock = m.now()
	m.Section = SectionSchedule
	if pos, ok := grid.CurrentTimePosition(m.clock); ok {
		m.schedCursor = grid.CellAt(pos)
	}
	m.disarm(scheduler.HandleIdle)
	m.syncViews()
	m.recenter()
}

func (m Model) handlePrioritiesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.prioCursor = max(0, m.prioCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.prioCursor = min(model.PrioritySlots-1, m.prioCursor+1)
	case key.Matches(msg, m.keys.Edit):
		return m.beginEdit(editTarget{kind: editPriority, slot: m.prioCursor}, m.State.Day.Priorities[m.prioCursor].Text)
	case key.Matches(msg, m.keys.Form):
		f, err := planner.OpenPriority(m.State.Day, m.prioCursor)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		return m.openForm(f), nil
	case key.Matches(msg, m.keys.Clear), key.Matches(msg, m.keys.Delete):
		if !m.State.Day.Priorities[m.prioCursor].IsEmpty() {
			m.apply(planner.ClearSlot{Slot: m.prioCursor})
		}
	}
	return m, nil
}

func (m Model) handleTodosKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	todos := m.State.Day.Todos
	switch {
	case key.Matches(msg, m.keys.Up):
		m.todoCursor = max(0, m.todoCursor-1)
	case key.Matches(msg, m.keys.Down):
		m.todoCursor = min(len(todos)-1, m.todoCursor+1)
	case key.Matches(msg, m.keys.MoveUp):
		return m.moveTodo(m.todoCursor, m.todoCursor-1), nil
	case key.Matches(msg, m.keys.MoveDown):
		return m.moveTodo(m.todoCursor, m.todoCursor+1), nil
	case key.Matches(msg, m.keys.Edit):
		t := todos[m.todoCursor]
		return m.beginEdit(editTarget{kind: editTodo, id: t.ID}, t.Title)
	case key.Matches(msg, m.keys.Add):
		return m.addTodo()
	case key.Matches(msg, m.keys.Toggle):
		m.apply(planner.ToggleCompleted{ID: todos[m.todoCursor].ID})
	case key.Matches(msg, m.keys.Delete):
		out := m.apply(planner.RemoveTask{ID: todos[m.todoCursor].ID})
		if errors.Is(out.Err, planner.ErrLastTask) {
			m.setStatus("the last task stays", false)
		}
	case key.Matches(msg, m.keys.Form):
		f, err := planner.OpenEdit(m.State.Day, todos[m.todoCursor].ID, planner.SourceTodo)
		if err != nil {
			m.fail(err)
			return m, nil
		}
		return m.openForm(f), nil
	case key.Matches(msg, m.keys.NewTask):
		return m.openForm(planner.OpenCreate()), nil
	case key.Matches(msg, m.keys.Grab):
		next, ok := m.drag.Begin(m.State.Day, m.todoCursor)
		if !ok {
			m.setStatus("untitled tasks cannot be moved", false)
			return m, nil
		}
		m.drag = next
		m.Mode = ModeDrag
		m.setStatus("moving: j/k to choose, enter to drop, esc to cancel", false)
	}
	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	n := len(m.State.Day.Todos)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.drag = m.drag.Hover(max(0, m.drag.Over-1))
	case key.Matches(msg, m.keys.Down):
		m.drag = m.drag.Hover(min(n-1, m.drag.Over+1))
	case msg.String() == "enter":
		m = m.dropDrag()
	case msg.String() == "esc":
		m.drag = m.drag.Reset()
		m.Mode = ModeNormal
		m.setStatus("move cancelled", false)
	}
	if m.drag.Active() {
		m.todoCursor = m.drag.Over
	}
	return m, nil
}

func (m Model) dropDrag() Model {
	next, from, to, ok := m.drag.Drop()
	m.drag = next
	m.Mode = ModeNormal
	if !ok {
		return m
	}
	return m.moveTodo(from, to)
}

func (m Model) moveTodo(from, to int) Model {
	if to < 0 || to >= len(m.State.Day.Todos) {
		return m
	}
	out := m.apply(planner.MoveTodo{From: from, To: to})
	switch {
	case errors.Is(out.Err, planner.ErrNotDraggable):
		m.setStatus("untitled tasks cannot be moved", false)
	case out.Changed:
		m.todoCursor = to
	}
	return m
}

func (m Model) addTodo() (Model, tea.Cmd) {
	out := m.apply(planner.AddPlaceholder{})
	if out.Err != nil {
		return m, nil
	}
	m.Section = SectionTodos
	m.focusTask(out.TaskID)
	return m.beginEdit(editTarget{kind: editTodo, id: out.TaskID}, "")
}

func (m Model) handleNotesKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Edit) {
		m.Mode = ModeNotes
		m.notesArea.SetValue(m.State.Day.Notes)
		m.notesArea.CursorEnd()
		return m, m.notesArea.Focus()
	}
	return m, nil
}

func (m Model) handleNotesEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.notesArea.Blur()
		m.Mode = ModeNormal
		if m.notesArea.Value() != m.State.Day.Notes {
			m.apply(planner.EditNotes{Notes: m.notesArea.Value()})
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.notesArea, cmd = m.notesArea.Update(msg)
	if v := m.notesArea.Value(); v != m.State.Day.Notes {
		m.apply(planner.EditNotes{Notes: v})
	}
	return m, cmd
}

// beginEdit opens the inline editor on target with its current text.
func (m Model) beginEdit(target editTarget, value string) (Model, tea.Cmd) {
	m.edit = target
	m.Mode = ModeEdit
	m.editInput.SetValue(value)
	m.editInput.CursorEnd()
	m.editInput.Width = max(10, m.dims().viewportW/2-2)
	return m, m.editInput.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.endEdit()
		return m, nil
	case "enter":
		return m.commitEdit()
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m *Model) endEdit() {
	m.edit = editTarget{}
	m.editInput.Blur()
	if m.Mode == ModeEdit {
		m.Mode = ModeNormal
	}
}

func (m Model) commitEdit() (Model, tea.Cmd) {
	target := m.edit
	value := m.editInput.Value()
	m.endEdit()
	switch target.kind {
	case editCell:
		if value != m.State.Day.Cells[target.cell] {
			m.apply(planner.EditCell{Key: target.cell, Text: value})
		}
	case editPriority:
		if value != m.State.Day.Priorities[target.slot].Text {
			m.apply(planner.SetPriority{Slot: target.slot, Text: value})
		}
	case editTodo:
		t, ok := m.State.Day.Task(target.id)
		if !ok {
			return m, nil
		}
		if value != t.Title {
			out := m.apply(planner.RenameTask{ID: target.id, Title: value})
			if out.AwaitingConfirmation || out.Err != nil {
				return m, nil
			}
		}
		// enter on a titled last row opens the next one
		last := m.State.Day.Todos[len(m.State.Day.Todos)-1]
		if last.ID == target.id && strings.TrimSpace(value) != "" {
			return m.addTodo()
		}
	}
	return m, nil
}

func (m *Model) focusTask(id model.TaskID) {
	if id.IsZero() {
		return
	}
	if i := m.State.Day.TodoIndex(id); i >= 0 {
		m.todoCursor = i
	}
}

func (m *Model) clampCursors() {
	n := len(m.State.Day.Todos)
	m.todoCursor = max(0, min(m.todoCursor, n-1))
	m.prioCursor = max(0, min(m.prioCursor, model.PrioritySlots-1))
}

// leaveModes drops any in-progress edit before the document changes under it.
func (m *Model) leaveModes() {
	if m.Mode == ModeNotes {
		m.notesArea.Blur()
	}
	m.endEdit()
	m.drag = m.drag.Reset()
	m.Mode = ModeNormal
	if m.State.Pending != nil {
		m.State, _ = m.reducer.Reduce(m.State, planner.Cancel{})
	}
}

func cellLabel(k model.CellKey) string {
	hour, _ := grid.HourForRow(k.Row)
	return model.Clock{Hour: hour, Minute: k.Half}.String()
}
