package update

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/views"
)

type formField int

const (
	fieldTitle formField = iota
	fieldNotes
	fieldStartHour
	fieldStartMinute
	fieldStartMeridiem
	fieldEndHour
	fieldEndMinute
	fieldEndMeridiem
	fieldPriority
	fieldCount
)

// formState is the popup editing a planner.Form.
type formState struct {
	base          planner.Form
	// inputs holds the text fields; meridiem and priority slots stay unused.
	inputs        [fieldCount]textinput.Model
	startMeridiem model.Meridiem
	endMeridiem   model.Meridiem
	priority      int
	focus         formField
	err           string
}

func newFormState() formState {
	var fs formState
	for i := range fs.inputs {
		fs.inputs[i] = textinput.New()
	}
	for _, f := range []formField{fieldTitle, fieldNotes, fieldStartHour, fieldStartMinute, fieldEndHour, fieldEndMinute} {
		in := textinput.New()
		in.Prompt = ""
		switch f {
		case fieldTitle:
			in.Placeholder = "Task title"
			in.CharLimit = 200
			in.Width = 40
		case fieldNotes:
			in.Placeholder = "Notes"
			in.CharLimit = 500
			in.Width = 40
		case fieldStartHour, fieldEndHour:
			in.Placeholder = "hh"
			in.CharLimit = 2
			in.Width = 2
		default:
			// one spare rune so a third digit reaches NormalizeMinuteInput
			in.Placeholder = "mm"
			in.CharLimit = 3
			in.Width = 2
		}
		fs.inputs[f] = in
	}
	return fs
}

func (fs *formState) open(f planner.Form) {
	fs.base = f
	fs.set(fieldTitle, f.Title)
	fs.set(fieldNotes, f.Notes)
	fs.set(fieldStartHour, f.Start.Hour)
	fs.set(fieldStartMinute, f.Start.Minute)
	fs.set(fieldEndHour, f.End.Hour)
	fs.set(fieldEndMinute, f.End.Minute)
	fs.startMeridiem = meridiemOrAM(f.Start.Meridiem)
	fs.endMeridiem = meridiemOrAM(f.End.Meridiem)
	fs.priority = f.Priority
	fs.err = ""
	fs.focusField(fieldTitle)
}

func (fs *formState) set(f formField, v string) {
	in := &fs.inputs[f]
	in.SetValue(v)
	in.CursorEnd()
}

func (fs formState) value(f formField) string {
	return fs.inputs[f].Value()
}

func (fs *formState) focusField(f formField) {
	fs.focus = (f + fieldCount) % fieldCount
	for k := range fs.inputs {
		if formField(k) == fs.focus {
			fs.inputs[k].Focus()
		} else {
			fs.inputs[k].Blur()
		}
	}
}

// Form returns the planner form with the typed values.
func (fs formState) Form() planner.Form {
	f := fs.base
	f.Title = fs.value(fieldTitle)
	f.Notes = fs.value(fieldNotes)
	f.Start = planner.TimeFields{Hour: fs.value(fieldStartHour), Minute: fs.value(fieldStartMinute), Meridiem: fs.startMeridiem}
	f.End = planner.TimeFields{Hour: fs.value(fieldEndHour), Minute: fs.value(fieldEndMinute), Meridiem: fs.endMeridiem}
	f.Priority = fs.priority
	return f
}

func meridiemOrAM(m model.Meridiem) model.Meridiem {
	if m.IsValid() {
		return m
	}
	return model.AM
}

func (m Model) openForm(f planner.Form) Model {
	m.form.open(f)
	m.Mode = ModeForm
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	fs := &m.form
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.setStatus("form closed", false)
		return m, nil
	case "enter":
		return m.submitForm()
	case "tab", "down":
		fs.focusField(fs.focus + 1)
		return m, nil
	case "shift+tab", "up":
		fs.focusField(fs.focus - 1)
		return m, nil
	}

	switch fs.focus {
	case fieldStartMeridiem, fieldEndMeridiem:
		target := &fs.startMeridiem
		if fs.focus == fieldEndMeridiem {
			target = &fs.endMeridiem
		}
		switch strings.ToLower(msg.String()) {
		case " ", "left", "right", "h", "l":
			*target = target.Toggle()
		case "a":
			*target = model.AM
		case "p":
			*target = model.PM
		}
		return m, nil
	case fieldPriority:
		switch s := msg.String(); s {
		case "left", "h":
			fs.priority = (fs.priority + model.PrioritySlots) % (model.PrioritySlots + 1)
		case "right", "l", " ":
			fs.priority = (fs.priority + 1) % (model.PrioritySlots + 1)
		case "0", "1", "2", "3":
			fs.priority = int(s[0] - '0')
		}
		return m, nil
	}

	in := &fs.inputs[fs.focus]
	next, cmd := in.Update(msg)
	*in = next
	switch fs.focus {
	case fieldStartMinute, fieldEndMinute:
		fs.set(fs.focus, model.NormalizeMinuteInput(in.Value()))
	case fieldStartHour, fieldEndHour:
		fs.set(fs.focus, digitsOnly(in.Value()))
	}
	return m, cmd
}

func (m Model) submitForm() (Model, tea.Cmd) {
	form := m.form.Form()
	out := m.apply(planner.SubmitForm{Form: form})
	switch {
	case errors.Is(out.Err, planner.ErrTitleRequired):
		m.form.err = "title is required"
		m.form.focusField(fieldTitle)
		return m, nil
	case out.Err != nil:
		m.form.err = out.Err.Error()
		return m, nil
	case out.AwaitingConfirmation:
		return m, nil
	}
	m.Mode = ModeNormal
	m.focusTask(out.TaskID)
	if form.Mode == planner.FormEdit {
		m.setStatus("updated task", false)
	} else {
		m.setStatus("added task", false)
	}
	return m, nil
}

func (m Model) renderForm() string {
	fs := m.form
	theme := m.theme()
	title := "New task"
	if fs.base.Mode == planner.FormEdit {
		title = "Edit task"
	}
	timeView := func(h, mi, mer formField, meridiem model.Meridiem) string {
		mView := string(meridiem)
		if fs.focus == mer {
			mView = theme.Cursor.Render("[" + mView + "]")
		} else {
			mView = "[" + mView + "]"
		}
		return fs.inputs[h].View() + ":" + fs.inputs[mi].View() + " " + mView
	}
	prio := "none"
	if fs.priority > 0 {
		prio = fmt.Sprintf("#%d", fs.priority)
	}
	if fs.focus == fieldPriority {
		prio = theme.Cursor.Render("‹ " + prio + " ›")
	} else {
		prio = "‹ " + prio + " ›"
	}
	return views.RenderForm(views.FormData{
		Theme: theme,
		Title: title,
		Fields: []views.FormField{
			{Label: "Title", View: fs.inputs[fieldTitle].View(), Focused: fs.focus == fieldTitle},
			{Label: "Notes", View: fs.inputs[fieldNotes].View(), Focused: fs.focus == fieldNotes},
			{Label: "Start", View: timeView(fieldStartHour, fieldStartMinute, fieldStartMeridiem, fs.startMeridiem), Focused: fs.focus >= fieldStartHour && fs.focus <= fieldStartMeridiem},
			{Label: "End", View: timeView(fieldEndHour, fieldEndMinute, fieldEndMeridiem, fs.endMeridiem), Focused: fs.focus >= fieldEndHour && fs.focus <= fieldEndMeridiem},
			{Label: "Priority", View: prio, Focused: fs.focus == fieldPriority},
		},
		Error: fs.err,
	})
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		out := m.apply(planner.Confirm{})
		m.Mode = ModeNormal
		if out.Err == nil {
			m.focusTask(out.TaskID)
			m.setStatus("saved duplicate", false)
		}
	case key.Matches(msg, m.keys.Cancel):
		m.apply(planner.Cancel{})
		m.Mode = ModeNormal
		m.setStatus("discarded", false)
	}
	return m, nil
}

func (m Model) renderConfirm() string {
	p := m.State.Pending
	if p == nil {
		return ""
	}
	title := ""
	switch a := p.Action.(type) {
	case planner.RenameTask:
		title = a.Title
	case planner.SubmitForm:
		title = strings.TrimSpace(a.Form.Title)
	}
	return views.RenderConfirm(views.ConfirmData{Theme: m.theme(), Title: title, Existing: p.Duplicate.Title})
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
