package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/scheduler"
	"github.com/sandeepkv93/timebox/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.scheduler == nil {
		return nil
	}
	if err := m.scheduler.Every(scheduler.HandleClock, m.settings.ClockTick); err != nil {
		m.logger.Warn("start clock tick", "err", err)
	}
	return waitForTimerCmd(m.scheduler.C())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncViews()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(typed.Width, typed.Height)
		m.syncViews()
		m.recenter()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	case tea.MouseMsg:
		return m.handleMouse(typed)
	case TimerFiredMsg:
		next, cmd := m.handleTimer(typed.Fired)
		if m.scheduler == nil {
			return next, cmd
		}
		return next, tea.Batch(cmd, waitForTimerCmd(m.scheduler.C()))
	case SaveResultMsg:
		return m.handleSaveResult(typed)
	case DayLoadedMsg:
		return m.handleDayLoaded(typed)
	case ExternalChangeMsg:
		if m.Dirty() || m.Save == SaveSaving || m.Loading {
			return m, nil
		}
		return m, m.reloadCmd()
	case spinner.TickMsg:
		if m.Save != SaveSaving {
			return m, nil
		}
		var cmd tea.Cmd
		m.saveSpinner, cmd = m.saveSpinner.Update(typed)
		return m, cmd
	case SetStatusMsg:
		m.setStatus(typed.Text, typed.IsError)
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	}

	// cursor blink and other component messages
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch m.Mode {
	case ModeEdit:
		m.editInput, cmd = m.editInput.Update(msg)
		cmds = append(cmds, cmd)
	case ModeNotes:
		m.notesArea, cmd = m.notesArea.Update(msg)
		cmds = append(cmds, cmd)
	case ModePalette:
		m.paletteInput, cmd = m.paletteInput.Update(msg)
		cmds = append(cmds, cmd)
	case ModeForm:
		in := &m.form.inputs[m.form.focus]
		*in, cmd = in.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTimer(ev scheduler.Fired) (Model, tea.Cmd) {
	switch ev.Handle {
	case scheduler.HandleClock:
		m.clock = m.now()
	case scheduler.HandleIdle:
		if m.Mode == ModeNormal {
			m.syncViews()
			m.recenter()
		}
	case scheduler.HandleAutosave:
		if m.Loading {
			return m, nil
		}
		cmd := m.saveNow()
		return m, cmd
	case scheduler.HandleSettle:
		if m.Save == SaveSaving && !m.Dirty() {
			m.Save = SaveSaved
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.Loading {
		return m, nil
	}
	if m.HelpVisible && m.Mode == ModeNormal {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.HelpVisible = false
		}
		return m, nil
	}

	switch m.Mode {
	case ModeEdit:
		return m.handleEditKey(msg)
	case ModeNotes:
		return m.handleNotesEditKey(msg)
	case ModeForm:
		return m.handleFormKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeDrag:
		return m.handleDragKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.HelpVisible = true
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		return m.openPalette(""), nil
	case key.Matches(msg, m.keys.NextSection):
		m.Section = (m.Section + 1) % sectionCount
		return m, nil
	case key.Matches(msg, m.keys.PrevSection):
		m.Section = (m.Section + sectionCount - 1) % sectionCount
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.apply(planner.ToggleTheme{})
		m.setStatus("theme: "+string(m.State.Day.Theme), false)
		return m, nil
	case key.Matches(msg, m.keys.Now):
		m.jumpToNow()
		return m, nil
	case key.Matches(msg, m.keys.Save):
		cmd := m.saveNow()
		if cmd == nil {
			m.setStatus("nothing to save", false)
		}
		return m, cmd
	case key.Matches(msg, m.keys.PrevDay):
		return m.switchDay(m.offsetDate(-1))
	case key.Matches(msg, m.keys.NextDay):
		return m.switchDay(m.offsetDate(1))
	case key.Matches(msg, m.keys.Today):
		return m.switchDay(m.now().Format(model.DateLayout))
	}
	for i, b := range m.keys.Sections {
		if key.Matches(msg, b) {
			m.Section = Section(i)
			return m, nil
		}
	}

	switch m.Section {
	case SectionSchedule:
		return m.handleScheduleKey(msg)
	case SectionPriorities:
		return m.handlePrioritiesKey(msg)
	case SectionTodos:
		return m.handleTodosKey(msg)
	case SectionNotes:
		return m.handleNotesKey(msg)
	}
	return m, nil
}

func (m Model) offsetDate(days int) string {
	base, err := model.ParseDate(m.State.Day.Date)
	if err != nil {
		base = m.now()
	}
	return base.AddDate(0, 0, days).Format(model.DateLayout)
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if !m.settings.Mouse || m.Loading {
		return m, nil
	}
	switch m.Mode {
	case ModeNormal, ModeDrag:
	default:
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp && m.overSchedule(msg.X, msg.Y):
		m.scrollSchedule(-3)
		m.userScrolled()
	case msg.Button == tea.MouseButtonWheelDown && m.overSchedule(msg.X, msg.Y):
		m.scrollSchedule(3)
		m.userScrolled()
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if i, ok := m.todoIndexAt(msg.X, msg.Y); ok {
			m.Section = SectionTodos
			m.todoCursor = i
			if next, ok := m.drag.Begin(m.State.Day, i); ok {
				m.drag = next
				m.Mode = ModeDrag
			}
			return m, nil
		}
		if m.overSchedule(msg.X, msg.Y) {
			if line, ok := m.scheduleLineAt(msg.Y); ok {
				row, half := m.cellForLine(line)
				m.Section = SectionSchedule
				m.schedCursor = model.CellKey{Row: row, Half: half}
			}
		}
	case msg.Action == tea.MouseActionMotion && m.drag.Active():
		if i, ok := m.todoIndexAt(msg.X, msg.Y); ok {
			m.drag = m.drag.Hover(i)
			m.todoCursor = i
		}
	case msg.Action == tea.MouseActionRelease && m.drag.Active():
		if i, ok := m.todoIndexAt(msg.X, msg.Y); ok {
			m.drag = m.drag.Hover(i)
			return m.dropDrag(), nil
		}
		// released outside the list
		m.drag = m.drag.Reset()
		m.Mode = ModeNormal
	}
	return m, nil
}

func (m Model) theme() views.Theme {
	return views.ThemeFor(m.State.Day.Theme)
}

// syncViews refreshes the schedule content so viewport scrolling is bounded
// by the current grid.
func (m *Model) syncViews() {
	m.schedule.SetContent(m.renderScheduleContent())
}

func (m Model) renderScheduleContent() string {
	d := m.State.Day
	data := views.ScheduleData{
		Theme:      m.theme(),
		Width:      m.schedule.Width,
		RowHeight:  m.settings.RowHeight,
		Cells:      d.Cells,
		Blocks:     views.BlocksFor(d, m.settings.layout()),
		Cursor:     m.schedCursor,
		ShowCursor: m.Section == SectionSchedule,
		NowLine:    -1,
	}
	if m.Mode == ModeEdit && m.edit.kind == editCell {
		data.Editor = m.editInput.View()
	}
	if pos, ok := grid.CurrentTimePosition(m.clock); ok && d.Date == m.clock.Format(model.DateLayout) {
		data.NowLine = pos.Rows() * float64(max(1, m.settings.RowHeight))
	}
	return views.RenderSchedule(data)
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	t := m.theme()
	d := m.dims()

	var left, right string
	if d.narrow {
		left = m.renderSection(m.Section, d)
	} else {
		left = m.renderSection(SectionSchedule, d)
		right = lipgloss.JoinVertical(lipgloss.Left,
			m.renderSection(SectionPriorities, d),
			m.renderSection(SectionTodos, d),
			m.renderSection(SectionNotes, d),
		)
	}

	var tabs string
	if d.narrow {
		tabs = views.RenderTabs(views.TabsData{Theme: t, Labels: sectionNames[:], Active: int(m.Section)})
	}

	var overlay string
	switch {
	case m.Mode == ModeForm:
		overlay = m.renderForm()
	case m.Mode == ModeConfirm:
		overlay = m.renderConfirm()
	case m.Mode == ModePalette:
		overlay = m.renderPalette()
	case m.HelpVisible:
		overlay = m.renderHelpView()
	}

	return views.RenderApp(views.AppData{
		Theme:      t,
		Width:      m.width,
		Height:     m.height,
		Header:     m.renderHeader(),
		Tabs:       tabs,
		LeftPane:   left,
		RightPane:  right,
		StatusLine: m.Status.Text,
		StatusErr:  m.Status.IsError,
		Footer:     m.footer(),
		Overlay:    overlay,
	})
}

func (m Model) renderHeader() string {
	weekday := ""
	if date, err := model.ParseDate(m.State.Day.Date); err == nil {
		weekday = date.Weekday().String()
	}
	save, saveErr := "", false
	switch m.Save {
	case SavePending:
		save = "● unsaved"
	case SaveSaving:
		save = m.saveSpinner.View() + " saving"
	case SaveSaved:
		save = "✓ saved"
	case SaveFailed:
		save, saveErr = "✗ save failed", true
	}
	return views.RenderHeader(views.HeaderData{
		Theme:   m.theme(),
		Date:    m.State.Day.Date,
		Weekday: weekday,
		Clock:   m.clock.Format("15:04"),
		Save:    save,
		SaveErr: saveErr,
	})
}

func (m Model) renderSection(s Section, d layoutDims) string {
	t := m.theme()
	width := d.rightW
	if d.narrow {
		width = d.leftW
	}
	focused := m.Section == s
	switch s {
	case SectionSchedule:
		return views.RenderScheduleFrame(views.ScheduleFrameData{
			Theme:    t,
			Width:    d.leftW,
			Focused:  focused,
			Viewport: m.schedule.View(),
			Percent:  m.schedule.ScrollPercent(),
		})
	case SectionPriorities:
		rows := make([]views.PriorityRow, len(m.State.Day.Priorities))
		for i, p := range m.State.Day.Priorities {
			rows[i] = views.PriorityRow{Text: p.Text, Reference: p.IsReference()}
		}
		data := views.PrioritiesData{Theme: t, Width: width, Focused: focused, Rows: rows, Cursor: m.prioCursor}
		if m.Mode == ModeEdit && m.edit.kind == editPriority {
			data.Editor = m.editInput.View()
		}
		return views.RenderPriorities(data)
	case SectionTodos:
		return views.RenderTodos(m.todosData(t, width, d.todosH, focused))
	case SectionNotes:
		return views.RenderNotes(views.NotesData{
			Theme:    t,
			Width:    width,
			Height:   max(1, d.notesH-2),
			Focused:  focused,
			Editing:  m.Mode == ModeNotes,
			Editor:   m.notesArea.View(),
			Rendered: m.notesCache.render(m.State.Day.Notes, t, max(10, width-4)),
		})
	}
	return ""
}

func (m Model) todosData(t views.Theme, width, height int, focused bool) views.TodosData {
	d := m.State.Day
	first, count := m.visibleTodos()
	last := min(len(d.Todos), first+count)
	rows := make([]views.TodoRow, 0, last-first)
	for _, task := range d.Todos[first:last] {
		row := views.TodoRow{
			Title:     task.Title,
			Completed: task.Completed,
			Priority:  d.PrioritySlotFor(task.ID) + 1,
			HasNotes:  task.Notes != "",
		}
		if b, ok := d.Blocks[task.ID]; ok {
			row.Scheduled = fmt.Sprintf("%s-%s", b.Start, b.End)
		}
		rows = append(rows, row)
	}
	data := views.TodosData{
		Theme:      t,
		Width:      width,
		Height:     max(1, height-2),
		Focused:    focused,
		Rows:       rows,
		Cursor:     m.todoCursor - first,
		DragSource: -1,
		DragOver:   -1,
		CanDelete:  len(d.Todos) > 1,
	}
	if m.drag.Active() {
		data.Dragging = true
		data.DragSource = m.drag.Source - first
		data.DragOver = m.drag.Over - first
	}
	if m.Mode == ModeEdit && m.edit.kind == editTodo {
		data.Editor = m.editInput.View()
	}
	return data
}
