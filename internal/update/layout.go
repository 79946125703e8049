package update

import (
	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/views"
)

const (
	headerLines     = 1
	statusLines     = 2
	prioPanelHeight = 2 + 1 + 3
	minBodyHeight   = 8
)

type layoutDims struct {
	narrow    bool
	top       int
	leftW     int
	rightW    int
	bodyH     int
	todosH    int
	notesH    int
	viewportW int
	viewportH int
}

func (m Model) dims() layoutDims {
	d := layoutDims{narrow: m.narrow(), top: headerLines}
	if d.narrow {
		d.top++
	}
	d.bodyH = max(minBodyHeight, m.height-d.top-statusLines)
	if d.narrow {
		d.leftW = m.width
		d.todosH = d.bodyH
		d.notesH = d.bodyH
	} else {
		d.leftW = m.width * 3 / 5
		d.rightW = m.width - d.leftW
		d.notesH = max(5, d.bodyH/3)
		d.todosH = max(5, d.bodyH-prioPanelHeight-d.notesH)
	}
	d.viewportW = max(20, d.leftW-4)
	d.viewportH = max(3, d.bodyH-3)
	return d
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	d := m.dims()
	m.schedule.Width = d.viewportW
	m.schedule.Height = d.viewportH
	m.notesArea.SetWidth(max(10, m.notesWidth()-4))
	m.notesArea.SetHeight(max(3, d.notesH-3))
}

func (m Model) notesWidth() int {
	d := m.dims()
	if d.narrow {
		return d.leftW
	}
	return d.rightW
}

// visibleTodos returns how many todo rows fit and the first one shown.
func (m Model) visibleTodos() (first, count int) {
	count = max(1, m.dims().todosH-4)
	if m.todoCursor >= count {
		first = m.todoCursor - count + 1
	}
	return first, count
}

// todoIndexAt maps a screen row to a todo index.
func (m Model) todoIndexAt(x, y int) (int, bool) {
	d := m.dims()
	var top int
	switch {
	case d.narrow:
		if m.Section != SectionTodos {
			return 0, false
		}
		top = d.top
	default:
		if x < d.leftW {
			return 0, false
		}
		top = d.top + prioPanelHeight
	}
	first, count := m.visibleTodos()
	row := y - top - views.TodoListOffset
	if row < 0 || row >= count {
		return 0, false
	}
	i := first + row
	if i >= len(m.State.Day.Todos) {
		return 0, false
	}
	return i, true
}

// overSchedule reports whether a screen point is inside the schedule pane.
func (m Model) overSchedule(x, y int) bool {
	d := m.dims()
	if d.narrow {
		return m.Section == SectionSchedule && y >= d.top
	}
	return x < d.leftW && y >= d.top
}

// scheduleLineAt maps a screen row to a grid line.
func (m Model) scheduleLineAt(y int) (int, bool) {
	line := y - m.dims().top - 2 + m.schedule.YOffset
	if line < 0 || line >= views.ScheduleLines(m.settings.RowHeight) {
		return 0, false
	}
	return line, true
}

func (m Model) cellForLine(line int) (row, half int) {
	rh := max(1, m.settings.RowHeight)
	row = min(line/rh, grid.Rows-1)
	if rh >= 2 && line%rh >= rh/2 {
		half = 30
	}
	return row, half
}

func (m Model) lineForCursor() int {
	rh := max(1, m.settings.RowHeight)
	line := m.schedCursor.Row * rh
	if rh >= 2 && m.schedCursor.Half == 30 {
		line += rh / 2
	}
	return line
}
