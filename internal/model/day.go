package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidCellKey = errors.New("model: invalid schedule cell key")

// CellKey addresses one half-hour cell of the schedule grid.
type CellKey struct {
	Row  int
	Half int // 0 or 30
}

func (k CellKey) String() string {
	return fmt.Sprintf("time-%d-%02d", k.Row, k.Half)
}

func ParseCellKey(raw string) (CellKey, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 3 || parts[0] != "time" {
		return CellKey{}, fmt.Errorf("%w: %q", ErrInvalidCellKey, raw)
	}
	row, err := strconv.Atoi(parts[1])
	if err != nil || row < 0 {
		return CellKey{}, fmt.Errorf("%w: %q", ErrInvalidCellKey, raw)
	}
	switch parts[2] {
	case "00":
		return CellKey{Row: row, Half: 0}, nil
	case "30":
		return CellKey{Row: row, Half: 30}, nil
	default:
		return CellKey{}, fmt.Errorf("%w: %q", ErrInvalidCellKey, raw)
	}
}

// TimeBlock is a schedule entry created from the task form. It is rendered
// as an overlay spanning the grid rows between Start and End.
type TimeBlock struct {
	TaskID TaskID
	Title  string
	Start  Clock
	End    Clock
	Notes  string
}

// Key returns the legacy map key for the block.
func (b TimeBlock) Key() string {
	return "timeblock-" + string(b.TaskID)
}

// Day is the whole in-memory document for one date.
type Day struct {
	Date       string
	Priorities [PrioritySlots]Priority
	Todos      []Task
	Notes      string
	Cells      map[CellKey]string
	Blocks     map[TaskID]TimeBlock
	Theme      ThemeMode
}

// NewDay returns a day with one empty placeholder todo.
func NewDay(date string, placeholder TaskID, now time.Time) Day {
	return Day{
		Date:   date,
		Todos:  []Task{{ID: placeholder, CreatedAt: now}},
		Cells:  make(map[CellKey]string),
		Blocks: make(map[TaskID]TimeBlock),
		Theme:  ThemeLight,
	}
}

// Clone returns a deep copy so reducers never share maps or slices.
func (d Day) Clone() Day {
	out := d
	out.Todos = append([]Task(nil), d.Todos...)
	out.Cells = make(map[CellKey]string, len(d.Cells))
	for k, v := range d.Cells {
		out.Cells[k] = v
	}
	out.Blocks = make(map[TaskID]TimeBlock, len(d.Blocks))
	for k, v := range d.Blocks {
		out.Blocks[k] = v
	}
	return out
}

// TodoIndex returns the position of id in the todo list or -1.
func (d Day) TodoIndex(id TaskID) int {
	for i, t := range d.Todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (d Day) Task(id TaskID) (Task, bool) {
	i := d.TodoIndex(id)
	if i < 0 {
		return Task{}, false
	}
	return d.Todos[i], true
}

// PrioritySlotFor returns the first slot referencing id, or -1.
func (d Day) PrioritySlotFor(id TaskID) int {
	if id.IsZero() {
		return -1
	}
	for i, p := range d.Priorities {
		if p.TaskID == id {
			return i
		}
	}
	return -1
}

func (d Day) Validate() error {
	if _, err := ParseDate(d.Date); err != nil {
		return err
	}
	if !d.Theme.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, d.Theme)
	}
	if len(d.Todos) == 0 {
		return ErrEmptyTodos
	}
	seen := make(map[TaskID]bool, len(d.Todos))
	for _, t := range d.Todos {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateTaskID, t.ID)
		}
		seen[t.ID] = true
	}
	for id := range d.Blocks {
		if !seen[id] {
			return fmt.Errorf("%w: %s", ErrOrphanBlock, id)
		}
	}
	for _, p := range d.Priorities {
		if p.IsReference() && !seen[p.TaskID] {
			return fmt.Errorf("%w: %s", ErrOrphanPriority, p.TaskID)
		}
	}
	return nil
}

// Snapshot is what the save sink accepts: the full day plus a timestamp.
type Snapshot struct {
	Date       string
	Priorities [PrioritySlots]Priority
	Todos      []Task
	Notes      string
	Cells      map[CellKey]string
	Blocks     map[TaskID]TimeBlock
	Theme      ThemeMode
	Timestamp  time.Time
}

func (d Day) Snapshot(at time.Time) Snapshot {
	c := d.Clone()
	return Snapshot{
		Date:       c.Date,
		Priorities: c.Priorities,
		Todos:      c.Todos,
		Notes:      c.Notes,
		Cells:      c.Cells,
		Blocks:     c.Blocks,
		Theme:      c.Theme,
		Timestamp:  at.UTC(),
	}
}

// Day rebuilds the document from a stored snapshot.
func (s Snapshot) Day() Day {
	d := Day{
		Date:       s.Date,
		Priorities: s.Priorities,
		Todos:      s.Todos,
		Notes:      s.Notes,
		Cells:      s.Cells,
		Blocks:     s.Blocks,
		Theme:      s.Theme,
	}
	if d.Cells == nil {
		d.Cells = make(map[CellKey]string)
	}
	if d.Blocks == nil {
		d.Blocks = make(map[TaskID]TimeBlock)
	}
	if !d.Theme.IsValid() {
		d.Theme = ThemeLight
	}
	return d.Clone()
}
