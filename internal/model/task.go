package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidTheme    = errors.New("model: invalid theme mode")
	ErrInvalidDate     = errors.New("model: invalid date")
	ErrEmptyTodos      = errors.New("model: todo list must keep at least one entry")
	ErrDuplicateTaskID = errors.New("model: duplicate task id")
	ErrOrphanBlock     = errors.New("model: time-block references unknown task")
	ErrOrphanPriority  = errors.New("model: priority references unknown task")
)

// DateLayout is the layout of Day.Date and Snapshot.Date.
const DateLayout = "2006-01-02"

type TaskID string

func (id TaskID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

func (t ThemeMode) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

func (t ThemeMode) Toggle() ThemeMode {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Task struct {
	ID        TaskID
	Title     string
	Completed bool
	Notes     string
	CreatedAt time.Time
}

// IsPlaceholder reports whether the task is an empty row waiting for a title.
func (t Task) IsPlaceholder() bool {
	return strings.TrimSpace(t.Title) == ""
}

func (t Task) Validate() error {
	if t.ID.IsZero() {
		return errors.New("model: task id is required")
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// Priority is one ranked slot. It is empty, a reference to a task (TaskID plus
// cached Text), or free text with no backing task.
type Priority struct {
	TaskID TaskID
	Text   string
}

func (p Priority) IsEmpty() bool {
	return p.TaskID.IsZero() && strings.TrimSpace(p.Text) == ""
}

func (p Priority) IsReference() bool {
	return !p.TaskID.IsZero()
}

// PrioritySlots is the fixed number of ranked priorities in a day.
const PrioritySlots = 3

// ParseDate validates a YYYY-MM-DD date.
func ParseDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}
