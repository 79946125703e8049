package storage

import "time"

// DaySummary is one stored date as shown by list views.
type DaySummary struct {
	Date      string
	Tasks     int
	Completed int
	Blocks    int
	SavedAt   time.Time
}

// DayListFilter narrows ListDays. From and To are inclusive YYYY-MM-DD
// bounds; empty means open.
type DayListFilter struct {
	From   string
	To     string
	Limit  int
	Offset int
}

type taskRow struct {
	ID        string
	Position  int
	Title     string
	Completed bool
	Notes     string
	CreatedAt time.Time
}

type priorityRow struct {
	Slot   int
	TaskID *string
	Text   string
}

type blockRow struct {
	TaskID string
	Title  string
	Start  string
	End    string
	Notes  string
}
