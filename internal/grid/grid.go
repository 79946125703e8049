// Package grid maps wall-clock times onto the schedule grid. The grid shows
// fixed clock hours 05:00 through 23:00 followed by 00:00 and 01:00, one row
// per hour, each row split into a :00 and a :30 cell.
package grid

import (
	"fmt"
	"math"
	"time"

	"github.com/sandeepkv93/timebox/internal/model"
)

const (
	// FirstHour is the clock hour of row 0.
	FirstHour = 5
	// Rows is the number of hourly rows (05..23, 00, 01).
	Rows = 21
)

// RowIndexForHour returns the row for a clock hour. Hours 02..04 have no row.
func RowIndexForHour(hour int) (int, bool) {
	switch {
	case hour >= FirstHour && hour <= 23:
		return hour - FirstHour, true
	case hour == 0:
		return 19, true
	case hour == 1:
		return 20, true
	default:
		return 0, false
	}
}

// HourForRow is the inverse of RowIndexForHour.
func HourForRow(row int) (int, bool) {
	switch {
	case row >= 0 && row <= 18:
		return row + FirstHour, true
	case row == 19:
		return 0, true
	case row == 20:
		return 1, true
	default:
		return 0, false
	}
}

type Slot struct {
	Row   int
	Hour  int
	Label string
}

// Slots lists the grid rows top to bottom.
func Slots() []Slot {
	out := make([]Slot, 0, Rows)
	for row := 0; row < Rows; row++ {
		hour, _ := HourForRow(row)
		out = append(out, Slot{Row: row, Hour: hour, Label: fmt.Sprintf("%d:00", hour)})
	}
	return out
}

// Position is a point on the grid in rows: Row plus a fraction of the row.
type Position struct {
	Row    int
	Offset float64
}

func (p Position) Rows() float64 {
	return float64(p.Row) + p.Offset
}

// PositionOf maps a clock time onto the grid.
func PositionOf(c model.Clock) (Position, bool) {
	row, ok := RowIndexForHour(c.Hour)
	if !ok {
		return Position{}, false
	}
	return Position{Row: row, Offset: float64(c.Minute) / 60}, true
}

// CurrentTimePosition returns where the now marker belongs, or false when the
// current hour has no row.
func CurrentTimePosition(now time.Time) (Position, bool) {
	return PositionOf(model.Clock{Hour: now.Hour(), Minute: now.Minute()})
}

// CellAt returns the half-hour cell containing p.
func CellAt(p Position) model.CellKey {
	if p.Offset >= 0.5 {
		return model.CellKey{Row: p.Row, Half: 30}
	}
	return model.CellKey{Row: p.Row, Half: 0}
}

// Layout carries the grid's coordinate scale. Units are whatever the caller
// renders in (terminal lines for the TUI).
type Layout struct {
	RowHeight      float64
	MinBlockHeight float64
}

func DefaultLayout() Layout {
	return Layout{RowHeight: 2, MinBlockHeight: 1}
}

// Geometry is the overlay rectangle of a time-block.
type Geometry struct {
	Top    float64
	Height float64
	// Degenerate is set when the block had a zero or negative span or an end
	// in the unrepresentable 02:00-04:59 range, and was clamped.
	Degenerate bool
}

// Bottom is the exclusive lower edge.
func (g Geometry) Bottom() float64 {
	return g.Top + g.Height
}

// TimeBlockGeometry places a block on the grid. end > start is not validated:
// the height is floored to MinBlockHeight so inverted or empty ranges stay
// visible. A start with no row has no geometry; an end with no row is pinned
// to the bottom edge.
func (l Layout) TimeBlockGeometry(start, end model.Clock) (Geometry, bool) {
	startPos, ok := PositionOf(start)
	if !ok {
		return Geometry{}, false
	}
	endRows := float64(Rows)
	degenerate := false
	if endPos, ok := PositionOf(end); ok {
		endRows = endPos.Rows()
	} else {
		degenerate = true
	}

	g := Geometry{Top: startPos.Rows() * l.RowHeight}
	raw := (endRows - startPos.Rows()) * l.RowHeight
	if raw < l.MinBlockHeight {
		g.Height = l.MinBlockHeight
		degenerate = true
	} else {
		g.Height = raw
	}
	g.Degenerate = degenerate
	return g, true
}

// TotalHeight is the height of the whole grid.
func (l Layout) TotalHeight() float64 {
	return Rows * l.RowHeight
}

// RecenterOffset returns the scroll offset that puts p at the top third of a
// viewport of the given height.
func (l Layout) RecenterOffset(p Position, viewportHeight float64) float64 {
	return math.Max(0, p.Rows()*l.RowHeight-viewportHeight/3)
}
