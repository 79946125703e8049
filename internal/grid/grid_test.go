package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

func TestRowIndexForHour(t *testing.T) {
	cases := map[int]int{5: 0, 6: 1, 12: 7, 23: 18, 0: 19, 1: 20}
	for hour, want := range cases {
		got, ok := RowIndexForHour(hour)
		require.True(t, ok, "hour %d", hour)
		assert.Equal(t, want, got, "hour %d", hour)
	}
	for _, hour := range []int{2, 3, 4, -1, 24} {
		_, ok := RowIndexForHour(hour)
		assert.False(t, ok, "hour %d should have no row", hour)
	}
}

func TestHourForRowInvertsRowIndex(t *testing.T) {
	for _, s := range Slots() {
		row, ok := RowIndexForHour(s.Hour)
		require.True(t, ok)
		assert.Equal(t, s.Row, row)
	}
	assert.Len(t, Slots(), Rows)
	assert.Equal(t, "5:00", Slots()[0].Label)
	assert.Equal(t, "1:00", Slots()[Rows-1].Label)
	_, ok := HourForRow(Rows)
	assert.False(t, ok)
}

func TestCurrentTimePosition(t *testing.T) {
	pos, ok := CurrentTimePosition(time.Date(2026, 2, 9, 9, 45, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 4, pos.Row)
	assert.InDelta(t, 0.75, pos.Offset, 1e-9)

	pos, ok = CurrentTimePosition(time.Date(2026, 2, 9, 0, 30, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 19, pos.Row)

	_, ok = CurrentTimePosition(time.Date(2026, 2, 9, 3, 10, 0, 0, time.UTC))
	assert.False(t, ok)
}

func TestCellAt(t *testing.T) {
	assert.Equal(t, model.CellKey{Row: 4, Half: 0}, CellAt(Position{Row: 4, Offset: 0.25}))
	assert.Equal(t, model.CellKey{Row: 4, Half: 30}, CellAt(Position{Row: 4, Offset: 0.5}))
}

func TestTimeBlockGeometry(t *testing.T) {
	l := Layout{RowHeight: 48, MinBlockHeight: 20}

	g, ok := l.TimeBlockGeometry(model.Clock{Hour: 9}, model.Clock{Hour: 10, Minute: 30})
	require.True(t, ok)
	assert.InDelta(t, 4*48, g.Top, 1e-9)
	assert.InDelta(t, 1.5*48, g.Height, 1e-9)
	assert.False(t, g.Degenerate)

	// zero duration is floored
	g, ok = l.TimeBlockGeometry(model.Clock{Hour: 9}, model.Clock{Hour: 9})
	require.True(t, ok)
	assert.InDelta(t, 20, g.Height, 1e-9)
	assert.True(t, g.Degenerate)

	// end before start is floored, not rejected
	g, ok = l.TimeBlockGeometry(model.Clock{Hour: 1}, model.Clock{Hour: 23})
	require.True(t, ok)
	assert.InDelta(t, 20*48, g.Top, 1e-9)
	assert.InDelta(t, 20, g.Height, 1e-9)
	assert.True(t, g.Degenerate)

	// crossing midnight forward stays positive because 0:00 sits below 23:00
	g, ok = l.TimeBlockGeometry(model.Clock{Hour: 23}, model.Clock{Hour: 0, Minute: 30})
	require.True(t, ok)
	assert.InDelta(t, 1.5*48, g.Height, 1e-9)
	assert.False(t, g.Degenerate)
}

func TestTimeBlockGeometryDeadZone(t *testing.T) {
	l := DefaultLayout()
	_, ok := l.TimeBlockGeometry(model.Clock{Hour: 3}, model.Clock{Hour: 6})
	assert.False(t, ok)

	g, ok := l.TimeBlockGeometry(model.Clock{Hour: 0}, model.Clock{Hour: 3})
	require.True(t, ok)
	assert.True(t, g.Degenerate)
	assert.InDelta(t, l.TotalHeight(), g.Bottom(), 1e-9)
}

func TestRecenterOffset(t *testing.T) {
	l := Layout{RowHeight: 48}
	pos := Position{Row: 4, Offset: 0.5}
	assert.InDelta(t, 4.5*48-300.0/3, l.RecenterOffset(pos, 300), 1e-9)
	assert.Equal(t, 0.0, l.RecenterOffset(Position{Row: 0}, 300))
}
