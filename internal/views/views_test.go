package views

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/model"
)

var testTime = time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)

func scheduleLinesOf(data ScheduleData) []string {
	return strings.Split(RenderSchedule(data), "\n")
}

func baseSchedule() ScheduleData {
	return ScheduleData{Theme: ThemeFor(model.ThemeLight), Width: 80, RowHeight: 2, NowLine: -1}
}

func TestRenderScheduleCoversTheGrid(t *testing.T) {
	lines := scheduleLinesOf(baseSchedule())
	require.Len(t, lines, ScheduleLines(2))
	assert.Contains(t, lines[0], "5:00")
	assert.Contains(t, lines[1], ":30")
	assert.Contains(t, lines[2*(grid.Rows-2)], " 0:00")
	assert.Contains(t, lines[2*(grid.Rows-1)], " 1:00")

	data := baseSchedule()
	data.RowHeight = 1
	assert.Len(t, scheduleLinesOf(data), grid.Rows)
}

func TestRenderScheduleCells(t *testing.T) {
	data := baseSchedule()
	data.Cells = map[model.CellKey]string{{Row: 0, Half: 30}: "Gym", {Row: 1, Half: 0}: "Breakfast"}
	lines := scheduleLinesOf(data)
	assert.NotContains(t, lines[0], "Gym")
	assert.Contains(t, lines[1], "Gym")
	assert.Contains(t, lines[2], "Breakfast")

	data.RowHeight = 1
	lines = scheduleLinesOf(data)
	assert.Contains(t, lines[0], "Gym")
	assert.Contains(t, lines[1], "Breakfast")
}

func TestRenderScheduleEditorReplacesCursorCell(t *testing.T) {
	data := baseSchedule()
	data.Cells = map[model.CellKey]string{{Row: 2, Half: 0}: "old"}
	data.Cursor = model.CellKey{Row: 2, Half: 0}
	data.ShowCursor = true
	data.Editor = "typing"
	lines := scheduleLinesOf(data)
	assert.Contains(t, lines[4], "typing")
	assert.NotContains(t, lines[4], "old")
}

func TestRenderScheduleBlocks(t *testing.T) {
	data := baseSchedule()
	data.Blocks = []ScheduleBlock{{Title: "Write report", Range: "09:00-10:30", Top: 8, Height: 3}}
	lines := scheduleLinesOf(data)
	assert.Contains(t, lines[8], "┃ Write report 09:00-10:30")
	assert.Contains(t, lines[9], "┃")
	assert.NotContains(t, lines[9], "Write report")
	assert.Contains(t, lines[10], "┃")
	assert.NotContains(t, lines[11], "┃")
	assert.NotContains(t, lines[7], "┃")
}

func TestRenderScheduleMarksDegenerateAndOverlap(t *testing.T) {
	data := baseSchedule()
	data.Blocks = []ScheduleBlock{
		{Title: "Late", Range: "23:00-03:00", Top: 36, Height: 6, Degenerate: true},
		{Title: "Call", Range: "23:00-23:30", Top: 36, Height: 1},
	}
	lines := scheduleLinesOf(data)
	assert.Contains(t, lines[36], "+1")
	assert.Contains(t, lines[36], "Call")

	data.Blocks = data.Blocks[:1]
	lines = scheduleLinesOf(data)
	assert.Contains(t, lines[36], "┃ ! Late")
}

func TestRenderScheduleNowMarker(t *testing.T) {
	data := baseSchedule()
	for _, line := range scheduleLinesOf(data) {
		assert.NotContains(t, line, "now ▶")
	}

	data.NowLine = 8.5
	lines := scheduleLinesOf(data)
	assert.Contains(t, lines[8], "now ▶")
	assert.Contains(t, lines[8], "┼")
	assert.NotContains(t, lines[9], "now ▶")
}

func TestBlocksFor(t *testing.T) {
	d := model.NewDay("2026-02-09", "t1", testTime)
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Write report", Start: model.Clock{Hour: 9}, End: model.Clock{Hour: 10, Minute: 30}}
	d.Blocks["t2"] = model.TimeBlock{TaskID: "t2", Title: "Sleep", Start: model.Clock{Hour: 3}, End: model.Clock{Hour: 4}}
	d.Blocks["t3"] = model.TimeBlock{TaskID: "t3", Title: "Gig", Start: model.Clock{Hour: 23}, End: model.Clock{Hour: 3}}

	blocks := BlocksFor(d, grid.Layout{RowHeight: 2, MinBlockHeight: 1})
	require.Len(t, blocks, 2)
	byTitle := map[string]ScheduleBlock{}
	for _, b := range blocks {
		byTitle[b.Title] = b
	}
	report := byTitle["Write report"]
	assert.InDelta(t, 8, report.Top, 1e-9)
	assert.InDelta(t, 3, report.Height, 1e-9)
	assert.Equal(t, "09:00-10:30", report.Range)
	assert.False(t, report.Degenerate)
	assert.True(t, byTitle["Gig"].Degenerate)
}

func TestRenderTodos(t *testing.T) {
	data := TodosData{
		Theme:   ThemeFor(model.ThemeDark),
		Width:   50,
		Focused: true,
		Rows: []TodoRow{
			{Title: "Pay rent", Priority: 1, Scheduled: "09:00"},
			{Title: "Gym", Completed: true, HasNotes: true},
			{},
		},
	}
	out := RenderTodos(data)
	assert.Contains(t, out, "[ ] Pay rent #1 09:00")
	assert.Contains(t, out, "[x] Gym ✎")
	assert.Contains(t, out, "new task…")
	assert.NotContains(t, out, "d delete")

	data.CanDelete = true
	out = RenderTodos(data)
	assert.Contains(t, out, "a add · d delete · e edit · m move")
	assert.NotContains(t, out, "space", "hints that do not fit are dropped whole")

	data.Width = 24
	assert.Contains(t, RenderTodos(data), "a add · d delete")
	data.Width = 50

	data.Dragging, data.DragSource, data.DragOver = true, 0, 1
	out = RenderTodos(data)
	assert.Contains(t, out, "≡ [ ] Pay rent")
	assert.Contains(t, out, "→ [x] Gym")
}

func TestRenderTabs(t *testing.T) {
	out := RenderTabs(TabsData{Theme: ThemeFor(model.ThemeLight), Labels: []string{"Schedule", "Priorities", "To-do", "Notes"}, Active: 2})
	for _, want := range []string{"1 Schedule", "2 Priorities", "3 To-do", "4 Notes"} {
		assert.Contains(t, out, want)
	}
}

func TestOverlayCenter(t *testing.T) {
	bg := strings.Repeat("..........\n", 4) + ".........."
	out := OverlayCenter(bg, "XX\nYY", 10, 5)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "..........", lines[0])
	assert.Equal(t, "....XX....", lines[1])
	assert.Equal(t, "....YY....", lines[2])
	assert.Equal(t, "..........", lines[3])
}

func TestOverlayCenterPadsShortBackground(t *testing.T) {
	out := OverlayCenter("ab", "X", 5, 3)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  X  ", lines[1])
}

func TestTruncateAndPad(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "", truncate("abc", 0))
	assert.Equal(t, "ab   ", pad("ab", 5))
	assert.Equal(t, "abcdef", pad("abcdef", 3))
}

func TestFitHints(t *testing.T) {
	hints := []string{"a add", "d delete", "e edit"}
	assert.Equal(t, "a add · d delete · e edit", fitHints(hints, 40))
	assert.Equal(t, "a add · d delete", fitHints(hints, 20))
	assert.Equal(t, "", fitHints(hints, 3))
}

func TestRenderMarkdownEmpty(t *testing.T) {
	assert.Equal(t, "", RenderMarkdown("  \n", ThemeFor(model.ThemeLight), 40))
	assert.Contains(t, RenderMarkdown("hello **world**", ThemeFor(model.ThemeDark), 40), "world")
}

func TestThemeFor(t *testing.T) {
	assert.Equal(t, model.ThemeDark, ThemeFor(model.ThemeDark).Mode)
	assert.Equal(t, "dark", ThemeFor(model.ThemeDark).GlamourStyle())
	assert.Equal(t, model.ThemeLight, ThemeFor("bogus").Mode)
	assert.Equal(t, "light", ThemeFor(model.ThemeLight).GlamourStyle())
}
