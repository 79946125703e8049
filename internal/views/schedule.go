package views

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/model"
)

const labelWidth = 6

// ScheduleBlock is one time-block overlay in terminal lines.
type ScheduleBlock struct {
	Title      string
	Range      string
	Top        float64
	Height     float64
	Degenerate bool
}

type ScheduleData struct {
	Theme     Theme
	Width     int
	RowHeight int
	Cells     map[model.CellKey]string
	Blocks    []ScheduleBlock
	// Cursor is highlighted when ShowCursor is set. Editor replaces its
	// text while a cell is being edited.
	Cursor     model.CellKey
	ShowCursor bool
	Editor     string
	// NowLine is the line of the current-time marker, negative for none.
	NowLine float64
}

// ScheduleLines is the number of lines RenderSchedule produces.
func ScheduleLines(rowHeight int) int {
	return grid.Rows * max(1, rowHeight)
}

// RenderSchedule draws the whole grid; the caller scrolls it in a viewport.
func RenderSchedule(data ScheduleData) string {
	t := data.Theme
	rh := max(1, data.RowHeight)
	width := max(data.Width, labelWidth+20)
	cellW := (width - labelWidth - 2) / 2
	blockW := width - labelWidth - cellW - 2

	blocks := append([]ScheduleBlock(nil), data.Blocks...)
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Top == blocks[j].Top {
			return blocks[i].Title < blocks[j].Title
		}
		return blocks[i].Top < blocks[j].Top
	})

	nowLine := -1
	if data.NowLine >= 0 {
		nowLine = int(math.Floor(data.NowLine))
	}

	total := ScheduleLines(rh)
	out := make([]string, 0, total)
	for i := 0; i < total; i++ {
		row, k := i/rh, i%rh
		hour, _ := grid.HourForRow(row)

		label := ""
		switch {
		case k == 0:
			label = fmt.Sprintf("%d:00", hour)
		case rh >= 2 && k == rh/2:
			label = ":30"
		}
		labelCol := t.Muted.Render(fmt.Sprintf("%*s ", labelWidth-1, label))
		if k == 0 {
			labelCol = t.Text.Render(fmt.Sprintf("%*s ", labelWidth-1, label))
		}
		if i == nowLine {
			labelCol = t.Now.Render(fmt.Sprintf("%*s ", labelWidth-1, "now ▶"))
		}

		cellCol := renderCellLine(data, row, k, rh, cellW)
		blockCol := renderBlockLine(t, blocks, i, blockW)
		sep := t.Muted.Render("│")
		if i == nowLine {
			sep = t.Now.Render("┼")
		}
		out = append(out, labelCol+cellCol+sep+blockCol)
	}
	return strings.Join(out, "\n")
}

func renderCellLine(data ScheduleData, row, k, rh, w int) string {
	t := data.Theme
	if rh == 1 {
		first := cellText(data, model.CellKey{Row: row, Half: 0})
		second := cellText(data, model.CellKey{Row: row, Half: 30})
		text := pad(truncate(first, w/2-1), w/2-1) + " " + truncate(second, w-w/2)
		style := t.Text
		if data.ShowCursor && data.Cursor.Row == row {
			style = t.Cursor
		}
		return style.Render(pad(text, w)) + " "
	}

	half, first := 0, k == 0
	if k >= rh/2 {
		half, first = 30, k == rh/2
	}
	key := model.CellKey{Row: row, Half: half}
	text := ""
	if first {
		text = cellText(data, key)
	}
	style := t.Text
	if data.ShowCursor && data.Cursor == key {
		style = t.Cursor
	}
	return style.Render(pad(truncate(text, w), w)) + " "
}

func cellText(data ScheduleData, key model.CellKey) string {
	if data.ShowCursor && data.Cursor == key && data.Editor != "" {
		return data.Editor
	}
	return data.Cells[key]
}

func renderBlockLine(t Theme, blocks []ScheduleBlock, line, w int) string {
	lo, hi := float64(line), float64(line+1)
	var hits []ScheduleBlock
	for _, b := range blocks {
		if b.Top < hi && b.Top+b.Height > lo {
			hits = append(hits, b)
		}
	}
	if len(hits) == 0 {
		return strings.Repeat(" ", w)
	}
	b := hits[0]
	text := "┃"
	if b.Top >= lo {
		text = "┃ " + b.Title + " " + b.Range
		if b.Degenerate {
			text = "┃ ! " + b.Title + " " + b.Range
		}
	}
	if len(hits) > 1 {
		more := fmt.Sprintf(" +%d", len(hits)-1)
		text = truncate(text, w-len(more)) + more
	}
	style := t.Block
	if b.Degenerate {
		style = t.BlockWarn
	}
	return style.Render(pad(truncate(text, w), w))
}

// BlocksFor computes the overlays for d. Blocks whose start has no grid
// row are left out.
func BlocksFor(d model.Day, layout grid.Layout) []ScheduleBlock {
	out := make([]ScheduleBlock, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		g, ok := layout.TimeBlockGeometry(b.Start, b.End)
		if !ok {
			continue
		}
		out = append(out, ScheduleBlock{
			Title:      b.Title,
			Range:      fmt.Sprintf("%s-%s", b.Start, b.End),
			Top:        g.Top,
			Height:     g.Height,
			Degenerate: g.Degenerate,
		})
	}
	return out
}
