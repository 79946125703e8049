package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type PriorityRow struct {
	Text      string
	Reference bool
}

type PrioritiesData struct {
	Theme   Theme
	Width   int
	Focused bool
	Rows    []PriorityRow
	Cursor  int
	// Editor is the inline input shown in place of the cursor row.
	Editor string
}

func RenderPriorities(data PrioritiesData) string {
	t := data.Theme
	w := max(10, data.Width-4)
	lines := []string{t.Accent.Render("Top priorities")}
	for i, row := range data.Rows {
		prefix := fmt.Sprintf("%d. ", i+1)
		text := row.Text
		style := t.Text
		switch {
		case data.Focused && i == data.Cursor && data.Editor != "":
			text = data.Editor
		case strings.TrimSpace(text) == "":
			text = "…"
			style = t.Muted
		case row.Reference:
			text = "• " + text
		}
		line := pad(truncate(prefix+text, w), w)
		if data.Focused && i == data.Cursor && data.Editor == "" {
			style = t.Cursor
		}
		lines = append(lines, style.Render(line))
	}
	return panel(t, data.Focused, data.Width).Render(strings.Join(lines, "\n"))
}

type TodoRow struct {
	Title     string
	Completed bool
	Scheduled string
	Priority  int
	HasNotes  bool
}

type TodosData struct {
	Theme   Theme
	Width   int
	Height  int
	Focused bool
	Rows    []TodoRow
	Cursor  int
	Editor  string
	// DragSource and DragOver are row indexes while Dragging.
	Dragging   bool
	DragSource int
	DragOver   int
	// CanDelete is false when only one todo remains.
	CanDelete bool
}

// TodoListOffset is the number of lines above the first todo row inside the
// rendered panel (border plus title).
const TodoListOffset = 2

func RenderTodos(data TodosData) string {
	t := data.Theme
	w := max(10, data.Width-4)
	lines := []string{t.Accent.Render("To-do")}
	for i, row := range data.Rows {
		box := "[ ] "
		if row.Completed {
			box = "[x] "
		}
		title := row.Title
		style := t.Text
		switch {
		case data.Focused && i == data.Cursor && data.Editor != "":
			title = data.Editor
		case strings.TrimSpace(title) == "":
			title = "new task…"
			style = t.Muted
		case row.Completed:
			style = t.Done
		}
		var tags []string
		if row.Priority > 0 {
			tags = append(tags, fmt.Sprintf("#%d", row.Priority))
		}
		if row.Scheduled != "" {
			tags = append(tags, row.Scheduled)
		}
		if row.HasNotes {
			tags = append(tags, "✎")
		}
		suffix := ""
		if len(tags) > 0 {
			suffix = " " + strings.Join(tags, " ")
		}

		marker := "  "
		switch {
		case data.Dragging && i == data.DragSource:
			marker = "≡ "
		case data.Dragging && i == data.DragOver:
			marker = "→ "
		}
		line := pad(truncate(marker+box+title+suffix, w), w)
		switch {
		case data.Dragging && i == data.DragOver:
			style = t.Drag
		case data.Focused && i == data.Cursor && data.Editor == "":
			style = t.Cursor
		}
		lines = append(lines, style.Render(line))
	}
	if data.Focused {
		hints := []string{"a add"}
		if data.CanDelete {
			hints = append(hints, "d delete")
		}
		hints = append(hints, "e edit", "m move", "space done")
		lines = append(lines, t.Muted.Render(fitHints(hints, w)))
	}
	p := panel(t, data.Focused, data.Width)
	if data.Height > 0 {
		p = p.Height(data.Height)
	}
	return p.Render(strings.Join(lines, "\n"))
}

// fitHints joins as many leading hints as fit in w cells. Hints are never cut
// mid-word.
func fitHints(hints []string, w int) string {
	out := ""
	for _, h := range hints {
		next := h
		if out != "" {
			next = out + " · " + h
		}
		if xansi.StringWidth(next) > w {
			break
		}
		out = next
	}
	return out
}

type NotesData struct {
	Theme   Theme
	Width   int
	Height  int
	Focused bool
	Editing bool
	// Editor is the textarea view while editing, Rendered the markdown
	// preview otherwise.
	Editor   string
	Rendered string
}

func RenderNotes(data NotesData) string {
	t := data.Theme
	body := data.Rendered
	switch {
	case data.Editing:
		body = data.Editor
	case strings.TrimSpace(body) == "":
		body = t.Muted.Render("No notes. Press enter to write.")
	}
	p := panel(t, data.Focused, data.Width)
	if data.Height > 0 {
		p = p.Height(data.Height)
	}
	return p.Render(t.Accent.Render("Notes") + "\n" + body)
}

type ScheduleFrameData struct {
	Theme    Theme
	Width    int
	Focused  bool
	Viewport string
	Percent  float64
}

func RenderScheduleFrame(data ScheduleFrameData) string {
	t := data.Theme
	title := t.Accent.Render("Schedule") + t.Muted.Render(fmt.Sprintf("  %3.0f%%", data.Percent*100))
	return panel(t, data.Focused, data.Width).Render(title + "\n" + data.Viewport)
}

type HeaderData struct {
	Theme   Theme
	Date    string
	Weekday string
	Clock   string
	Save    string
	SaveErr bool
}

func RenderHeader(data HeaderData) string {
	t := data.Theme
	parts := []string{
		t.Header.Render("timebox"),
		t.Text.Render(data.Weekday + " " + data.Date),
		t.Muted.Render(data.Clock),
	}
	if data.Save != "" {
		style := t.Muted
		if data.SaveErr {
			style = t.Error
		}
		parts = append(parts, style.Render(data.Save))
	}
	return strings.Join(parts, "  ")
}

type TabsData struct {
	Theme  Theme
	Labels []string
	Active int
}

func RenderTabs(data TabsData) string {
	t := data.Theme
	out := make([]string, len(data.Labels))
	for i, label := range data.Labels {
		text := fmt.Sprintf("%d %s", i+1, label)
		if i == data.Active {
			out[i] = t.TabActive.Render(text)
		} else {
			out[i] = t.Tab.Render(text)
		}
	}
	return strings.Join(out, " ")
}

func panel(t Theme, focused bool, width int) lipgloss.Style {
	s := t.Panel
	if focused {
		s = t.Focused
	}
	if width > 0 {
		s = s.Width(max(1, width-2))
	}
	return s
}
