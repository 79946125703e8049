package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type AppData struct {
	Theme  Theme
	Width  int
	Height int
	Header string
	// Tabs is shown instead of the side column on narrow terminals.
	Tabs       string
	LeftPane   string
	RightPane  string
	StatusLine string
	StatusErr  bool
	Footer     string
	// Overlay is a modal drawn centered over the rest of the screen.
	Overlay string
}

func RenderApp(data AppData) string {
	t := data.Theme
	var body string
	switch {
	case data.RightPane == "":
		body = data.LeftPane
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, data.LeftPane, data.RightPane)
	}

	status := t.Status.Render(data.StatusLine)
	if data.StatusErr {
		status = t.Error.Render(data.StatusLine)
	}

	lines := []string{data.Header}
	if data.Tabs != "" {
		lines = append(lines, data.Tabs)
	}
	lines = append(lines, body, status)
	if data.Footer != "" {
		lines = append(lines, t.Footer.Render(data.Footer))
	}
	out := strings.Join(lines, "\n")
	if data.Overlay == "" || data.Width <= 0 || data.Height <= 0 {
		if data.Overlay != "" {
			out += "\n" + data.Overlay
		}
		return out
	}
	return OverlayCenter(out, data.Overlay, data.Width, data.Height)
}

// OverlayCenter draws fg centered over bg, which is padded or cut to h
// lines of width w.
func OverlayCenter(bg, fg string, w, h int) string {
	bgLines := strings.Split(bg, "\n")
	for len(bgLines) < h {
		bgLines = append(bgLines, "")
	}
	if len(bgLines) > h {
		bgLines = bgLines[:h]
	}
	fgLines := strings.Split(fg, "\n")
	fgW := 0
	for _, ln := range fgLines {
		if n := xansi.StringWidth(ln); n > fgW {
			fgW = n
		}
	}
	if fgW == 0 {
		return strings.Join(bgLines, "\n")
	}
	fgW = min(fgW, w)
	x := max(0, (w-fgW)/2)
	y := max(0, (h-len(fgLines))/2)
	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		if n := xansi.StringWidth(bgLine); n < w {
			bgLine += strings.Repeat(" ", w-n)
		}
		left := xansi.Cut(bgLine, 0, x)
		right := xansi.Cut(bgLine, x+fgW, w)

		fgLine := fgLines[i]
		if n := xansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = xansi.Cut(fgLine, 0, fgW)
		}
		bgLines[y+i] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

// RenderMarkdown renders md with the glamour style of the theme. On error
// the source is returned as is.
func RenderMarkdown(md string, t Theme, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(t.GlamourStyle())}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// truncate cuts s to w cells, marking the cut with an ellipsis.
func truncate(s string, w int) string {
	if w <= 0 {
		return ""
	}
	return xansi.Truncate(s, w, "…")
}

// pad right-pads s to w cells.
func pad(s string, w int) string {
	if n := xansi.StringWidth(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}
