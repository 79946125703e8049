// Package export renders a day as markdown with YAML frontmatter.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/model"
)

const frontmatterDelimiter = "---"

var ErrClipboardUnavailable = errors.New("export: clipboard unavailable")

// Frontmatter is the YAML header of an exported day.
type Frontmatter struct {
	Date       string    `yaml:"date"`
	Theme      string    `yaml:"theme"`
	ExportedAt time.Time `yaml:"exported_at"`
	Tasks      int       `yaml:"tasks"`
	Completed  int       `yaml:"completed"`
	Priorities []string  `yaml:"priorities,omitempty"`
}

// Markdown renders d. Placeholder todos and empty cells are skipped.
func Markdown(d model.Day, at time.Time) (string, error) {
	fm := Frontmatter{
		Date:       d.Date,
		Theme:      string(d.Theme),
		ExportedAt: at.UTC().Truncate(time.Second),
	}
	for _, t := range d.Todos {
		if t.IsPlaceholder() {
			continue
		}
		fm.Tasks++
		if t.Completed {
			fm.Completed++
		}
	}
	for _, p := range d.Priorities {
		if !p.IsEmpty() {
			fm.Priorities = append(fm.Priorities, p.Text)
		}
	}

	yamlBytes, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "# %s\n", d.Date)

	b.WriteString("\n## Priorities\n\n")
	for i, p := range d.Priorities {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			text = "_(empty)_"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, text)
	}

	if lines := scheduleLines(d); len(lines) > 0 {
		b.WriteString("\n## Schedule\n\n")
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Tasks\n\n")
	for _, t := range d.Todos {
		if t.IsPlaceholder() {
			continue
		}
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(&b, "- [%s] %s\n", mark, t.Title)
		if notes := strings.TrimSpace(t.Notes); notes != "" {
			fmt.Fprintf(&b, "  > %s\n", strings.ReplaceAll(notes, "\n", "\n  > "))
		}
	}

	if notes := strings.TrimSpace(d.Notes); notes != "" {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(notes)
		b.WriteString("\n")
	}
	return b.String(), nil
}

type scheduleLine struct {
	order int
	text  string
}

// scheduleLines merges blocks and free-form cells in grid order.
func scheduleLines(d model.Day) []string {
	lines := make([]scheduleLine, 0, len(d.Blocks)+len(d.Cells))
	for _, blk := range d.Blocks {
		lines = append(lines, scheduleLine{
			order: gridOrder(blk.Start),
			text:  fmt.Sprintf("- %s-%s %s", blk.Start, blk.End, blk.Title),
		})
	}
	for key, text := range d.Cells {
		if strings.TrimSpace(text) == "" {
			continue
		}
		hour, ok := grid.HourForRow(key.Row)
		if !ok {
			continue
		}
		c := model.Clock{Hour: hour, Minute: key.Half}
		lines = append(lines, scheduleLine{
			order: gridOrder(c),
			text:  fmt.Sprintf("- %s %s", c, text),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].order == lines[j].order {
			return lines[i].text < lines[j].text
		}
		return lines[i].order < lines[j].order
	})
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

// gridOrder sorts times the way the grid shows them, 05:00 first and the
// after-midnight rows last.
func gridOrder(c model.Clock) int {
	if row, ok := grid.RowIndexForHour(c.Hour); ok {
		return row*60 + c.Minute
	}
	return grid.Rows*60 + c.Minutes()
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}

// DefaultFileName is the file an export of date lands in.
func DefaultFileName(date string) string {
	return "timebox-" + date + ".md"
}

// Clipboard is the sink CopyToClipboard writes to.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// SystemClipboard is the OS clipboard.
var SystemClipboard Clipboard = systemClipboard{}

func CopyToClipboard(cb Clipboard, content string) error {
	if cb == nil {
		cb = SystemClipboard
	}
	if err := cb.WriteAll(content); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
