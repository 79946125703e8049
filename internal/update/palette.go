package update

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timebox/internal/commands"
	"github.com/sandeepkv93/timebox/internal/export"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/views"
)

func (m Model) openPalette(prefill string) Model {
	m.Mode = ModePalette
	m.paletteInput.SetValue(prefill)
	m.paletteInput.CursorEnd()
	m.paletteInput.Focus()
	return m
}

func (m Model) closePalette() Model {
	m.Mode = ModeNormal
	m.paletteInput.SetValue("")
	m.paletteInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.setStatus("command palette closed", false)
		return m, nil
	case "enter":
		raw := m.paletteInput.Value()
		m = m.closePalette()
		return m.executePaletteCommand(raw)
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func (m Model) executePaletteCommand(raw string) (Model, tea.Cmd) {
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	var follow tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			out := m.apply(planner.SubmitForm{Form: a.Form()})
			switch {
			case out.Err != nil:
				return commands.Result{}, out.Err
			case out.AwaitingConfirmation:
				return commands.Result{Message: fmt.Sprintf("%q already exists, confirm to add", a.Title)}, nil
			}
			m.focusTask(out.TaskID)
			return commands.Result{Message: fmt.Sprintf("added task: %s", a.Title)}, nil
		},
		Prio: func(p commands.PrioArgs) (commands.Result, error) {
			out := m.apply(planner.SetPriority{Slot: p.Slot, Text: p.Text})
			if out.Err != nil {
				return commands.Result{}, out.Err
			}
			m.Section, m.prioCursor = SectionPriorities, p.Slot
			if strings.TrimSpace(p.Text) == "" {
				return commands.Result{Message: fmt.Sprintf("cleared priority %d", p.Slot+1)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("priority %d: %s", p.Slot+1, p.Text)}, nil
		},
		Date: func(d commands.DateArgs) (commands.Result, error) {
			target := d.Resolve(m.State.Day.Date, m.now())
			m, follow = m.switchDay(target)
			return commands.Result{Message: "switching to " + target}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			if t.Mode == "" || t.Mode != m.State.Day.Theme {
				m.apply(planner.ToggleTheme{})
			}
			return commands.Result{Message: "theme: " + string(m.State.Day.Theme)}, nil
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			path := strings.TrimSpace(e.Path)
			if path == "" {
				path = filepath.Join(m.settings.ExportDir, export.DefaultFileName(m.State.Day.Date))
			}
			content, err := export.Markdown(m.State.Day, m.now())
			if err != nil {
				return commands.Result{}, err
			}
			if err := export.WriteFile(path, content); err != nil {
				return commands.Result{}, err
			}
			m.logger.Info("exported day", "date", m.State.Day.Date, "path", path)
			return commands.Result{Message: "exported to " + path}, nil
		},
		Copy: func() (commands.Result, error) {
			content, err := export.Markdown(m.State.Day, m.now())
			if err != nil {
				return commands.Result{}, err
			}
			if err := export.CopyToClipboard(m.clipboard, content); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "copied day to clipboard"}, nil
		},
		Now: func() (commands.Result, error) {
			m.jumpToNow()
			return commands.Result{Message: "jumped to now"}, nil
		},
	})
	if err != nil {
		m.logger.Warn("palette command failed", "input", raw, "err", err)
		m.setStatus(err.Error(), true)
		return m, follow
	}
	if !m.Loading {
		m.setStatus(res.Message, false)
	}
	return m, follow
}

func (m Model) renderPalette() string {
	names := make([]string, len(commands.Names))
	for i, n := range commands.Names {
		names[i] = string(n)
	}
	return views.RenderPalette(views.PaletteData{
		Theme:    m.theme(),
		Input:    m.paletteInput.View(),
		Commands: names,
	})
}
