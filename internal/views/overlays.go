package views

import (
	"fmt"
	"strings"
)

// FormField is one labelled input of the task form.
type FormField struct {
	Label   string
	View    string
	Focused bool
}

type FormData struct {
	Theme  Theme
	Title  string
	Fields []FormField
	Error  string
}

func RenderForm(data FormData) string {
	t := data.Theme
	lines := []string{t.Accent.Render(data.Title), ""}
	for _, f := range data.Fields {
		label := t.Muted.Render(fmt.Sprintf("%-8s", f.Label))
		if f.Focused {
			label = t.Accent.Render(fmt.Sprintf("%-8s", f.Label))
		}
		lines = append(lines, label+" "+f.View)
	}
	if data.Error != "" {
		lines = append(lines, "", t.Error.Render(data.Error))
	}
	lines = append(lines, "", t.Muted.Render("tab next · space am/pm · ←/→ priority · enter save · esc cancel"))
	return t.Modal.Render(strings.Join(lines, "\n"))
}

type ConfirmData struct {
	Theme    Theme
	Title    string
	Existing string
}

func RenderConfirm(data ConfirmData) string {
	t := data.Theme
	lines := []string{
		t.Accent.Render("Duplicate task"),
		"",
		t.Text.Render(fmt.Sprintf("%q already exists", data.Existing)),
		t.Text.Render(fmt.Sprintf("Save %q anyway?", data.Title)),
		"",
		t.Muted.Render("y save · n cancel"),
	}
	return t.Modal.Render(strings.Join(lines, "\n"))
}

type PaletteData struct {
	Theme    Theme
	Input    string
	Commands []string
}

func RenderPalette(data PaletteData) string {
	t := data.Theme
	lines := []string{t.Accent.Render("Command"), data.Input, ""}
	lines = append(lines, t.Muted.Render(strings.Join(data.Commands, " · ")))
	return t.Modal.Render(strings.Join(lines, "\n"))
}

type HelpPanelData struct {
	Theme    Theme
	Section  string
	Bindings []string
	HelpView string
}

func RenderHelpPanel(data HelpPanelData) string {
	t := data.Theme
	lines := []string{t.Accent.Render("Help: " + data.Section), ""}
	for _, b := range data.Bindings {
		lines = append(lines, t.Text.Render(b))
	}
	if data.HelpView != "" {
		lines = append(lines, "", data.HelpView)
	}
	return t.Modal.Render(strings.Join(lines, "\n"))
}
