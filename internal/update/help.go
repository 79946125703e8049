package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/timebox/internal/views"
)

func (m Model) renderHelpView() string {
	section := m.keys.sectionBindings(m.Section)
	global := m.keys.globalBindings()
	plain := make([]string, 0, len(section))
	for _, b := range section {
		h := b.Help()
		plain = append(plain, fmt.Sprintf("- %s: %s", h.Key, h.Desc))
	}
	m.helpModel.ShowAll = true
	m.helpModel.Width = max(20, m.width-10)
	return views.RenderHelpPanel(views.HelpPanelData{
		Theme:    m.theme(),
		Section:  m.Section.String(),
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: global,
			full:  [][]key.Binding{global[:len(global)/2], global[len(global)/2:]},
		}),
	})
}

func (m Model) footer() string {
	m.helpModel.ShowAll = false
	m.helpModel.Width = m.width
	short := append(m.keys.sectionBindings(m.Section), m.keys.Palette, m.keys.Help, m.keys.Quit)
	return m.helpModel.ShortHelpView(short)
}
