package update

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Palette     key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	Sections    [sectionCount]key.Binding
	Up          key.Binding
	Down        key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Edit        key.Binding
	Form        key.Binding
	NewTask     key.Binding
	Add         key.Binding
	Toggle      key.Binding
	Delete      key.Binding
	Clear       key.Binding
	Grab        key.Binding
	Theme       key.Binding
	Now         key.Binding
	Save        key.Binding
	PrevDay     key.Binding
	NextDay     key.Binding
	Today       key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save and quit")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Palette:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
		NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous section")),
		Sections: [sectionCount]key.Binding{
			key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "schedule")),
			key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "priorities")),
			key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "to-do")),
			key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "notes")),
		},
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move task up")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move task down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "scroll up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "scroll down")),
		Edit:     key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		Form:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "task form")),
		NewTask:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task form")),
		Add:      key.NewBinding(key.WithKeys("a", "o"), key.WithHelp("a", "add task")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Clear:    key.NewBinding(key.WithKeys("backspace", "delete"), key.WithHelp("del", "clear")),
		Grab:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "grab to reorder")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Now:      key.NewBinding(key.WithKeys("."), key.WithHelp(".", "jump to now")),
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save now")),
		PrevDay:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous day")),
		NextDay:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Today:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "today")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
	}
}

// helpKeyMap adapts a binding list to the bubbles help.KeyMap interface.
type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (k keyMap) globalBindings() []key.Binding {
	return []key.Binding{
		k.NextSection, k.Palette, k.Theme, k.Now, k.Save, k.PrevDay, k.NextDay, k.Today, k.Help, k.Quit,
	}
}

func (k keyMap) sectionBindings(s Section) []key.Binding {
	switch s {
	case SectionSchedule:
		return []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Edit, k.Clear}
	case SectionPriorities:
		return []key.Binding{k.Up, k.Down, k.Edit, k.Form, k.Clear}
	case SectionTodos:
		return []key.Binding{k.Up, k.Down, k.Edit, k.Add, k.Form, k.NewTask, k.Toggle, k.Delete, k.Grab, k.MoveUp, k.MoveDown}
	case SectionNotes:
		return []key.Binding{k.Edit}
	default:
		return nil
	}
}
