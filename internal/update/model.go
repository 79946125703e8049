package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/timebox/internal/config"
	"github.com/sandeepkv93/timebox/internal/export"
	"github.com/sandeepkv93/timebox/internal/grid"
	"github.com/sandeepkv93/timebox/internal/logging"
	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/scheduler"
	"github.com/sandeepkv93/timebox/internal/storage"
)

type Section int

const (
	SectionSchedule Section = iota
	SectionPriorities
	SectionTodos
	SectionNotes
	sectionCount
)

var sectionNames = [sectionCount]string{"Schedule", "Priorities", "To-do", "Notes"}

func (s Section) String() string {
	if s < 0 || s >= sectionCount {
		return "Unknown"
	}
	return sectionNames[s]
}

// Mode is what currently receives key presses.
type Mode string

const (
	ModeNormal  Mode = "normal"
	ModeEdit    Mode = "edit"
	ModeNotes   Mode = "notes"
	ModeForm    Mode = "form"
	ModeConfirm Mode = "confirm"
	ModePalette Mode = "palette"
	ModeDrag    Mode = "drag"
)

type SaveStatus string

const (
	SaveIdle    SaveStatus = "idle"
	SavePending SaveStatus = "pending"
	SaveSaving  SaveStatus = "saving"
	SaveSaved   SaveStatus = "saved"
	SaveFailed  SaveStatus = "failed"
)

type StatusBar struct {
	Text    string
	IsError bool
}

// Settings are the tunables the model reads from configuration.
type Settings struct {
	RowHeight        int
	MinBlockHeight   int
	NarrowWidth      int
	Mouse            bool
	DefaultTheme     model.ThemeMode
	AutosaveDebounce time.Duration
	SaveSettle       time.Duration
	IdleRecenter     time.Duration
	ClockTick        time.Duration
	ExportDir        string
}

func DefaultSettings() Settings {
	return SettingsFromConfig(config.Default("", ""), "")
}

func SettingsFromConfig(cfg config.Config, exportDir string) Settings {
	return Settings{
		RowHeight:        cfg.UI.RowHeight,
		MinBlockHeight:   cfg.UI.MinBlockHeight,
		NarrowWidth:      cfg.UI.NarrowWidth,
		Mouse:            cfg.UI.Mouse,
		DefaultTheme:     cfg.UI.Theme,
		AutosaveDebounce: cfg.Timers.AutosaveDebounce.Std(),
		SaveSettle:       cfg.Timers.SaveSettle.Std(),
		IdleRecenter:     cfg.Timers.IdleRecenter.Std(),
		ClockTick:        cfg.Timers.ClockTick.Std(),
		ExportDir:        exportDir,
	}
}

func (s Settings) layout() grid.Layout {
	return grid.Layout{RowHeight: float64(max(1, s.RowHeight)), MinBlockHeight: float64(max(1, s.MinBlockHeight))}
}

// Options wires the model to its collaborators. Everything but Settings is
// optional; a nil Store keeps the day in memory only.
type Options struct {
	Settings  Settings
	Store     storage.Repository
	Scheduler *scheduler.Engine
	Logger    *logging.Logger
	Clipboard export.Clipboard
	Now       func() time.Time
	NewID     func() model.TaskID
	// Day is the document shown first. When nil a fresh day for today is
	// created.
	Day *model.Day
	// Saved marks Day as already persisted at SavedAt.
	Saved   bool
	SavedAt time.Time
}

type editKind int

const (
	editNone editKind = iota
	editCell
	editTodo
	editPriority
)

type editTarget struct {
	kind editKind
	cell model.CellKey
	id   model.TaskID
	slot int
}

type Model struct {
	State       planner.State
	Section     Section
	Mode        Mode
	Save        SaveStatus
	Status      StatusBar
	HelpVisible bool
	Loading     bool
	Quitting    bool
	LastError   error

	settings  Settings
	reducer   planner.Reducer
	store     storage.Repository
	scheduler *scheduler.Engine
	logger    *logging.Logger
	clipboard export.Clipboard
	now       func() time.Time

	// savedRevision is the revision last written; the day is dirty while
	// State.Revision differs.
	savedRevision uint64
	lastSavedAt   time.Time
	clock         time.Time

	schedCursor model.CellKey
	prioCursor  int
	todoCursor  int
	drag        planner.DragState

	edit         editTarget
	editInput    textinput.Model
	notesArea    textarea.Model
	form         formState
	paletteInput textinput.Model
	schedule     viewport.Model
	saveSpinner  spinner.Model
	helpModel    help.Model
	keys         keyMap
	notesCache   *markdownCache

	width  int
	height int
}

func NewModel(opts Options) Model {
	settings := opts.Settings
	if settings.RowHeight <= 0 {
		settings = DefaultSettings()
	}
	if !settings.DefaultTheme.IsValid() {
		settings.DefaultTheme = model.ThemeLight
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	reducer := planner.NewReducer()
	reducer.Now = now
	if opts.NewID != nil {
		reducer.NewID = opts.NewID
	}

	var day model.Day
	if opts.Day != nil {
		day = opts.Day.Clone()
	} else {
		day = model.NewDay(now().Format(model.DateLayout), reducer.NewID(), now())
		day.Theme = settings.DefaultTheme
	}

	m := Model{
		State:      planner.NewState(day),
		Section:    SectionSchedule,
		Mode:       ModeNormal,
		Save:       SaveIdle,
		settings:   settings,
		reducer:    reducer,
		store:      opts.Store,
		scheduler:  opts.Scheduler,
		logger:     opts.Logger,
		clipboard:  opts.Clipboard,
		now:        now,
		clock:      now(),
		drag:       planner.NewDragState(),
		keys:       defaultKeyMap(),
		notesCache: &markdownCache{},
		width:      120,
		height:     40,
	}
	if opts.Saved {
		m.lastSavedAt = opts.SavedAt
	}
	m.initBubbleComponents()
	m.resize(m.width, m.height)
	m.syncViews()
	m.recenter()
	return m
}

func (m *Model) initBubbleComponents() {
	m.editInput = textinput.New()
	m.editInput.Prompt = ""
	m.editInput.CharLimit = 200

	m.paletteInput = textinput.New()
	m.paletteInput.Prompt = "/ "
	m.paletteInput.Placeholder = "add Write report @9am-10:30am !1"
	m.paletteInput.CharLimit = 200

	m.notesArea = textarea.New()
	m.notesArea.Placeholder = "Notes (markdown)"
	m.notesArea.ShowLineNumbers = false
	m.notesArea.CharLimit = 0

	m.saveSpinner = spinner.New()
	m.saveSpinner.Spinner = spinner.MiniDot

	m.helpModel = help.New()
	m.schedule = viewport.New(60, 20)
	m.form = newFormState()
}

// Dirty reports whether the day has edits that were not saved.
func (m Model) Dirty() bool {
	return m.State.Revision != m.savedRevision
}

func (m Model) Day() model.Day {
	return m.State.Day
}

func (m Model) narrow() bool {
	return m.width < m.settings.NarrowWidth
}

func (m *Model) setStatus(text string, isErr bool) {
	m.Status = StatusBar{Text: text, IsError: isErr}
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.setStatus(err.Error(), true)
}
