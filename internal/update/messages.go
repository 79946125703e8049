package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/scheduler"
)

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TimerFiredMsg carries one scheduler deadline into the update loop.
type TimerFiredMsg struct {
	Fired scheduler.Fired
}

// SaveResultMsg reports an asynchronous snapshot write.
type SaveResultMsg struct {
	Date     string
	Revision uint64
	At       time.Time
	Err      error
}

// DayLoadedMsg carries a day read from the store. Found is false when the
// date was never saved.
type DayLoadedMsg struct {
	Date     string
	Snapshot model.Snapshot
	Found    bool
	// External is set for reloads triggered by another writer.
	External bool
	Err      error
	// FlushErr is the error of saving the previous day before switching.
	FlushErr error
}

// ExternalChangeMsg is sent by the database watcher.
type ExternalChangeMsg struct{}

func waitForTimerCmd(ch <-chan scheduler.Fired) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return TimerFiredMsg{Fired: ev}
	}
}
