package update

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/scheduler"
	"github.com/sandeepkv93/timebox/internal/storage"
)

const storeTimeout = 5 * time.Second

// arm schedules a handle on the engine. Without an engine timers never fire
// on their own.
func (m *Model) arm(h scheduler.Handle, d time.Duration) {
	if m.scheduler == nil || d <= 0 {
		return
	}
	if err := m.scheduler.After(h, d); err != nil {
		m.logger.Warn("schedule timer", "handle", h, "err", err)
	}
}

func (m *Model) disarm(h scheduler.Handle) {
	if m.scheduler != nil {
		m.scheduler.Cancel(h)
	}
}

// apply runs one reducer action and starts the autosave debounce when the
// day changed.
func (m *Model) apply(a planner.Action) planner.Outcome {
	next, out := m.reducer.Reduce(m.State, a)
	m.State = next
	if out.AwaitingConfirmation && m.State.Pending != nil {
		m.Mode = ModeConfirm
	}
	if out.Changed {
		m.markDirty()
	}
	if out.Err != nil {
		m.logger.Debug("action refused", "action", fmt.Sprintf("%T", a), "err", out.Err)
	}
	m.clampCursors()
	return out
}

func (m *Model) markDirty() {
	if m.store == nil {
		return
	}
	m.Save = SavePending
	m.disarm(scheduler.HandleSettle)
	m.arm(scheduler.HandleAutosave, m.settings.AutosaveDebounce)
}

// beginSave marks the current revision as being written and returns the
// command doing the write, or nil when there is nothing to save.
func (m *Model) beginSave() tea.Cmd {
	if m.store == nil || !m.Dirty() {
		return nil
	}
	m.disarm(scheduler.HandleAutosave)
	m.Save = SaveSaving
	return saveCmd(m.store, m.State.Day, m.State.Revision, m.now().UTC())
}

// saveNow is beginSave plus the spinner shown while the write runs.
func (m *Model) saveNow() tea.Cmd {
	save := m.beginSave()
	if save == nil {
		return nil
	}
	return tea.Batch(save, m.saveSpinner.Tick)
}

func saveCmd(sink storage.SnapshotSink, d model.Day, rev uint64, at time.Time) tea.Cmd {
	snap := d.Snapshot(at)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := sink.SaveSnapshot(ctx, snap)
		return SaveResultMsg{Date: snap.Date, Revision: rev, At: snap.Timestamp, Err: err}
	}
}

func (m Model) handleSaveResult(msg SaveResultMsg) (Model, tea.Cmd) {
	if msg.Date != m.State.Day.Date {
		// a flush of a day we already left
		if msg.Err != nil {
			m.fail(fmt.Errorf("save %s: %w", msg.Date, msg.Err))
		}
		return m, nil
	}
	if msg.Err != nil {
		m.Save = SaveFailed
		m.logger.Error("save snapshot", "date", msg.Date, "err", msg.Err)
		m.fail(fmt.Errorf("save failed: %w", msg.Err))
		return m, nil
	}
	if msg.Revision > m.savedRevision {
		m.savedRevision = msg.Revision
	}
	if msg.At.After(m.lastSavedAt) {
		m.lastSavedAt = msg.At
	}
	m.logger.Debug("snapshot saved", "date", msg.Date, "revision", msg.Revision)
	if m.Dirty() {
		m.Save = SavePending
		return m, nil
	}
	if m.scheduler == nil || m.settings.SaveSettle <= 0 {
		m.Save = SaveSaved
		return m, nil
	}
	m.arm(scheduler.HandleSettle, m.settings.SaveSettle)
	return m, nil
}

// loadDayCmd saves flush (when non-nil) and then reads date.
func loadDayCmd(store storage.Repository, date string, flush *model.Snapshot, external bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		out := DayLoadedMsg{Date: date, External: external}
		if flush != nil {
			out.FlushErr = store.SaveSnapshot(ctx, *flush)
		}
		snap, err := store.LoadDay(ctx, date)
		switch {
		case errors.Is(err, storage.ErrNotFound):
		case err != nil:
			out.Err = err
		default:
			out.Snapshot, out.Found = snap, true
		}
		return out
	}
}

// switchDay flushes the current day and shows date.
func (m Model) switchDay(date string) (Model, tea.Cmd) {
	if _, err := model.ParseDate(date); err != nil {
		m.fail(err)
		return m, nil
	}
	if date == m.State.Day.Date {
		return m, nil
	}
	m.leaveModes()
	if m.store == nil {
		m.showDay(m.freshDay(date), false, time.Time{})
		return m, nil
	}
	var flush *model.Snapshot
	if m.Dirty() {
		snap := m.State.Day.Snapshot(m.now())
		flush = &snap
	}
	m.disarm(scheduler.HandleAutosave)
	m.disarm(scheduler.HandleSettle)
	m.Loading = true
	m.setStatus("loading "+date, false)
	return m, loadDayCmd(m.store, date, flush, false)
}

func (m Model) handleDayLoaded(msg DayLoadedMsg) (Model, tea.Cmd) {
	m.Loading = false
	if msg.FlushErr != nil {
		m.logger.Error("flush before switching day", "date", m.State.Day.Date, "err", msg.FlushErr)
		m.Save = SaveFailed
		m.fail(fmt.Errorf("save failed: %w", msg.FlushErr))
		return m, nil
	}
	if msg.Err != nil {
		m.logger.Error("load day", "date", msg.Date, "err", msg.Err)
		m.fail(fmt.Errorf("load %s: %w", msg.Date, msg.Err))
		return m, nil
	}
	if msg.External {
		if msg.Date != m.State.Day.Date || !msg.Found || m.Dirty() || m.Save == SaveSaving {
			return m, nil
		}
		if !msg.Snapshot.Timestamp.After(m.lastSavedAt) {
			return m, nil
		}
		m.showDay(msg.Snapshot.Day(), true, msg.Snapshot.Timestamp)
		m.setStatus("reloaded changes from disk", false)
		m.logger.Info("reloaded day", "date", msg.Date)
		return m, nil
	}
	if msg.Found {
		m.showDay(msg.Snapshot.Day(), true, msg.Snapshot.Timestamp)
	} else {
		m.showDay(m.freshDay(msg.Date), false, time.Time{})
	}
	m.setStatus("showing "+msg.Date, false)
	return m, nil
}

func (m *Model) freshDay(date string) model.Day {
	d := model.NewDay(date, m.reducer.NewID(), m.now())
	d.Theme = m.State.Day.Theme
	if !d.Theme.IsValid() {
		d.Theme = m.settings.DefaultTheme
	}
	return d
}

// showDay swaps the document in without counting it as an edit.
func (m *Model) showDay(d model.Day, saved bool, at time.Time) {
	m.State, _ = m.reducer.Reduce(m.State, planner.Replace{Day: d})
	m.savedRevision = m.State.Revision
	m.lastSavedAt = time.Time{}
	m.Save = SaveIdle
	if saved {
		m.lastSavedAt = at
		m.Save = SaveSaved
	}
	m.drag = planner.NewDragState()
	m.todoCursor, m.prioCursor = 0, 0
	m.clampCursors()
	m.syncViews()
	m.recenter()
}

func (m Model) reloadCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return loadDayCmd(m.store, m.State.Day.Date, nil, true)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.Quitting = true
	if save := m.beginSave(); save != nil {
		return m, tea.Sequence(save, tea.Quit)
	}
	return m, tea.Quit
}
