package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "timebox-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, MigrateUp(db))

	repo, err := NewSQLiteRepository(db)
	require.NoError(t, err)
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return out
}

func sampleSnapshot(t *testing.T, date string, at time.Time) model.Snapshot {
	t.Helper()
	created := parseRFC3339(t, "2026-02-09T07:30:00Z")
	d := model.NewDay(date, "task-1", created)
	d.Todos[0].Title = "Write report"
	d.Todos[0].Notes = "quarterly"
	d.Todos = append(d.Todos,
		model.Task{ID: "task-2", Title: "Gym", Completed: true, CreatedAt: created},
		model.Task{ID: "task-3", CreatedAt: created},
	)
	d.Priorities[0] = model.Priority{TaskID: "task-1", Text: "Write report"}
	d.Priorities[2] = model.Priority{Text: "Call bank"}
	d.Blocks["task-1"] = model.TimeBlock{
		TaskID: "task-1",
		Title:  "Write report",
		Start:  model.Clock{Hour: 9},
		End:    model.Clock{Hour: 10, Minute: 30},
		Notes:  "quarterly",
	}
	d.Cells[model.CellKey{Row: 3, Half: 30}] = "standup"
	d.Notes = "remember the milk"
	d.Theme = model.ThemeDark
	return d.Snapshot(at)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	snap := sampleSnapshot(t, "2026-02-09", at)
	require.NoError(t, repo.SaveSnapshot(ctx, snap))

	got, err := repo.LoadDay(ctx, "2026-02-09")
	require.NoError(t, err)
	assert.True(t, got.Timestamp.Equal(at), "timestamp %v", got.Timestamp)
	assert.Equal(t, "remember the milk", got.Notes)
	assert.Equal(t, model.ThemeDark, got.Theme)

	require.Len(t, got.Todos, 3)
	for i, id := range []model.TaskID{"task-1", "task-2", "task-3"} {
		assert.Equal(t, id, got.Todos[i].ID, "todo order at %d", i)
	}
	assert.True(t, got.Todos[1].Completed)
	assert.Equal(t, "quarterly", got.Todos[0].Notes)
	assert.True(t, got.Todos[0].CreatedAt.Equal(snap.Todos[0].CreatedAt), "created_at %v", got.Todos[0].CreatedAt)

	assert.Equal(t, snap.Priorities[0], got.Priorities[0])
	assert.Equal(t, snap.Priorities[2], got.Priorities[2])
	assert.True(t, got.Priorities[1].IsEmpty())

	block, ok := got.Blocks["task-1"]
	require.True(t, ok, "missing block: %#v", got.Blocks)
	assert.Equal(t, "09:00", block.Start.String())
	assert.Equal(t, "10:30", block.End.String())
	assert.Equal(t, "quarterly", block.Notes)

	assert.Equal(t, map[model.CellKey]string{{Row: 3, Half: 30}: "standup"}, got.Cells)
	assert.NoError(t, got.Day().Validate())
}

func TestSaveSnapshotIsIdempotentUpsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	snap := sampleSnapshot(t, "2026-02-09", at)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.SaveSnapshot(ctx, snap), "save %d", i)
	}

	d := snap.Day()
	d.Todos = d.Todos[1:]
	d.Priorities[0] = model.Priority{}
	delete(d.Blocks, "task-1")
	d.Cells = map[model.CellKey]string{}
	require.NoError(t, repo.SaveSnapshot(ctx, d.Snapshot(at.Add(time.Minute))))

	got, err := repo.LoadDay(ctx, "2026-02-09")
	require.NoError(t, err)
	require.Len(t, got.Todos, 2)
	assert.Equal(t, model.TaskID("task-2"), got.Todos[0].ID)
	assert.Empty(t, got.Blocks)
	assert.Empty(t, got.Cells)
	assert.True(t, got.Priorities[0].IsEmpty())

	days, err := repo.ListDays(ctx, DayListFilter{})
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestSaveSnapshotIgnoresOlderTimestamp(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	newer := sampleSnapshot(t, "2026-02-09", at)
	require.NoError(t, repo.SaveSnapshot(ctx, newer))
	older := newer.Day()
	older.Notes = "stale"
	require.NoError(t, repo.SaveSnapshot(ctx, older.Snapshot(at.Add(-time.Second))))

	got, err := repo.LoadDay(ctx, "2026-02-09")
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", got.Notes, "older snapshot overwrote newer")
}

func TestSaveSnapshotRejectsInvalid(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	bad := sampleSnapshot(t, "2026-13-40", at)
	assert.ErrorIs(t, repo.SaveSnapshot(ctx, bad), ErrInvalidSnapshot)

	orphan := sampleSnapshot(t, "2026-02-09", at)
	orphan.Blocks["ghost"] = model.TimeBlock{TaskID: "ghost"}
	assert.ErrorIs(t, repo.SaveSnapshot(ctx, orphan), ErrInvalidSnapshot)
}

func TestListDaysFilterAndDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	for _, date := range []string{"2026-02-07", "2026-02-08", "2026-02-09"} {
		require.NoError(t, repo.SaveSnapshot(ctx, sampleSnapshot(t, date, at)), date)
	}

	all, err := repo.ListDays(ctx, DayListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-02-09", all[0].Date)
	assert.Equal(t, 2, all[0].Tasks)
	assert.Equal(t, 1, all[0].Completed)
	assert.Equal(t, 1, all[0].Blocks)

	ranged, err := repo.ListDays(ctx, DayListFilter{From: "2026-02-08", To: "2026-02-08"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "2026-02-08", ranged[0].Date)

	paged, err := repo.ListDays(ctx, DayListFilter{Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 2)
	assert.Equal(t, "2026-02-08", paged[0].Date)

	require.NoError(t, repo.DeleteDay(ctx, "2026-02-08"))
	_, err = repo.LoadDay(ctx, "2026-02-08")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteDay(ctx, "2026-02-08"), ErrNotFound)
	_, err = repo.LoadDay(ctx, "2026-02-09")
	assert.NoError(t, err, "other days must survive delete")
}

func TestSameTaskIDOnDifferentDays(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	at := parseRFC3339(t, "2026-02-09T12:00:00Z")

	require.NoError(t, repo.SaveSnapshot(ctx, sampleSnapshot(t, "2026-02-08", at)))
	require.NoError(t, repo.SaveSnapshot(ctx, sampleSnapshot(t, "2026-02-09", at)))
}

func TestOpenSQLiteMigrates(t *testing.T) {
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.LoadDay(context.Background(), "2026-02-09")
	assert.ErrorIs(t, err, ErrNotFound)
}
