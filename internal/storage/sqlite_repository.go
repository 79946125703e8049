package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sandeepkv93/timebox/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// SaveSnapshot replaces the stored document for snap.Date in one
// transaction. A snapshot older than the stored one is ignored, so
// out-of-order async saves cannot roll a day back.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	if _, err := model.ParseDate(snap.Date); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := snap.Day().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	savedAt := snap.Timestamp
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save %s: %w", snap.Date, err)
	}
	defer func() { _ = tx.Rollback() }()

	var stored string
	switch err := tx.QueryRowContext(ctx, `SELECT saved_at FROM days WHERE date = ?`, snap.Date).Scan(&stored); {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read saved_at %s: %w", snap.Date, err)
	default:
		prev, parseErr := parseRequiredTime(stored)
		if parseErr == nil && prev.After(savedAt) {
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO days (date, notes, theme, saved_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET notes = excluded.notes, theme = excluded.theme, saved_at = excluded.saved_at`,
		snap.Date, snap.Notes, string(themeOrDefault(snap.Theme)), mustTime(savedAt),
	); err != nil {
		return fmt.Errorf("upsert day %s: %w", snap.Date, err)
	}

	if err := clearChildren(ctx, tx, snap.Date); err != nil {
		return err
	}

	for i, t := range snap.Todos {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (date, id, position, title, completed, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.Date, string(t.ID), i, t.Title, boolInt(t.Completed), t.Notes, mustTime(t.CreatedAt),
		); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	for id, b := range snap.Blocks {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO time_blocks (date, task_id, title, start_time, end_time, notes)
			VALUES (?, ?, ?, ?, ?, ?)`,
			snap.Date, string(id), b.Title, b.Start.String(), b.End.String(), b.Notes,
		); err != nil {
			return fmt.Errorf("insert time block %s: %w", id, err)
		}
	}
	for slot, p := range snap.Priorities {
		if p.IsEmpty() {
			continue
		}
		var taskID any
		if p.IsReference() {
			taskID = string(p.TaskID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO priorities (date, slot, task_id, text) VALUES (?, ?, ?, ?)`,
			snap.Date, slot, taskID, p.Text,
		); err != nil {
			return fmt.Errorf("insert priority %d: %w", slot, err)
		}
	}
	for key, text := range snap.Cells {
		if text == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_cells (date, cell_key, text) VALUES (?, ?, ?)`,
			snap.Date, key.String(), text,
		); err != nil {
			return fmt.Errorf("insert cell %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save %s: %w", snap.Date, err)
	}
	return nil
}

func (r *SQLiteRepository) LoadDay(ctx context.Context, date string) (model.Snapshot, error) {
	var (
		out     model.Snapshot
		theme   string
		savedAt string
	)
	row := r.db.QueryRowContext(ctx, `SELECT date, notes, theme, saved_at FROM days WHERE date = ?`, date)
	if err := row.Scan(&out.Date, &out.Notes, &theme, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Snapshot{}, ErrNotFound
		}
		return model.Snapshot{}, fmt.Errorf("load day %s: %w", date, err)
	}
	ts, err := parseRequiredTime(savedAt)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("load day %s: %w", date, err)
	}
	out.Timestamp = ts
	out.Theme = themeOrDefault(model.ThemeMode(theme))

	tasks, err := r.loadTasks(ctx, date)
	if err != nil {
		return model.Snapshot{}, err
	}
	for _, t := range tasks {
		out.Todos = append(out.Todos, model.Task{
			ID:        model.TaskID(t.ID),
			Title:     t.Title,
			Completed: t.Completed,
			Notes:     t.Notes,
			CreatedAt: t.CreatedAt,
		})
	}

	prios, err := r.loadPriorities(ctx, date)
	if err != nil {
		return model.Snapshot{}, err
	}
	for _, p := range prios {
		if p.Slot < 0 || p.Slot >= model.PrioritySlots {
			continue
		}
		out.Priorities[p.Slot] = model.Priority{Text: p.Text}
		if p.TaskID != nil {
			out.Priorities[p.Slot].TaskID = model.TaskID(*p.TaskID)
		}
	}

	blocks, err := r.loadBlocks(ctx, date)
	if err != nil {
		return model.Snapshot{}, err
	}
	out.Blocks = make(map[model.TaskID]model.TimeBlock, len(blocks))
	for _, b := range blocks {
		start, startErr := model.ParseClock(b.Start)
		end, endErr := model.ParseClock(b.End)
		if err := errors.Join(startErr, endErr); err != nil {
			return model.Snapshot{}, fmt.Errorf("load time block %s: %w", b.TaskID, err)
		}
		id := model.TaskID(b.TaskID)
		out.Blocks[id] = model.TimeBlock{TaskID: id, Title: b.Title, Start: start, End: end, Notes: b.Notes}
	}

	out.Cells, err = r.loadCells(ctx, date)
	if err != nil {
		return model.Snapshot{}, err
	}
	return out, nil
}

func (r *SQLiteRepository) ListDays(ctx context.Context, filter DayListFilter) ([]DaySummary, error) {
	query := `
		SELECT d.date, d.saved_at,
			(SELECT COUNT(*) FROM tasks t WHERE t.date = d.date AND t.title <> ''),
			(SELECT COUNT(*) FROM tasks t WHERE t.date = d.date AND t.completed = 1),
			(SELECT COUNT(*) FROM time_blocks b WHERE b.date = d.date)
		FROM days d`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.From != "" {
		clauses = append(clauses, "d.date >= ?")
		args = append(args, filter.From)
	}
	if filter.To != "" {
		clauses = append(clauses, "d.date <= ?")
		args = append(args, filter.To)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY d.date DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]DaySummary, 0)
	for rows.Next() {
		var (
			item  DaySummary
			saved string
		)
		if err := rows.Scan(&item.Date, &saved, &item.Tasks, &item.Completed, &item.Blocks); err != nil {
			return nil, err
		}
		if item.SavedAt, err = parseRequiredTime(saved); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) DeleteDay(ctx context.Context, date string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete %s: %w", date, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearChildren(ctx, tx, date); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM days WHERE date = ?`, date)
	if err != nil {
		return err
	}
	if err := checkRowsAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// clearChildren removes every row hanging off a date. Deletes run in
// dependency order so they do not rely on the foreign_keys pragma.
func clearChildren(ctx context.Context, tx *sql.Tx, date string) error {
	for _, table := range []string{"time_blocks", "priorities", "schedule_cells", "tasks"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE date = ?`, date); err != nil {
			return fmt.Errorf("clear %s for %s: %w", table, date, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) loadTasks(ctx context.Context, date string) ([]taskRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, position, title, completed, notes, created_at
		FROM tasks WHERE date = ? ORDER BY position ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("load tasks %s: %w", date, err)
	}
	defer rows.Close()

	out := make([]taskRow, 0)
	for rows.Next() {
		item, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadPriorities(ctx context.Context, date string) ([]priorityRow, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, task_id, text FROM priorities WHERE date = ? ORDER BY slot`, date)
	if err != nil {
		return nil, fmt.Errorf("load priorities %s: %w", date, err)
	}
	defer rows.Close()

	out := make([]priorityRow, 0, model.PrioritySlots)
	for rows.Next() {
		var (
			item   priorityRow
			taskID sql.NullString
		)
		if err := rows.Scan(&item.Slot, &taskID, &item.Text); err != nil {
			return nil, err
		}
		if taskID.Valid && taskID.String != "" {
			id := taskID.String
			item.TaskID = &id
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadBlocks(ctx context.Context, date string) ([]blockRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT task_id, title, start_time, end_time, notes
		FROM time_blocks WHERE date = ? ORDER BY start_time`, date)
	if err != nil {
		return nil, fmt.Errorf("load time blocks %s: %w", date, err)
	}
	defer rows.Close()

	out := make([]blockRow, 0)
	for rows.Next() {
		var item blockRow
		if err := rows.Scan(&item.TaskID, &item.Title, &item.Start, &item.End, &item.Notes); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) loadCells(ctx context.Context, date string) (map[model.CellKey]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT cell_key, text FROM schedule_cells WHERE date = ?`, date)
	if err != nil {
		return nil, fmt.Errorf("load cells %s: %w", date, err)
	}
	defer rows.Close()

	out := make(map[model.CellKey]string)
	for rows.Next() {
		var raw, text string
		if err := rows.Scan(&raw, &text); err != nil {
			return nil, err
		}
		key, err := model.ParseCellKey(raw)
		if err != nil {
			return nil, err
		}
		out[key] = text
	}
	return out, rows.Err()
}

func themeOrDefault(t model.ThemeMode) model.ThemeMode {
	if t.IsValid() {
		return t
	}
	return model.ThemeLight
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	} else if offset > 0 {
		sql += " LIMIT -1"
	}
	if offset > 0 {
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (taskRow, error) {
	var out taskRow
	var completed int
	var created string
	if err := s.Scan(&out.ID, &out.Position, &out.Title, &completed, &out.Notes, &created); err != nil {
		return taskRow{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return taskRow{}, err
	}
	out.Completed = completed == 1
	out.CreatedAt = createdAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
