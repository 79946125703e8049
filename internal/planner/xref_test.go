package planner

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

var testNow = time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC)

// newTestDay builds a day with one titled todo per title, ids t1..tn.
func newTestDay(titles ...string) model.Day {
	d := model.NewDay("2026-02-09", "t1", testNow)
	for i, title := range titles {
		if i == 0 {
			d.Todos[0].Title = title
			continue
		}
		d.Todos = append(d.Todos, model.Task{ID: model.TaskID(fmt.Sprintf("t%d", i+1)), Title: title, CreatedAt: testNow})
	}
	return d
}

func TestSetTaskTitlePropagatesByID(t *testing.T) {
	d := newTestDay("Write report", "Write report", "Gym")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Write report"}
	d.Priorities[1] = model.Priority{TaskID: "t2", Text: "Write report"}
	d.Priorities[2] = model.Priority{Text: "Write report"}
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Write report", Start: model.Clock{Hour: 9}, End: model.Clock{Hour: 10}}
	d.Blocks["t2"] = model.TimeBlock{TaskID: "t2", Title: "Write report", Start: model.Clock{Hour: 11}, End: model.Clock{Hour: 12}}

	out, err := SetTaskTitle(d, "t1", "Write final report")
	require.NoError(t, err)

	assert.Equal(t, "Write final report", out.Todos[0].Title)
	assert.Equal(t, "Write final report", out.Priorities[0].Text)
	assert.Equal(t, "Write final report", out.Blocks["t1"].Title)

	// same title, different identity: untouched
	assert.Equal(t, "Write report", out.Todos[1].Title)
	assert.Equal(t, "Write report", out.Priorities[1].Text)
	assert.Equal(t, "Write report", out.Priorities[2].Text)
	assert.Equal(t, "Write report", out.Blocks["t2"].Title)

	// input not mutated
	assert.Equal(t, "Write report", d.Todos[0].Title)
}

func TestSetTaskTitleUnknown(t *testing.T) {
	_, err := SetTaskTitle(newTestDay("a"), "nope", "b")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTaskCascades(t *testing.T) {
	d := newTestDay("Write report", "Gym")
	d.Priorities[1] = model.Priority{TaskID: "t1", Text: "Write report"}
	d.Priorities[2] = model.Priority{TaskID: "t2", Text: "Gym"}
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Write report"}
	d.Blocks["t2"] = model.TimeBlock{TaskID: "t2", Title: "Gym"}

	out, err := DeleteTask(d, "t1")
	require.NoError(t, err)

	assert.Equal(t, -1, out.TodoIndex("t1"))
	assert.True(t, out.Priorities[1].IsEmpty())
	assert.NotContains(t, out.Blocks, model.TaskID("t1"))
	assert.Equal(t, model.TaskID("t2"), out.Priorities[2].TaskID)
	assert.Contains(t, out.Blocks, model.TaskID("t2"))
	require.NoError(t, out.Validate())
}

func TestDeleteLastTaskRejected(t *testing.T) {
	d := newTestDay("only")
	out, err := DeleteTask(d, "t1")
	assert.ErrorIs(t, err, ErrLastTask)
	assert.Len(t, out.Todos, 1)
}

func TestAssignPriority(t *testing.T) {
	d := newTestDay("Write report", "Gym")

	out, err := AssignPriority(d, 0, "Gym")
	require.NoError(t, err)
	assert.Equal(t, model.Priority{TaskID: "t2", Text: "Gym"}, out.Priorities[0])

	out, err = AssignPriority(out, 1, "Call bank")
	require.NoError(t, err)
	assert.Equal(t, model.Priority{Text: "Call bank"}, out.Priorities[1])

	out, err = AssignPriority(out, 0, "  ")
	require.NoError(t, err)
	assert.True(t, out.Priorities[0].IsEmpty())

	_, err = AssignPriority(out, 3, "x")
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestAssignPriorityMovesExistingReference(t *testing.T) {
	d := newTestDay("Write report", "Gym")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Write report"}

	out, err := AssignPriority(d, 2, "Write report")
	require.NoError(t, err)
	assert.True(t, out.Priorities[0].IsEmpty())
	assert.Equal(t, model.Priority{TaskID: "t1", Text: "Write report"}, out.Priorities[2])

	// reassigning the same slot keeps the reference
	out, err = AssignPriority(out, 2, "Write report")
	require.NoError(t, err)
	assert.Equal(t, model.TaskID("t1"), out.Priorities[2].TaskID)
}

func TestLinkPriorityMovesReference(t *testing.T) {
	d := newTestDay("Write report")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Write report"}

	out, err := LinkPriority(d, 2, "t1")
	require.NoError(t, err)
	assert.True(t, out.Priorities[0].IsEmpty())
	assert.Equal(t, model.TaskID("t1"), out.Priorities[2].TaskID)
}

func TestSetCellAndNotes(t *testing.T) {
	d := newTestDay("a")
	key := model.CellKey{Row: 2, Half: 30}
	out := SetCell(d, key, "standup")
	assert.Equal(t, "standup", out.Cells[key])
	out = SetCell(out, key, "")
	assert.NotContains(t, out.Cells, key)
	assert.Empty(t, d.Cells)

	out = SetNotes(out, "buy milk")
	assert.Equal(t, "buy milk", out.Notes)
}

func TestSetTaskNotesMirrorsBlock(t *testing.T) {
	d := newTestDay("a")
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "a"}
	out, err := SetTaskNotes(d, "t1", "bring laptop")
	require.NoError(t, err)
	assert.Equal(t, "bring laptop", out.Todos[0].Notes)
	assert.Equal(t, "bring laptop", out.Blocks["t1"].Notes)
}

func TestFindDuplicate(t *testing.T) {
	d := newTestDay("Call Mom", "Gym")
	d.Priorities[2] = model.Priority{Text: "Pay rent"}

	dup, ok := FindDuplicate(d, " Call Mom ", "")
	require.True(t, ok)
	assert.Equal(t, model.TaskID("t1"), dup.TaskID)

	_, ok = FindDuplicate(d, "Call Mom", "t1")
	assert.False(t, ok, "the entity being edited is excluded")

	dup, ok = FindDuplicate(d, "Pay rent", "")
	require.True(t, ok)
	assert.Equal(t, 2, dup.Slot)

	_, ok = FindDuplicate(d, "Pay rent", "", 2)
	assert.False(t, ok)

	_, ok = FindDuplicate(d, "", "")
	assert.False(t, ok)
}
