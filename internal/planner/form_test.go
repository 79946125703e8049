package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

func TestTimeFieldsClock(t *testing.T) {
	c, ok := TimeFields{Hour: "12", Minute: "5", Meridiem: model.AM}.Clock()
	require.True(t, ok)
	assert.Equal(t, "00:05", c.String())

	c, ok = TimeFields{Hour: "3", Meridiem: model.PM}.Clock()
	require.True(t, ok)
	assert.Equal(t, "15:00", c.String())

	_, ok = TimeFields{Hour: "13", Minute: "00", Meridiem: model.PM}.Clock()
	assert.False(t, ok)
	_, ok = TimeFields{}.Clock()
	assert.False(t, ok)
}

func TestSubmissionRequiresTitle(t *testing.T) {
	f := OpenCreate()
	f.Title = "   "
	_, err := f.Submission()
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestSubmissionDropsPartialRange(t *testing.T) {
	f := OpenCreate()
	f.Title = "Read"
	f.Start = TimeFields{Hour: "9", Minute: "00", Meridiem: model.AM}
	s, err := f.Submission()
	require.NoError(t, err)
	assert.Nil(t, s.Range)
	assert.False(t, s.ClearRange)
}

func TestUpsertFromFormCreateScenario(t *testing.T) {
	d := newTestDay("Existing")
	f := OpenCreate()
	f.Title = "Write report"
	f.Start = TimeFields{Hour: "9", Minute: "00", Meridiem: model.AM}
	f.End = TimeFields{Hour: "10", Minute: "30", Meridiem: model.AM}
	f.Priority = 2

	s, err := f.Submission()
	require.NoError(t, err)
	out, id, err := UpsertFromForm(d, s, "new-1", testNow)
	require.NoError(t, err)

	assert.Equal(t, model.TaskID("new-1"), id)
	require.Len(t, out.Todos, 2)
	assert.Equal(t, "Write report", out.Todos[1].Title)

	block := out.Blocks[id]
	assert.Equal(t, "Write report", block.Title)
	assert.Equal(t, "09:00", block.Start.String())
	assert.Equal(t, "10:30", block.End.String())

	assert.Equal(t, model.Priority{TaskID: id, Text: "Write report"}, out.Priorities[1])
	require.NoError(t, out.Validate())
}

func TestOpenEditReverseMaps(t *testing.T) {
	d := newTestDay("Lunch")
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Lunch", Start: model.Clock{Hour: 12}, End: model.Clock{Hour: 13, Minute: 15}}
	d.Priorities[2] = model.Priority{TaskID: "t1", Text: "Lunch"}

	f, err := OpenEdit(d, "t1", SourceTodo)
	require.NoError(t, err)
	assert.Equal(t, FormEdit, f.Mode)
	assert.Equal(t, TimeFields{Hour: "12", Minute: "00", Meridiem: model.PM}, f.Start)
	assert.Equal(t, TimeFields{Hour: "1", Minute: "15", Meridiem: model.PM}, f.End)
	assert.Equal(t, 3, f.Priority)
	assert.Equal(t, -1, f.SourceSlot)

	_, err = OpenEdit(d, "missing", SourceTodo)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestEditCommitMovesPriorityAndRenames(t *testing.T) {
	d := newTestDay("Lunch", "Gym")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Lunch"}
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Lunch", Start: model.Clock{Hour: 12}, End: model.Clock{Hour: 13}}

	f, err := OpenEdit(d, "t1", SourceTodo)
	require.NoError(t, err)
	f.Title = "Team lunch"
	f.Priority = 3

	s, err := f.Submission()
	require.NoError(t, err)
	out, id, err := UpsertFromForm(d, s, "unused", testNow)
	require.NoError(t, err)

	assert.Equal(t, model.TaskID("t1"), id)
	assert.Len(t, out.Todos, 2)
	assert.True(t, out.Priorities[0].IsEmpty())
	assert.Equal(t, model.Priority{TaskID: "t1", Text: "Team lunch"}, out.Priorities[2])
	assert.Equal(t, "Team lunch", out.Blocks["t1"].Title)
}

func TestEditCommitClearsRangeAndPriority(t *testing.T) {
	d := newTestDay("Lunch")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Lunch"}
	d.Blocks["t1"] = model.TimeBlock{TaskID: "t1", Title: "Lunch", Start: model.Clock{Hour: 12}, End: model.Clock{Hour: 13}}

	f, err := OpenEdit(d, "t1", SourceTodo)
	require.NoError(t, err)
	f.Start = TimeFields{Meridiem: model.AM}
	f.End = TimeFields{Meridiem: model.AM}
	f.Priority = 0

	s, err := f.Submission()
	require.NoError(t, err)
	out, _, err := UpsertFromForm(d, s, "", testNow)
	require.NoError(t, err)
	assert.Empty(t, out.Blocks)
	assert.True(t, out.Priorities[0].IsEmpty())
}

func TestOpenPriorityPromotesFreeText(t *testing.T) {
	d := newTestDay("Existing")
	d.Priorities[1] = model.Priority{Text: "Call bank"}

	f, err := OpenPriority(d, 1)
	require.NoError(t, err)
	assert.Equal(t, FormCreate, f.Mode)
	assert.Equal(t, "Call bank", f.Title)
	assert.Equal(t, 2, f.Priority)

	f.Priority = 1
	s, err := f.Submission()
	require.NoError(t, err)
	out, id, err := UpsertFromForm(d, s, "new-1", testNow)
	require.NoError(t, err)
	assert.Equal(t, model.Priority{TaskID: id, Text: "Call bank"}, out.Priorities[0])
	assert.True(t, out.Priorities[1].IsEmpty())
}

func TestOpenPriorityReference(t *testing.T) {
	d := newTestDay("Existing")
	d.Priorities[0] = model.Priority{TaskID: "t1", Text: "Existing"}
	f, err := OpenPriority(d, 0)
	require.NoError(t, err)
	assert.Equal(t, FormEdit, f.Mode)
	assert.Equal(t, SourcePriority, f.Source)
	assert.Equal(t, 0, f.SourceSlot)

	_, err = OpenPriority(d, 5)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
