package planner

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

func ids(d model.Day) []string {
	out := make([]string, 0, len(d.Todos))
	for _, t := range d.Todos {
		out = append(out, string(t.ID))
	}
	return out
}

func TestMoveIsStable(t *testing.T) {
	d := newTestDay("a", "b", "c", "d")

	out, err := Move(d, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t3", "t1", "t4"}, ids(out))

	out, err = Move(d, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"t4", "t1", "t2", "t3"}, ids(out))

	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids(d))
}

func TestMoveSelfIsNoop(t *testing.T) {
	d := newTestDay("a", "b")
	out, err := Move(d, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, ids(d), ids(out))
}

func TestMoveRejects(t *testing.T) {
	d := newTestDay("a", "b")
	_, err := Move(d, 0, 5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	d.Todos[1].Title = ""
	_, err = Move(d, 1, 0)
	assert.ErrorIs(t, err, ErrNotDraggable)
}

func TestMoveSequenceIsPermutation(t *testing.T) {
	d := newTestDay("a", "b", "c", "d", "e", "f")
	want := ids(d)
	sort.Strings(want)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		from, to := rng.Intn(len(d.Todos)), rng.Intn(len(d.Todos))
		next, err := Move(d, from, to)
		require.NoError(t, err)
		d = next
	}
	got := ids(d)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestDragStateFlow(t *testing.T) {
	d := newTestDay("a", "b", "c")
	d.Todos = append(d.Todos, model.Task{ID: "blank", CreatedAt: testNow})

	s := NewDragState()
	assert.False(t, s.Active())

	_, ok := s.Begin(d, 3)
	assert.False(t, ok, "placeholders are not draggable")

	s, ok = s.Begin(d, 0)
	require.True(t, ok)
	s = s.Hover(2)
	next, from, to, ok := s.Drop()
	require.True(t, ok)
	assert.Equal(t, 0, from)
	assert.Equal(t, 2, to)
	assert.False(t, next.Active())

	s, _ = NewDragState().Begin(d, 1)
	_, _, _, ok = s.Drop()
	assert.False(t, ok, "dropping on the source is a no-op")

	_, _, _, ok = NewDragState().Hover(2).Drop()
	assert.False(t, ok, "unset source is a no-op")

	s, _ = NewDragState().Begin(d, 1)
	assert.False(t, s.Reset().Active())
}
