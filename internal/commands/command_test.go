package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
)

func requireCode(t *testing.T, err error, code ErrorCode, msgAndArgs ...any) {
	t.Helper()
	var ce *CommandError
	require.ErrorAs(t, err, &ce, msgAndArgs...)
	assert.Equal(t, code, ce.Code, msgAndArgs...)
}

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent", TypeAdd},
		{"prio 1 ship release", TypePrio},
		{"date tomorrow", TypeDate},
		{"theme dark", TypeTheme},
		{"export", TypeExport},
		{"/copy", TypeCopy},
		{"NOW", TypeNow},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.typeWant, cmd.Type, tc.in)
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	requireCode(t, err, ErrCodeUnknownCommand)
}

func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "/"} {
		_, err := Parse(in)
		requireCode(t, err, ErrCodeEmptyInput, in)
	}
}

func TestParseAddModifiers(t *testing.T) {
	cmd, err := Parse("/add Write report @9am-10:30am !2")
	require.NoError(t, err)
	a := cmd.Add
	assert.Equal(t, "Write report", a.Title)
	assert.Equal(t, 2, a.Priority)
	assert.Equal(t, planner.TimeFields{Hour: "9", Minute: "", Meridiem: model.AM}, a.Start)
	assert.Equal(t, planner.TimeFields{Hour: "10", Minute: "30", Meridiem: model.AM}, a.End)

	sub, err := a.Form().Submission()
	require.NoError(t, err)
	require.NotNil(t, sub.Range)
	assert.Equal(t, "09:00", sub.Range.Start.String())
	assert.Equal(t, "10:30", sub.Range.End.String())
}

func TestParseAddRejects(t *testing.T) {
	for _, in := range []string{"add", "add !2", "add x !4", "add x @9am", "add x @25:00-26:00"} {
		_, err := Parse(in)
		requireCode(t, err, ErrCodeInvalidArgument, in)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"9am", "09:00"},
		{"12am", "00:00"},
		{"12pm", "12:00"},
		{"1:05PM", "13:05"},
		{"14:30", "14:30"},
		{"0:00", "00:00"},
	}
	for _, tc := range cases {
		f, err := ParseTimeOfDay(tc.in)
		require.NoError(t, err, tc.in)
		c, ok := f.Clock()
		require.True(t, ok, tc.in)
		assert.Equal(t, tc.want, c.String(), tc.in)
	}
	for _, bad := range []string{"", "13pm", "noon", "9"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestParsePrio(t *testing.T) {
	cmd, err := Parse("prio 3 call bank")
	require.NoError(t, err)
	assert.Equal(t, 2, cmd.Prio.Slot)
	assert.Equal(t, "call bank", cmd.Prio.Text)

	cmd, err = Parse("prio 1")
	require.NoError(t, err)
	assert.Empty(t, cmd.Prio.Text)

	_, err = Parse("prio 0 x")
	assert.Error(t, err)
}

func TestDateResolve(t *testing.T) {
	today := time.Date(2026, 2, 9, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want string
	}{
		{"date today", "2026-02-09"},
		{"date tomorrow", "2026-02-02"},
		{"date -7", "2026-01-25"},
		{"date +30", "2026-03-03"},
		{"date 2026-12-31", "2026-12-31"},
	}
	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, cmd.Date.Resolve("2026-02-01", today), tc.in)
	}
	_, err := Parse("date 2026-02-30")
	assert.Error(t, err, "impossible date")
}

func TestParseTheme(t *testing.T) {
	cmd, err := Parse("theme")
	require.NoError(t, err)
	assert.Equal(t, model.ThemeMode(""), cmd.Theme.Mode)

	cmd, err = Parse("theme LIGHT")
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, cmd.Theme.Mode)

	_, err = Parse("theme neon")
	assert.Error(t, err)
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	require.NoError(t, err)

	var got AddArgs
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			got = a
			return Result{Message: "ok"}, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "write docs", got.Title)
	assert.Equal(t, "ok", res.Message)
}

func TestExecuteMissingHandler(t *testing.T) {
	for _, in := range []string{"now", "copy", "export out.md", "theme", "date today", "prio 1 x"} {
		cmd, err := Parse(in)
		require.NoError(t, err, in)
		_, err = Execute(cmd, Handlers{})
		requireCode(t, err, ErrCodeHandlerMissing, in)
	}
}
