package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/timebox/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/timebox.db", "/tmp/timebox.log")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)

	cfg, err = Load("", defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[database]
path = "/data/planner.db"

[ui]
theme = "dark"
row_height = 3

[timers]
autosave_debounce = "1500ms"
idle_recenter = "5s"

[logging]
level = "debug"
`)
	cfg, err := Load(path, Default("/tmp/timebox.db", ""))
	require.NoError(t, err)

	assert.Equal(t, "/data/planner.db", cfg.Database.Path)
	assert.Equal(t, model.ThemeDark, cfg.UI.Theme)
	assert.Equal(t, 3, cfg.UI.RowHeight)
	assert.Equal(t, 1, cfg.UI.MinBlockHeight)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timers.AutosaveDebounce.Std())
	assert.Equal(t, 5*time.Second, cfg.Timers.IdleRecenter.Std())
	assert.Equal(t, time.Minute, cfg.Timers.ClockTick.Std())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"theme":    "[ui]\ntheme = \"neon\"\n",
		"row":      "[ui]\nrow_height = 0\n",
		"duration": "[timers]\nidle_recenter = \"soon\"\n",
		"zero":     "[timers]\nclock_tick = \"0s\"\n",
		"level":    "[logging]\nlevel = \"loud\"\n",
		"syntax":   "[ui\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body), Default("/tmp/timebox.db", ""))
			assert.Error(t, err)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TIMEBOX_DB", "/env/timebox.db")
	t.Setenv("TIMEBOX_THEME", "DARK")
	t.Setenv("TIMEBOX_LOG_FILE", "off")
	t.Setenv("TIMEBOX_ROW_HEIGHT", "4")
	t.Setenv("TIMEBOX_AUTOSAVE_DEBOUNCE", "250ms")
	t.Setenv("TIMEBOX_IDLE_RECENTER", "nope")
	t.Setenv("TIMEBOX_SCHEDULER_BUFFER", "-1")

	base := Default("/tmp/timebox.db", "")
	cfg := FromEnv(base)

	assert.Equal(t, "/env/timebox.db", cfg.Database.Path)
	assert.Equal(t, model.ThemeDark, cfg.UI.Theme)
	assert.False(t, cfg.Logging.File)
	assert.Equal(t, 4, cfg.UI.RowHeight)
	assert.Equal(t, 250*time.Millisecond, cfg.Timers.AutosaveDebounce.Std())
	assert.Equal(t, base.Timers.IdleRecenter, cfg.Timers.IdleRecenter)
	assert.Equal(t, base.Scheduler.Buffer, cfg.Scheduler.Buffer)
}
