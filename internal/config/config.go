package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/sandeepkv93/timebox/internal/model"
)

// Duration is a time.Duration read from strings like "1500ms" or "3s".
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

type Config struct {
	Database  DatabaseConfig  `toml:"database"`
	UI        UIConfig        `toml:"ui"`
	Timers    TimersConfig    `toml:"timers"`
	Logging   LoggingConfig   `toml:"logging"`
	Scheduler SchedulerConfig `toml:"scheduler"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type UIConfig struct {
	// Theme is used for days that were never saved.
	Theme          model.ThemeMode `toml:"theme"`
	RowHeight      int             `toml:"row_height"`
	MinBlockHeight int             `toml:"min_block_height"`
	// NarrowWidth is the terminal width below which sections become tabs.
	NarrowWidth int  `toml:"narrow_width"`
	Mouse       bool `toml:"mouse"`
}

type TimersConfig struct {
	AutosaveDebounce Duration `toml:"autosave_debounce"`
	SaveSettle       Duration `toml:"save_settle"`
	IdleRecenter     Duration `toml:"idle_recenter"`
	ClockTick        Duration `toml:"clock_tick"`
	// WatchDebounce coalesces file events from other writers.
	WatchDebounce Duration `toml:"watch_debounce"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	// File enables the logfmt file sink next to the database.
	File bool   `toml:"file"`
	Path string `toml:"path"`
}

type SchedulerConfig struct {
	Buffer int `toml:"buffer"`
}

func Default(dbPath, logPath string) Config {
	return Config{
		Database: DatabaseConfig{Path: dbPath},
		UI: UIConfig{
			Theme:          model.ThemeLight,
			RowHeight:      2,
			MinBlockHeight: 1,
			NarrowWidth:    100,
			Mouse:          true,
		},
		Timers: TimersConfig{
			AutosaveDebounce: Duration(time.Second),
			SaveSettle:       Duration(500 * time.Millisecond),
			IdleRecenter:     Duration(3 * time.Second),
			ClockTick:        Duration(time.Minute),
			WatchDebounce:    Duration(200 * time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  true,
			Path:  logPath,
		},
		Scheduler: SchedulerConfig{Buffer: 64},
	}
}

// Load reads path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if !c.UI.Theme.IsValid() {
		return fmt.Errorf("invalid ui.theme: %q", c.UI.Theme)
	}
	if c.UI.RowHeight < 1 {
		return errors.New("ui.row_height must be >= 1")
	}
	if c.UI.MinBlockHeight < 1 {
		return errors.New("ui.min_block_height must be >= 1")
	}
	if c.UI.NarrowWidth < 0 {
		return errors.New("ui.narrow_width must be >= 0")
	}
	for name, d := range map[string]Duration{
		"timers.autosave_debounce": c.Timers.AutosaveDebounce,
		"timers.idle_recenter":     c.Timers.IdleRecenter,
		"timers.clock_tick":        c.Timers.ClockTick,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	if c.Timers.SaveSettle < 0 || c.Timers.WatchDebounce < 0 {
		return errors.New("timers.save_settle and timers.watch_debounce must be >= 0")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Scheduler.Buffer < 1 {
		return errors.New("scheduler.buffer must be >= 1")
	}
	return nil
}

// FromEnv applies TIMEBOX_* overrides on top of base. Malformed values are
// ignored.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("TIMEBOX_DB")); v != "" {
		cfg.Database.Path = v
	}
	if v := model.ThemeMode(strings.ToLower(strings.TrimSpace(os.Getenv("TIMEBOX_THEME")))); v.IsValid() {
		cfg.UI.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv("TIMEBOX_LOG_LEVEL")); v != "" {
		if _, err := log.ParseLevel(v); err == nil {
			cfg.Logging.Level = v
		}
	}
	if v, ok := getEnvBool("TIMEBOX_LOG_FILE"); ok {
		cfg.Logging.File = v
	}
	if v, ok := getEnvBool("TIMEBOX_MOUSE"); ok {
		cfg.UI.Mouse = v
	}
	if v, ok := getEnvInt("TIMEBOX_ROW_HEIGHT"); ok && v > 0 {
		cfg.UI.RowHeight = v
	}
	if v, ok := getEnvInt("TIMEBOX_NARROW_WIDTH"); ok && v >= 0 {
		cfg.UI.NarrowWidth = v
	}
	if v, ok := getEnvDuration("TIMEBOX_AUTOSAVE_DEBOUNCE"); ok && v > 0 {
		cfg.Timers.AutosaveDebounce = Duration(v)
	}
	if v, ok := getEnvDuration("TIMEBOX_IDLE_RECENTER"); ok && v > 0 {
		cfg.Timers.IdleRecenter = Duration(v)
	}
	if v, ok := getEnvInt("TIMEBOX_SCHEDULER_BUFFER"); ok && v > 0 {
		cfg.Scheduler.Buffer = v
	}
	return cfg
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
