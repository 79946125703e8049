// Package logging fans runtime events out to a styled console sink and an
// optional logfmt file sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	charmLog "github.com/charmbracelet/log"
)

type Options struct {
	Level  string
	Prefix string
	// FilePath enables the file sink when non-empty.
	FilePath string
}

type Logger struct {
	mu             sync.RWMutex
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	filePath       string
}

// New builds a logger writing to console and, when configured, to a file.
func New(console io.Writer, opts Options) (*Logger, error) {
	level, err := charmLog.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", opts.Level, err)
	}
	if console == nil {
		console = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(console, charmLog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Formatter:       charmLog.TextFormatter,
	})
	l := &Logger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if opts.FilePath == "" {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	// file output stays parseable and unstyled
	fileLogger := charmLog.NewWithOptions(f, charmLog.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	l.sinks = append(l.sinks, fileLogger)
	l.closeFile = f.Close
	l.filePath = opts.FilePath
	return l, nil
}

// Discard returns a logger that writes nowhere.
func Discard() *Logger {
	l, _ := New(io.Discard, Options{Level: "info"})
	return l
}

func (l *Logger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled mutes or restores the console sink. The TUI mutes it
// while it owns the terminal.
func (l *Logger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.consoleEnabled = enabled
	l.mu.Unlock()
}

func (l *Logger) each(fn func(*charmLog.Logger)) {
	if l == nil {
		return
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, sink := range l.sinks {
		if sink == l.consoleSink && !l.consoleEnabled {
			continue
		}
		fn(sink)
	}
}

func (l *Logger) Debug(msg string, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Debug(msg, keyvals...) })
}

func (l *Logger) Info(msg string, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Info(msg, keyvals...) })
}

func (l *Logger) Warn(msg string, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Warn(msg, keyvals...) })
}

func (l *Logger) Error(msg string, keyvals ...any) {
	l.each(func(s *charmLog.Logger) { s.Error(msg, keyvals...) })
}
