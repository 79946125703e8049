package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timebox/internal/config"
	"github.com/sandeepkv93/timebox/internal/logging"
	"github.com/sandeepkv93/timebox/internal/platform"
	"github.com/sandeepkv93/timebox/internal/storage"
)

var version = "dev"

// program is the part of *tea.Program the TUI flow uses.
type program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

var programFactory = func(m tea.Model, opts ...tea.ProgramOption) program {
	return tea.NewProgram(m, opts...)
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	dbPath     string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "timebox",
		Short:         "Plan a day in time boxes from the terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(opts, stderr, "tui")
			if err != nil {
				return err
			}
			defer rt.close()
			return runTUI(cmd.Context(), rt)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config TOML")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "path to sqlite database")

	root.AddCommand(
		newAddCmd(opts, stderr),
		newListCmd(opts, stderr),
		newExportCmd(opts, stderr),
		newDaysCmd(opts, stderr),
		newPathsCmd(opts),
		newVersionCmd(),
	)
	return root
}

// runtime holds what every command that touches the database needs.
type runtime struct {
	paths  platform.Paths
	cfg    config.Config
	logger *logging.Logger
	repo   *storage.SQLiteRepository
}

func (rt *runtime) close() {
	if err := rt.repo.Close(); err != nil {
		rt.logger.Warn("sqlite close failed", "db_path", rt.cfg.Database.Path, "err", err)
	}
	_ = rt.logger.Close()
}

func resolveConfig(opts *rootOptions) (platform.Paths, config.Config, string, error) {
	paths, err := platform.DefaultPaths()
	if err != nil {
		return platform.Paths{}, config.Config{}, "", err
	}
	configPath := strings.TrimSpace(opts.configPath)
	if configPath == "" {
		if env := strings.TrimSpace(os.Getenv("TIMEBOX_CONFIG")); env != "" {
			configPath = env
		} else {
			configPath = paths.ConfigPath
		}
	}
	cfg, err := config.Load(configPath, config.Default(paths.DBPath, paths.LogPath))
	if err != nil {
		return paths, config.Config{}, configPath, fmt.Errorf("load config %q: %w", configPath, err)
	}
	cfg = config.FromEnv(cfg)
	if db := strings.TrimSpace(opts.dbPath); db != "" {
		cfg.Database.Path = db
	}
	if err := cfg.Validate(); err != nil {
		return paths, config.Config{}, configPath, err
	}
	return paths, cfg, configPath, nil
}

func openRuntime(opts *rootOptions, stderr io.Writer, command string) (*runtime, error) {
	paths, cfg, configPath, err := resolveConfig(opts)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirs(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, fmt.Errorf("create database dir: %w", err)
	}

	logOpts := logging.Options{Level: cfg.Logging.Level, Prefix: platform.AppName}
	if cfg.Logging.File {
		logOpts.FilePath = cfg.Logging.Path
	}
	logger, err := logging.New(stderr, logOpts)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		// the alt screen owns the terminal; logs go to the file sink only
		logger.SetConsoleEnabled(false)
	}
	logger.Debug("configuration loaded", "command", command, "config_path", configPath, "db_path", cfg.Database.Path, "log_level", cfg.Logging.Level)

	repo, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	return &runtime{paths: paths, cfg: cfg, logger: logger, repo: repo}, nil
}
