package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/timebox/internal/commands"
	"github.com/sandeepkv93/timebox/internal/export"
	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
	"github.com/sandeepkv93/timebox/internal/scheduler"
	"github.com/sandeepkv93/timebox/internal/storage"
	"github.com/sandeepkv93/timebox/internal/update"
	"github.com/sandeepkv93/timebox/internal/watch"
)

func runTUI(ctx context.Context, rt *runtime) error {
	today := time.Now().Format(model.DateLayout)
	opts := update.Options{
		Settings:  update.SettingsFromConfig(rt.cfg, rt.paths.ExportDir),
		Store:     rt.repo,
		Logger:    rt.logger,
		Clipboard: export.SystemClipboard,
	}
	day, found, savedAt, err := loadDay(ctx, rt.repo, today)
	if err != nil {
		return err
	}
	if found {
		opts.Day, opts.Saved, opts.SavedAt = &day, true, savedAt
	}

	engine := scheduler.NewEngine(rt.cfg.Scheduler.Buffer)
	engine.Start()
	defer engine.Stop()
	opts.Scheduler = engine

	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if rt.cfg.UI.Mouse {
		progOpts = append(progOpts, tea.WithMouseCellMotion())
	}
	p := programFactory(update.NewModel(opts), progOpts...)

	w, err := watch.Start(rt.cfg.Database.Path, rt.cfg.Timers.WatchDebounce.Std(),
		func() { p.Send(update.ExternalChangeMsg{}) },
		func(err error) { rt.logger.Warn("database watch error", "err", err) },
	)
	if err != nil {
		rt.logger.Warn("database watch disabled", "db_path", rt.cfg.Database.Path, "err", err)
	} else {
		defer func() { _ = w.Stop() }()
	}

	rt.logger.Info("starting tui program loop", "date", today, "stored", found)
	if _, err := p.Run(); err != nil {
		rt.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	rt.logger.Info("command flow complete", "command", "tui")
	return nil
}

// loadDay returns the stored day for date, or a fresh one when none exists.
func loadDay(ctx context.Context, repo storage.Repository, date string) (model.Day, bool, time.Time, error) {
	snap, err := repo.LoadDay(ctx, date)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return model.NewDay(date, planner.NewTaskID(), time.Now()), false, time.Time{}, nil
	case err != nil:
		return model.Day{}, false, time.Time{}, fmt.Errorf("load day %s: %w", date, err)
	}
	return snap.Day(), true, snap.Timestamp, nil
}

// resolveDate accepts whatever the palette's date command accepts.
func resolveDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "today"
	}
	cmd, err := commands.Parse("date " + raw)
	if err != nil {
		return "", err
	}
	now := time.Now()
	return cmd.Date.Resolve(now.Format(model.DateLayout), now), nil
}

type addOptions struct {
	date           string
	start          string
	end            string
	priority       int
	notes          string
	allowDuplicate bool
}

func newAddCmd(root *rootOptions, stderr io.Writer) *cobra.Command {
	o := &addOptions{}
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task to a day",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(root, stderr, "add")
			if err != nil {
				return err
			}
			defer rt.close()
			return runAdd(cmd.Context(), rt, cmd.OutOrStdout(), strings.Join(args, " "), *o)
		},
	}
	cmd.Flags().StringVar(&o.date, "date", "today", "day to add to (YYYY-MM-DD, today, tomorrow, +N, -N)")
	cmd.Flags().StringVar(&o.start, "start", "", "block start, e.g. 9am or 14:30")
	cmd.Flags().StringVar(&o.end, "end", "", "block end, e.g. 10:30am")
	cmd.Flags().IntVar(&o.priority, "priority", 0, "priority slot 1-3")
	cmd.Flags().StringVar(&o.notes, "notes", "", "task notes")
	cmd.Flags().BoolVar(&o.allowDuplicate, "allow-duplicate", false, "add even when the title already exists")
	return cmd
}

func runAdd(ctx context.Context, rt *runtime, out io.Writer, title string, o addOptions) error {
	date, err := resolveDate(o.date)
	if err != nil {
		return err
	}
	if o.priority < 0 || o.priority > model.PrioritySlots {
		return fmt.Errorf("--priority must be 1-%d", model.PrioritySlots)
	}
	if (o.start == "") != (o.end == "") {
		return errors.New("--start and --end go together")
	}
	args := commands.AddArgs{Title: strings.TrimSpace(title), Priority: o.priority}
	if o.start != "" {
		if args.Start, err = commands.ParseTimeOfDay(o.start); err != nil {
			return err
		}
		if args.End, err = commands.ParseTimeOfDay(o.end); err != nil {
			return err
		}
	}
	form := args.Form()
	form.Notes = o.notes

	day, _, _, err := loadDay(ctx, rt.repo, date)
	if err != nil {
		return err
	}
	reducer := planner.NewReducer()
	state, outcome := reducer.Reduce(planner.NewState(day), planner.SubmitForm{Form: form})
	if outcome.AwaitingConfirmation {
		if !o.allowDuplicate {
			return fmt.Errorf("%q already exists on %s (use --allow-duplicate)", state.Pending.Duplicate.Title, date)
		}
		state, outcome = reducer.Reduce(state, planner.Confirm{})
	}
	if outcome.Err != nil {
		return outcome.Err
	}
	if err := rt.repo.SaveSnapshot(ctx, state.Day.Snapshot(time.Now())); err != nil {
		return fmt.Errorf("save day %s: %w", date, err)
	}
	rt.logger.Info("task added", "date", date, "task_id", outcome.TaskID)
	_, _ = fmt.Fprintf(out, "added %q to %s\n", args.Title, date)
	return nil
}

func newListCmd(root *rootOptions, stderr io.Writer) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show a day's priorities, schedule and tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(root, stderr, "list")
			if err != nil {
				return err
			}
			defer rt.close()
			resolved, err := resolveDate(date)
			if err != nil {
				return err
			}
			day, _, _, err := loadDay(cmd.Context(), rt.repo, resolved)
			if err != nil {
				return err
			}
			return writeDay(cmd.OutOrStdout(), day)
		},
	}
	cmd.Flags().StringVar(&date, "date", "today", "day to show")
	return cmd
}

func writeDay(w io.Writer, d model.Day) error {
	var b strings.Builder
	weekday := ""
	if t, err := model.ParseDate(d.Date); err == nil {
		weekday = " (" + t.Weekday().String() + ")"
	}
	fmt.Fprintf(&b, "%s%s\n\nPriorities:\n", d.Date, weekday)
	for i, p := range d.Priorities {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			text = "-"
		}
		fmt.Fprintf(&b, "  %d. %s\n", i+1, text)
	}
	b.WriteString("\nTasks:\n")
	for _, t := range d.Todos {
		if t.IsPlaceholder() {
			continue
		}
		mark := " "
		if t.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s", mark, t.Title)
		if blk, ok := d.Blocks[t.ID]; ok {
			line += fmt.Sprintf("  %s-%s", blk.Start, blk.End)
		}
		if slot := d.PrioritySlotFor(t.ID); slot >= 0 {
			line += fmt.Sprintf("  #%d", slot+1)
		}
		b.WriteString(line + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func newExportCmd(root *rootOptions, stderr io.Writer) *cobra.Command {
	var (
		date        string
		outArg      string
		toClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day as markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(root, stderr, "export")
			if err != nil {
				return err
			}
			defer rt.close()
			resolved, err := resolveDate(date)
			if err != nil {
				return err
			}
			day, _, _, err := loadDay(cmd.Context(), rt.repo, resolved)
			if err != nil {
				return err
			}
			md, err := export.Markdown(day, time.Now())
			if err != nil {
				return err
			}
			if toClipboard {
				if err := export.CopyToClipboard(nil, md); err != nil {
					return err
				}
				rt.logger.Info("day copied to clipboard", "date", resolved)
			}
			switch outArg {
			case "-":
				_, err = io.WriteString(cmd.OutOrStdout(), md)
				return err
			case "":
				if toClipboard {
					return nil
				}
				outArg = export.DefaultFileName(resolved)
			}
			if err := export.WriteFile(outArg, md); err != nil {
				return err
			}
			rt.logger.Info("day exported", "date", resolved, "path", outArg)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", resolved, outArg)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "today", "day to export")
	cmd.Flags().StringVar(&outArg, "out", "", "output file ('-' for stdout, default timebox-DATE.md)")
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "copy the markdown to the clipboard")
	return cmd
}

func newDaysCmd(root *rootOptions, stderr io.Writer) *cobra.Command {
	var filter storage.DayListFilter
	cmd := &cobra.Command{
		Use:   "days",
		Short: "List stored days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(root, stderr, "days")
			if err != nil {
				return err
			}
			defer rt.close()
			days, err := rt.repo.ListDays(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list days: %w", err)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "DATE\tTASKS\tDONE\tBLOCKS\tSAVED")
			for _, d := range days {
				_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", d.Date, d.Tasks, d.Completed, d.Blocks, d.SavedAt.Local().Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&filter.From, "from", "", "first date (inclusive)")
	cmd.Flags().StringVar(&filter.To, "to", "", "last date (inclusive)")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum rows")
	return cmd
}

func newPathsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the config, data and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, cfg, configPath, err := resolveConfig(root)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", cfg.Database.Path)
			_, _ = fmt.Fprintf(out, "log: %s\n", cfg.Logging.Path)
			_, _ = fmt.Fprintf(out, "exports: %s\n", paths.ExportDir)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "timebox %s\n", version)
			return err
		},
	}
}
