package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/timebox/internal/model"
	"github.com/sandeepkv93/timebox/internal/planner"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypePrio   Type = "prio"
	TypeDate   Type = "date"
	TypeTheme  Type = "theme"
	TypeExport Type = "export"
	TypeCopy   Type = "copy"
	TypeNow    Type = "now"
)

// Names lists the palette commands in display order.
var Names = []Type{TypeAdd, TypePrio, TypeDate, TypeTheme, TypeExport, TypeCopy, TypeNow}

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func invalid(format string, args ...any) error {
	return &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// AddArgs creates a task. Start and End are blank unless an @range was given;
// Priority is 0 or a 1-based slot.
type AddArgs struct {
	Title    string
	Start    planner.TimeFields
	End      planner.TimeFields
	Priority int
}

// Form returns a create form carrying the arguments.
func (a AddArgs) Form() planner.Form {
	f := planner.OpenCreate()
	f.Title = a.Title
	if !a.Start.IsBlank() {
		f.Start = a.Start
	}
	if !a.End.IsBlank() {
		f.End = a.End
	}
	f.Priority = a.Priority
	return f
}

// PrioArgs sets a priority slot. Slot is 0-based; empty Text clears.
type PrioArgs struct {
	Slot int
	Text string
}

// DateArgs selects the day to show, either absolute or relative to the
// current one.
type DateArgs struct {
	Date     string
	Offset   int
	Relative bool
	Today    bool
}

// Resolve returns the target date given the date on screen and today.
func (a DateArgs) Resolve(current string, today time.Time) string {
	switch {
	case a.Today:
		return today.Format(model.DateLayout)
	case a.Relative:
		base, err := model.ParseDate(current)
		if err != nil {
			base = today
		}
		return base.AddDate(0, 0, a.Offset).Format(model.DateLayout)
	default:
		return a.Date
	}
}

// ThemeArgs sets the theme. An empty Mode toggles.
type ThemeArgs struct {
	Mode model.ThemeMode
}

type ExportArgs struct {
	Path string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Prio   *PrioArgs
	Date   *DateArgs
	Theme  *ThemeArgs
	Export *ExportArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypePrio:
		return parsePrio(input, args)
	case TypeDate:
		return parseDate(input, args)
	case TypeTheme:
		return parseTheme(input, args)
	case TypeExport:
		return Command{Type: TypeExport, Raw: input, Export: &ExportArgs{Path: strings.Join(args, " ")}}, nil
	case TypeCopy:
		return Command{Type: TypeCopy, Raw: input}, nil
	case TypeNow:
		return Command{Type: TypeNow, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd reads "add TITLE [@START-END] [!N]". Modifiers may appear
// anywhere after the command name.
func parseAdd(raw string, args []string) (Command, error) {
	out := AddArgs{}
	words := make([]string, 0, len(args))
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "@") && len(arg) > 1:
			start, end, ok := strings.Cut(arg[1:], "-")
			if !ok {
				return Command{}, invalid("time range must look like @9am-10:30am")
			}
			var err error
			if out.Start, err = ParseTimeOfDay(start); err != nil {
				return Command{}, err
			}
			if out.End, err = ParseTimeOfDay(end); err != nil {
				return Command{}, err
			}
		case strings.HasPrefix(arg, "!") && len(arg) > 1:
			n, err := strconv.Atoi(arg[1:])
			if err != nil || n < 1 || n > model.PrioritySlots {
				return Command{}, invalid("priority must be !1 to !%d", model.PrioritySlots)
			}
			out.Priority = n
		default:
			words = append(words, arg)
		}
	}
	out.Title = strings.TrimSpace(strings.Join(words, " "))
	if out.Title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parsePrio(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("prio requires a slot 1-%d", model.PrioritySlots)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > model.PrioritySlots {
		return Command{}, invalid("prio slot must be 1-%d", model.PrioritySlots)
	}
	return Command{Type: TypePrio, Raw: raw, Prio: &PrioArgs{Slot: n - 1, Text: strings.Join(args[1:], " ")}}, nil
}

func parseDate(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("date requires one of today, tomorrow, yesterday, +N, -N or YYYY-MM-DD")
	}
	arg := strings.ToLower(args[0])
	out := DateArgs{}
	switch arg {
	case "today":
		out.Today = true
	case "tomorrow", "next":
		out.Relative, out.Offset = true, 1
	case "yesterday", "prev":
		out.Relative, out.Offset = true, -1
	default:
		if strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-") {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return Command{}, invalid("bad date offset %q", arg)
			}
			out.Relative, out.Offset = true, n
			break
		}
		if _, err := model.ParseDate(arg); err != nil {
			return Command{}, invalid("bad date %q", arg)
		}
		out.Date = arg
	}
	return Command{Type: TypeDate, Raw: raw, Date: &out}, nil
}

func parseTheme(raw string, args []string) (Command, error) {
	out := ThemeArgs{}
	if len(args) > 0 {
		switch arg := strings.ToLower(args[0]); arg {
		case "toggle":
		case string(model.ThemeLight), string(model.ThemeDark):
			out.Mode = model.ThemeMode(arg)
		default:
			return Command{}, invalid("theme must be light, dark or toggle")
		}
	}
	return Command{Type: TypeTheme, Raw: raw, Theme: &out}, nil
}

// ParseTimeOfDay reads "9am", "9:05pm", "12:30 AM" or 24-hour "14:00" into
// 12-hour form fields.
func ParseTimeOfDay(raw string) (planner.TimeFields, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if s == "" {
		return planner.TimeFields{}, invalid("empty time")
	}
	var meridiem model.Meridiem
	switch {
	case strings.HasSuffix(s, "am"):
		meridiem, s = model.AM, strings.TrimSuffix(s, "am")
	case strings.HasSuffix(s, "pm"):
		meridiem, s = model.PM, strings.TrimSuffix(s, "pm")
	}
	if meridiem == "" {
		c, err := model.ParseClock(s)
		if err != nil {
			return planner.TimeFields{}, invalid("bad time %q", raw)
		}
		return planner.FieldsFromClock(c), nil
	}
	hour, minute, _ := strings.Cut(s, ":")
	f := planner.TimeFields{Hour: hour, Minute: model.PadMinute(minute), Meridiem: meridiem}
	if _, ok := f.Clock(); !ok {
		return planner.TimeFields{}, invalid("bad time %q", raw)
	}
	return f, nil
}
