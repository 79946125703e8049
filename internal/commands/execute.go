package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Prio   func(PrioArgs) (Result, error)
	Date   func(DateArgs) (Result, error)
	Theme  func(ThemeArgs) (Result, error)
	Export func(ExportArgs) (Result, error)
	Copy   func() (Result, error)
	Now    func() (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypePrio:
		if handlers.Prio == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Prio(*cmd.Prio)
	case TypeDate:
		if handlers.Date == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Date(*cmd.Date)
	case TypeTheme:
		if handlers.Theme == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Theme(*cmd.Theme)
	case TypeExport:
		if handlers.Export == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Export(*cmd.Export)
	case TypeCopy:
		if handlers.Copy == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Copy()
	case TypeNow:
		if handlers.Now == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Now()
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}
