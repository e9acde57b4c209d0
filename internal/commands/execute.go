package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(RefArgs) (Result, error)
	Habit   func(HabitArgs) (Result, error)
	CheckIn func(RefArgs) (Result, error)
	Note    func(NoteArgs) (Result, error)
	Event   func(EventArgs) (Result, error)
	Claim   func(ClaimArgs) (Result, error)
	Remind  func(RemindArgs) (Result, error)
	Notify  func(NotifyArgs) (Result, error)
	Set     func(SetArgs) (Result, error)
	Show    func(ShowArgs) (Result, error)
}

func missing(t Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", t)}
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Done(*cmd.Done)
	case TypeHabit:
		if handlers.Habit == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Habit(*cmd.Habit)
	case TypeCheckIn:
		if handlers.CheckIn == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.CheckIn(*cmd.CheckIn)
	case TypeNote:
		if handlers.Note == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Note(*cmd.Note)
	case TypeEvent:
		if handlers.Event == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Event(*cmd.Event)
	case TypeClaim:
		if handlers.Claim == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Claim(*cmd.Claim)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remind(*cmd.Remind)
	case TypeNotify:
		if handlers.Notify == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Notify(*cmd.Notify)
	case TypeSet:
		if handlers.Set == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Set(*cmd.Set)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}
