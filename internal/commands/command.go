package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeHabit   Type = "habit"
	TypeCheckIn Type = "checkin"
	TypeNote    Type = "note"
	TypeEvent   Type = "event"
	TypeClaim   Type = "claim"
	TypeRemind  Type = "remind"
	TypeNotify  Type = "notify"
	TypeSet     Type = "set"
	TypeShow    Type = "show"
)

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

// ClockTime is a wall-clock time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

type AddArgs struct {
	Title    string
	Priority model.Priority
	At       *ClockTime
}

type RefArgs struct {
	Ref string
}

type HabitArgs struct {
	Name string
	Type model.HabitType
}

type NoteArgs struct {
	Text string
}

type EventArgs struct {
	Title string
	At    ClockTime
}

type ClaimArgs struct {
	Achievement model.AchievementID
}

// RemindArgs carries the daily reminder time; Off clears it.
type RemindArgs struct {
	At  ClockTime
	Off bool
}

type NotifyArgs struct {
	On bool
}

type SetArgs struct {
	Field string
	Value string
}

type ShowArgs struct {
	Subject string
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *RefArgs
	Habit   *HabitArgs
	CheckIn *RefArgs
	Note    *NoteArgs
	Event   *EventArgs
	Claim   *ClaimArgs
	Remind  *RemindArgs
	Notify  *NotifyArgs
	Set     *SetArgs
	Show    *ShowArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, ":") {
		raw = strings.TrimSpace(raw[1:])
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
	case TypeDone:
		return parseRef(input, TypeDone, args)
	case TypeHabit:
		return parseHabit(input, args)
	case TypeCheckIn:
		return parseRef(input, TypeCheckIn, args)
	case TypeNote:
		return parseNote(input, args)
	case TypeEvent:
		return parseEvent(input, args)
	case TypeClaim:
		return parseClaim(input, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeNotify:
		return parseNotify(input, args)
	case TypeSet:
		return parseSet(input, args)
	case TypeShow:
		return parseShow(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseClock(raw string) (ClockTime, bool) {
	h, m, err := model.ParseClock(raw)
	if err != nil {
		return ClockTime{}, false
	}
	return ClockTime{Hour: h, Minute: m}, true
}

// splitAt removes a trailing "at HH:MM" from args.
func splitAt(args []string) ([]string, *ClockTime) {
	n := len(args)
	if n >= 2 && strings.EqualFold(args[n-2], "at") {
		if ct, ok := parseClock(args[n-1]); ok {
			return args[:n-2], &ct
		}
	}
	return args, nil
}

func parseAdd(raw string, args []string) (Command, error) {
	args, at := splitAt(args)
	priority := model.PriorityMedium
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.HasPrefix(arg, "!") && len(arg) > 1 {
			p, err := model.ParsePriority(arg[1:])
			if err != nil {
				return Command{}, invalid("unknown priority %q", arg[1:])
			}
			priority = p
			continue
		}
		words = append(words, arg)
	}
	title := strings.TrimSpace(strings.Join(words, " "))
	if title == "" {
		return Command{}, invalid("add requires a title")
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title, Priority: priority, At: at}}, nil
}

func parseRef(raw string, typ Type, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("%s requires a target", typ)
	}
	ref := &RefArgs{Ref: strings.Join(args, " ")}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeDone {
		cmd.Done = ref
	} else {
		cmd.CheckIn = ref
	}
	return cmd, nil
}

func parseHabit(raw string, args []string) (Command, error) {
	kind := model.HabitGood
	if n := len(args); n > 1 {
		switch strings.ToLower(args[n-1]) {
		case "bad":
			kind = model.HabitBad
			args = args[:n-1]
		case "good":
			args = args[:n-1]
		}
	}
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return Command{}, invalid("habit requires a name")
	}
	return Command{Type: TypeHabit, Raw: raw, Habit: &HabitArgs{Name: name, Type: kind}}, nil
}

func parseNote(raw string, args []string) (Command, error) {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return Command{}, invalid("note requires text")
	}
	return Command{Type: TypeNote, Raw: raw, Note: &NoteArgs{Text: text}}, nil
}

func parseEvent(raw string, args []string) (Command, error) {
	args, at := splitAt(args)
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" || at == nil {
		return Command{}, invalid("event requires a title and 'at HH:MM'")
	}
	return Command{Type: TypeEvent, Raw: raw, Event: &EventArgs{Title: title, At: *at}}, nil
}

func parseClaim(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("claim requires one achievement id")
	}
	return Command{Type: TypeClaim, Raw: raw, Claim: &ClaimArgs{Achievement: model.AchievementID(strings.ToLower(args[0]))}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("remind requires HH:MM or off")
	}
	if strings.EqualFold(args[0], "off") {
		return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{Off: true}}, nil
	}
	ct, ok := parseClock(args[0])
	if !ok {
		return Command{}, invalid("invalid time %q, want HH:MM", args[0])
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{At: ct}}, nil
}

func parseOnOff(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "on", "true", "yes", "1":
		return true, true
	case "off", "false", "no", "0":
		return false, true
	default:
		return false, false
	}
}

func parseNotify(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, invalid("notify requires on or off")
	}
	on, ok := parseOnOff(args[0])
	if !ok {
		return Command{}, invalid("notify requires on or off")
	}
	return Command{Type: TypeNotify, Raw: raw, Notify: &NotifyArgs{On: on}}, nil
}

func parseSet(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, invalid("set requires a field and a value")
	}
	return Command{Type: TypeSet, Raw: raw, Set: &SetArgs{
		Field: strings.ToLower(args[0]),
		Value: strings.Join(args[1:], " "),
	}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, invalid("show requires a subject")
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "tasks", "achievements", "settings", "notifications":
	default:
		return Command{}, invalid("unknown view %q", subject)
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

// ParseOnOff exposes the boolean vocabulary shared by set and notify.
func ParseOnOff(v string) (bool, error) {
	on, ok := parseOnOff(v)
	if !ok {
		return false, invalid("expected on or off, got %q", v)
	}
	return on, nil
}
