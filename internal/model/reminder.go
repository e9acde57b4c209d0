package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderKind = errors.New("model: invalid reminder kind")

type ReminderKind string

const (
	ReminderDaily   ReminderKind = "daily"
	ReminderTask    ReminderKind = "task"
	ReminderOverdue ReminderKind = "overdue"
)

func (k ReminderKind) IsValid() bool {
	switch k {
	case ReminderDaily, ReminderTask, ReminderOverdue:
		return true
	default:
		return false
	}
}

// Reminder is a notification that was dispatched to the platform.
type Reminder struct {
	Kind    ReminderKind
	TaskID  string
	Title   string
	Body    string
	FiredAt time.Time
}

func (r Reminder) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidReminderKind, r.Kind)
	}
	if r.Kind != ReminderDaily && strings.TrimSpace(r.TaskID) == "" {
		return errors.New("model: task reminder requires task_id")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("model: reminder title is required")
	}
	if r.FiredAt.IsZero() {
		return errors.New("model: reminder fired_at is required")
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock value.
func ParseClock(raw string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, fmt.Errorf("model: invalid clock value %q", raw)
	}
	return t.Hour(), t.Minute(), nil
}
