package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority  = errors.New("model: invalid task priority")
	ErrInvalidHabitType = errors.New("model: invalid habit type")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority accepts any casing and defaults an empty input to medium.
func ParsePriority(raw string) (Priority, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return PriorityMedium, nil
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
	return p, nil
}

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Priority    Priority
	Completed   bool
	ScheduledAt *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.UserID) == "" {
		return errors.New("model: task user_id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if !t.Completed && t.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when task is not completed")
	}
	return nil
}

// ActivityTime is the moment a task counts toward calendar-day statistics:
// its scheduled time, or its creation time when it has none.
func (t Task) ActivityTime() time.Time {
	if t.ScheduledAt != nil && !t.ScheduledAt.IsZero() {
		return *t.ScheduledAt
	}
	return t.CreatedAt
}

type HabitType string

const (
	HabitGood HabitType = "good"
	HabitBad  HabitType = "bad"
)

func (h HabitType) IsValid() bool {
	switch h {
	case HabitGood, HabitBad:
		return true
	default:
		return false
	}
}

type Habit struct {
	ID        string
	UserID    string
	Name      string
	Type      HabitType
	Streak    int
	CreatedAt time.Time
}

func (h Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return errors.New("model: habit id is required")
	}
	if strings.TrimSpace(h.Name) == "" {
		return errors.New("model: habit name is required")
	}
	if !h.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidHabitType, h.Type)
	}
	if h.Streak < 0 {
		return errors.New("model: habit streak must not be negative")
	}
	return nil
}

type Note struct {
	ID        string
	UserID    string
	Title     string
	Body      string
	CreatedAt time.Time
}

type Event struct {
	ID        string
	UserID    string
	Title     string
	StartsAt  time.Time
	EndsAt    time.Time
	CreatedAt time.Time
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("model: event title is required")
	}
	if e.StartsAt.IsZero() {
		return errors.New("model: event starts_at is required")
	}
	if !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return errors.New("model: event ends_at is before starts_at")
	}
	return nil
}
