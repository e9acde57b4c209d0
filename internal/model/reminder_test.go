package model

import (
	"errors"
	"testing"
	"time"
)

func TestReminderValidateSuccess(t *testing.T) {
	rem := Reminder{
		Kind:    ReminderTask,
		TaskID:  "task-1",
		Title:   "Upcoming task",
		Body:    "Pay rent at 13:00",
		FiredAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid reminder, got error: %v", err)
	}
}

func TestReminderValidateInvalidKind(t *testing.T) {
	rem := Reminder{
		Kind:    ReminderKind("weekly"),
		Title:   "x",
		FiredAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := rem.Validate(); !errors.Is(err, ErrInvalidReminderKind) {
		t.Fatalf("expected ErrInvalidReminderKind, got: %v", err)
	}
}

func TestDailyReminderNeedsNoTask(t *testing.T) {
	rem := Reminder{Kind: ReminderDaily, Title: "Daily reminder", FiredAt: time.Now()}
	if err := rem.Validate(); err != nil {
		t.Fatalf("expected valid daily reminder, got %v", err)
	}
	rem.Kind = ReminderOverdue
	if err := rem.Validate(); err == nil {
		t.Fatal("expected overdue reminder without task to fail")
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("08:05")
	if err != nil || h != 8 || m != 5 {
		t.Fatalf("ParseClock(08:05) = %d, %d, %v", h, m, err)
	}
	for _, bad := range []string{"", "25:00", "8pm", "12:60"} {
		if _, _, err := ParseClock(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
