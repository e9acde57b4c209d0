package achievement

import (
	"testing"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

func at(t *testing.T, value string) *time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return &out
}

func doneTask(scheduled *time.Time) model.Task {
	return model.Task{Completed: true, Priority: model.PriorityMedium, ScheduledAt: scheduled}
}

func TestDailyStreakLongestRun(t *testing.T) {
	tasks := []model.Task{
		doneTask(at(t, "2026-01-01T10:00:00Z")),
		doneTask(at(t, "2026-01-02T10:00:00Z")),
		doneTask(at(t, "2026-01-02T18:00:00Z")),
		doneTask(at(t, "2026-01-03T10:00:00Z")),
		doneTask(at(t, "2026-01-05T10:00:00Z")),
		{Completed: false, ScheduledAt: at(t, "2026-01-04T10:00:00Z")},
	}
	if got := DailyStreak(tasks, time.UTC); got != 3 {
		t.Fatalf("expected streak 3, got %d", got)
	}
	if got := DailyStreak(nil, time.UTC); got != 0 {
		t.Fatalf("expected 0 without tasks, got %d", got)
	}
}

func TestDailyStreakFallsBackToCreatedTime(t *testing.T) {
	tasks := []model.Task{
		{Completed: true, CreatedAt: *at(t, "2026-03-01T09:00:00Z")},
		{Completed: true, CreatedAt: *at(t, "2026-03-02T09:00:00Z")},
	}
	if got := DailyStreak(tasks, time.UTC); got != 2 {
		t.Fatalf("expected streak 2, got %d", got)
	}
}

func TestDailyStreakUsesLocalCalendarDays(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	tasks := []model.Task{
		doneTask(at(t, "2026-01-02T03:00:00Z")), // Jan 1 local
		doneTask(at(t, "2026-01-02T15:00:00Z")), // Jan 2 local
	}
	if got := DailyStreak(tasks, loc); got != 2 {
		t.Fatalf("expected streak 2 in local time, got %d", got)
	}
	if got := DailyStreak(tasks, time.UTC); got != 1 {
		t.Fatalf("expected streak 1 in UTC, got %d", got)
	}
}

func TestEarlyBirdAndEveningBoundaries(t *testing.T) {
	tasks := []model.Task{
		doneTask(at(t, "2026-02-01T08:59:00Z")),
		doneTask(at(t, "2026-02-02T09:00:00Z")),
		doneTask(at(t, "2026-02-03T19:59:00Z")),
		doneTask(at(t, "2026-02-04T20:00:00Z")),
		doneTask(nil),
		{Completed: false, ScheduledAt: at(t, "2026-02-05T06:00:00Z")},
	}
	c := DeriveCounters(tasks, nil, 0, time.UTC)
	if c.EarlyBirdTasks != 1 {
		t.Fatalf("expected 1 early-bird task, got %d", c.EarlyBirdTasks)
	}
	if c.EveningTasks != 1 {
		t.Fatalf("expected 1 evening task, got %d", c.EveningTasks)
	}
	if c.TaskCompleted != 5 {
		t.Fatalf("expected 5 completed, got %d", c.TaskCompleted)
	}
}

func TestHabitCounters(t *testing.T) {
	habits := []model.Habit{
		{Type: model.HabitBad, Streak: 7},
		{Type: model.HabitBad, Streak: 6},
		{Type: model.HabitGood, Streak: 12},
		{Type: model.HabitBad, Streak: 30},
	}
	c := DeriveCounters(nil, habits, 4, time.UTC)
	if c.BadHabitsWithQualifyingStreak != 2 {
		t.Fatalf("expected 2 qualifying bad habits, got %d", c.BadHabitsWithQualifyingStreak)
	}
	if c.LongestHabitStreak != 30 {
		t.Fatalf("expected longest streak 30, got %d", c.LongestHabitStreak)
	}
	if c.Notes != 4 || c.For(model.AchievementZenMind) != 4 {
		t.Fatalf("expected notes counter 4, got %+v", c)
	}
}

func TestHighPriorityCounter(t *testing.T) {
	tasks := []model.Task{
		{Completed: true, Priority: model.PriorityHigh},
		{Completed: false, Priority: model.PriorityHigh},
		{Completed: true, Priority: model.PriorityLow},
	}
	c := DeriveCounters(tasks, nil, 0, time.UTC)
	if c.HighPriorityCompleted != 1 || c.For(model.AchievementFocusMaster) != 1 {
		t.Fatalf("expected 1 high-priority completion, got %+v", c)
	}
}
