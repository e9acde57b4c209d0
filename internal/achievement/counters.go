package achievement

import (
	"sort"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

const (
	EarlyBirdBeforeHour      = 9
	EveningFromHour          = 20
	QualifyingBadHabitStreak = 7
)

// Counters are the activity totals achievements are measured against. They
// are always derived from records and never stored.
type Counters struct {
	TaskCompleted                 int
	EarlyBirdTasks                int
	EveningTasks                  int
	HighPriorityCompleted         int
	LongestHabitStreak            int
	Notes                         int
	BadHabitsWithQualifyingStreak int
	DailyStreak                   int
}

// DeriveCounters computes counters from the user's records. Hours and
// calendar days are taken in loc; a nil loc means time.Local.
func DeriveCounters(tasks []model.Task, habits []model.Habit, notes int, loc *time.Location) Counters {
	if loc == nil {
		loc = time.Local
	}
	c := Counters{Notes: notes}
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		c.TaskCompleted++
		if t.Priority == model.PriorityHigh {
			c.HighPriorityCompleted++
		}
		if t.ScheduledAt == nil || t.ScheduledAt.IsZero() {
			continue
		}
		hour := t.ScheduledAt.In(loc).Hour()
		if hour < EarlyBirdBeforeHour {
			c.EarlyBirdTasks++
		}
		if hour >= EveningFromHour {
			c.EveningTasks++
		}
	}
	for _, h := range habits {
		if h.Streak > c.LongestHabitStreak {
			c.LongestHabitStreak = h.Streak
		}
		if h.Type == model.HabitBad && h.Streak >= QualifyingBadHabitStreak {
			c.BadHabitsWithQualifyingStreak++
		}
	}
	c.DailyStreak = DailyStreak(tasks, loc)
	return c
}

// DailyStreak returns the longest run of consecutive calendar days with at
// least one completed task. A task counts on the day of its scheduled time,
// or of its creation time when unscheduled.
func DailyStreak(tasks []model.Task, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[time.Time]struct{})
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		at := t.ActivityTime()
		if at.IsZero() {
			continue
		}
		y, m, d := at.In(loc).Date()
		seen[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)] = struct{}{}
	}
	if len(seen) == 0 {
		return 0
	}

	days := make([]time.Time, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// For returns the counter that measures progress toward id.
func (c Counters) For(id model.AchievementID) int {
	switch id {
	case model.AchievementZenMind:
		return c.Notes
	case model.AchievementFocusMaster:
		return c.HighPriorityCompleted
	case model.AchievementStreakMaster:
		return c.LongestHabitStreak
	case model.AchievementTaskChampion:
		return c.TaskCompleted
	case model.AchievementHabitBreaker:
		return c.BadHabitsWithQualifyingStreak
	case model.AchievementEarlyBird:
		return c.EarlyBirdTasks
	case model.AchievementNightOwl:
		return c.EveningTasks
	case model.AchievementConsistencyKing:
		return c.DailyStreak
	default:
		return 0
	}
}
