// Package achievement turns raw task, habit and note records into
// achievement progress and runs the claim workflow that unlocks rewards.
package achievement

import "github.com/sandeepkv93/lifeboard/internal/model"

// Definition is one immutable catalog entry.
type Definition struct {
	ID          model.AchievementID
	Name        string
	Description string
	Criteria    string
	Reward      string
	Icon        string
	Target      int
}

var catalog = []Definition{
	{
		ID:          model.AchievementZenMind,
		Name:        "Zen Mind",
		Description: "Capture your thoughts in writing.",
		Criteria:    "Write 5 notes",
		Reward:      "Zen avatar",
		Icon:        "🧘",
		Target:      5,
	},
	{
		ID:          model.AchievementFocusMaster,
		Name:        "Focus Master",
		Description: "Finish the work that matters most.",
		Criteria:    "Complete 10 high-priority tasks",
		Reward:      "Productivity avatar",
		Icon:        "🎯",
		Target:      10,
	},
	{
		ID:          model.AchievementStreakMaster,
		Name:        "Streak Master",
		Description: "Keep a habit going for a full week.",
		Criteria:    "Reach a 7-day habit streak",
		Reward:      "Gold theme",
		Icon:        "🔥",
		Target:      7,
	},
	{
		ID:          model.AchievementTaskChampion,
		Name:        "Task Champion",
		Description: "Clear your list again and again.",
		Criteria:    "Complete 25 tasks",
		Reward:      "Champion badge",
		Icon:        "🏆",
		Target:      25,
	},
	{
		ID:          model.AchievementHabitBreaker,
		Name:        "Habit Breaker",
		Description: "Stay away from bad habits.",
		Criteria:    "Hold 3 bad habits at a streak of 7 or more",
		Reward:      "Custom theme colors",
		Icon:        "⛓",
		Target:      3,
	},
	{
		ID:          model.AchievementEarlyBird,
		Name:        "Early Bird",
		Description: "Get things done before the day starts.",
		Criteria:    "Complete 5 tasks scheduled before 9 AM",
		Reward:      "Morning theme",
		Icon:        "🌅",
		Target:      5,
	},
	{
		ID:          model.AchievementNightOwl,
		Name:        "Night Owl",
		Description: "Make the most of your evenings.",
		Criteria:    "Complete 10 tasks scheduled at or after 8 PM",
		Reward:      "Night theme with dark mode",
		Icon:        "🦉",
		Target:      10,
	},
	{
		ID:          model.AchievementConsistencyKing,
		Name:        "Consistency King",
		Description: "Show up every single day.",
		Criteria:    "Complete at least one task on 14 consecutive days",
		Reward:      "Crown avatar",
		Icon:        "👑",
		Target:      14,
	},
}

// Catalog returns a copy of every achievement definition in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(id model.AchievementID) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
