package model

import "time"

type AchievementID string

const (
	AchievementZenMind         AchievementID = "zen-mind"
	AchievementFocusMaster     AchievementID = "focus-master"
	AchievementStreakMaster    AchievementID = "streak-master"
	AchievementTaskChampion    AchievementID = "task-champion"
	AchievementHabitBreaker    AchievementID = "habit-breaker"
	AchievementEarlyBird       AchievementID = "early-bird"
	AchievementNightOwl        AchievementID = "night-owl"
	AchievementConsistencyKing AchievementID = "consistency-king"
)

// UserAchievement is the persisted claim of one achievement by one user.
type UserAchievement struct {
	UserID        string
	AchievementID AchievementID
	Claimed       bool
	UnlockedAt    time.Time
}
