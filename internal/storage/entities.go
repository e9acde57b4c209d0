package storage

import "time"

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Priority    string
	Completed   bool
	ScheduledAt *time.Time
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Habit struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	Streak    int
	CreatedAt time.Time
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
	EndsAt    *time.Time
	CreatedAt time.Time
}

type UserAchievement struct {
	UserID        string
	AchievementID string
	Claimed       bool
	UnlockedAt    time.Time
}

type TaskListFilter struct {
	UserID        string
	Completed     *bool
	ScheduledOnly bool
	Limit         int
	Offset        int
}

type HabitListFilter struct {
	UserID string
	Type   string
	Limit  int
	Offset int
}

type NoteListFilter struct {
	UserID string
	Limit  int
	Offset int
}

type EventListFilter struct {
	UserID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}
