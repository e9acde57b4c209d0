package events

import "time"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice is a user-visible message. Persistent notices stay on screen until
// the user acts; the rest are transient.
type Notice struct {
	Level      Level
	Text       string
	Persistent bool
	At         time.Time
}

// TasksChanged is published after any task, habit or note mutation.
type TasksChanged struct {
	UserID string
}

// AchievementsInvalidated tells readers that cached achievement views are stale.
type AchievementsInvalidated struct {
	UserID string
}
