package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Repository is the row-level store the core reads records from. Every list
// is scoped to one user; no operation spans more than one table.
type Repository interface {
	CreateTask(ctx context.Context, in Task) error
	GetTask(ctx context.Context, id string) (Task, error)
	UpdateTask(ctx context.Context, in Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error)

	CreateHabit(ctx context.Context, in Habit) error
	GetHabit(ctx context.Context, id string) (Habit, error)
	UpdateHabit(ctx context.Context, in Habit) error
	DeleteHabit(ctx context.Context, id string) error
	ListHabits(ctx context.Context, filter HabitListFilter) ([]Habit, error)

	CreateNote(ctx context.Context, in Note) error
	UpdateNote(ctx context.Context, in Note) error
	DeleteNote(ctx context.Context, id string) error
	ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error)
	CountNotes(ctx context.Context, userID string) (int, error)

	CreateEvent(ctx context.Context, in Event) error
	UpdateEvent(ctx context.Context, in Event) error
	DeleteEvent(ctx context.Context, id string) error
	ListEvents(ctx context.Context, filter EventListFilter) ([]Event, error)

	GetUserAchievement(ctx context.Context, userID, achievementID string) (UserAchievement, error)
	ListUserAchievements(ctx context.Context, userID string) ([]UserAchievement, error)
	UpsertClaim(ctx context.Context, in UserAchievement) error
}
