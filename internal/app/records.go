package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/storage"
)

var ErrForeignRecord = errors.New("app: record belongs to another user")

// TaskFeed lists a user's open, scheduled tasks for the reminder scheduler.
type TaskFeed struct {
	Repo   storage.Repository
	UserID string
}

func (f TaskFeed) UpcomingTasks(ctx context.Context) ([]model.Task, error) {
	open := false
	rows, err := f.Repo.ListTasks(ctx, storage.TaskListFilter{UserID: f.UserID, Completed: &open, ScheduledOnly: true})
	if err != nil {
		return nil, err
	}
	return storage.TasksToModel(rows), nil
}

func (a *App) changed() {
	a.TasksChanged.Publish(events.TasksChanged{UserID: a.userID})
}

func (a *App) AddTask(ctx context.Context, title string, priority model.Priority, scheduledAt *time.Time) (model.Task, error) {
	if priority == "" {
		priority = model.PriorityMedium
	}
	task := model.Task{
		ID:          uuid.NewString(),
		UserID:      a.userID,
		Title:       strings.TrimSpace(title),
		Priority:    priority,
		ScheduledAt: scheduledAt,
		CreatedAt:   a.clock.Now(),
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if err := a.Repo.CreateTask(ctx, storage.TaskFromModel(task)); err != nil {
		return model.Task{}, fmt.Errorf("app: create task: %w", err)
	}
	a.changed()
	return task, nil
}

// CompleteTask marks a task done. Completing a completed task is a no-op.
func (a *App) CompleteTask(ctx context.Context, id string) (model.Task, error) {
	row, err := a.ownTask(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	task := row.ToModel()
	if task.Completed {
		return task, nil
	}
	now := a.clock.Now()
	task.Completed = true
	task.CompletedAt = &now
	if err := a.Repo.UpdateTask(ctx, storage.TaskFromModel(task)); err != nil {
		return model.Task{}, fmt.Errorf("app: complete task: %w", err)
	}
	a.changed()
	return task, nil
}

func (a *App) DeleteTask(ctx context.Context, id string) error {
	if _, err := a.ownTask(ctx, id); err != nil {
		return err
	}
	if err := a.Repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("app: delete task: %w", err)
	}
	a.changed()
	return nil
}

func (a *App) ownTask(ctx context.Context, id string) (storage.Task, error) {
	row, err := a.Repo.GetTask(ctx, strings.TrimSpace(id))
	if err != nil {
		return storage.Task{}, err
	}
	if row.UserID != a.userID {
		return storage.Task{}, ErrForeignRecord
	}
	return row, nil
}

func (a *App) ListTasks(ctx context.Context) ([]model.Task, error) {
	rows, err := a.Repo.ListTasks(ctx, storage.TaskListFilter{UserID: a.userID})
	if err != nil {
		return nil, err
	}
	return storage.TasksToModel(rows), nil
}

// ResolveTask finds a task by full id or unique id prefix.
func (a *App) ResolveTask(ctx context.Context, ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, storage.ErrNotFound
	}
	tasks, err := a.ListTasks(ctx)
	if err != nil {
		return model.Task{}, err
	}
	var match *model.Task
	for i := range tasks {
		if tasks[i].ID == ref {
			return tasks[i], nil
		}
		if strings.HasPrefix(tasks[i].ID, ref) {
			if match != nil {
				return model.Task{}, fmt.Errorf("app: task reference %q is ambiguous", ref)
			}
			match = &tasks[i]
		}
	}
	if match == nil {
		return model.Task{}, storage.ErrNotFound
	}
	return *match, nil
}

func (a *App) AddHabit(ctx context.Context, name string, kind model.HabitType) (model.Habit, error) {
	habit := model.Habit{
		ID:        uuid.NewString(),
		UserID:    a.userID,
		Name:      strings.TrimSpace(name),
		Type:      kind,
		CreatedAt: a.clock.Now(),
	}
	if err := habit.Validate(); err != nil {
		return model.Habit{}, err
	}
	if err := a.Repo.CreateHabit(ctx, storage.HabitFromModel(habit)); err != nil {
		return model.Habit{}, fmt.Errorf("app: create habit: %w", err)
	}
	a.changed()
	return habit, nil
}

// CheckInHabit extends a habit's streak by one day.
func (a *App) CheckInHabit(ctx context.Context, ref string) (model.Habit, error) {
	habit, err := a.ResolveHabit(ctx, ref)
	if err != nil {
		return model.Habit{}, err
	}
	habit.Streak++
	if err := a.Repo.UpdateHabit(ctx, storage.HabitFromModel(habit)); err != nil {
		return model.Habit{}, fmt.Errorf("app: update habit: %w", err)
	}
	a.changed()
	return habit, nil
}

func (a *App) ListHabits(ctx context.Context) ([]model.Habit, error) {
	rows, err := a.Repo.ListHabits(ctx, storage.HabitListFilter{UserID: a.userID})
	if err != nil {
		return nil, err
	}
	return storage.HabitsToModel(rows), nil
}

// ResolveHabit finds a habit by id, id prefix or case-insensitive name.
func (a *App) ResolveHabit(ctx context.Context, ref string) (model.Habit, error) {
	ref = strings.TrimSpace(ref)
	habits, err := a.ListHabits(ctx)
	if err != nil {
		return model.Habit{}, err
	}
	for _, h := range habits {
		if h.ID == ref || strings.EqualFold(h.Name, ref) {
			return h, nil
		}
	}
	for _, h := range habits {
		if ref != "" && strings.HasPrefix(h.ID, ref) {
			return h, nil
		}
	}
	return model.Habit{}, storage.ErrNotFound
}

// AddNote stores text as a note titled by its first line.
func (a *App) AddNote(ctx context.Context, text string) (model.Note, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Note{}, errors.New("app: note text is required")
	}
	title := text
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = title[:i]
	}
	if len(title) > 60 {
		title = title[:60]
	}
	note := model.Note{ID: uuid.NewString(), UserID: a.userID, Title: title, Body: text, CreatedAt: a.clock.Now()}
	if err := a.Repo.CreateNote(ctx, storage.Note{
		ID: note.ID, UserID: note.UserID, Title: note.Title, Body: note.Body, CreatedAt: note.CreatedAt,
	}); err != nil {
		return model.Note{}, fmt.Errorf("app: create note: %w", err)
	}
	a.changed()
	return note, nil
}

func (a *App) CountNotes(ctx context.Context) (int, error) {
	return a.Repo.CountNotes(ctx, a.userID)
}

func (a *App) AddEvent(ctx context.Context, title string, startsAt time.Time, endsAt time.Time) (model.Event, error) {
	ev := model.Event{
		ID:        uuid.NewString(),
		UserID:    a.userID,
		Title:     strings.TrimSpace(title),
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedAt: a.clock.Now(),
	}
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	if err := a.Repo.CreateEvent(ctx, storage.EventFromModel(ev)); err != nil {
		return model.Event{}, fmt.Errorf("app: create event: %w", err)
	}
	return ev, nil
}

// EventsOn lists events starting on day's local calendar date.
func (a *App) EventsOn(ctx context.Context, day time.Time) ([]model.Event, error) {
	y, m, d := day.In(a.loc).Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, a.loc)
	to := from.AddDate(0, 0, 1)
	rows, err := a.Repo.ListEvents(ctx, storage.EventListFilter{UserID: a.userID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	out := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToModel())
	}
	return out, nil
}

// At returns today's hh:mm in the app's location, or tomorrow's when that
// time has passed.
func (a *App) At(hh, mm int) time.Time {
	now := a.Now()
	y, m, d := now.Date()
	t := time.Date(y, m, d, hh, mm, 0, 0, a.loc)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
