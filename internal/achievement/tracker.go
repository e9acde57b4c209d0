package achievement

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/storage"
)

// Source is the subset of storage.Repository the tracker reads from.
type Source interface {
	ListTasks(ctx context.Context, filter storage.TaskListFilter) ([]storage.Task, error)
	ListHabits(ctx context.Context, filter storage.HabitListFilter) ([]storage.Habit, error)
	CountNotes(ctx context.Context, userID string) (int, error)
	ListUserAchievements(ctx context.Context, userID string) ([]storage.UserAchievement, error)
}

// Tracker caches the computed progress for one user. It is the settings gate:
// a gated value is permitted once its achievement is claimed.
type Tracker struct {
	source Source
	userID string
	loc    *time.Location

	mu       sync.RWMutex
	counters Counters
	claimed  ClaimedSet
	progress []Progress
}

func NewTracker(source Source, userID string, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	t := &Tracker{source: source, userID: userID, loc: loc, claimed: ClaimedSet{}}
	t.progress = Compute(Counters{}, t.claimed)
	return t
}

// Refresh reloads records and claims and recomputes progress. On error the
// previous cache is kept.
func (t *Tracker) Refresh(ctx context.Context) error {
	tasks, err := t.source.ListTasks(ctx, storage.TaskListFilter{UserID: t.userID})
	if err != nil {
		return fmt.Errorf("achievement: list tasks: %w", err)
	}
	habits, err := t.source.ListHabits(ctx, storage.HabitListFilter{UserID: t.userID})
	if err != nil {
		return fmt.Errorf("achievement: list habits: %w", err)
	}
	notes, err := t.source.CountNotes(ctx, t.userID)
	if err != nil {
		return fmt.Errorf("achievement: count notes: %w", err)
	}
	rows, err := t.source.ListUserAchievements(ctx, t.userID)
	if err != nil {
		return fmt.Errorf("achievement: list claims: %w", err)
	}

	claimed := make(ClaimedSet, len(rows))
	for _, row := range rows {
		if row.Claimed {
			claimed[model.AchievementID(row.AchievementID)] = true
		}
	}
	counters := DeriveCounters(storage.TasksToModel(tasks), storage.HabitsToModel(habits), notes, t.loc)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters = counters
	t.claimed = claimed
	t.progress = Compute(counters, claimed)
	return nil
}

// MarkClaimed records a claim that was just persisted so the gate permits
// its reward before the next Refresh.
func (t *Tracker) MarkClaimed(id model.AchievementID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := make(ClaimedSet, len(t.claimed)+1)
	for k, v := range t.claimed {
		next[k] = v
	}
	next[id] = true
	t.claimed = next
	t.progress = Compute(t.counters, next)
}

func (t *Tracker) Permits(id model.AchievementID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.claimed[id]
}

func (t *Tracker) Progress() []Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Progress, len(t.progress))
	copy(out, t.progress)
	return out
}

func (t *Tracker) Find(id model.AchievementID) (Progress, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Find(t.progress, id)
}

func (t *Tracker) Counters() Counters {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.counters
}

func (t *Tracker) UserID() string { return t.userID }
