package achievement

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/storage"
)

func TestTrackerRefreshFromRepository(t *testing.T) {
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "tracker.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	ctx := t.Context()
	base := time.Date(2026, 1, 1, 7, 30, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		scheduled := base.AddDate(0, 0, i)
		done := scheduled.Add(time.Hour)
		task := storage.Task{
			ID: "t" + string(rune('a'+i)), UserID: "u", Title: "morning run", Priority: "high",
			Completed: true, ScheduledAt: &scheduled, CreatedAt: base, CompletedAt: &done,
		}
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}
	for i := 0; i < 5; i++ {
		if err := repo.CreateNote(ctx, storage.Note{ID: "n" + string(rune('a'+i)), UserID: "u", CreatedAt: base}); err != nil {
			t.Fatalf("create note: %v", err)
		}
	}
	if err := repo.UpsertClaim(ctx, storage.UserAchievement{UserID: "u", AchievementID: "zen-mind", UnlockedAt: base}); err != nil {
		t.Fatalf("upsert claim: %v", err)
	}

	tracker := NewTracker(repo, "u", time.UTC)
	if tracker.Permits(model.AchievementZenMind) {
		t.Fatal("tracker permits before refresh")
	}
	if err := tracker.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	early, _ := tracker.Find(model.AchievementEarlyBird)
	if !early.Unlocked || early.Claimed {
		t.Fatalf("unexpected early-bird progress: %+v", early)
	}
	zen, _ := tracker.Find(model.AchievementZenMind)
	if !zen.Claimed || !tracker.Permits(model.AchievementZenMind) {
		t.Fatalf("expected zen-mind claimed: %+v", zen)
	}
	if c := tracker.Counters(); c.DailyStreak != 5 || c.HighPriorityCompleted != 5 {
		t.Fatalf("unexpected counters: %+v", c)
	}
	if len(tracker.Progress()) != 8 {
		t.Fatalf("expected 8 progress entries")
	}
}
