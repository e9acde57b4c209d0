package achievement

import (
	"reflect"
	"testing"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

func TestCatalogEntries(t *testing.T) {
	want := map[model.AchievementID]int{
		model.AchievementZenMind:         5,
		model.AchievementFocusMaster:     10,
		model.AchievementStreakMaster:    7,
		model.AchievementTaskChampion:    25,
		model.AchievementHabitBreaker:    3,
		model.AchievementEarlyBird:       5,
		model.AchievementNightOwl:        10,
		model.AchievementConsistencyKing: 14,
	}
	defs := Catalog()
	if len(defs) != len(want) {
		t.Fatalf("expected %d achievements, got %d", len(want), len(defs))
	}
	for _, d := range defs {
		if want[d.ID] != d.Target {
			t.Fatalf("unexpected target for %s: %d", d.ID, d.Target)
		}
	}
	if got := Compute(Counters{}, nil); len(got) != 8 {
		t.Fatalf("expected 8 progress entries, got %d", len(got))
	}
}

func TestComputePercentStaysInRange(t *testing.T) {
	cases := []Counters{
		{},
		{TaskCompleted: -4, Notes: -1, DailyStreak: -100},
		{TaskCompleted: 1000, Notes: 999, DailyStreak: 365, EveningTasks: 11},
		{Notes: 2, HighPriorityCompleted: 3},
	}
	for _, c := range cases {
		for _, p := range Compute(c, nil) {
			if p.Percent < 0 || p.Percent > 100 {
				t.Fatalf("percent out of range for %s: %d", p.ID, p.Percent)
			}
			if p.Count < 0 {
				t.Fatalf("negative count for %s", p.ID)
			}
		}
	}

	zen, _ := Find(Compute(Counters{Notes: 2}, nil), model.AchievementZenMind)
	if zen.Percent != 40 || zen.Unlocked {
		t.Fatalf("unexpected zen progress: %+v", zen)
	}
}

func TestComputeClaimedIsFullProgress(t *testing.T) {
	claimed := ClaimedSet{model.AchievementTaskChampion: true}
	p, _ := Find(Compute(Counters{TaskCompleted: 3}, claimed), model.AchievementTaskChampion)
	if p.Percent != 100 || !p.Claimed || p.Unlocked {
		t.Fatalf("unexpected claimed progress: %+v", p)
	}
}

func TestComputeIsPure(t *testing.T) {
	c := Counters{TaskCompleted: 12, EarlyBirdTasks: 5, DailyStreak: 3}
	claimed := ClaimedSet{model.AchievementEarlyBird: true}
	first := Compute(c, claimed)
	second := Compute(c, claimed)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("compute is not deterministic")
	}
	if len(claimed) != 1 {
		t.Fatalf("compute mutated claimed set")
	}
}
