package settings

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

func claimed(ids ...model.AchievementID) Gate {
	set := make(map[model.AchievementID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return GateFunc(func(id model.AchievementID) bool { return set[id] })
}

func writeSettingsFile(t *testing.T, path string, s Settings) {
	t.Helper()
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal settings: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func TestOpenMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := Open(path, claimed(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Get() != Defaults() {
		t.Fatalf("expected defaults, got %#v", store.Get())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no file written on clean open, stat err: %v", err)
	}
}

func TestWritesPersistAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store, err := Open(path, claimed(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetDarkMode(true); err != nil {
		t.Fatalf("set dark mode: %v", err)
	}
	if err := store.SetDailyReminderTime("07:30"); err != nil {
		t.Fatalf("set reminder: %v", err)
	}

	reopened, err := Open(path, claimed(), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got := reopened.Get()
	if !got.DarkMode || got.DailyReminderTime != "07:30" || got.Language != DefaultLanguage {
		t.Fatalf("unexpected persisted settings: %#v", got)
	}
}

func TestGatedAvatarRejectedWithoutClaim(t *testing.T) {
	store, err := Open("", claimed(model.AchievementZenMind), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	before := store.Get()

	err = store.SetAvatar("crown")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if store.Get() != before {
		t.Fatalf("settings changed after rejected write: %#v", store.Get())
	}

	if err := store.SetAvatar("zen"); err != nil {
		t.Fatalf("set zen avatar: %v", err)
	}
	if store.Get().Avatar != "zen" {
		t.Fatalf("expected zen avatar, got %q", store.Get().Avatar)
	}
}

func TestGatedValuesFollowGate(t *testing.T) {
	unlocked := false
	gate := GateFunc(func(id model.AchievementID) bool {
		return unlocked && id == model.AchievementConsistencyKing
	})
	store, err := Open("", gate, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetAvatar("crown"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked before claim, got %v", err)
	}
	unlocked = true
	if err := store.SetAvatar("crown"); err != nil {
		t.Fatalf("set crown after claim: %v", err)
	}
}

func TestLoadResetsLockedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := Defaults()
	s.Avatar = "crown"
	s.ThemeColor = "night"
	s.ShowChampionBadge = true
	s.DarkMode = true
	writeSettingsFile(t, path, s)

	store, err := Open(path, claimed(model.AchievementNightOwl), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	got := store.Get()
	if got.Avatar != DefaultAvatar || got.ShowChampionBadge {
		t.Fatalf("locked fields not reset: %#v", got)
	}
	if got.ThemeColor != "night" || !got.DarkMode {
		t.Fatalf("permitted fields lost: %#v", got)
	}

	reopened, err := Open(path, claimed(model.AchievementNightOwl), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Get() != got {
		t.Fatalf("sanitized settings not persisted: %#v", reopened.Get())
	}
}

func TestInvalidReminderTimeRejected(t *testing.T) {
	store, err := Open("", nil, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.SetDailyReminderTime("25:99"); !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
	if err := store.SetDailyReminderTime(""); err != nil {
		t.Fatalf("clear reminder: %v", err)
	}
	if store.Get().DailyReminderTime != "" {
		t.Fatalf("expected reminder cleared, got %q", store.Get().DailyReminderTime)
	}
}

func TestSubscribersSeeEachChange(t *testing.T) {
	store, err := Open("", nil, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var got []Change
	unsubscribe := store.Subscribe(func(c Change) { got = append(got, c) })

	if err := store.SetNotifications(true); err != nil {
		t.Fatalf("set notifications: %v", err)
	}
	if err := store.SetNotifications(true); err != nil {
		t.Fatalf("set notifications again: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one change for a repeated write, got %d", len(got))
	}
	if got[0].Field != "notifications" || got[0].Previous.Notifications || !got[0].Current.Notifications {
		t.Fatalf("unexpected change: %#v", got[0])
	}

	unsubscribe()
	if err := store.SetSoundEffects(false); err != nil {
		t.Fatalf("set sound: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("unsubscribed listener still notified")
	}
}

func TestReloadPicksUpExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store, err := Open(path, claimed(), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	var changes int
	store.Subscribe(func(Change) { changes++ })

	external := Defaults()
	external.Language = "de"
	external.Avatar = "crown"
	writeSettingsFile(t, path, external)

	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	got := store.Get()
	if got.Language != "de" || got.Avatar != DefaultAvatar {
		t.Fatalf("unexpected reloaded settings: %#v", got)
	}
	if changes != 1 {
		t.Fatalf("expected one broadcast, got %d", changes)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("second reload: %v", err)
	}
	if changes != 1 {
		t.Fatalf("unchanged reload broadcast again")
	}
}

func TestCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := Open(path, nil, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if store.Get() != Defaults() {
		t.Fatalf("expected defaults, got %#v", store.Get())
	}
}
