package settings

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sandeepkv93/lifeboard/internal/events"
)

// Change describes one committed settings write. Field is "*" when the whole
// record was replaced by Reload.
type Change struct {
	Field    string
	Previous Settings
	Current  Settings
}

// Store is the process-wide settings record. Every write is validated,
// persisted to disk and broadcast before the setter returns.
type Store struct {
	mu      sync.RWMutex
	path    string
	gate    Gate
	current Settings
	changes *events.Bus[Change]
	logger  *log.Logger
}

// Open loads settings from path. A missing or unreadable file yields the
// defaults; gated values the user has not earned are reset on load.
func Open(path string, gate Gate, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{
		path:    strings.TrimSpace(path),
		gate:    gate,
		changes: events.NewBus[Change](),
		logger:  logger,
	}
	loaded, err := s.read()
	if err != nil {
		return nil, err
	}
	clean, reset := Sanitize(loaded, gate)
	s.current = clean
	if len(reset) > 0 {
		s.logger.Printf("settings: reset locked fields on load: %s", strings.Join(reset, ", "))
		s.persist(clean)
	}
	return s, nil
}

func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Subscribe(fn func(Change)) func() {
	return s.changes.Subscribe(fn)
}

// Update applies mutate to a copy of the current settings. The write is
// rejected, leaving settings unchanged, when the result is invalid or holds a
// gated value whose achievement is not claimed.
func (s *Store) Update(field string, mutate func(*Settings)) error {
	s.mu.Lock()
	prev := s.current
	next := prev
	mutate(&next)
	if err := validate(next); err != nil {
		s.mu.Unlock()
		return err
	}
	if err := checkGated(next, s.gate); err != nil {
		s.mu.Unlock()
		return err
	}
	if next == prev {
		s.mu.Unlock()
		return nil
	}
	s.current = next
	s.persist(next)
	s.mu.Unlock()

	s.changes.Publish(Change{Field: field, Previous: prev, Current: next})
	return nil
}

func (s *Store) SetDarkMode(v bool) error {
	return s.Update("darkMode", func(st *Settings) { st.DarkMode = v })
}

func (s *Store) SetThemeColor(v string) error {
	return s.Update("themeColor", func(st *Settings) { st.ThemeColor = strings.TrimSpace(v) })
}

func (s *Store) SetLanguage(v string) error {
	return s.Update("language", func(st *Settings) { st.Language = strings.TrimSpace(v) })
}

func (s *Store) SetAvatar(v string) error {
	return s.Update("avatar", func(st *Settings) { st.Avatar = strings.TrimSpace(v) })
}

func (s *Store) SetNotifications(v bool) error {
	return s.Update("notifications", func(st *Settings) { st.Notifications = v })
}

func (s *Store) SetSoundEffects(v bool) error {
	return s.Update("soundEffects", func(st *Settings) { st.SoundEffects = v })
}

// SetDailyReminderTime accepts "HH:MM" or "" to turn the reminder off.
func (s *Store) SetDailyReminderTime(v string) error {
	return s.Update("dailyReminderTime", func(st *Settings) { st.DailyReminderTime = strings.TrimSpace(v) })
}

func (s *Store) SetCustomThemeColors(v bool) error {
	return s.Update("customThemeColors", func(st *Settings) { st.CustomThemeColors = v })
}

func (s *Store) SetCustomColor(v string) error {
	return s.Update("customColor", func(st *Settings) { st.CustomColor = strings.TrimSpace(v) })
}

func (s *Store) SetShowChampionBadge(v bool) error {
	return s.Update("showChampionBadge", func(st *Settings) { st.ShowChampionBadge = v })
}

// Reload re-reads the settings file, picking up writes made by another
// process, and broadcasts when the record changed.
func (s *Store) Reload() error {
	loaded, err := s.read()
	if err != nil {
		return err
	}
	clean, _ := Sanitize(loaded, s.gate)

	s.mu.Lock()
	prev := s.current
	if clean == prev {
		s.mu.Unlock()
		return nil
	}
	s.current = clean
	s.mu.Unlock()

	s.changes.Publish(Change{Field: "*", Previous: prev, Current: clean})
	return nil
}

func (s *Store) read() (Settings, error) {
	out := Defaults()
	if s.path == "" {
		return out, nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return Settings{}, err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		s.logger.Printf("settings: ignoring unreadable %s: %v", s.path, err)
		return Defaults(), nil
	}
	return out, nil
}

// persist writes through to disk. Failures are logged; the in-memory record
// stays authoritative for this process.
func (s *Store) persist(v Settings) {
	if s.path == "" {
		return
	}
	if err := writeFileAtomic(s.path, v); err != nil {
		s.logger.Printf("settings: persist %s: %v", s.path, err)
	}
}

func writeFileAtomic(path string, v Settings) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
