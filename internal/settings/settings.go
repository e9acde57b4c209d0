package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

var (
	ErrLocked       = errors.New("settings: value locked by achievement")
	ErrInvalidValue = errors.New("settings: invalid value")
)

const (
	DefaultThemeColor = "default"
	DefaultAvatar     = "default"
	DefaultLanguage   = "en"
	DefaultColor      = "#6366f1"
)

// Settings is the user's preference record. Field names in JSON match the
// keys the web client stores, so a settings file can be shared.
type Settings struct {
	DarkMode          bool   `json:"darkMode"`
	ThemeColor        string `json:"themeColor"`
	Language          string `json:"language"`
	Avatar            string `json:"avatar"`
	Notifications     bool   `json:"notifications"`
	SoundEffects      bool   `json:"soundEffects"`
	DailyReminderTime string `json:"dailyReminderTime"`
	CustomThemeColors bool   `json:"customThemeColors"`
	CustomColor       string `json:"customColor"`
	ShowChampionBadge bool   `json:"showChampionBadge"`
}

func Defaults() Settings {
	return Settings{
		ThemeColor:        DefaultThemeColor,
		Language:          DefaultLanguage,
		Avatar:            DefaultAvatar,
		SoundEffects:      true,
		DailyReminderTime: "09:00",
		CustomColor:       DefaultColor,
	}
}

// Gate reports whether the achievement owning a gated value has been
// unlocked and claimed.
type Gate interface {
	Permits(id model.AchievementID) bool
}

type GateFunc func(id model.AchievementID) bool

func (f GateFunc) Permits(id model.AchievementID) bool { return f(id) }

type gatedValue struct {
	field string
	owner model.AchievementID
	holds func(Settings) bool
	reset func(*Settings)
}

var gatedValues = []gatedValue{
	{"avatar", model.AchievementConsistencyKing, func(s Settings) bool { return s.Avatar == "crown" }, resetAvatar},
	{"avatar", model.AchievementZenMind, func(s Settings) bool { return s.Avatar == "zen" }, resetAvatar},
	{"avatar", model.AchievementFocusMaster, func(s Settings) bool { return s.Avatar == "productivity" }, resetAvatar},
	{"themeColor", model.AchievementEarlyBird, func(s Settings) bool { return s.ThemeColor == "morning" }, resetTheme},
	{"themeColor", model.AchievementNightOwl, func(s Settings) bool { return s.ThemeColor == "night" }, resetTheme},
	{"themeColor", model.AchievementStreakMaster, func(s Settings) bool { return s.ThemeColor == "gold" }, resetTheme},
	{"customThemeColors", model.AchievementHabitBreaker, func(s Settings) bool { return s.CustomThemeColors }, func(s *Settings) { s.CustomThemeColors = false }},
	{"showChampionBadge", model.AchievementTaskChampion, func(s Settings) bool { return s.ShowChampionBadge }, func(s *Settings) { s.ShowChampionBadge = false }},
}

func resetAvatar(s *Settings) { s.Avatar = DefaultAvatar }
func resetTheme(s *Settings)  { s.ThemeColor = DefaultThemeColor }

func permits(gate Gate, id model.AchievementID) bool {
	return gate != nil && gate.Permits(id)
}

// checkGated returns ErrLocked naming the first gated value in s whose owner
// has not been claimed.
func checkGated(s Settings, gate Gate) error {
	for _, g := range gatedValues {
		if g.holds(s) && !permits(gate, g.owner) {
			return fmt.Errorf("%w: %s requires %s", ErrLocked, g.field, g.owner)
		}
	}
	return nil
}

// Sanitize resets every gated value whose owner has not been claimed and
// returns the names of the fields it reset.
func Sanitize(s Settings, gate Gate) (Settings, []string) {
	var reset []string
	for _, g := range gatedValues {
		if g.holds(s) && !permits(gate, g.owner) {
			g.reset(&s)
			reset = append(reset, g.field)
		}
	}
	if strings.TrimSpace(s.Language) == "" {
		s.Language = DefaultLanguage
	}
	if s.DailyReminderTime != "" {
		if _, _, err := model.ParseClock(s.DailyReminderTime); err != nil {
			s.DailyReminderTime = ""
			reset = append(reset, "dailyReminderTime")
		}
	}
	return s, reset
}

func validate(s Settings) error {
	if s.DailyReminderTime != "" {
		if _, _, err := model.ParseClock(s.DailyReminderTime); err != nil {
			return fmt.Errorf("%w: dailyReminderTime %q", ErrInvalidValue, s.DailyReminderTime)
		}
	}
	if strings.TrimSpace(s.Language) == "" {
		return fmt.Errorf("%w: language is required", ErrInvalidValue)
	}
	return nil
}
