package achievement

import (
	"io"
	"log"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

// SettingsWriter is the part of settings.Store rewards write through.
type SettingsWriter interface {
	SetThemeColor(v string) error
	SetDarkMode(v bool) error
	SetAvatar(v string) error
	SetShowChampionBadge(v bool) error
	SetCustomThemeColors(v bool) error
}

// ThemeSink receives visual side effects that must show immediately, ahead
// of any settings listener.
type ThemeSink interface {
	SetThemeAttribute(color string)
	SetDarkMode(on bool)
}

// Applier turns a claimed achievement into its settings rewards.
type Applier struct {
	settings SettingsWriter
	sink     ThemeSink
	logger   *log.Logger
}

func NewApplier(settings SettingsWriter, sink ThemeSink, logger *log.Logger) *Applier {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Applier{settings: settings, sink: sink, logger: logger}
}

// Apply writes each reward field separately. Write failures are logged and
// do not stop the remaining writes.
func (a *Applier) Apply(id model.AchievementID) {
	switch id {
	case model.AchievementEarlyBird:
		a.write("themeColor", a.settings.SetThemeColor("morning"))
		a.theme("morning", false)
	case model.AchievementNightOwl:
		a.write("themeColor", a.settings.SetThemeColor("night"))
		a.write("darkMode", a.settings.SetDarkMode(true))
		a.theme("night", true)
	case model.AchievementZenMind:
		a.write("avatar", a.settings.SetAvatar("zen"))
	case model.AchievementFocusMaster:
		a.write("avatar", a.settings.SetAvatar("productivity"))
	case model.AchievementStreakMaster:
		a.write("themeColor", a.settings.SetThemeColor("gold"))
		a.theme("gold", false)
	case model.AchievementTaskChampion:
		a.write("showChampionBadge", a.settings.SetShowChampionBadge(true))
	case model.AchievementHabitBreaker:
		a.write("customThemeColors", a.settings.SetCustomThemeColors(true))
	case model.AchievementConsistencyKing:
		a.write("avatar", a.settings.SetAvatar("crown"))
	default:
		a.logger.Printf("achievement: no reward for %q", id)
	}
}

func (a *Applier) write(field string, err error) {
	if err != nil {
		a.logger.Printf("achievement: apply reward %s: %v", field, err)
	}
}

func (a *Applier) theme(color string, dark bool) {
	if a.sink == nil {
		return
	}
	a.sink.SetThemeAttribute(color)
	if dark {
		a.sink.SetDarkMode(true)
	}
}
