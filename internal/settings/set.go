package settings

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField       = errors.New("settings: unknown field")
	ErrPermissionRequired = errors.New(`settings: notifications need permission, use "notify on"`)
)

// fieldAliases maps accepted spellings to the JSON key of each field.
var fieldAliases = map[string]string{
	"darkmode":          "darkMode",
	"dark":              "darkMode",
	"themecolor":        "themeColor",
	"theme":             "themeColor",
	"language":          "language",
	"lang":              "language",
	"avatar":            "avatar",
	"notifications":     "notifications",
	"soundeffects":      "soundEffects",
	"sound":             "soundEffects",
	"dailyremindertime": "dailyReminderTime",
	"remind":            "dailyReminderTime",
	"customthemecolors": "customThemeColors",
	"customtheme":       "customThemeColors",
	"customcolor":       "customColor",
	"color":             "customColor",
	"showchampionbadge": "showChampionBadge",
	"badge":             "showChampionBadge",
}

// Fields lists the settings keys in display order.
func Fields() []string {
	return []string{
		"darkMode", "themeColor", "language", "avatar", "notifications", "soundEffects",
		"dailyReminderTime", "customThemeColors", "customColor", "showChampionBadge",
	}
}

// CanonicalField resolves a user-typed field name to its settings key.
func CanonicalField(name string) (string, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(name)))
	field, ok := fieldAliases[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return field, nil
}

// Set writes one field from its text form, as typed in a command.
// Notifications can only be switched off here; switching them on goes
// through the scheduler's permission request.
func (s *Store) Set(name, value string) error {
	field, err := CanonicalField(name)
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	switch field {
	case "darkMode":
		return setBool(value, s.SetDarkMode)
	case "themeColor":
		return s.SetThemeColor(strings.ToLower(value))
	case "language":
		return s.SetLanguage(value)
	case "avatar":
		return s.SetAvatar(strings.ToLower(value))
	case "notifications":
		return setBool(value, func(on bool) error {
			if on {
				return ErrPermissionRequired
			}
			return s.SetNotifications(false)
		})
	case "soundEffects":
		return setBool(value, s.SetSoundEffects)
	case "dailyReminderTime":
		if strings.EqualFold(value, "off") {
			value = ""
		}
		return s.SetDailyReminderTime(value)
	case "customThemeColors":
		return setBool(value, s.SetCustomThemeColors)
	case "customColor":
		return s.SetCustomColor(value)
	case "showChampionBadge":
		return setBool(value, s.SetShowChampionBadge)
	}
	return fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Value renders one field for display.
func (v Settings) Value(field string) string {
	switch field {
	case "darkMode":
		return onOff(v.DarkMode)
	case "themeColor":
		return v.ThemeColor
	case "language":
		return v.Language
	case "avatar":
		return v.Avatar
	case "notifications":
		return onOff(v.Notifications)
	case "soundEffects":
		return onOff(v.SoundEffects)
	case "dailyReminderTime":
		if v.DailyReminderTime == "" {
			return "off"
		}
		return v.DailyReminderTime
	case "customThemeColors":
		return onOff(v.CustomThemeColors)
	case "customColor":
		return v.CustomColor
	case "showChampionBadge":
		return onOff(v.ShowChampionBadge)
	default:
		return ""
	}
}

func setBool(raw string, set func(bool) error) error {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return set(true)
	case "0", "false", "no", "n", "off":
		return set(false)
	default:
		return fmt.Errorf("%w: %q is not on or off", ErrInvalidValue, raw)
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// FieldLocked reports whether none of the gated values of field have been
// earned yet. Fields without gated values are never locked.
func FieldLocked(field string, gate Gate) bool {
	gated := false
	for _, g := range gatedValues {
		if g.field != field {
			continue
		}
		gated = true
		if permits(gate, g.owner) {
			return false
		}
	}
	return gated
}
