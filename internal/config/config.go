// Package config resolves runtime configuration from defaults, an optional
// TOML file, a .env file and LIFEBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type RuntimeConfig struct {
	DBPath               string `toml:"db_path"`
	SettingsPath         string `toml:"settings_path"`
	UserID               string `toml:"user_id"`
	LogPath              string `toml:"log_path"`
	PollIntervalSeconds  int    `toml:"poll_interval_seconds"`
	GraceMinutes         int    `toml:"grace_minutes"`
	HorizonHours         int    `toml:"horizon_hours"`
	DedupWindowSeconds   int    `toml:"dedup_window_seconds"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	SoundPath            string `toml:"sound_path"`
	NotificationIcon     string `toml:"notification_icon"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "lifeboard.db",
		SettingsPath:         "lifeboard_settings.json",
		UserID:               "local",
		LogPath:              "lifeboard.log",
		PollIntervalSeconds:  60,
		GraceMinutes:         15,
		HorizonHours:         24,
		DedupWindowSeconds:   10,
		DesktopNotifications: false,
	}
}

func (c RuntimeConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c RuntimeConfig) Grace() time.Duration {
	return time.Duration(c.GraceMinutes) * time.Minute
}

func (c RuntimeConfig) Horizon() time.Duration {
	return time.Duration(c.HorizonHours) * time.Hour
}

func (c RuntimeConfig) DedupWindow() time.Duration {
	return time.Duration(c.DedupWindowSeconds) * time.Second
}

func (c RuntimeConfig) Validate() error {
	var problems []string
	if strings.TrimSpace(c.DBPath) == "" {
		problems = append(problems, "db_path is required")
	}
	if strings.TrimSpace(c.UserID) == "" {
		problems = append(problems, "user_id is required")
	}
	if c.PollIntervalSeconds <= 0 {
		problems = append(problems, "poll_interval_seconds must be greater than 0")
	}
	if c.GraceMinutes <= 0 {
		problems = append(problems, "grace_minutes must be greater than 0")
	}
	if c.HorizonHours <= 0 {
		problems = append(problems, "horizon_hours must be greater than 0")
	}
	if c.DedupWindowSeconds <= 0 {
		problems = append(problems, "dedup_window_seconds must be greater than 0")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Load resolves the full configuration. Values from path override the
// defaults, and environment variables override the file. An empty path falls
// back to LIFEBOARD_CONFIG; a missing file is not an error.
func Load(path string) (RuntimeConfig, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return RuntimeConfig{}, err
	}
	if strings.TrimSpace(path) == "" {
		path = os.Getenv("LIFEBOARD_CONFIG")
	}
	cfg, err := LoadFile(path, DefaultRuntimeConfig())
	if err != nil {
		return RuntimeConfig{}, err
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, err
	}
	return cfg, nil
}

// LoadFile overlays the TOML file at path onto base.
func LoadFile(path string, base RuntimeConfig) (RuntimeConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return RuntimeConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := base
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return RuntimeConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// WriteFile saves cfg as TOML.
func WriteFile(path string, cfg RuntimeConfig) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// LoadDotEnv loads each existing file into the environment. Variables that
// are already set keep their values.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("LIFEBOARD_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("LIFEBOARD_SETTINGS_PATH"); ok {
		cfg.SettingsPath = v
	}
	if v, ok := getEnvString("LIFEBOARD_USER_ID"); ok {
		cfg.UserID = v
	}
	if v, ok := getEnvString("LIFEBOARD_LOG_PATH"); ok {
		cfg.LogPath = v
	}
	if v, ok := getEnvInt("LIFEBOARD_POLL_INTERVAL_SECONDS"); ok && v > 0 {
		cfg.PollIntervalSeconds = v
	}
	if v, ok := getEnvInt("LIFEBOARD_GRACE_MINUTES"); ok && v > 0 {
		cfg.GraceMinutes = v
	}
	if v, ok := getEnvInt("LIFEBOARD_HORIZON_HOURS"); ok && v > 0 {
		cfg.HorizonHours = v
	}
	if v, ok := getEnvInt("LIFEBOARD_DEDUP_WINDOW_SECONDS"); ok && v > 0 {
		cfg.DedupWindowSeconds = v
	}
	if v, ok := getEnvBool("LIFEBOARD_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvString("LIFEBOARD_SOUND_PATH"); ok {
		cfg.SoundPath = v
	}
	if v, ok := getEnvString("LIFEBOARD_NOTIFICATION_ICON"); ok {
		cfg.NotificationIcon = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
