// Package app wires storage, settings, achievements and the notification
// scheduler into one running instance for a single user.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/achievement"
	"github.com/sandeepkv93/lifeboard/internal/clock"
	"github.com/sandeepkv93/lifeboard/internal/config"
	"github.com/sandeepkv93/lifeboard/internal/desktop"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/scheduler"
	"github.com/sandeepkv93/lifeboard/internal/settings"
	"github.com/sandeepkv93/lifeboard/internal/storage"
	"github.com/sandeepkv93/lifeboard/internal/views"
)

const historyLimit = 40

type Options struct {
	Clock    clock.Clock
	Platform scheduler.Platform
	Sound    scheduler.SoundPlayer
	Logger   *log.Logger
	Location *time.Location
}

type App struct {
	Config    config.RuntimeConfig
	Repo      *storage.SQLiteRepository
	Settings  *settings.Store
	Tracker   *achievement.Tracker
	Claimer   *achievement.Claimer
	Scheduler *scheduler.Scheduler
	Theme     *views.Theme

	Notices      *events.Bus[events.Notice]
	TasksChanged *events.Bus[events.TasksChanged]
	Invalidated  *events.Bus[events.AchievementsInvalidated]

	clock  clock.Clock
	loc    *time.Location
	logger *log.Logger
	userID string
	unsubs []func()
}

// Open builds an App from cfg. Claims are loaded before settings so gated
// values the user has earned survive the load check.
func Open(ctx context.Context, cfg config.RuntimeConfig, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &App{
		Config:       cfg,
		Notices:      events.NewBus[events.Notice](),
		TasksChanged: events.NewBus[events.TasksChanged](),
		Invalidated:  events.NewBus[events.AchievementsInvalidated](),
		clock:        opts.Clock,
		loc:          opts.Location,
		logger:       opts.Logger,
		userID:       cfg.UserID,
	}
	if a.clock == nil {
		a.clock = clock.Real()
	}
	if a.loc == nil {
		a.loc = time.Local
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("app: open database: %w", err)
	}
	a.Repo = repo

	a.Tracker = achievement.NewTracker(repo, cfg.UserID, a.loc)
	if err := a.Tracker.Refresh(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}

	st, err := settings.Open(cfg.SettingsPath, a.Tracker, a.logger)
	if err != nil {
		_ = repo.Close()
		return nil, fmt.Errorf("app: open settings: %w", err)
	}
	a.Settings = st
	cur := st.Get()
	a.Theme = views.NewTheme(cur.ThemeColor, cur.DarkMode)
	a.Theme.Sync(cur.ThemeColor, cur.DarkMode, cur.CustomThemeColors, cur.CustomColor)

	a.Claimer = achievement.NewClaimer(achievement.ClaimerOptions{
		Store:       repo,
		Tracker:     a.Tracker,
		Applier:     achievement.NewApplier(st, a.Theme, a.logger),
		Clock:       a.clock,
		Notices:     a.Notices,
		Invalidated: a.Invalidated,
		Logger:      a.logger,
	})

	platform, sound := opts.Platform, opts.Sound
	if platform == nil {
		platform, sound = defaultPlatform(cfg)
	}
	a.Scheduler = scheduler.New(scheduler.Options{
		Clock:        a.clock,
		Platform:     platform,
		Sound:        sound,
		Tasks:        TaskFeed{Repo: repo, UserID: cfg.UserID},
		Settings:     st,
		Notices:      a.Notices,
		Logger:       a.logger,
		PollInterval: cfg.PollInterval(),
		Grace:        cfg.Grace(),
		Horizon:      cfg.Horizon(),
		DedupWindow:  cfg.DedupWindow(),
	})

	a.unsubs = append(a.unsubs,
		st.Subscribe(func(c settings.Change) {
			s := c.Current
			a.Theme.Sync(s.ThemeColor, s.DarkMode, s.CustomThemeColors, s.CustomColor)
		}),
		a.TasksChanged.Subscribe(func(events.TasksChanged) { a.onRecordsChanged() }),
		a.Invalidated.Subscribe(func(events.AchievementsInvalidated) { a.refreshAchievements() }),
	)
	return a, nil
}

func defaultPlatform(cfg config.RuntimeConfig) (scheduler.Platform, scheduler.SoundPlayer) {
	if cfg.DesktopNotifications {
		return desktop.NewExecPlatform("lifeboard", cfg.NotificationIcon), desktop.NewExecSound(cfg.SoundPath)
	}
	return desktop.NewMemory(scheduler.PermissionGranted, historyLimit), nil
}

// Start restores notification state: when notifications were left on, the
// platform is asked again so timers can be armed.
func (a *App) Start(ctx context.Context) {
	if a.Settings.Get().Notifications && a.Scheduler.State() != scheduler.StateGranted {
		if _, err := a.Scheduler.RequestPermission(ctx); err != nil {
			a.logger.Printf("app: restore notification permission: %v", err)
		}
	}
	a.Scheduler.Reconcile(ctx)
}

func (a *App) UserID() string { return a.userID }

func (a *App) Now() time.Time { return a.clock.Now().In(a.loc) }

func (a *App) Location() *time.Location { return a.loc }

func (a *App) Notify(level events.Level, text string) {
	a.Notices.Publish(events.Notice{Level: level, Text: text, At: a.clock.Now()})
}

func (a *App) onRecordsChanged() {
	ctx := context.Background()
	a.refreshAchievements()
	if err := a.Scheduler.RefreshTasks(ctx); err != nil {
		a.logger.Printf("app: refresh reminders: %v", err)
	}
}

func (a *App) refreshAchievements() {
	if err := a.Tracker.Refresh(context.Background()); err != nil {
		a.logger.Printf("app: refresh achievements: %v", err)
	}
}

func (a *App) Close() error {
	for _, unsub := range a.unsubs {
		unsub()
	}
	a.unsubs = nil
	a.Scheduler.Close()
	return a.Repo.Close()
}

// OpenLogger returns a logger appending to path, or a discarding logger when
// path is empty.
func OpenLogger(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.New(io.Discard, "", 0), nopCloser{}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return log.New(f, "lifeboard ", log.LstdFlags), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
