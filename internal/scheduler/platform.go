package scheduler

import (
	"context"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
)

// Permission is what the platform reports for notification access.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Notification is one message handed to the platform.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Platform delivers local notifications.
type Platform interface {
	Permission() Permission
	RequestPermission(ctx context.Context) (Permission, error)
	Show(n Notification) error
}

type SoundPlayer interface {
	Play() error
}

// TaskSource returns the user's tasks that may need a reminder.
type TaskSource interface {
	UpcomingTasks(ctx context.Context) ([]model.Task, error)
}

// SettingsSource is the part of settings.Store the scheduler reads and
// writes.
type SettingsSource interface {
	Get() settings.Settings
	SetNotifications(v bool) error
	Subscribe(fn func(settings.Change)) func()
}

// NextDailyOccurrence returns the next time the wall clock in now's location
// reads hhmm. A time equal to now rolls over to the following day.
func NextDailyOccurrence(now time.Time, hhmm string) (time.Time, error) {
	hour, minute, err := model.ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := now.Date()
	next := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return next, nil
}
