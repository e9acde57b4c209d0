// Package scheduler arms, deduplicates and fires local notifications for the
// daily reminder and for upcoming tasks.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/clock"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
)

// State is the scheduler's view of notification permission.
type State string

const (
	StateUnknown   State = "unknown"
	StateRequested State = "requested"
	StateGranted   State = "granted"
	StateDenied    State = "denied"
)

const (
	DefaultPollInterval = 60 * time.Second
	DefaultGrace        = 15 * time.Minute
	DefaultHorizon      = 24 * time.Hour
	DefaultDedupWindow  = 10 * time.Second

	dailyKey      = "daily"
	taskKeyPrefix = "task:"
	fetchTimeout  = 10 * time.Second
)

type Options struct {
	Clock        clock.Clock
	Platform     Platform
	Sound        SoundPlayer
	Tasks        TaskSource
	Settings     SettingsSource
	Notices      *events.Bus[events.Notice]
	Logger       *log.Logger
	PollInterval time.Duration
	Grace        time.Duration
	Horizon      time.Duration
	DedupWindow  time.Duration
}

// Status is a snapshot for display.
type Status struct {
	State       State
	Active      bool
	Polling     bool
	TaskTimers  int
	DailyArmed  bool
	NextDaily   time.Time
	LastFetchOK bool
}

type Scheduler struct {
	clock    clock.Clock
	platform Platform
	sound    SoundPlayer
	tasks    TaskSource
	settings SettingsSource
	notices  *events.Bus[events.Notice]
	fired    *events.Bus[model.Reminder]
	logger   *log.Logger

	pollInterval time.Duration
	grace        time.Duration
	horizon      time.Duration

	registry *Registry
	dedup    *Dedup

	mu          sync.Mutex
	state       State
	poll        *clock.Repeating
	notified    map[string]time.Time
	rebuildGen  uint64
	nextDaily   time.Time
	lastFetchOK bool
	unsubscribe func()
	closed      bool
}

func New(opts Options) *Scheduler {
	s := &Scheduler{
		clock:        opts.Clock,
		platform:     opts.Platform,
		sound:        opts.Sound,
		tasks:        opts.Tasks,
		settings:     opts.Settings,
		notices:      opts.Notices,
		fired:        events.NewBus[model.Reminder](),
		logger:       opts.Logger,
		pollInterval: opts.PollInterval,
		grace:        opts.Grace,
		horizon:      opts.Horizon,
		notified:     make(map[string]time.Time),
		lastFetchOK:  true,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.notices == nil {
		s.notices = events.NewBus[events.Notice]()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	if s.pollInterval <= 0 {
		s.pollInterval = DefaultPollInterval
	}
	if s.grace <= 0 {
		s.grace = DefaultGrace
	}
	if s.horizon <= 0 {
		s.horizon = DefaultHorizon
	}
	window := opts.DedupWindow
	if window <= 0 {
		window = DefaultDedupWindow
	}
	s.registry = NewRegistry(s.clock)
	s.dedup = NewDedup(s.clock, window)

	s.state = StateUnknown
	if s.platform != nil {
		switch s.platform.Permission() {
		case PermissionGranted:
			s.state = StateGranted
		case PermissionDenied:
			s.state = StateDenied
		}
	}
	if s.settings != nil {
		s.unsubscribe = s.settings.Subscribe(s.onSettingsChange)
	}
	return s
}

// OnFired registers fn for every notification the platform accepted.
func (s *Scheduler) OnFired(fn func(model.Reminder)) func() {
	return s.fired.Subscribe(fn)
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		State:       s.state,
		Active:      s.activeLocked(),
		Polling:     s.poll != nil,
		TaskTimers:  s.registry.CountPrefix(taskKeyPrefix),
		DailyArmed:  s.registry.Has(dailyKey),
		NextDaily:   s.nextDaily,
		LastFetchOK: s.lastFetchOK,
	}
}

// RequestPermission asks the platform for notification access. A grant
// turns notifications on and arms every timer; a denial turns them off and
// clears every timer. A platform error leaves the previous state in place.
func (s *Scheduler) RequestPermission(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.closed || s.platform == nil || s.settings == nil {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	prev := s.state
	s.state = StateRequested
	s.mu.Unlock()

	perm, err := s.platform.RequestPermission(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = prev
		s.mu.Unlock()
		s.logger.Printf("scheduler: request permission: %v", err)
		s.notify(events.LevelWarning, fmt.Sprintf("Could not request notification permission: %v", err), false)
		return prev, err
	}

	switch perm {
	case PermissionGranted:
		s.setState(StateGranted)
		if err := s.settings.SetNotifications(true); err != nil {
			s.logger.Printf("scheduler: enable notifications: %v", err)
		}
		s.Reconcile(ctx)
		s.notify(events.LevelSuccess, "Notifications enabled.", false)
		return StateGranted, nil
	case PermissionDenied:
		s.setState(StateDenied)
		s.teardownTimers()
		if err := s.settings.SetNotifications(false); err != nil {
			s.logger.Printf("scheduler: disable notifications: %v", err)
		}
		s.notify(events.LevelWarning, "Notifications are blocked. Allow them in your system settings to get reminders.", true)
		return StateDenied, nil
	default:
		s.setState(StateUnknown)
		return StateUnknown, nil
	}
}

// Reconcile brings timers and polling in line with the current settings and
// permission: everything is armed when notifications are enabled and
// permitted, and cleared otherwise.
func (s *Scheduler) Reconcile(ctx context.Context) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.activeLocked() {
		s.mu.Unlock()
		s.teardownTimers()
		return
	}
	s.ensurePollLocked()
	s.mu.Unlock()

	if err := s.ScheduleDailyReminder(); err != nil {
		s.logger.Printf("scheduler: daily reminder: %v", err)
	}
	if err := s.RefreshTasks(ctx); err != nil {
		s.logger.Printf("scheduler: refresh tasks: %v", err)
	}
}

// ScheduleDailyReminder cancels any daily timer and arms the next one when
// notifications are active and a reminder time is configured.
func (s *Scheduler) ScheduleDailyReminder() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Cancel(dailyKey)
	s.nextDaily = time.Time{}
	if s.closed || !s.activeLocked() {
		return nil
	}
	hhmm := s.settings.Get().DailyReminderTime
	if hhmm == "" {
		return nil
	}
	now := s.clock.Now()
	next, err := NextDailyOccurrence(now, hhmm)
	if err != nil {
		return err
	}
	s.nextDaily = next
	s.registry.Schedule(dailyKey, next.Sub(now), s.fireDaily)
	return nil
}

func (s *Scheduler) fireDaily() {
	s.deliver(model.Reminder{
		Kind:  model.ReminderDaily,
		Title: "Daily reminder",
		Body:  "Time to review your tasks and habits for today.",
	})
	if err := s.ScheduleDailyReminder(); err != nil {
		s.logger.Printf("scheduler: reschedule daily reminder: %v", err)
	}
}

// ScheduleTaskReminders replaces every task timer with timers for tasks.
// Tasks due within the horizon get a timer; tasks overdue by no more than
// the grace window fire now. A task fires at most once per scheduled time.
func (s *Scheduler) ScheduleTaskReminders(tasks []model.Task) {
	s.mu.Lock()
	s.rebuildGen++
	overdue := s.rebuildTaskTimersLocked(tasks)
	s.mu.Unlock()

	for _, r := range overdue {
		s.deliver(r)
	}
}

// rebuildTaskTimersLocked re-arms task timers and returns the overdue
// reminders to deliver once the lock is released.
func (s *Scheduler) rebuildTaskTimersLocked(tasks []model.Task) []model.Reminder {
	s.registry.CancelPrefix(taskKeyPrefix)
	if s.closed || !s.activeLocked() {
		return nil
	}

	now := s.clock.Now()
	seen := make(map[string]bool, len(tasks))
	var overdue []model.Reminder
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		if task.ScheduledAt == nil || task.ScheduledAt.IsZero() {
			s.logger.Printf("scheduler: task %s has no usable scheduled time", task.ID)
			continue
		}
		due := *task.ScheduledAt
		seen[task.ID] = true
		if last, ok := s.notified[task.ID]; ok && last.Equal(due) {
			continue
		}
		delay := due.Sub(now)
		switch {
		case delay > 0 && delay <= s.horizon:
			t := task
			s.registry.Schedule(taskKeyPrefix+task.ID, delay, func() { s.fireTask(t, due) })
		case delay <= 0 && -delay <= s.grace:
			s.notified[task.ID] = due
			overdue = append(overdue, model.Reminder{
				Kind:   model.ReminderOverdue,
				TaskID: task.ID,
				Title:  "Overdue: " + task.Title,
				Body:   "Was due at " + due.In(now.Location()).Format("15:04"),
			})
		}
	}
	for id := range s.notified {
		if !seen[id] {
			delete(s.notified, id)
		}
	}
	return overdue
}

func (s *Scheduler) fireTask(task model.Task, due time.Time) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if last, ok := s.notified[task.ID]; ok && last.Equal(due) {
		s.mu.Unlock()
		return
	}
	s.notified[task.ID] = due
	loc := s.clock.Now().Location()
	s.mu.Unlock()

	s.deliver(model.Reminder{
		Kind:   model.ReminderTask,
		TaskID: task.ID,
		Title:  "Upcoming: " + task.Title,
		Body:   "Scheduled for " + due.In(loc).Format("15:04"),
	})
}

// RefreshTasks fetches tasks and rebuilds task timers. On a fetch error the
// existing timers are kept. A fetch that completes after a newer rebuild
// has started is discarded.
func (s *Scheduler) RefreshTasks(ctx context.Context) error {
	if s.tasks == nil {
		return nil
	}
	s.mu.Lock()
	if s.closed || !s.activeLocked() {
		s.mu.Unlock()
		return nil
	}
	s.rebuildGen++
	gen := s.rebuildGen
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()
	tasks, err := s.tasks.UpcomingTasks(ctx)

	s.mu.Lock()
	if gen != s.rebuildGen {
		s.mu.Unlock()
		return nil
	}
	wasOK := s.lastFetchOK
	s.lastFetchOK = err == nil
	if err != nil {
		s.mu.Unlock()
		if wasOK {
			s.notify(events.LevelWarning, fmt.Sprintf("Could not load tasks for reminders: %v", err), false)
		}
		return fmt.Errorf("scheduler: fetch tasks: %w", err)
	}
	overdue := s.rebuildTaskTimersLocked(tasks)
	s.mu.Unlock()

	for _, r := range overdue {
		s.deliver(r)
	}
	return nil
}

func (s *Scheduler) pollOnce() {
	if err := s.RefreshTasks(context.Background()); err != nil {
		s.logger.Printf("scheduler: poll: %v", err)
	}
}

// deliver shows r unless it is malformed or an identical notification is
// active.
func (s *Scheduler) deliver(r model.Reminder) bool {
	if s.platform == nil {
		return false
	}
	r.FiredAt = s.clock.Now()
	if err := r.Validate(); err != nil {
		s.logger.Printf("scheduler: drop reminder %q: %v", r.Title, err)
		return false
	}
	if !s.dedup.Acquire(r.Title, r.Body) {
		s.logger.Printf("scheduler: suppressed duplicate %q", r.Title)
		return false
	}
	if err := s.platform.Show(Notification{Title: r.Title, Body: r.Body, Tag: r.TaskID}); err != nil {
		s.dedup.Release(r.Title, r.Body)
		s.logger.Printf("scheduler: show %q: %v", r.Title, err)
		s.notify(events.LevelError, fmt.Sprintf("Could not show notification: %v", err), false)
		return false
	}
	if s.sound != nil && s.settings != nil && s.settings.Get().SoundEffects {
		if err := s.sound.Play(); err != nil {
			s.logger.Printf("scheduler: play sound: %v", err)
			s.notify(events.LevelWarning, fmt.Sprintf("Notification sound failed: %v", err), false)
		}
	}
	s.fired.Publish(r)
	return true
}

func (s *Scheduler) onSettingsChange(c settings.Change) {
	if c.Previous.Notifications == c.Current.Notifications &&
		c.Previous.DailyReminderTime == c.Current.DailyReminderTime {
		return
	}
	s.Reconcile(context.Background())
}

// Close stops polling and cancels every timer. The scheduler is unusable
// afterwards.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	s.teardownTimers()
	s.dedup.Clear()
}

func (s *Scheduler) teardownTimers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poll != nil {
		s.poll.Stop()
		s.poll = nil
	}
	s.registry.Clear()
	s.nextDaily = time.Time{}
}

func (s *Scheduler) ensurePollLocked() {
	if s.poll == nil {
		s.poll = clock.Repeat(s.clock, s.pollInterval, s.pollOnce)
	}
}

func (s *Scheduler) activeLocked() bool {
	if s.state != StateGranted || s.settings == nil {
		return false
	}
	return s.settings.Get().Notifications
}

func (s *Scheduler) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Scheduler) notify(level events.Level, text string, persistent bool) {
	s.notices.Publish(events.Notice{Level: level, Text: text, Persistent: persistent, At: s.clock.Now()})
}
