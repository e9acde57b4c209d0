package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/clock"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
)

type memPlatform struct {
	mu        sync.Mutex
	perm      Permission
	reqResult Permission
	reqErr    error
	showErr   error
	shown     []Notification
}

func (p *memPlatform) Permission() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.perm
}

func (p *memPlatform) RequestPermission(context.Context) (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.reqErr != nil {
		return "", p.reqErr
	}
	p.perm = p.reqResult
	return p.perm, nil
}

func (p *memPlatform) Show(n Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.showErr != nil {
		return p.showErr
	}
	p.shown = append(p.shown, n)
	return nil
}

func (p *memPlatform) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.shown)
}

type memSound struct {
	plays int
	err   error
}

func (s *memSound) Play() error {
	s.plays++
	return s.err
}

type taskList struct {
	mu    sync.Mutex
	tasks []model.Task
	err   error
	calls int
}

func (l *taskList) UpcomingTasks(context.Context) ([]model.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	out := make([]model.Task, len(l.tasks))
	copy(out, l.tasks)
	return out, nil
}

func (l *taskList) set(tasks []model.Task, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tasks = tasks
	l.err = err
}

// stalledTasks holds its first fetch until release is closed.
type stalledTasks struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
	first   []model.Task
	later   []model.Task
}

func (l *stalledTasks) UpcomingTasks(context.Context) ([]model.Task, error) {
	l.mu.Lock()
	l.calls++
	n := l.calls
	l.mu.Unlock()
	if n == 1 {
		close(l.entered)
		<-l.release
		return l.first, nil
	}
	return l.later, nil
}

type fixture struct {
	clock    *clock.Fake
	platform *memPlatform
	sound    *memSound
	tasks    *taskList
	settings *settings.Store
	sched    *Scheduler
	notices  []events.Notice
	fired    []model.Reminder
}

var start = time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T, perm Permission, notificationsOn bool) *fixture {
	t.Helper()
	st, err := settings.Open("", nil, nil)
	if err != nil {
		t.Fatalf("open settings: %v", err)
	}
	if err := st.SetNotifications(notificationsOn); err != nil {
		t.Fatalf("set notifications: %v", err)
	}
	if err := st.SetDailyReminderTime(""); err != nil {
		t.Fatalf("clear reminder time: %v", err)
	}

	f := &fixture{
		clock:    clock.NewFake(start),
		platform: &memPlatform{perm: perm},
		sound:    &memSound{},
		tasks:    &taskList{},
		settings: st,
	}
	notices := events.NewBus[events.Notice]()
	notices.Subscribe(func(n events.Notice) { f.notices = append(f.notices, n) })
	f.sched = New(Options{
		Clock:    f.clock,
		Platform: f.platform,
		Sound:    f.sound,
		Tasks:    f.tasks,
		Settings: st,
		Notices:  notices,
	})
	f.sched.OnFired(func(r model.Reminder) { f.fired = append(f.fired, r) })
	t.Cleanup(f.sched.Close)
	return f
}

func task(id, title string, due time.Time) model.Task {
	return model.Task{ID: id, UserID: "u", Title: title, Priority: model.PriorityMedium, ScheduledAt: &due, CreatedAt: start}
}

func TestNextDailyOccurrence(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2026, 2, 9, 8, 0, 0, 0, time.UTC), time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC)},
		{time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC), time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := NextDailyOccurrence(tc.now, "09:00")
		if err != nil {
			t.Fatalf("next occurrence: %v", err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("now %v: expected %v, got %v", tc.now, tc.want, got)
		}
	}
	if _, err := NextDailyOccurrence(start, "9am"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestTaskInThirtyMinutesArmsOneTimer(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	f.sched.ScheduleTaskReminders([]model.Task{task("t1", "Standup", start.Add(30*time.Minute))})

	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("expected 1 task timer, got %d", got)
	}
	f.clock.Advance(29 * time.Minute)
	if f.platform.count() != 0 {
		t.Fatal("reminder fired early")
	}
	f.clock.Advance(time.Minute)
	if f.platform.count() != 1 || f.platform.shown[0].Title != "Upcoming: Standup" {
		t.Fatalf("unexpected notifications: %#v", f.platform.shown)
	}
	if len(f.fired) != 1 || f.fired[0].Kind != model.ReminderTask || !f.fired[0].FiredAt.Equal(start.Add(30*time.Minute)) {
		t.Fatalf("unexpected fired reminders: %#v", f.fired)
	}
}

func TestRebuildsNeverFireTwice(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	tasks := []model.Task{task("t1", "Standup", start.Add(30*time.Minute))}
	for i := 0; i < 3; i++ {
		f.sched.ScheduleTaskReminders(tasks)
	}
	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("expected 1 task timer after rebuilds, got %d", got)
	}

	f.clock.Advance(30 * time.Minute)
	f.sched.ScheduleTaskReminders(tasks)
	f.clock.Advance(time.Hour)
	f.sched.ScheduleTaskReminders(tasks)

	if f.platform.count() != 1 {
		t.Fatalf("expected exactly one notification, got %d", f.platform.count())
	}
}

func TestOverdueGraceWindow(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	tasks := []model.Task{
		task("recent", "Recent", start.Add(-10*time.Minute)),
		task("stale", "Stale", start.Add(-20*time.Minute)),
	}
	f.sched.ScheduleTaskReminders(tasks)
	f.sched.ScheduleTaskReminders(tasks)

	if f.platform.count() != 1 || f.platform.shown[0].Title != "Overdue: Recent" {
		t.Fatalf("unexpected notifications: %#v", f.platform.shown)
	}
	if f.sched.Status().TaskTimers != 0 {
		t.Fatal("overdue tasks must not arm timers")
	}
}

func TestTaskFilters(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	done := task("done", "Done", start.Add(time.Hour))
	done.Completed = true
	unscheduled := model.Task{ID: "none", Title: "Someday"}
	tasks := []model.Task{
		done,
		unscheduled,
		task("far", "Far", start.Add(25*time.Hour)),
		task("edge", "Edge", start.Add(24*time.Hour)),
	}
	f.sched.ScheduleTaskReminders(tasks)
	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("expected only the 24h task armed, got %d", got)
	}
}

func TestInactiveSchedulerArmsNothing(t *testing.T) {
	f := newFixture(t, PermissionGranted, false)
	f.sched.ScheduleTaskReminders([]model.Task{task("t1", "Standup", start.Add(-time.Minute))})
	if f.sched.Status().TaskTimers != 0 || f.platform.count() != 0 {
		t.Fatal("scheduler armed timers with notifications off")
	}

	g := newFixture(t, PermissionDefault, true)
	g.sched.ScheduleTaskReminders([]model.Task{task("t1", "Standup", start.Add(time.Minute))})
	if g.sched.Status().TaskTimers != 0 {
		t.Fatal("scheduler armed timers without permission")
	}
}

func TestDuplicateContentIsDeduplicated(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	due := start.Add(5 * time.Minute)
	f.sched.ScheduleTaskReminders([]model.Task{task("a", "Pay rent", due), task("b", "Pay rent", due)})
	f.clock.Advance(5 * time.Minute)
	if f.platform.count() != 1 {
		t.Fatalf("expected duplicate suppressed, got %d", f.platform.count())
	}
}

func TestDailyReminderFiresAndReschedules(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	if err := f.settings.SetDailyReminderTime("12:30"); err != nil {
		t.Fatalf("set reminder time: %v", err)
	}
	status := f.sched.Status()
	if !status.DailyArmed || !status.NextDaily.Equal(start.Add(30*time.Minute)) {
		t.Fatalf("unexpected daily status: %#v", status)
	}

	f.clock.Advance(30 * time.Minute)
	if f.platform.count() != 1 || f.platform.shown[0].Title != "Daily reminder" {
		t.Fatalf("unexpected notifications: %#v", f.platform.shown)
	}
	if next := f.sched.Status().NextDaily; !next.Equal(start.Add(30*time.Minute + 24*time.Hour)) {
		t.Fatalf("expected reschedule for tomorrow, got %v", next)
	}

	f.clock.Advance(24 * time.Hour)
	if f.platform.count() != 2 {
		t.Fatalf("expected second daily reminder, got %d", f.platform.count())
	}
	if f.sound.plays != 2 {
		t.Fatalf("expected a sound per notification, got %d", f.sound.plays)
	}

	if err := f.settings.SetDailyReminderTime(""); err != nil {
		t.Fatalf("clear reminder time: %v", err)
	}
	if f.sched.Status().DailyArmed {
		t.Fatal("daily timer survived clearing the reminder time")
	}
}

func TestPermissionGranted(t *testing.T) {
	f := newFixture(t, PermissionDefault, false)
	f.platform.reqResult = PermissionGranted
	if err := f.settings.SetDailyReminderTime("18:00"); err != nil {
		t.Fatalf("set reminder time: %v", err)
	}

	state, err := f.sched.RequestPermission(t.Context())
	if err != nil || state != StateGranted {
		t.Fatalf("request permission: state=%s err=%v", state, err)
	}
	if !f.settings.Get().Notifications {
		t.Fatal("notifications setting not enabled")
	}
	status := f.sched.Status()
	if !status.Active || !status.Polling || !status.DailyArmed {
		t.Fatalf("expected active scheduler, got %#v", status)
	}
}

func TestPermissionDeniedClearsEverything(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	f.tasks.set([]model.Task{task("t1", "Standup", start.Add(time.Hour))}, nil)
	f.sched.Reconcile(t.Context())
	if f.sched.Status().TaskTimers != 1 {
		t.Fatal("expected an armed task timer before denial")
	}

	f.platform.reqResult = PermissionDenied
	state, err := f.sched.RequestPermission(t.Context())
	if err != nil || state != StateDenied {
		t.Fatalf("request permission: state=%s err=%v", state, err)
	}
	if f.settings.Get().Notifications {
		t.Fatal("notifications setting still on after denial")
	}
	status := f.sched.Status()
	if status.TaskTimers != 0 || status.Polling || status.DailyArmed {
		t.Fatalf("timers survived denial: %#v", status)
	}
	last := f.notices[len(f.notices)-1]
	if !last.Persistent || last.Level != events.LevelWarning {
		t.Fatalf("expected persistent warning, got %#v", last)
	}
}

func TestDeniedPermissionCannotBeBypassedBySettings(t *testing.T) {
	f := newFixture(t, PermissionDefault, false)
	f.platform.reqResult = PermissionDenied
	if state, err := f.sched.RequestPermission(t.Context()); err != nil || state != StateDenied {
		t.Fatalf("request permission: state=%s err=%v", state, err)
	}

	if err := f.settings.Set("notifications", "on"); !errors.Is(err, settings.ErrPermissionRequired) {
		t.Fatalf("expected ErrPermissionRequired, got %v", err)
	}
	if f.settings.Get().Notifications {
		t.Fatal("notifications setting on while permission is denied")
	}
	if f.sched.State() != StateDenied || f.sched.Status().Active {
		t.Fatalf("unexpected scheduler status: %#v", f.sched.Status())
	}
}

func TestPermissionErrorKeepsState(t *testing.T) {
	f := newFixture(t, PermissionDefault, false)
	f.platform.reqErr = errors.New("dbus unavailable")
	state, err := f.sched.RequestPermission(t.Context())
	if err == nil || state != StateUnknown {
		t.Fatalf("expected error and unknown state, got state=%s err=%v", state, err)
	}
	if len(f.notices) != 1 || f.notices[0].Level != events.LevelWarning {
		t.Fatalf("expected one warning notice, got %#v", f.notices)
	}
}

func TestPollingRebuildsAndSurvivesFetchErrors(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	f.sched.Reconcile(t.Context())
	if !f.sched.Status().Polling {
		t.Fatal("expected polling to start")
	}

	f.tasks.set([]model.Task{task("t1", "Review", start.Add(2*time.Hour))}, nil)
	f.clock.Advance(DefaultPollInterval)
	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("expected poll to arm 1 timer, got %d", got)
	}

	f.tasks.set(nil, errors.New("database is locked"))
	f.clock.Advance(DefaultPollInterval)
	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("fetch error dropped existing timers, got %d", got)
	}
	f.clock.Advance(DefaultPollInterval)
	warnings := 0
	for _, n := range f.notices {
		if n.Level == events.LevelWarning {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected one warning for consecutive fetch errors, got %d", warnings)
	}
	if f.tasks.calls < 4 {
		t.Fatalf("expected repeated polling, got %d fetches", f.tasks.calls)
	}
}

func TestStaleFetchDoesNotOverwriteNewerRebuild(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	src := &stalledTasks{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		first:   []model.Task{task("old", "Old", start.Add(time.Hour))},
		later:   []model.Task{task("new", "New", start.Add(2*time.Hour))},
	}
	f.sched.tasks = src

	done := make(chan error, 1)
	go func() { done <- f.sched.RefreshTasks(context.Background()) }()
	<-src.entered

	if err := f.sched.RefreshTasks(t.Context()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("stale refresh: %v", err)
	}

	if !f.sched.registry.Has(taskKeyPrefix+"new") || f.sched.registry.Has(taskKeyPrefix+"old") {
		t.Fatalf("stale fetch replaced newer timers: %#v", f.sched.Status())
	}
	if got := f.sched.Status().TaskTimers; got != 1 {
		t.Fatalf("expected 1 task timer, got %d", got)
	}
}

func TestMalformedReminderIsDropped(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	bad := []model.Reminder{
		{Kind: "weekly", Title: "Unknown kind"},
		{Kind: model.ReminderTask, Title: "No task"},
		{Kind: model.ReminderDaily},
	}
	for _, r := range bad {
		if f.sched.deliver(r) {
			t.Fatalf("expected %#v to be dropped", r)
		}
	}
	if f.platform.count() != 0 || len(f.fired) != 0 {
		t.Fatalf("malformed reminders reached the platform: %#v", f.platform.shown)
	}
	if !f.sched.deliver(model.Reminder{Kind: model.ReminderDaily, Title: "Daily reminder"}) {
		t.Fatal("expected a valid reminder to be delivered")
	}
	if len(f.fired) != 1 || !f.fired[0].FiredAt.Equal(start) {
		t.Fatalf("unexpected fired reminders: %#v", f.fired)
	}
}

func TestSoundFailureDoesNotBlockDelivery(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	f.sound.err = errors.New("no audio device")
	f.sched.ScheduleTaskReminders([]model.Task{task("t1", "Stretch", start.Add(-time.Minute))})
	if f.platform.count() != 1 || len(f.fired) != 1 {
		t.Fatal("sound failure blocked delivery")
	}

	g := newFixture(t, PermissionGranted, true)
	if err := g.settings.SetSoundEffects(false); err != nil {
		t.Fatalf("disable sound: %v", err)
	}
	g.sched.ScheduleTaskReminders([]model.Task{task("t1", "Stretch", start.Add(-time.Minute))})
	if g.sound.plays != 0 {
		t.Fatal("sound played with sound effects off")
	}
}

func TestDisablingNotificationsClearsTimers(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	f.tasks.set([]model.Task{task("t1", "Standup", start.Add(time.Hour))}, nil)
	f.sched.Reconcile(t.Context())

	if err := f.settings.SetNotifications(false); err != nil {
		t.Fatalf("disable notifications: %v", err)
	}
	status := f.sched.Status()
	if status.TaskTimers != 0 || status.Polling {
		t.Fatalf("timers survived disabling notifications: %#v", status)
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	f := newFixture(t, PermissionGranted, true)
	if err := f.settings.SetDailyReminderTime("13:00"); err != nil {
		t.Fatalf("set reminder time: %v", err)
	}
	f.tasks.set([]model.Task{task("t1", "Standup", start.Add(time.Hour))}, nil)
	f.sched.Reconcile(t.Context())

	f.sched.Close()
	if f.clock.Pending() != 0 {
		t.Fatalf("expected no pending timers after close, got %d", f.clock.Pending())
	}
	f.clock.Advance(48 * time.Hour)
	if f.platform.count() != 0 {
		t.Fatal("notification fired after close")
	}
	if err := f.settings.SetNotifications(false); err != nil {
		t.Fatalf("settings write after close: %v", err)
	}
}
