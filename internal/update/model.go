// Package update holds the bubbletea model for the terminal dashboard.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/lifeboard/internal/achievement"
	"github.com/sandeepkv93/lifeboard/internal/app"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
	"github.com/sandeepkv93/lifeboard/internal/views"
)

type View string

const (
	ViewTasks         View = "Tasks"
	ViewAchievements  View = "Achievements"
	ViewSettings      View = "Settings"
	ViewNotifications View = "Notifications"
)

var allViews = []View{ViewTasks, ViewAchievements, ViewSettings, ViewNotifications}

const (
	historyLimit = 40
	noticeTTL    = 5 * time.Second
)

type StatusBar struct {
	Text    string
	IsError bool
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView View
	Status      StatusBar
	Notice      *events.Notice
	History     []views.HistoryItem
	Palette     CommandPaletteState
	HelpVisible bool
	Keys        KeyMap
	Quitting    bool
	LastError   error

	app          *app.App
	bridge       *bridge
	tasks        []model.Task
	taskCursor   int
	habitCount   int
	noteCount    int
	eventsToday  int
	achievements []achievement.Progress
	noticeSeq    int

	achievementTable table.Model
	achievementBar   progress.Model
	commandInput     textinput.Model
	helpModel        help.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// NoticeMsg carries a notice published anywhere in the app.
type NoticeMsg struct {
	Notice events.Notice
}

// ReminderFiredMsg is sent after the scheduler delivered a reminder.
type ReminderFiredMsg struct {
	Reminder model.Reminder
}

type SettingsChangedMsg struct {
	Change settings.Change
}

// RecordsChangedMsg asks the model to reload tasks and achievement progress.
type RecordsChangedMsg struct{}

type clearNoticeMsg struct {
	seq int
}

// NewModel builds the dashboard for a. Call Close once the program exits.
func NewModel(a *app.App) Model {
	m := Model{
		CurrentView: ViewTasks,
		Keys:        DefaultKeyMap(),
		app:         a,
		bridge:      newBridge(a),
	}
	m.initBubbleComponents()
	m.reload()
	return m
}

func (m *Model) initBubbleComponents() {
	m.achievementTable = table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 2},
			{Title: "Achievement", Width: 18},
			{Title: "Progress", Width: 9},
			{Title: "Status", Width: 8},
		}),
		table.WithHeight(len(achievement.Catalog())+1),
		table.WithFocused(true),
	)
	m.achievementBar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))

	m.commandInput = textinput.New()
	m.commandInput.Prompt = ": "
	m.commandInput.Placeholder = "add pay rent at 18:00"
	m.commandInput.CharLimit = 200

	m.helpModel = help.New()
}

// Close detaches the model from the app's event buses.
func (m Model) Close() {
	if m.bridge != nil {
		m.bridge.close()
	}
}

// reload pulls tasks, record counts and achievement progress from the app.
func (m *Model) reload() {
	ctx := context.Background()
	tasks, err := m.app.ListTasks(ctx)
	if err != nil {
		m.fail(err)
		return
	}
	m.tasks = tasks
	if m.taskCursor >= len(m.tasks) {
		m.taskCursor = len(m.tasks) - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}

	if habits, err := m.app.ListHabits(ctx); err == nil {
		m.habitCount = len(habits)
	}
	if n, err := m.app.CountNotes(ctx); err == nil {
		m.noteCount = n
	}
	if evs, err := m.app.EventsOn(ctx, m.app.Now()); err == nil {
		m.eventsToday = len(evs)
	}

	m.achievements = m.app.Tracker.Progress()
	m.syncAchievementTable()
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.taskCursor < 0 || m.taskCursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.taskCursor], true
}

func (m Model) selectedAchievement() (achievement.Progress, bool) {
	i := m.achievementTable.Cursor()
	if i < 0 || i >= len(m.achievements) {
		return achievement.Progress{}, false
	}
	return m.achievements[i], true
}

func (m *Model) pushHistory(at time.Time, level, text string) {
	m.History = append(m.History, views.HistoryItem{
		At:    at.In(m.app.Location()).Format("15:04:05"),
		Level: level,
		Text:  text,
	})
	if len(m.History) > historyLimit {
		m.History = m.History[len(m.History)-historyLimit:]
	}
}

func isKnownView(v View) bool {
	for _, known := range allViews {
		if v == known {
			return true
		}
	}
	return false
}

func viewIndex(v View) int {
	for i, known := range allViews {
		if v == known {
			return i
		}
	}
	return 0
}
