package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifeboard/internal/commands"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/views"
)

func (m Model) Init() tea.Cmd {
	return m.listen()
}

func (m Model) listen() tea.Cmd {
	if m.bridge == nil {
		return nil
	}
	return waitForEventCmd(m.bridge.ch)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case NoticeMsg:
		n := typed.Notice
		m.pushHistory(n.At, string(n.Level), n.Text)
		m.Notice = &n
		m.noticeSeq++
		if n.Persistent {
			return m, m.listen()
		}
		seq := m.noticeSeq
		return m, tea.Batch(m.listen(), tea.Tick(noticeTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} }))
	case clearNoticeMsg:
		if typed.seq == m.noticeSeq && m.Notice != nil && !m.Notice.Persistent {
			m.Notice = nil
		}
		return m, nil
	case ReminderFiredMsg:
		r := typed.Reminder
		m.pushHistory(r.FiredAt, "reminder", reminderText(r))
		m.Status = StatusBar{Text: "reminder: " + r.Title}
		return m, m.listen()
	case SettingsChangedMsg:
		if typed.Change.Field != "" {
			m.Status = StatusBar{Text: fmt.Sprintf("settings updated: %s", typed.Change.Field)}
		}
		return m, m.listen()
	case RecordsChangedMsg:
		m.reload()
		return m, m.listen()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.Keys
	switch {
	case key.Matches(msg, k.Quit):
		m.Quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Palette):
		return m.openPalette()
	case key.Matches(msg, k.Help):
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case key.Matches(msg, k.Dismiss):
		m.Notice = nil
		return m, nil
	case key.Matches(msg, k.Tasks):
		m.CurrentView = ViewTasks
		return m, nil
	case key.Matches(msg, k.Achievements):
		m.CurrentView = ViewAchievements
		return m, nil
	case key.Matches(msg, k.Settings):
		m.CurrentView = ViewSettings
		return m, nil
	case key.Matches(msg, k.Notifications):
		m.CurrentView = ViewNotifications
		return m, nil
	case key.Matches(msg, k.NextView):
		m.CurrentView = allViews[(viewIndex(m.CurrentView)+1)%len(allViews)]
		return m, nil
	}

	switch m.CurrentView {
	case ViewTasks:
		return m.handleTasksKey(msg), nil
	case ViewAchievements:
		return m.handleAchievementsKey(msg), nil
	case ViewSettings:
		return m.handleSettingsKey(msg), nil
	}
	return m, nil
}

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	ctx := context.Background()
	switch {
	case key.Matches(msg, m.Keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.taskCursor < len(m.tasks)-1 {
			m.taskCursor++
		}
	case key.Matches(msg, m.Keys.Complete):
		t, ok := m.selectedTask()
		if !ok {
			return m
		}
		if _, err := m.app.CompleteTask(ctx, t.ID); err != nil {
			m.fail(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("completed %q", t.Title)}
		m.reload()
	case key.Matches(msg, m.Keys.Delete):
		t, ok := m.selectedTask()
		if !ok {
			return m
		}
		if err := m.app.DeleteTask(ctx, t.ID); err != nil {
			m.fail(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", t.Title)}
		m.reload()
	}
	return m
}

func (m Model) handleAchievementsKey(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.Keys.Up):
		m.achievementTable.MoveUp(1)
	case key.Matches(msg, m.Keys.Down):
		m.achievementTable.MoveDown(1)
	case key.Matches(msg, m.Keys.Claim):
		p, ok := m.selectedAchievement()
		if !ok {
			return m
		}
		res, err := m.app.Claimer.Claim(context.Background(), p)
		if err != nil {
			m.fail(err)
		} else {
			m.Status = StatusBar{Text: res.Notice.Text, IsError: res.Notice.Level == events.LevelError}
		}
		m.reload()
	}
	return m
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	cur := m.app.Settings.Get()
	var err error
	switch {
	case key.Matches(msg, m.Keys.Notify):
		var res commands.Result
		res, err = m.setNotifications(context.Background(), !cur.Notifications)
		if err == nil {
			m.Status = StatusBar{Text: res.Message}
		}
	case key.Matches(msg, m.Keys.DarkMode):
		err = m.app.Settings.SetDarkMode(!cur.DarkMode)
	case key.Matches(msg, m.Keys.Sound):
		err = m.app.Settings.SetSoundEffects(!cur.SoundEffects)
	}
	if err != nil {
		m.fail(err)
	}
	return m
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	body, side := "", ""
	switch m.CurrentView {
	case ViewTasks:
		body = m.renderTasksPane()
		side = m.renderTaskDetail()
	case ViewAchievements:
		body = m.renderAchievementsPane()
		side = m.renderAchievementDetail()
	case ViewSettings:
		body = m.renderSettingsPane()
	case ViewNotifications:
		body = views.RenderNotificationsPane(m.History)
	}
	if m.HelpVisible {
		side = m.renderHelpIfVisible()
	}

	tabs := make([]string, 0, len(allViews))
	for i, v := range allViews {
		tabs = append(tabs, fmt.Sprintf("%d %s", i+1, v))
	}
	commandBar := ""
	if m.Palette.Active {
		commandBar = m.commandInput.View()
	}
	cur := m.app.Settings.Get()
	header := fmt.Sprintf("lifeboard | %s | %s", m.app.UserID(), m.app.Now().Format("Mon Jan 02 15:04"))
	if cur.ShowChampionBadge {
		header += " | 🏆 champion"
	}

	return views.RenderApp(views.AppData{
		Palette:    m.app.Theme.Palette(),
		Header:     header,
		Tabs:       tabs,
		ActiveTab:  viewIndex(m.CurrentView),
		Body:       body,
		Side:       strings.TrimSpace(side),
		StatusLine: m.Status.Text,
		StatusErr:  m.Status.IsError,
		Notice:     m.renderNotice(),
		CommandBar: commandBar,
		Footer:     m.renderFooter(),
	})
}
