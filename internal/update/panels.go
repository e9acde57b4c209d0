package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/sandeepkv93/lifeboard/internal/achievement"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
	"github.com/sandeepkv93/lifeboard/internal/views"
)

func (m *Model) syncAchievementTable() {
	rows := make([]table.Row, 0, len(m.achievements))
	for _, p := range m.achievements {
		rows = append(rows, table.Row{
			p.Icon,
			p.Name,
			fmt.Sprintf("%d/%d", min(p.Count, p.Target), p.Target),
			views.AchievementStatus(p.Unlocked, p.Claimed),
		})
	}
	m.achievementTable.SetRows(rows)
	if c := m.achievementTable.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.achievementTable.SetCursor(len(rows) - 1)
	}
}

func (m Model) renderTasksPane() string {
	rows := make([]views.TaskRow, 0, len(m.tasks))
	for _, t := range m.tasks {
		row := views.TaskRow{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Completed: t.Completed,
		}
		if t.ScheduledAt != nil {
			row.ScheduledAt = t.ScheduledAt.In(m.app.Location()).Format("Jan 02 15:04")
		}
		rows = append(rows, row)
	}
	selected := ""
	if t, ok := m.selectedTask(); ok {
		selected = t.ID
	}
	return views.RenderTasksPane(views.TasksPaneData{
		Rows:        rows,
		SelectedID:  selected,
		HabitCount:  m.habitCount,
		NoteCount:   m.noteCount,
		EventsToday: m.eventsToday,
	})
}

func (m Model) renderTaskDetail() string {
	t, ok := m.selectedTask()
	if !ok {
		return ""
	}
	lines := []string{
		"task: " + t.Title,
		"id: " + shortID(t.ID),
		"priority: " + string(t.Priority),
	}
	if t.ScheduledAt != nil {
		lines = append(lines, "scheduled: "+t.ScheduledAt.In(m.app.Location()).Format("Mon Jan 02 15:04"))
	}
	if t.Completed {
		lines = append(lines, "status: done")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderAchievementsPane() string {
	data := views.AchievementsPaneData{TableView: m.achievementTable.View()}
	for _, p := range m.achievements {
		data.Rows = append(data.Rows, achievementRow(p, ""))
	}
	if p, ok := m.selectedAchievement(); ok {
		row := achievementRow(p, m.achievementBar.ViewAs(float64(p.Percent)/100))
		data.Selected = &row
	}
	return views.RenderAchievementsPane(data)
}

func achievementRow(p achievement.Progress, bar string) views.AchievementRow {
	return views.AchievementRow{
		ID:       string(p.ID),
		Icon:     p.Icon,
		Name:     p.Name,
		Count:    p.Count,
		Target:   p.Target,
		Percent:  p.Percent,
		Unlocked: p.Unlocked,
		Claimed:  p.Claimed,
		Bar:      bar,
	}
}

func (m Model) renderAchievementDetail() string {
	p, ok := m.selectedAchievement()
	if !ok {
		return ""
	}
	md := views.AchievementMarkdown(p.Name, p.Description, p.Criteria, p.Reward, views.AchievementStatus(p.Unlocked, p.Claimed))
	return views.RenderMarkdown(md, m.app.Theme.Dark())
}

func (m Model) renderSettingsPane() string {
	cur := m.app.Settings.Get()
	fields := make([]views.SettingField, 0, len(settings.Fields()))
	for _, name := range settings.Fields() {
		fields = append(fields, views.SettingField{
			Name:   name,
			Value:  cur.Value(name),
			Locked: settings.FieldLocked(name, m.app.Tracker),
		})
	}
	st := m.app.Scheduler.Status()
	sched := fmt.Sprintf("active=%t polling=%t task-timers=%d", st.Active, st.Polling, st.TaskTimers)
	if st.DailyArmed {
		sched += " next-daily=" + st.NextDaily.In(m.app.Location()).Format("Jan 02 15:04")
	}
	if !st.LastFetchOK {
		sched += " (task fetch failing)"
	}
	return views.RenderSettingsPane(views.SettingsPaneData{
		Fields:     fields,
		Permission: string(st.State),
		Scheduler:  sched,
	})
}

func (m Model) renderNotice() string {
	if m.Notice == nil {
		return ""
	}
	return views.RenderNotice(string(m.Notice.Level), m.Notice.Text)
}

func reminderText(r model.Reminder) string {
	if r.Body == "" {
		return r.Title
	}
	return r.Title + ": " + r.Body
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
