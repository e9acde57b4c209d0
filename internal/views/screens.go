package views

import (
	"fmt"
	"strings"
)

type TaskRow struct {
	ID          string
	Title       string
	Priority    string
	ScheduledAt string
	Completed   bool
}

type TasksPaneData struct {
	Rows        []TaskRow
	SelectedID  string
	HabitCount  int
	NoteCount   int
	EventsToday int
}

type AchievementRow struct {
	ID       string
	Icon     string
	Name     string
	Count    int
	Target   int
	Percent  int
	Unlocked bool
	Claimed  bool
	Bar      string
}

type AchievementsPaneData struct {
	TableView string
	Rows      []AchievementRow
	Selected  *AchievementRow
}

type SettingField struct {
	Name   string
	Value  string
	Locked bool
}

type SettingsPaneData struct {
	Fields     []SettingField
	Permission string
	Scheduler  string
}

type HistoryItem struct {
	At    string
	Level string
	Text  string
}

func RenderTasksPane(data TasksPaneData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("tasks: %d | habits: %d | notes: %d | events today: %d\n",
		len(data.Rows), data.HabitCount, data.NoteCount, data.EventsToday))
	b.WriteString("actions: [j/k]move [space]complete [:]command\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks)")
		return b.String()
	}
	b.WriteString("\n")
	for _, row := range data.Rows {
		cursor := " "
		if row.ID == data.SelectedID {
			cursor = ">"
		}
		box := "[ ]"
		if row.Completed {
			box = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, box, priorityBadge(row.Priority), row.Title))
		if row.ScheduledAt != "" {
			b.WriteString(" @" + row.ScheduledAt)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func priorityBadge(priority string) string {
	switch strings.ToLower(priority) {
	case "high":
		return "!!"
	case "low":
		return ".."
	default:
		return "! "
	}
}

func RenderAchievementsPane(data AchievementsPaneData) string {
	var b strings.Builder
	claimed := 0
	for _, row := range data.Rows {
		if row.Claimed {
			claimed++
		}
	}
	b.WriteString(fmt.Sprintf("achievements: %d/%d claimed\n", claimed, len(data.Rows)))
	b.WriteString("actions: [j/k]move [enter]claim\n")
	if data.TableView != "" {
		b.WriteString(data.TableView + "\n")
	}
	if data.Selected != nil {
		b.WriteString(fmt.Sprintf("\n%s %s  %d/%d  %s\n", data.Selected.Icon, data.Selected.Name,
			data.Selected.Count, data.Selected.Target, data.Selected.Bar))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// AchievementStatus is the short label shown for a row.
func AchievementStatus(unlocked, claimed bool) string {
	switch {
	case claimed:
		return "claimed"
	case unlocked:
		return "ready"
	default:
		return "locked"
	}
}

// AchievementMarkdown is the detail pane source rendered through glamour.
func AchievementMarkdown(name, description, criteria, reward string, status string) string {
	return fmt.Sprintf("# %s\n\n%s\n\n- **Goal:** %s\n- **Reward:** %s\n- **Status:** %s\n",
		name, description, criteria, reward, status)
}

func RenderSettingsPane(data SettingsPaneData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	for _, f := range data.Fields {
		lock := ""
		if f.Locked {
			lock = " (locked)"
		}
		b.WriteString(fmt.Sprintf("  %-18s %s%s\n", f.Name, f.Value, lock))
	}
	b.WriteString(fmt.Sprintf("\nnotification permission: %s\n", data.Permission))
	if data.Scheduler != "" {
		b.WriteString("scheduler: " + data.Scheduler + "\n")
	}
	b.WriteString("commands: remind HH:MM|off, notify on|off, set <field> <value>")
	return b.String()
}

func RenderNotificationsPane(items []HistoryItem) string {
	var b strings.Builder
	b.WriteString("notifications:\n")
	if len(items) == 0 {
		b.WriteString("(nothing yet)")
		return b.String()
	}
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		b.WriteString(fmt.Sprintf("%s [%s] %s\n", item.At, strings.ToUpper(item.Level), item.Text))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotice(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("[%s] %s", strings.ToUpper(level), body)
}
