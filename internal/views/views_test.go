package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeSinkUpdatesPalette(t *testing.T) {
	theme := NewTheme("default", false)
	base := theme.Palette()

	theme.SetThemeAttribute("gold")
	theme.SetDarkMode(true)
	got := theme.Palette()
	if got.Accent != lipgloss.Color("#eab308") {
		t.Fatalf("expected gold accent, got %v", got.Accent)
	}
	if got.Text == base.Text || !theme.Dark() {
		t.Fatal("dark mode did not change text color")
	}

	theme.Sync("night", true, true, "#123456")
	if theme.Palette().Accent != lipgloss.Color("#123456") || theme.Attribute() != "night" {
		t.Fatalf("custom color not applied: %+v", theme.Palette())
	}
}

func TestRenderTasksPane(t *testing.T) {
	out := RenderTasksPane(TasksPaneData{
		Rows: []TaskRow{
			{ID: "a", Title: "Write report", Priority: "high", ScheduledAt: "09:30"},
			{ID: "b", Title: "Buy milk", Priority: "low", Completed: true},
		},
		SelectedID: "a",
		HabitCount: 2,
	})
	if !strings.Contains(out, "> [ ] !! Write report @09:30") {
		t.Fatalf("selected row missing:\n%s", out)
	}
	if !strings.Contains(out, "[x] .. Buy milk") || !strings.Contains(out, "habits: 2") {
		t.Fatalf("unexpected pane:\n%s", out)
	}
	if !strings.Contains(RenderTasksPane(TasksPaneData{}), "(no tasks)") {
		t.Fatal("empty state missing")
	}
}

func TestAchievementStatus(t *testing.T) {
	if AchievementStatus(false, false) != "locked" || AchievementStatus(true, false) != "ready" || AchievementStatus(true, true) != "claimed" {
		t.Fatal("unexpected status labels")
	}
	md := AchievementMarkdown("Zen Mind", "Write.", "Write 5 notes", "Zen avatar", "ready")
	if !strings.HasPrefix(md, "# Zen Mind") || !strings.Contains(md, "Zen avatar") {
		t.Fatalf("unexpected markdown: %s", md)
	}
}

func TestRenderNotificationsNewestFirst(t *testing.T) {
	out := RenderNotificationsPane([]HistoryItem{
		{At: "09:00", Level: "info", Text: "first"},
		{At: "09:05", Level: "success", Text: "second"},
	})
	if strings.Index(out, "second") > strings.Index(out, "first") {
		t.Fatalf("expected newest first:\n%s", out)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if RenderMarkdown("  ", true) != "" {
		t.Fatal("expected empty output")
	}
}
