package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

type AppData struct {
	Palette    Palette
	Header     string
	Tabs       []string
	ActiveTab  int
	Body       string
	Side       string
	StatusLine string
	StatusErr  bool
	Notice     string
	CommandBar string
	Footer     string
}

func RenderApp(data AppData) string {
	p := data.Palette
	header := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render(data.Header)
	panel := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1)

	body := panel.Width(72).Render(data.Body)
	if strings.TrimSpace(data.Side) != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel.Width(44).Render(data.Side))
	}

	lines := []string{header, renderTabs(p, data.Tabs, data.ActiveTab), body}
	if data.StatusLine != "" {
		style := lipgloss.NewStyle().Foreground(p.Success)
		if data.StatusErr {
			style = lipgloss.NewStyle().Foreground(p.Error)
		}
		lines = append(lines, style.Render(data.StatusLine))
	}
	if data.Notice != "" {
		lines = append(lines, panel.BorderForeground(p.Warning).Render(data.Notice))
	}
	if data.CommandBar != "" {
		lines = append(lines, data.CommandBar)
	}
	if data.Footer != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(p.Muted).Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func renderTabs(p Palette, tabs []string, active int) string {
	if len(tabs) == 0 {
		return ""
	}
	on := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Underline(true)
	off := lipgloss.NewStyle().Foreground(p.Muted)
	out := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			out = append(out, on.Render(tab))
			continue
		}
		out = append(out, off.Render(tab))
	}
	return strings.Join(out, "  ")
}

// RenderMarkdown renders md with the glamour style matching dark.
func RenderMarkdown(md string, dark bool) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	style := "light"
	if dark {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
