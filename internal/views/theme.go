package views

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the live visual state. Reward effects push into it directly so
// the next frame reflects a claim before any settings listener runs.
type Theme struct {
	mu          sync.RWMutex
	attr        string
	dark        bool
	customColor string
	custom      bool
}

func NewTheme(attr string, dark bool) *Theme {
	return &Theme{attr: attr, dark: dark}
}

func (t *Theme) SetThemeAttribute(color string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attr = color
}

func (t *Theme) SetDarkMode(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dark = on
}

// Sync copies the visual fields of a settings record.
func (t *Theme) Sync(attr string, dark bool, custom bool, customColor string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attr = attr
	t.dark = dark
	t.custom = custom
	t.customColor = customColor
}

func (t *Theme) Dark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dark
}

func (t *Theme) Attribute() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.attr
}

func (t *Theme) Palette() Palette {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p := PaletteFor(t.attr, t.dark)
	if t.custom && t.customColor != "" {
		p.Accent = lipgloss.Color(t.customColor)
	}
	return p
}

type Palette struct {
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

func PaletteFor(attr string, dark bool) Palette {
	p := Palette{
		Accent:  lipgloss.Color("12"),
		Text:    lipgloss.Color("0"),
		Muted:   lipgloss.Color("8"),
		Success: lipgloss.Color("10"),
		Warning: lipgloss.Color("11"),
		Error:   lipgloss.Color("9"),
	}
	if dark {
		p.Text = lipgloss.Color("15")
		p.Muted = lipgloss.Color("245")
	}
	switch attr {
	case "morning":
		p.Accent = lipgloss.Color("#f59e0b")
	case "night":
		p.Accent = lipgloss.Color("#6366f1")
	case "gold":
		p.Accent = lipgloss.Color("#eab308")
	}
	return p
}
