package update

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tasks         key.Binding
	Achievements  key.Binding
	Settings      key.Binding
	Notifications key.Binding
	NextView      key.Binding
	Up            key.Binding
	Down          key.Binding
	Complete      key.Binding
	Delete        key.Binding
	Claim         key.Binding
	Notify        key.Binding
	DarkMode      key.Binding
	Sound         key.Binding
	Dismiss       key.Binding
	Palette       key.Binding
	Help          key.Binding
	Quit          key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tasks:         key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "tasks")),
		Achievements:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "achievements")),
		Settings:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "settings")),
		Notifications: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "notifications")),
		NextView:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		Up:            key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:          key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Complete:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete task")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Claim:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "claim")),
		Notify:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "toggle notifications")),
		DarkMode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle dark mode")),
		Sound:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "toggle sound")),
		Dismiss:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss notice")),
		Palette:       key.NewBinding(key.WithKeys(":", "/"), key.WithHelp(":", "command")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) globalBindings() []key.Binding {
	k := m.Keys
	return []key.Binding{k.Tasks, k.Achievements, k.Settings, k.Notifications, k.NextView, k.Palette, k.Dismiss, k.Help, k.Quit}
}

func (m Model) viewBindings() []key.Binding {
	k := m.Keys
	switch m.CurrentView {
	case ViewTasks:
		return []key.Binding{k.Up, k.Down, k.Complete, k.Delete}
	case ViewAchievements:
		return []key.Binding{k.Up, k.Down, k.Claim}
	case ViewSettings:
		return []key.Binding{k.Notify, k.DarkMode, k.Sound}
	default:
		return nil
	}
}

func (m Model) renderFooter() string {
	return m.helpModel.ShortHelpView([]key.Binding{m.Keys.Palette, m.Keys.Help, m.Keys.Quit})
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	keys := helpKeyMap{
		short: m.viewBindings(),
		full:  [][]key.Binding{m.viewBindings(), m.globalBindings()},
	}
	return "help: " + string(m.CurrentView) + "\n" + m.helpModel.FullHelpView(keys.FullHelp()) + "\n\n" + paletteHelp
}

const paletteHelp = `commands:
  add <title> [!high|!low] [at HH:MM]
  done <task>        habit <name> [bad]
  checkin <habit>    note <text>
  event <title> at HH:MM
  claim <achievement>
  remind HH:MM|off   notify on|off
  set <field> <value>
  show tasks|achievements|settings|notifications`
