package update

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifeboard/internal/app"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/settings"
)

const bridgeBuffer = 64

// bridge forwards bus events, which arrive on timer and caller goroutines,
// into the bubbletea loop as messages.
type bridge struct {
	ch     chan tea.Msg
	once   sync.Once
	unsubs []func()
}

func newBridge(a *app.App) *bridge {
	b := &bridge{ch: make(chan tea.Msg, bridgeBuffer)}
	b.unsubs = []func(){
		a.Notices.Subscribe(func(n events.Notice) { b.send(NoticeMsg{Notice: n}) }),
		a.Scheduler.OnFired(func(r model.Reminder) { b.send(ReminderFiredMsg{Reminder: r}) }),
		a.Settings.Subscribe(func(c settings.Change) { b.send(SettingsChangedMsg{Change: c}) }),
		a.TasksChanged.Subscribe(func(events.TasksChanged) { b.send(RecordsChangedMsg{}) }),
		a.Invalidated.Subscribe(func(events.AchievementsInvalidated) { b.send(RecordsChangedMsg{}) }),
	}
	return b
}

// send never blocks a publisher; messages are dropped while the buffer is full.
func (b *bridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *bridge) close() {
	b.once.Do(func() {
		for _, unsub := range b.unsubs {
			unsub()
		}
	})
}

func waitForEventCmd(ch <-chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

