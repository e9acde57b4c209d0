package update

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/lifeboard/internal/achievement"
	"github.com/sandeepkv93/lifeboard/internal/commands"
	"github.com/sandeepkv93/lifeboard/internal/scheduler"
)

const eventLength = time.Hour

func (m Model) openPalette() (Model, tea.Cmd) {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m, m.commandInput.Focus()
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand(), nil
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.fail(err)
		return m
	}
	res, err := commands.Execute(cmd, m.handlers())
	if err != nil {
		m.fail(err)
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	m.reload()
	return m
}

// handlers binds palette commands to app operations. Show mutates m through
// the pointer captured here.
func (m *Model) handlers() commands.Handlers {
	ctx := context.Background()
	a := m.app
	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			var at *time.Time
			if args.At != nil {
				when := a.At(args.At.Hour, args.At.Minute)
				at = &when
			}
			t, err := a.AddTask(ctx, args.Title, args.Priority, at)
			if err != nil {
				return commands.Result{}, err
			}
			msg := fmt.Sprintf("added task %q", t.Title)
			if at != nil {
				msg += " at " + at.Format("Mon 15:04")
			}
			return commands.Result{Message: msg}, nil
		},
		Done: func(args commands.RefArgs) (commands.Result, error) {
			t, err := a.ResolveTask(ctx, args.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if _, err := a.CompleteTask(ctx, t.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("completed %q", t.Title)}, nil
		},
		Habit: func(args commands.HabitArgs) (commands.Result, error) {
			h, err := a.AddHabit(ctx, args.Name, args.Type)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("tracking %s habit %q", h.Type, h.Name)}, nil
		},
		CheckIn: func(args commands.RefArgs) (commands.Result, error) {
			h, err := a.CheckInHabit(ctx, args.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s streak: %d", h.Name, h.Streak)}, nil
		},
		Note: func(args commands.NoteArgs) (commands.Result, error) {
			n, err := a.AddNote(ctx, args.Text)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("saved note %q", n.Title)}, nil
		},
		Event: func(args commands.EventArgs) (commands.Result, error) {
			start := a.At(args.At.Hour, args.At.Minute)
			ev, err := a.AddEvent(ctx, args.Title, start, start.Add(eventLength))
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added event %q at %s", ev.Title, start.Format("Mon 15:04"))}, nil
		},
		Claim: func(args commands.ClaimArgs) (commands.Result, error) {
			res, err := a.Claimer.ClaimID(ctx, args.Achievement)
			if err != nil {
				if errors.Is(err, achievement.ErrUnknownAchievement) {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
				}
				return commands.Result{}, err
			}
			return commands.Result{Message: res.Notice.Text}, nil
		},
		Remind: func(args commands.RemindArgs) (commands.Result, error) {
			if args.Off {
				if err := a.Settings.SetDailyReminderTime(""); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: "daily reminder off"}, nil
			}
			if err := a.Settings.SetDailyReminderTime(args.At.String()); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "daily reminder at " + args.At.String()}, nil
		},
		Notify: func(args commands.NotifyArgs) (commands.Result, error) {
			return m.setNotifications(ctx, args.On)
		},
		Set: func(args commands.SetArgs) (commands.Result, error) {
			if err := a.Settings.Set(args.Field, args.Value); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s = %s", args.Field, args.Value)}, nil
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			for _, v := range allViews {
				if strings.EqualFold(string(v), args.Subject) {
					m.CurrentView = v
				}
			}
			return commands.Result{Message: "showing " + args.Subject}, nil
		},
	}
}

// setNotifications turns reminders on through the permission flow, or off
// directly.
func (m *Model) setNotifications(ctx context.Context, on bool) (commands.Result, error) {
	if !on {
		if err := m.app.Settings.SetNotifications(false); err != nil {
			return commands.Result{}, err
		}
		return commands.Result{Message: "notifications off"}, nil
	}
	state, err := m.app.Scheduler.RequestPermission(ctx)
	if err != nil {
		return commands.Result{}, err
	}
	if state != scheduler.StateGranted {
		return commands.Result{}, fmt.Errorf("notification permission %s", state)
	}
	return commands.Result{Message: "notifications on"}, nil
}
