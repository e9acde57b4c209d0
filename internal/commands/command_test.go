package commands

import (
	"errors"
	"testing"

	"github.com/sandeepkv93/lifeboard/internal/model"
)

func TestParseSupportedCommands(t *testing.T) {
	cases := []struct {
		in       string
		typeWant Type
	}{
		{"/add pay rent at 18:30", TypeAdd},
		{"done 3f2a", TypeDone},
		{"habit smoking bad", TypeHabit},
		{"checkin reading", TypeCheckIn},
		{":note call the bank about fees", TypeNote},
		{"event dentist at 10:15", TypeEvent},
		{"claim zen-mind", TypeClaim},
		{"remind 09:00", TypeRemind},
		{"notify off", TypeNotify},
		{"set darkmode on", TypeSet},
		{"show achievements", TypeShow},
	}

	for _, tc := range cases {
		cmd, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", tc.in, err)
		}
		if cmd.Type != tc.typeWant {
			t.Fatalf("parse %q type = %s, want %s", tc.in, cmd.Type, tc.typeWant)
		}
	}
}

func TestParseAddOptions(t *testing.T) {
	cmd, err := Parse("add write quarterly report !high at 07:45")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := cmd.Add
	if a.Title != "write quarterly report" || a.Priority != model.PriorityHigh {
		t.Fatalf("unexpected add args: %+v", a)
	}
	if a.At == nil || a.At.String() != "07:45" {
		t.Fatalf("unexpected time: %+v", a.At)
	}

	plain, err := Parse("add meet at the cafe")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if plain.Add.At != nil || plain.Add.Title != "meet at the cafe" || plain.Add.Priority != model.PriorityMedium {
		t.Fatalf("non-time 'at' should stay in title: %+v", plain.Add)
	}

	if _, err := Parse("add !urgent thing"); err == nil {
		t.Fatal("expected unknown priority error")
	}
}

func TestParseHabitType(t *testing.T) {
	cmd, err := Parse("habit late night snacks bad")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cmd.Habit.Name != "late night snacks" || cmd.Habit.Type != model.HabitBad {
		t.Fatalf("unexpected habit args: %+v", cmd.Habit)
	}
	single, _ := Parse("habit bad")
	if single.Habit.Name != "bad" || single.Habit.Type != model.HabitGood {
		t.Fatalf("a lone word is the name: %+v", single.Habit)
	}
}

func TestParseRemind(t *testing.T) {
	off, err := Parse("remind off")
	if err != nil || !off.Remind.Off {
		t.Fatalf("remind off: %+v %v", off.Remind, err)
	}
	on, err := Parse("remind 21:05")
	if err != nil || on.Remind.At != (ClockTime{Hour: 21, Minute: 5}) {
		t.Fatalf("remind time: %+v %v", on.Remind, err)
	}
	for _, bad := range []string{"remind", "remind 9pm", "remind 24:00"} {
		var ce *CommandError
		if _, err := Parse(bad); !errors.As(err, &ce) || ce.Code != ErrCodeInvalidArgument {
			t.Fatalf("parse %q: expected invalid argument, got %v", bad, err)
		}
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"event standup", "show calendar", "notify maybe", "set theme", "claim"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected %q to fail", in)
		}
	}
}

func TestParseUnknownCommand(t *testing.T) {
	_, err := Parse("/unknown do x")
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeUnknownCommand {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if _, err := Parse("  / "); err == nil {
		t.Fatal("expected empty input error")
	}
}

func TestExecuteDispatch(t *testing.T) {
	cmd, err := Parse("/add write docs")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	called := false
	res, err := Execute(cmd, Handlers{
		Add: func(a AddArgs) (Result, error) {
			called = true
			if a.Title != "write docs" {
				t.Fatalf("unexpected title: %q", a.Title)
			}
			return Result{Message: "ok"}, nil
		},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !called || res.Message != "ok" {
		t.Fatalf("dispatch failed, called=%v res=%+v", called, res)
	}
}

func TestExecuteMissingHandler(t *testing.T) {
	cmd, err := Parse("show tasks")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	_, err = Execute(cmd, Handlers{})
	if err == nil {
		t.Fatal("expected error")
	}
	var ce *CommandError
	if !errors.As(err, &ce) || ce.Code != ErrCodeHandlerMissing {
		t.Fatalf("expected missing handler error, got %v", err)
	}
}
