package storage

import "github.com/sandeepkv93/lifeboard/internal/model"

func (t Task) ToModel() model.Task {
	return model.Task{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    model.Priority(t.Priority),
		Completed:   t.Completed,
		ScheduledAt: t.ScheduledAt,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func TaskFromModel(in model.Task) Task {
	return Task{
		ID:          in.ID,
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    string(in.Priority),
		Completed:   in.Completed,
		ScheduledAt: in.ScheduledAt,
		CreatedAt:   in.CreatedAt,
		CompletedAt: in.CompletedAt,
	}
}

func (h Habit) ToModel() model.Habit {
	return model.Habit{
		ID:        h.ID,
		UserID:    h.UserID,
		Name:      h.Name,
		Type:      model.HabitType(h.Type),
		Streak:    h.Streak,
		CreatedAt: h.CreatedAt,
	}
}

func HabitFromModel(in model.Habit) Habit {
	return Habit{
		ID:        in.ID,
		UserID:    in.UserID,
		Name:      in.Name,
		Type:      string(in.Type),
		Streak:    in.Streak,
		CreatedAt: in.CreatedAt,
	}
}

func (n Note) ToModel() model.Note {
	return model.Note{ID: n.ID, UserID: n.UserID, Title: n.Title, Body: n.Body, CreatedAt: n.CreatedAt}
}

func (e Event) ToModel() model.Event {
	out := model.Event{ID: e.ID, UserID: e.UserID, Title: e.Title, StartsAt: e.StartsAt, CreatedAt: e.CreatedAt}
	if e.EndsAt != nil {
		out.EndsAt = *e.EndsAt
	}
	return out
}

func EventFromModel(in model.Event) Event {
	out := Event{ID: in.ID, UserID: in.UserID, Title: in.Title, StartsAt: in.StartsAt, CreatedAt: in.CreatedAt}
	if !in.EndsAt.IsZero() {
		end := in.EndsAt
		out.EndsAt = &end
	}
	return out
}

func (u UserAchievement) ToModel() model.UserAchievement {
	return model.UserAchievement{
		UserID:        u.UserID,
		AchievementID: model.AchievementID(u.AchievementID),
		Claimed:       u.Claimed,
		UnlockedAt:    u.UnlockedAt,
	}
}

func TasksToModel(in []Task) []model.Task {
	out := make([]model.Task, 0, len(in))
	for _, t := range in {
		out = append(out, t.ToModel())
	}
	return out
}

func HabitsToModel(in []Habit) []model.Habit {
	out := make([]model.Habit, 0, len(in))
	for _, h := range in {
		out = append(out, h.ToModel())
	}
	return out
}
