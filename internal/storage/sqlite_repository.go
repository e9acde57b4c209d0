package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTimeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const taskColumns = `id, user_id, title, description, priority, completed, scheduled_at, created_at, completed_at`

func (r *SQLiteRepository) CreateTask(ctx context.Context, in Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Title, in.Description, in.Priority, boolInt(in.Completed),
		nullTime(in.ScheduledAt), mustTime(in.CreatedAt), nullTime(in.CompletedAt),
	)
	return err
}

func (r *SQLiteRepository) GetTask(ctx context.Context, id string) (Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	return task, nil
}

func (r *SQLiteRepository) UpdateTask(ctx context.Context, in Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, completed = ?, scheduled_at = ?, completed_at = ?
		WHERE id = ?`,
		in.Title, in.Description, in.Priority, boolInt(in.Completed),
		nullTime(in.ScheduledAt), nullTime(in.CompletedAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListTasks(ctx context.Context, filter TaskListFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Completed != nil {
		clauses = append(clauses, "completed = ?")
		args = append(args, boolInt(*filter.Completed))
	}
	if filter.ScheduledOnly {
		clauses = append(clauses, "scheduled_at IS NOT NULL AND scheduled_at != ''")
	}
	query += whereClause(clauses)
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateHabit(ctx context.Context, in Habit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, name, type, streak, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Name, in.Type, in.Streak, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) GetHabit(ctx context.Context, id string) (Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, type, streak, created_at
		FROM habits WHERE id = ?`, id)
	item, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Habit{}, ErrNotFound
		}
		return Habit{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) UpdateHabit(ctx context.Context, in Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits SET name = ?, type = ?, streak = ? WHERE id = ?`,
		in.Name, in.Type, in.Streak, in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteHabit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListHabits(ctx context.Context, filter HabitListFilter) ([]Habit, error) {
	query := `SELECT id, user_id, name, type, streak, created_at FROM habits`
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, filter.Type)
	}
	query += whereClause(clauses)
	query += ` ORDER BY name ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Habit, 0)
	for rows.Next() {
		item, scanErr := scanHabit(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateNote(ctx context.Context, in Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, body, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Title, in.Body, mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, in Note) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notes SET title = ?, body = ? WHERE id = ?`, in.Title, in.Body, in.ID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListNotes(ctx context.Context, filter NoteListFilter) ([]Note, error) {
	query := `SELECT id, user_id, title, body, created_at FROM notes`
	args := make([]any, 0, 3)
	if filter.UserID != "" {
		query += ` WHERE user_id = ?`
		args = append(args, filter.UserID)
	}
	query += ` ORDER BY created_at DESC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Note, 0)
	for rows.Next() {
		item, scanErr := scanNote(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CountNotes(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE user_id = ?`, userID).Scan(&n)
	return n, err
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, in Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (id, user_id, title, starts_at, ends_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ID, in.UserID, in.Title, mustTime(in.StartsAt), nullTime(in.EndsAt), mustTime(in.CreatedAt),
	)
	return err
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, in Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET title = ?, starts_at = ?, ends_at = ? WHERE id = ?`,
		in.Title, mustTime(in.StartsAt), nullTime(in.EndsAt), in.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(res)
}

func (r *SQLiteRepository) ListEvents(ctx context.Context, filter EventListFilter) ([]Event, error) {
	query := `SELECT id, user_id, title, starts_at, ends_at, created_at FROM events`
	clauses := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if filter.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.From != nil {
		clauses = append(clauses, "starts_at >= ?")
		args = append(args, mustTime(*filter.From))
	}
	if filter.To != nil {
		clauses = append(clauses, "starts_at < ?")
		args = append(args, mustTime(*filter.To))
	}
	query += whereClause(clauses)
	query += ` ORDER BY starts_at ASC`
	query += applyPagination(&args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Event, 0)
	for rows.Next() {
		item, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetUserAchievement(ctx context.Context, userID, achievementID string) (UserAchievement, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, achievement_id, claimed, unlocked_at
		FROM user_achievements WHERE user_id = ? AND achievement_id = ?`, userID, achievementID)
	item, err := scanUserAchievement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return UserAchievement{}, ErrNotFound
		}
		return UserAchievement{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) ListUserAchievements(ctx context.Context, userID string) ([]UserAchievement, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, achievement_id, claimed, unlocked_at
		FROM user_achievements WHERE user_id = ? ORDER BY achievement_id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]UserAchievement, 0)
	for rows.Next() {
		item, scanErr := scanUserAchievement(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpsertClaim inserts a claimed row or flips an existing row to claimed. The
// original unlocked_at of an existing row is kept.
func (r *SQLiteRepository) UpsertClaim(ctx context.Context, in UserAchievement) error {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.AchievementID) == "" {
		return errors.New("storage: user_id and achievement_id are required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, claimed, unlocked_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (user_id, achievement_id) DO UPDATE SET claimed = 1`,
		in.UserID, in.AchievementID, mustTime(in.UnlockedAt),
	)
	return err
}

func nullTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC().Format(sqliteTimeLayout)
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func parseNullableTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	tm, err := time.Parse(sqliteTimeLayout, v.String)
	if err != nil {
		return nil, err
	}
	return &tm, nil
}

// parseLenientTime treats an unparsable value as absent. Task times written by
// other clients may be malformed; such tasks are simply not schedulable.
func parseLenientTime(v sql.NullString) *time.Time {
	tm, err := parseNullableTime(v)
	if err != nil {
		return nil
	}
	return tm
}

func parseRequiredTime(v string) (time.Time, error) {
	return time.Parse(sqliteTimeLayout, v)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func whereClause(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(clauses, " AND ")
}

func applyPagination(args *[]any, limit, offset int) string {
	sql := ""
	if limit > 0 {
		sql += " LIMIT ?"
		*args = append(*args, limit)
	}
	if offset > 0 {
		if limit <= 0 {
			sql += " LIMIT -1"
		}
		sql += " OFFSET ?"
		*args = append(*args, offset)
	}
	return sql
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (Task, error) {
	var out Task
	var completed int
	var scheduled sql.NullString
	var created string
	var completedAt sql.NullString
	if err := s.Scan(&out.ID, &out.UserID, &out.Title, &out.Description, &out.Priority, &completed, &scheduled, &created, &completedAt); err != nil {
		return Task{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Task{}, err
	}
	doneAt, err := parseNullableTime(completedAt)
	if err != nil {
		return Task{}, err
	}
	out.Completed = completed == 1
	out.ScheduledAt = parseLenientTime(scheduled)
	out.CreatedAt = createdAt
	out.CompletedAt = doneAt
	return out, nil
}

func scanHabit(s scanner) (Habit, error) {
	var out Habit
	var created string
	if err := s.Scan(&out.ID, &out.UserID, &out.Name, &out.Type, &out.Streak, &created); err != nil {
		return Habit{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Habit{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func scanNote(s scanner) (Note, error) {
	var out Note
	var created string
	if err := s.Scan(&out.ID, &out.UserID, &out.Title, &out.Body, &created); err != nil {
		return Note{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Note{}, err
	}
	out.CreatedAt = createdAt
	return out, nil
}

func scanEvent(s scanner) (Event, error) {
	var out Event
	var start string
	var end sql.NullString
	var created string
	if err := s.Scan(&out.ID, &out.UserID, &out.Title, &start, &end, &created); err != nil {
		return Event{}, err
	}
	startsAt, err := parseRequiredTime(start)
	if err != nil {
		return Event{}, err
	}
	endsAt, err := parseNullableTime(end)
	if err != nil {
		return Event{}, err
	}
	createdAt, err := parseRequiredTime(created)
	if err != nil {
		return Event{}, err
	}
	out.StartsAt = startsAt
	out.EndsAt = endsAt
	out.CreatedAt = createdAt
	return out, nil
}

func scanUserAchievement(s scanner) (UserAchievement, error) {
	var out UserAchievement
	var claimed int
	var unlocked string
	if err := s.Scan(&out.UserID, &out.AchievementID, &claimed, &unlocked); err != nil {
		return UserAchievement{}, err
	}
	unlockedAt, err := parseRequiredTime(unlocked)
	if err != nil {
		return UserAchievement{}, err
	}
	out.Claimed = claimed == 1
	out.UnlockedAt = unlockedAt
	return out, nil
}

func checkRowsAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
