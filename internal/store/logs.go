package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical storage format for log dates. Logs carry a
// calendar date only; the service's reference timezone is UTC.
const DateLayout = "2006-01-02"

// HabitLog is one habit's completion state for one calendar day.
// At most one row exists per (habit, date).
type HabitLog struct {
	ID        int64
	HabitID   int64
	Date      time.Time
	Completed bool
	CreatedAt int64
}

// ToggleLog flips the completion flag for (habitID, date), creating the row
// as completed on first toggle. The unique constraint serializes concurrent
// toggles: the statement is a single atomic upsert, so a double-toggle
// resolves to a well-defined final state.
func (db *DB) ToggleLog(habitID int64, date time.Time) (*HabitLog, error) {
	day := date.Format(DateLayout)
	now := time.Now().UnixMilli()

	_, err := db.Exec(`
		INSERT INTO habit_logs (habit_id, date, completed, created_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed = NOT completed
	`, habitID, day, now)
	if err != nil {
		return nil, fmt.Errorf("toggle log: %w", err)
	}

	return db.GetLog(habitID, date)
}

// GetLog returns the log row for (habitID, date).
func (db *DB) GetLog(habitID int64, date time.Time) (*HabitLog, error) {
	row := db.QueryRow(`
		SELECT id, habit_id, date, completed, created_at
		FROM habit_logs WHERE habit_id = ? AND date = ?
	`, habitID, date.Format(DateLayout))
	return scanLog(row)
}

// GetLogByID returns a log row by primary key.
func (db *DB) GetLogByID(id int64) (*HabitLog, error) {
	row := db.QueryRow(`
		SELECT id, habit_id, date, completed, created_at
		FROM habit_logs WHERE id = ?
	`, id)
	return scanLog(row)
}

// ListLogs returns a habit's full completion history, oldest first.
func (db *DB) ListLogs(habitID int64) ([]HabitLog, error) {
	rows, err := db.Query(`
		SELECT id, habit_id, date, completed, created_at
		FROM habit_logs WHERE habit_id = ? ORDER BY date
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return collectLogs(rows)
}

// ListLogsSince returns a habit's logs with date >= since, oldest first.
func (db *DB) ListLogsSince(habitID int64, since time.Time) ([]HabitLog, error) {
	rows, err := db.Query(`
		SELECT id, habit_id, date, completed, created_at
		FROM habit_logs WHERE habit_id = ? AND date >= ? ORDER BY date
	`, habitID, since.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("list logs since: %w", err)
	}
	return collectLogs(rows)
}

// ListLogsForHabits returns each habit's full history keyed by habit id.
// Habits with no logs are present in the result with a nil slice.
func (db *DB) ListLogsForHabits(habitIDs []int64) (map[int64][]HabitLog, error) {
	logs := make(map[int64][]HabitLog, len(habitIDs))
	if len(habitIDs) == 0 {
		return logs, nil
	}

	placeholders := strings.Repeat("?,", len(habitIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(habitIDs))
	for i, id := range habitIDs {
		logs[id] = nil
		args[i] = id
	}

	rows, err := db.Query(`
		SELECT id, habit_id, date, completed, created_at
		FROM habit_logs WHERE habit_id IN (`+placeholders+`) ORDER BY habit_id, date
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs for habits: %w", err)
	}
	all, err := collectLogs(rows)
	if err != nil {
		return nil, err
	}

	for _, l := range all {
		logs[l.HabitID] = append(logs[l.HabitID], l)
	}
	return logs, nil
}

// CountCompletions returns the all-time number of completed logs for a habit.
func (db *DB) CountCompletions(habitID int64) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM habit_logs WHERE habit_id = ? AND completed = 1
	`, habitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completions: %w", err)
	}
	return n, nil
}

// LastCompletionDate returns the most recent completed date for a habit,
// or nil if the habit has never been completed.
func (db *DB) LastCompletionDate(habitID int64) (*time.Time, error) {
	var day string
	err := db.QueryRow(`
		SELECT date FROM habit_logs WHERE habit_id = ? AND completed = 1
		ORDER BY date DESC LIMIT 1
	`, habitID).Scan(&day)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last completion date: %w", err)
	}

	t, err := time.Parse(DateLayout, day)
	if err != nil {
		return nil, fmt.Errorf("parse log date %q: %w", day, err)
	}
	return &t, nil
}

func scanLog(row *sql.Row) (*HabitLog, error) {
	var l HabitLog
	var day string
	var completed int
	err := row.Scan(&l.ID, &l.HabitID, &day, &completed, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}
	l.Completed = completed != 0
	l.Date, err = time.Parse(DateLayout, day)
	if err != nil {
		return nil, fmt.Errorf("parse log date %q: %w", day, err)
	}
	return &l, nil
}

func collectLogs(rows *sql.Rows) ([]HabitLog, error) {
	defer rows.Close()

	var logs []HabitLog
	for rows.Next() {
		var l HabitLog
		var day string
		var completed int
		if err := rows.Scan(&l.ID, &l.HabitID, &day, &completed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		l.Completed = completed != 0
		var err error
		l.Date, err = time.Parse(DateLayout, day)
		if err != nil {
			return nil, fmt.Errorf("parse log date %q: %w", day, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
