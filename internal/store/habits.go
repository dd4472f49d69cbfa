package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Habit is a tracked habit. TagIDs is the derived association set; neither
// habits nor tags hold an authoritative back-reference.
type Habit struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	CategoryID  *int64
	// TrackingDays is the per-habit window override; nil means the owner's
	// default applies.
	TrackingDays *int
	Archived     bool
	CreatedAt    int64
	TagIDs       []int64
}

// CreateHabit inserts a habit for the user.
func (db *DB) CreateHabit(userID int64, name, description string, categoryID *int64, trackingDays *int) (*Habit, error) {
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO habits (user_id, name, description, category_id, tracking_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, userID, name, description, categoryID, trackingDays, now)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Habit{
		ID:           id,
		UserID:       userID,
		Name:         name,
		Description:  description,
		CategoryID:   categoryID,
		TrackingDays: trackingDays,
		CreatedAt:    now,
	}, nil
}

// GetHabit returns a habit owned by the user, with its tag set loaded.
func (db *DB) GetHabit(id, userID int64) (*Habit, error) {
	var h Habit
	var archived int
	err := db.QueryRow(`
		SELECT id, user_id, name, description, category_id, tracking_days, archived, created_at
		FROM habits WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CategoryID, &h.TrackingDays, &archived, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	h.Archived = archived != 0

	h.TagIDs, err = db.habitTagIDs(h.ID)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHabits returns all of the user's habits, oldest first, each with its
// tag set loaded. Archived habits are included; filtering is the caller's job.
func (db *DB) ListHabits(userID int64) ([]Habit, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, description, category_id, tracking_days, archived, created_at
		FROM habits WHERE user_id = ? ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		var h Habit
		var archived int
		if err := rows.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.CategoryID, &h.TrackingDays, &archived, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		h.Archived = archived != 0
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := db.loadTagSets(userID, habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// UpdateHabit updates a habit's mutable fields.
func (db *DB) UpdateHabit(id, userID int64, name, description string, categoryID *int64, trackingDays *int) error {
	result, err := db.Exec(`
		UPDATE habits SET name = ?, description = ?, category_id = ?, tracking_days = ?
		WHERE id = ? AND user_id = ?
	`, name, description, categoryID, trackingDays, id, userID)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetHabitArchived archives or restores a habit.
func (db *DB) SetHabitArchived(id, userID int64, archived bool) error {
	val := 0
	if archived {
		val = 1
	}
	result, err := db.Exec(`
		UPDATE habits SET archived = ? WHERE id = ? AND user_id = ?
	`, val, id, userID)
	if err != nil {
		return fmt.Errorf("set habit archived: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHabit removes a habit. Logs, comments, and tag associations cascade.
func (db *DB) DeleteHabit(id, userID int64) error {
	result, err := db.Exec(`
		DELETE FROM habits WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) habitTagIDs(habitID int64) ([]int64, error) {
	rows, err := db.Query(`
		SELECT tag_id FROM habit_tags WHERE habit_id = ? ORDER BY tag_id
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("habit tag ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// loadTagSets populates TagIDs for a slice of habits with one query.
func (db *DB) loadTagSets(userID int64, habits []Habit) error {
	if len(habits) == 0 {
		return nil
	}

	rows, err := db.Query(`
		SELECT ht.habit_id, ht.tag_id
		FROM habit_tags ht
		JOIN habits h ON h.id = ht.habit_id
		WHERE h.user_id = ?
		ORDER BY ht.tag_id
	`, userID)
	if err != nil {
		return fmt.Errorf("load tag sets: %w", err)
	}
	defer rows.Close()

	byHabit := make(map[int64][]int64)
	for rows.Next() {
		var habitID, tagID int64
		if err := rows.Scan(&habitID, &tagID); err != nil {
			return fmt.Errorf("scan tag set: %w", err)
		}
		byHabit[habitID] = append(byHabit[habitID], tagID)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range habits {
		habits[i].TagIDs = byHabit[habits[i].ID]
	}
	return nil
}
