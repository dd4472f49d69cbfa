package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Tag labels a user's habits. Habits and tags are many-to-many via habit_tags.
type Tag struct {
	ID        int64
	UserID    int64
	Name      string
	CreatedAt int64
}

// NormalizeTagName lowercases and trims a tag name. All tag lookups and
// inserts go through this so "Fitness" and "fitness" are the same tag.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateTag inserts a tag for the user, or returns the existing tag when the
// normalized name is already present.
func (db *DB) CreateTag(userID int64, name string) (*Tag, error) {
	name = NormalizeTagName(name)
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO tags (user_id, name, created_at) VALUES (?, ?, ?)
	`, userID, name, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return db.GetTagByName(userID, name)
		}
		return nil, fmt.Errorf("insert tag: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Tag{ID: id, UserID: userID, Name: name, CreatedAt: now}, nil
}

// GetTag returns a tag owned by the user.
func (db *DB) GetTag(id, userID int64) (*Tag, error) {
	var t Tag
	err := db.QueryRow(`
		SELECT id, user_id, name, created_at FROM tags WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// GetTagByName returns a tag by its normalized name.
func (db *DB) GetTagByName(userID int64, name string) (*Tag, error) {
	var t Tag
	err := db.QueryRow(`
		SELECT id, user_id, name, created_at FROM tags WHERE user_id = ? AND name = ?
	`, userID, NormalizeTagName(name)).Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}
	return &t, nil
}

// ListTags returns all of the user's tags ordered by name.
func (db *DB) ListTags(userID int64) ([]Tag, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, created_at FROM tags WHERE user_id = ? ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// TagOwner returns the owning user of a tag regardless of who is asking.
func (db *DB) TagOwner(id int64) (int64, error) {
	var owner int64
	err := db.QueryRow(`SELECT user_id FROM tags WHERE id = ?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("tag owner: %w", err)
	}
	return owner, nil
}

// DeleteTag removes a tag. Association rows cascade; tagged habits are
// detached, never deleted.
func (db *DB) DeleteTag(id, userID int64) error {
	result, err := db.Exec(`
		DELETE FROM tags WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachTag associates a tag with a habit. Idempotent.
func (db *DB) AttachTag(habitID, tagID int64) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO habit_tags (habit_id, tag_id) VALUES (?, ?)
	`, habitID, tagID)
	if err != nil {
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

// DetachTag removes a tag association from a habit.
func (db *DB) DetachTag(habitID, tagID int64) error {
	result, err := db.Exec(`
		DELETE FROM habit_tags WHERE habit_id = ? AND tag_id = ?
	`, habitID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountHabitTags returns how many tags a habit currently carries.
func (db *DB) CountHabitTags(habitID int64) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM habit_tags WHERE habit_id = ?`, habitID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count habit tags: %w", err)
	}
	return n, nil
}
