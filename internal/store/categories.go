package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Category groups a user's habits. A habit belongs to at most one category.
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Color     string
	Icon      string
	CreatedAt int64
}

// ErrDuplicateName is returned when a category or tag name is already taken
// by the same user.
var ErrDuplicateName = errors.New("name already in use")

// CreateCategory inserts a category for the user. Names are unique per user.
func (db *DB) CreateCategory(userID int64, name, color, icon string) (*Category, error) {
	if color == "" {
		color = "#6366f1"
	}
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO categories (user_id, name, color, icon, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, userID, name, color, icon, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Category{ID: id, UserID: userID, Name: name, Color: color, Icon: icon, CreatedAt: now}, nil
}

// GetCategory returns a category owned by the user.
func (db *DB) GetCategory(id, userID int64) (*Category, error) {
	var c Category
	err := db.QueryRow(`
		SELECT id, user_id, name, color, icon, created_at
		FROM categories WHERE id = ? AND user_id = ?
	`, id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ListCategories returns all of the user's categories ordered by name.
func (db *DB) ListCategories(userID int64) ([]Category, error) {
	rows, err := db.Query(`
		SELECT id, user_id, name, color, icon, created_at
		FROM categories WHERE user_id = ? ORDER BY name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// UpdateCategory renames/recolors a category owned by the user.
func (db *DB) UpdateCategory(id, userID int64, name, color, icon string) error {
	result, err := db.Exec(`
		UPDATE categories SET name = ?, color = ?, icon = ?
		WHERE id = ? AND user_id = ?
	`, name, color, icon, id, userID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return ErrDuplicateName
		}
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryOwner returns the owning user of a category regardless of who is
// asking. Lets callers tell "someone else's category" (authorization error)
// apart from "no such category".
func (db *DB) CategoryOwner(id int64) (int64, error) {
	var owner int64
	err := db.QueryRow(`SELECT user_id FROM categories WHERE id = ?`, id).Scan(&owner)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("category owner: %w", err)
	}
	return owner, nil
}

// DeleteCategory removes a category. Member habits are detached
// (category_id set NULL by the schema), never deleted.
func (db *DB) DeleteCategory(id, userID int64) error {
	result, err := db.Exec(`
		DELETE FROM categories WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
