package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Comment is a note attached to one completion log. Comments share the log's
// lifecycle: deleting the log (or its habit) deletes them.
type Comment struct {
	ID        int64
	LogID     int64
	HabitID   int64
	Body      string
	CreatedAt int64
	UpdatedAt int64
}

// ErrCommentBody is returned when a comment body is outside 1-500 characters.
var ErrCommentBody = errors.New("comment body must be 1-500 characters")

// CreateComment attaches a comment to a completion log.
func (db *DB) CreateComment(logID, habitID int64, body string) (*Comment, error) {
	// Characters, not bytes: the limit must agree with the schema's
	// length(body) check.
	if n := utf8.RuneCountInString(body); n < 1 || n > 500 {
		return nil, ErrCommentBody
	}
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO comments (log_id, habit_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, logID, habitID, body, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}

	id, _ := result.LastInsertId()
	return &Comment{ID: id, LogID: logID, HabitID: habitID, Body: body, CreatedAt: now, UpdatedAt: now}, nil
}

// GetComment returns a comment by id.
func (db *DB) GetComment(id int64) (*Comment, error) {
	var c Comment
	err := db.QueryRow(`
		SELECT id, log_id, habit_id, body, created_at, updated_at
		FROM comments WHERE id = ?
	`, id).Scan(&c.ID, &c.LogID, &c.HabitID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

// ListComments returns all comments on a log, oldest first.
func (db *DB) ListComments(logID int64) ([]Comment, error) {
	rows, err := db.Query(`
		SELECT id, log_id, habit_id, body, created_at, updated_at
		FROM comments WHERE log_id = ? ORDER BY created_at, id
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.LogID, &c.HabitID, &c.Body, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment replaces a comment's body.
func (db *DB) UpdateComment(id int64, body string) error {
	if n := utf8.RuneCountInString(body); n < 1 || n > 500 {
		return ErrCommentBody
	}
	result, err := db.Exec(`
		UPDATE comments SET body = ?, updated_at = ? WHERE id = ?
	`, body, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteComment removes a comment.
func (db *DB) DeleteComment(id int64) error {
	result, err := db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
