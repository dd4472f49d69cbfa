package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// User is an account that owns habits, categories, and tags.
type User struct {
	ID                  int64
	Email               string
	PasswordHash        string
	DisplayName         string
	DefaultTrackingDays int
	CreatedAt           int64
}

// ErrEmailTaken is returned by CreateUser when the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// CreateUser inserts a new user. Emails are normalized to lowercase.
func (db *DB) CreateUser(email, passwordHash, displayName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := time.Now().UnixMilli()

	result, err := db.Exec(`
		INSERT INTO users (email, password_hash, display_name, created_at)
		VALUES (?, ?, ?, ?)
	`, email, passwordHash, displayName, now)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, _ := result.LastInsertId()
	return &User{
		ID:                  id,
		Email:               email,
		PasswordHash:        passwordHash,
		DisplayName:         displayName,
		DefaultTrackingDays: 7,
		CreatedAt:           now,
	}, nil
}

// GetUser returns a user by id.
func (db *DB) GetUser(id int64) (*User, error) {
	return db.scanUser(db.QueryRow(`
		SELECT id, email, password_hash, display_name, default_tracking_days, created_at
		FROM users WHERE id = ?
	`, id))
}

// GetUserByEmail returns a user by email (case-insensitive).
func (db *DB) GetUserByEmail(email string) (*User, error) {
	return db.scanUser(db.QueryRow(`
		SELECT id, email, password_hash, display_name, default_tracking_days, created_at
		FROM users WHERE email = ?
	`, strings.ToLower(strings.TrimSpace(email))))
}

// SetDefaultTrackingDays updates the user's default tracking window.
// The caller validates the 1-30 range; the schema CHECK is the backstop.
func (db *DB) SetDefaultTrackingDays(userID int64, days int) error {
	result, err := db.Exec(`
		UPDATE users SET default_tracking_days = ? WHERE id = ?
	`, days, userID)
	if err != nil {
		return fmt.Errorf("update default tracking days: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.DefaultTrackingDays, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
