package store

import (
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// testUser seeds a user for ownership-scoped tests.
func testUser(t *testing.T, db *DB, email string) *User {
	t.Helper()
	u, err := db.CreateUser(email, "hash", "Test User")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func testHabit(t *testing.T, db *DB, userID int64, name string) *Habit {
	t.Helper()
	h, err := db.CreateHabit(userID, name, "", nil, nil)
	if err != nil {
		t.Fatalf("CreateHabit: %v", err)
	}
	return h
}

func TestOpenMemory(t *testing.T) {
	db := testDB(t)
	if db.Path != ":memory:" {
		t.Errorf("Path = %q, want :memory:", db.Path)
	}
}

func TestSchemaVersion(t *testing.T) {
	db := testDB(t)

	v, err := db.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 5 {
		t.Errorf("SchemaVersion = %d, want 5", v)
	}
}

func TestTablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"schema_versions", "users", "categories", "tags", "habits", "habit_tags", "habit_logs", "comments"}
	for _, table := range tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestTrackingDaysConstraint(t *testing.T) {
	db := testDB(t)
	u := testUser(t, db, "bounds@example.com")

	// Schema CHECK is the backstop behind the validation layer.
	_, err := db.Exec(`
		INSERT INTO habits (user_id, name, tracking_days, created_at)
		VALUES (?, 'bad', 31, ?)
	`, u.ID, time.Now().UnixMilli())
	if err == nil {
		t.Error("tracking_days=31 insert succeeded, want CHECK violation")
	}

	_, err = db.Exec(`UPDATE users SET default_tracking_days = 0 WHERE id = ?`, u.ID)
	if err == nil {
		t.Error("default_tracking_days=0 update succeeded, want CHECK violation")
	}
}
