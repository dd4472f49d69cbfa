package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lazypower/cadence/internal/store"
)

func TestHabitLifecycle(t *testing.T) {
	srv := testServer(t)
	token := register(t, srv, "habits@example.com")

	id := createHabit(t, srv, token, "run", map[string]any{"description": "morning jog", "tracking_days": 14})

	w := do(t, srv, "GET", fmt.Sprintf("/api/habits/%d", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}
	habit := decode(t, w)
	if habit["name"] != "run" || habit["tracking_days"] != float64(14) {
		t.Errorf("habit = %v", habit)
	}

	// Out-of-range override rejected.
	w = do(t, srv, "POST", "/api/habits/", token, map[string]any{"name": "bad", "tracking_days": 31})
	if w.Code != http.StatusBadRequest {
		t.Errorf("tracking_days=31: status = %d, want 400", w.Code)
	}

	// Archive hides from default listing.
	w = do(t, srv, "POST", fmt.Sprintf("/api/habits/%d/archive", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("archive: status = %d", w.Code)
	}
	w = do(t, srv, "GET", "/api/habits/", token, nil)
	if habits, _ := decode(t, w)["habits"].([]any); len(habits) != 0 {
		t.Errorf("archived habit listed: %v", habits)
	}
	w = do(t, srv, "GET", "/api/habits/?include_archived=true", token, nil)
	if habits, _ := decode(t, w)["habits"].([]any); len(habits) != 1 {
		t.Errorf("include_archived listing = %v", habits)
	}

	// Restore and delete.
	w = do(t, srv, "POST", fmt.Sprintf("/api/habits/%d/restore", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("restore: status = %d", w.Code)
	}
	w = do(t, srv, "DELETE", fmt.Sprintf("/api/habits/%d", id), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	w = do(t, srv, "GET", fmt.Sprintf("/api/habits/%d", id), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want 404", w.Code)
	}
}

func TestHabitCrossUserIsNotFound(t *testing.T) {
	srv := testServer(t)
	owner := register(t, srv, "owner@example.com")
	intruder := register(t, srv, "intruder@example.com")

	id := createHabit(t, srv, owner, "run", nil)

	w := do(t, srv, "GET", fmt.Sprintf("/api/habits/%d", id), intruder, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user get: status = %d, want 404", w.Code)
	}
}

func TestHabitListFiltering(t *testing.T) {
	srv := testServer(t)
	token := register(t, srv, "filter@example.com")

	w := do(t, srv, "POST", "/api/categories/", token, map[string]string{"name": "health"})
	catID := int64(decode(t, w)["id"].(float64))

	w = do(t, srv, "POST", "/api/tags/", token, map[string]string{"name": "morning"})
	tagA := int64(decode(t, w)["id"].(float64))
	w = do(t, srv, "POST", "/api/tags/", token, map[string]string{"name": "outdoor"})
	tagB := int64(decode(t, w)["id"].(float64))

	run := createHabit(t, srv, token, "run", map[string]any{"category_id": catID})
	read := createHabit(t, srv, token, "read", nil)

	for _, tag := range []int64{tagA, tagB} {
		w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/%d", run, tag), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("attach: status = %d", w.Code)
		}
	}
	w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/%d", read, tagA), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("attach: status = %d", w.Code)
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"no filter", "", 2},
		{"category", fmt.Sprintf("?category_id=%d", catID), 1},
		{"single tag", fmt.Sprintf("?tag_ids=%d", tagA), 2},
		{"both tags require superset", fmt.Sprintf("?tag_ids=%d,%d", tagA, tagB), 1},
		{"category and tags", fmt.Sprintf("?category_id=%d&tag_ids=%d", catID, tagA), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv, "GET", "/api/habits/"+tt.query, token, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			habits, _ := decode(t, w)["habits"].([]any)
			if len(habits) != tt.want {
				t.Errorf("got %d habits, want %d", len(habits), tt.want)
			}
		})
	}
}

func TestFilterByForeignCategoryForbidden(t *testing.T) {
	srv := testServer(t)
	owner := register(t, srv, "catowner@example.com")
	other := register(t, srv, "catother@example.com")

	w := do(t, srv, "POST", "/api/categories/", owner, map[string]string{"name": "health"})
	catID := int64(decode(t, w)["id"].(float64))

	// Someone else's category id is a 403, a missing one a 404.
	w = do(t, srv, "GET", fmt.Sprintf("/api/habits/?category_id=%d", catID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign category: status = %d, want 403", w.Code)
	}
	w = do(t, srv, "GET", "/api/habits/?category_id=99999", other, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing category: status = %d, want 404", w.Code)
	}
}

func TestForeignTagForbidden(t *testing.T) {
	srv := testServer(t)
	owner := register(t, srv, "tagowner@example.com")
	other := register(t, srv, "tagother@example.com")

	w := do(t, srv, "POST", "/api/tags/", owner, map[string]string{"name": "morning"})
	tagID := int64(decode(t, w)["id"].(float64))

	// Same split as categories: someone else's tag id is a 403, a missing
	// one a 404, on both the list filter and the attach path.
	w = do(t, srv, "GET", fmt.Sprintf("/api/habits/?tag_ids=%d", tagID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("filter by foreign tag: status = %d, want 403", w.Code)
	}
	w = do(t, srv, "GET", "/api/habits/?tag_ids=99999", other, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("filter by missing tag: status = %d, want 404", w.Code)
	}

	habit := createHabit(t, srv, other, "run", nil)
	w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/%d", habit, tagID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("attach foreign tag: status = %d, want 403", w.Code)
	}
	w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/99999", habit), other, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("attach missing tag: status = %d, want 404", w.Code)
	}
}

func TestTagLimit(t *testing.T) {
	srv := testServer(t)
	token := register(t, srv, "taglimit@example.com")
	habit := createHabit(t, srv, token, "run", nil)

	for i := 0; i < 5; i++ {
		w := do(t, srv, "POST", "/api/tags/", token, map[string]string{"name": fmt.Sprintf("tag%d", i)})
		tagID := int64(decode(t, w)["id"].(float64))
		w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/%d", habit, tagID), token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("attach %d: status = %d", i, w.Code)
		}
	}

	w := do(t, srv, "POST", "/api/tags/", token, map[string]string{"name": "one-too-many"})
	tagID := int64(decode(t, w)["id"].(float64))
	w = do(t, srv, "PUT", fmt.Sprintf("/api/habits/%d/tags/%d", habit, tagID), token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("sixth tag: status = %d, want 400", w.Code)
	}
}

func TestToggleEndpointIdempotentPair(t *testing.T) {
	srv := testServer(t)
	token := register(t, srv, "toggleapi@example.com")
	habit := createHabit(t, srv, token, "run", nil)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	path := fmt.Sprintf("/api/habits/%d/logs/%s/toggle", habit, day.Format(store.DateLayout))

	w := do(t, srv, "POST", path, token, nil)
	if decode(t, w)["completed"] != true {
		t.Error("first toggle should complete the day")
	}
	w = do(t, srv, "POST", path, token, nil)
	if decode(t, w)["completed"] != false {
		t.Error("second toggle should return the day to not-completed")
	}

	// Malformed date.
	w = do(t, srv, "POST", fmt.Sprintf("/api/habits/%d/logs/yesterday/toggle", habit), token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date: status = %d, want 400", w.Code)
	}
}

func TestCommentsLifecycle(t *testing.T) {
	srv := testServer(t)
	token := register(t, srv, "comments@example.com")
	habit := createHabit(t, srv, token, "run", nil)
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	commentsPath := fmt.Sprintf("/api/habits/%d/logs/%s/comments", habit, day.Format(store.DateLayout))

	// No log row yet: nothing to comment on.
	w := do(t, srv, "POST", commentsPath, token, map[string]string{"body": "nice"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("comment without log: status = %d, want 404", w.Code)
	}

	toggle(t, srv, token, habit, day)

	w = do(t, srv, "POST", commentsPath, token, map[string]string{"body": "felt great"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: status = %d, body = %s", w.Code, w.Body.String())
	}
	commentID := int64(decode(t, w)["id"].(float64))

	// Body length is enforced.
	w = do(t, srv, "POST", commentsPath, token, map[string]string{"body": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty body: status = %d, want 400", w.Code)
	}

	w = do(t, srv, "PUT", fmt.Sprintf("/api/comments/%d", commentID), token, map[string]string{"body": "updated"})
	if w.Code != http.StatusOK {
		t.Fatalf("update comment: status = %d", w.Code)
	}
	if decode(t, w)["body"] != "updated" {
		t.Error("comment body not updated")
	}

	w = do(t, srv, "GET", commentsPath, token, nil)
	if comments, _ := decode(t, w)["comments"].([]any); len(comments) != 1 {
		t.Errorf("comments = %v, want 1", comments)
	}

	// Another user cannot see or touch the comment.
	intruder := register(t, srv, "snoop@example.com")
	w = do(t, srv, "DELETE", fmt.Sprintf("/api/comments/%d", commentID), intruder, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user delete: status = %d, want 404", w.Code)
	}

	w = do(t, srv, "DELETE", fmt.Sprintf("/api/comments/%d", commentID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete comment: status = %d", w.Code)
	}
}
