package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/ironlog/internal/models"
	"github.com/meltforce/ironlog/internal/stats"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestExerciseHistory verifies the HTTP client hits the per-exercise history
// path and parses the response.
func TestExerciseHistory(t *testing.T) {
	exerciseID := uuid.New()
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises/" + exerciseID.String() + "/history": func(w http.ResponseWriter, r *http.Request) {
			writeTestJSON(t, w, []stats.HistoryEntry{
				{
					Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
					Sets: []models.SetLog{{
						Index:  0,
						Type:   models.SetMain,
						Status: models.SetCompleted,
						Result: &models.SetResult{Weight: &models.WeightResult{Reps: 5, Weight: 100}},
					}},
				},
			})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	history, err := client.ExerciseHistory(context.Background(), exerciseID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d entries, want 1", len(history))
	}
	if got := history[0].Sets[0].Result.Weight.Weight; got != 100 {
		t.Errorf("weight = %v, want 100", got)
	}
}

// TestQuerySessions verifies the client sends RFC3339 start/end query params.
func TestQuerySessions(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("start"); got != start.Format(time.RFC3339) {
				t.Errorf("start=%q, want %q", got, start.Format(time.RFC3339))
			}
			if got := r.URL.Query().Get("end"); got != end.Format(time.RFC3339) {
				t.Errorf("end=%q, want %q", got, end.Format(time.RFC3339))
			}
			writeTestJSON(t, w, []*models.Session{{ID: uuid.New(), Completed: true}})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	sessions, err := client.QuerySessions(context.Background(), start, end, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if !sessions[0].Completed {
		t.Error("session not completed after round trip")
	}
}

// TestListExercisesIncludeHidden verifies the include_hidden flag is only
// sent when set.
func TestListExercisesIncludeHidden(t *testing.T) {
	var gotParam string
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/exercises": func(w http.ResponseWriter, r *http.Request) {
			gotParam = r.URL.Query().Get("include_hidden")
			writeTestJSON(t, w, []models.ExerciseDefinition{})
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.ListExercises(context.Background(), true); err != nil {
		t.Fatal(err)
	}
	if gotParam != "true" {
		t.Errorf("include_hidden=%q, want true", gotParam)
	}

	if _, err := client.ListExercises(context.Background(), false); err != nil {
		t.Fatal(err)
	}
	if gotParam != "" {
		t.Errorf("include_hidden=%q, want empty", gotParam)
	}
}

// TestErrorStatus verifies non-200 responses surface as errors with the body.
func TestErrorStatus(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/sessions/dates": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	if _, err := client.SessionDates(context.Background(), 1); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
