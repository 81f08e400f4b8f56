package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/meltforce/athletelog/internal/models"
)

func day(s string) models.Date {
	d, err := models.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// TestSessionAndListWorkouts verifies the API key is sent and responses are
// decoded into domain types.
func TestSessionAndListWorkouts(t *testing.T) {
	workouts := []models.Workout{{
		ID:    "w1",
		Date:  day("2026-03-01"),
		Sport: "Powerlifting",
		Exercises: []models.Exercise{
			{Name: "Squat", Quality: "Maximal Strength", Sets: []models.Set{{WeightKg: 140, Reps: 3, RPE: 8.5}}},
		},
	}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-Key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/me":
			_, _ = w.Write([]byte(`{"user_id":"u-1","login":"alice@example.com"}`))
		case "/api/v1/workouts":
			_ = json.NewEncoder(w).Encode(workouts)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "secret", time.Second)
	ctx := context.Background()
	sess, err := c.Session(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sess.UserID != "u-1" || sess.Login != "alice@example.com" {
		t.Errorf("session = %+v", sess)
	}

	got, err := c.ListWorkouts(ctx, "u-1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(workouts, got); diff != "" {
		t.Errorf("workouts mismatch (-want +got):\n%s", diff)
	}

	if _, err := c.ListWorkouts(ctx, "someone-else"); err == nil {
		t.Error("expected error for a different user id")
	}
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "wrong", 0).Session(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

// TestWrites checks method, path and body of each write call.
func TestWrites(t *testing.T) {
	type call struct {
		Method, Path string
		Body         string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		c := call{Method: r.Method, Path: r.URL.EscapedPath()}
		if v, ok := body["id"]; ok {
			c.Body = v.(string)
		} else if v, ok := body["name"]; ok {
			c.Body = v.(string)
		}
		calls = append(calls, c)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	ctx := context.Background()
	if err := c.UpsertProfile(ctx, "u", models.Profile{Name: "Ana"}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpsertWorkout(ctx, "u", models.Workout{ID: "w 1", Date: day("2026-01-01")}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpsertBiomarker(ctx, "u", models.BiomarkerEntry{ID: "b1", Name: "HRV", Date: day("2026-01-01")}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteBiomarker(ctx, "u", "b1"); err != nil {
		t.Fatal(err)
	}

	want := []call{
		{Method: http.MethodPut, Path: "/api/v1/profile", Body: "Ana"},
		{Method: http.MethodPut, Path: "/api/v1/workouts/w%201", Body: "w 1"},
		{Method: http.MethodPut, Path: "/api/v1/biomarkers/b1", Body: "b1"},
		{Method: http.MethodDelete, Path: "/api/v1/biomarkers/b1"},
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGetProfileNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, "", 0).GetProfile(context.Background(), "u")
	if err != nil || p != nil {
		t.Fatalf("GetProfile = %+v, %v; want nil, nil", p, err)
	}
}

func TestServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "", 0).ListBiomarkers(context.Background(), "u")
	if err == nil {
		t.Fatal("expected error")
	}
}
