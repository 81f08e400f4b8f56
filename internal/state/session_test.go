package state

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/meltforce/athletelog/internal/coach"
	"github.com/meltforce/athletelog/internal/models"
)

func TestWorkoutSession(t *testing.T) {
	c, _ := newLocal(t)
	ctx := context.Background()
	_ = c.UpdateProfile(ctx, models.Profile{Sport: "Powerlifting"})

	if _, ok := c.ActiveWorkout(); ok {
		t.Fatal("no workout should be active yet")
	}

	// Adding an exercise implicitly starts a workout.
	ei := c.AddExercise("bench press", "")
	w, ok := c.ActiveWorkout()
	if !ok {
		t.Fatal("AddExercise should start a workout")
	}
	if w.Date != day("2026-05-10") || w.Sport != "Powerlifting" {
		t.Errorf("workout = %+v", w)
	}
	ex := w.Exercises[ei]
	if ex.Name != "Bench Press" || ex.Quality != "Maximal Strength" {
		t.Errorf("exercise = %+v, want library name and quality", ex)
	}
	if len(ex.Sets) != 1 || ex.Sets[0] != models.DefaultSet {
		t.Errorf("sets = %+v, want one default set", ex.Sets)
	}

	complete, err := c.UpdateSet(ei, 0, models.Set{WeightKg: 100, Reps: 5, RPE: 8.5})
	if err != nil || !complete {
		t.Fatalf("UpdateSet: complete=%v err=%v", complete, err)
	}
	if err := c.AddSet(ei); err != nil {
		t.Fatal(err)
	}
	w, _ = c.ActiveWorkout()
	if got := w.Exercises[ei].Sets[1]; got != (models.Set{WeightKg: 100, Reps: 5, RPE: 8.5}) {
		t.Errorf("copied set = %+v", got)
	}

	if complete, _ := c.UpdateSet(ei, 1, models.Set{WeightKg: 0, Reps: 5, RPE: 8}); complete {
		t.Error("zero-weight set should not count as complete")
	}
	if err := c.RemoveSet(ei, 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveSet(5) err = %v", err)
	}
	if err := c.RemoveSet(ei, 1); err != nil {
		t.Fatal(err)
	}

	c.AddExercise("Sled Drag", "Speed & Agility")
	if err := c.RemoveExercise(1); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveExercise(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveExercise(3) err = %v", err)
	}

	done, err := c.FinishWorkout(ctx, "solid")
	if err != nil {
		t.Fatal(err)
	}
	if done.Notes != "solid" || len(done.Exercises) != 1 || len(done.Exercises[0].Sets) != 1 {
		t.Errorf("finished workout = %+v", done)
	}
	if _, ok := c.ActiveWorkout(); ok {
		t.Error("workout still active after finish")
	}
	if n := len(c.Snapshot().Workouts); n != 1 {
		t.Errorf("history = %d workouts, want 1", n)
	}
	if _, err := c.FinishWorkout(ctx, ""); !errors.Is(err, ErrNoActiveWorkout) {
		t.Errorf("second finish err = %v", err)
	}
}

func TestAddSetDefaults(t *testing.T) {
	c, _ := newLocal(t)
	if err := c.AddSet(0); !errors.Is(err, ErrNoActiveWorkout) {
		t.Fatalf("err = %v, want ErrNoActiveWorkout", err)
	}
	c.AddExercise("Plank", "")
	_, _ = c.UpdateSet(0, 0, models.Set{})
	_ = c.AddSet(0)
	w, _ := c.ActiveWorkout()
	if got := w.Exercises[0].Sets[1]; got != models.DefaultSet {
		t.Errorf("set after empty set = %+v, want defaults", got)
	}
}

func TestAbandonWorkout(t *testing.T) {
	c, _ := newLocal(t)
	c.StartWorkout(day("2026-01-01"))
	c.AddExercise("Dip", "")
	c.AbandonWorkout()
	if _, ok := c.ActiveWorkout(); ok {
		t.Error("workout still active")
	}
	if n := len(c.Snapshot().Workouts); n != 0 {
		t.Errorf("abandoned workout reached history: %d", n)
	}
}

func TestAddWorkouts(t *testing.T) {
	remote := &fakeRemote{}
	c, _ := newSynced(t, remote)
	ctx := context.Background()
	err := c.AddWorkouts(ctx, []models.Workout{
		{Date: day("2026-01-01")},
		{ID: "given", Date: day("2026-01-02")},
	})
	if err != nil {
		t.Fatal(err)
	}
	flush(t, c)
	got, _, _ := remote.writes()
	if len(got) != 2 || got[0] != "id1" || got[1] != "given" {
		t.Errorf("replicated = %v", got)
	}
}

type fakeChatter struct {
	history []models.ChatMessage
	reply   string
	err     error
}

func (f *fakeChatter) Chat(_ context.Context, _ coach.Context, history []models.ChatMessage, _ string) (string, error) {
	f.history = history
	return f.reply, f.err
}

// TestAskHistoryWindow verifies only the most recent prior turns are sent and
// that the reply is appended.
func TestAskHistoryWindow(t *testing.T) {
	c, _ := newLocal(t)
	for i := range 15 {
		c.RecordExchange("q"+strings.Repeat("?", i), "a")
	}
	ch := &fakeChatter{reply: "Rest more."}
	reply, err := c.Ask(context.Background(), ch, "Why am I tired?")
	if err != nil || reply != "Rest more." {
		t.Fatalf("Ask = %q, %v", reply, err)
	}
	if len(ch.history) != models.ChatContextLimit {
		t.Errorf("history sent = %d, want %d", len(ch.history), models.ChatContextLimit)
	}
	hist := c.Snapshot().ChatHistory
	if n := len(hist); n != 32 {
		t.Fatalf("history length = %d, want 32", n)
	}
	if last := hist[31]; last.Role != models.RoleAssistant || last.Content != "Rest more." {
		t.Errorf("last message = %+v", last)
	}
}

func TestAskFailureKeepsUserTurnOnly(t *testing.T) {
	c, _ := newLocal(t)
	ch := &fakeChatter{err: coach.ErrNoAPIKey}
	if _, err := c.Ask(context.Background(), ch, "hello"); !errors.Is(err, coach.ErrNoAPIKey) {
		t.Fatalf("err = %v", err)
	}
	hist := c.Snapshot().ChatHistory
	if len(hist) != 1 || hist[0].Role != models.RoleUser {
		t.Errorf("history = %+v", hist)
	}
	c.ClearChat()
	if len(c.Snapshot().ChatHistory) != 0 {
		t.Error("ClearChat left messages")
	}
}
