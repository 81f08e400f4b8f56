package state

import (
	"context"
	"fmt"

	"github.com/meltforce/athletelog/internal/models"
)

// ActiveWorkout returns a copy of the in-progress workout, if any.
func (c *Coordinator) ActiveWorkout() (models.Workout, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return models.Workout{}, false
	}
	return c.active.Clone(), true
}

// StartWorkout begins a new in-progress workout, discarding any other one.
// A zero date means today.
func (c *Coordinator) StartWorkout(date models.Date) models.Workout {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked(date)
	return c.active.Clone()
}

func (c *Coordinator) startLocked(date models.Date) {
	if date.IsZero() {
		date = c.today()
	}
	c.active = &models.Workout{
		ID:        c.newID(),
		Date:      date,
		Sport:     c.snap.Profile.SportOrDefault(),
		Exercises: []models.Exercise{},
	}
}

// AddExercise appends an exercise seeded with one default set, starting a
// workout first if none is in progress. An empty quality is filled from the
// exercise library. It returns the new exercise's index.
func (c *Coordinator) AddExercise(name, quality string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		c.startLocked(models.Date{})
	}
	if quality == "" {
		if ex, ok := models.LookupExercise(name); ok {
			name, quality = ex.Name, ex.Quality
		}
	}
	c.active.Exercises = append(c.active.Exercises, models.Exercise{
		Name:    name,
		Quality: quality,
		Sets:    []models.Set{models.DefaultSet},
	})
	return len(c.active.Exercises) - 1
}

func (c *Coordinator) exerciseLocked(ei int) (*models.Exercise, error) {
	if c.active == nil {
		return nil, ErrNoActiveWorkout
	}
	if ei < 0 || ei >= len(c.active.Exercises) {
		return nil, fmt.Errorf("exercise %d: %w", ei, ErrIndexOutOfRange)
	}
	return &c.active.Exercises[ei], nil
}

// AddSet appends a set to exercise ei copying the previous set's values, with
// zero fields falling back to the defaults.
func (c *Coordinator) AddSet(ei int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, err := c.exerciseLocked(ei)
	if err != nil {
		return err
	}
	next := models.DefaultSet
	if n := len(ex.Sets); n > 0 {
		last := ex.Sets[n-1]
		next.WeightKg = last.WeightKg
		if last.Reps > 0 {
			next.Reps = last.Reps
		}
		if last.RPE > 0 {
			next.RPE = last.RPE
		}
	}
	ex.Sets = append(ex.Sets, next)
	return nil
}

// AppendSet appends s as given to exercise ei, e.g. an applied suggestion.
func (c *Coordinator) AppendSet(ei int, s models.Set) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, err := c.exerciseLocked(ei)
	if err != nil {
		return err
	}
	ex.Sets = append(ex.Sets, s)
	return nil
}

// UpdateSet replaces set si of exercise ei. It reports whether the set is now
// complete (positive weight and reps), which is when a rest period starts.
func (c *Coordinator) UpdateSet(ei, si int, s models.Set) (complete bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, err := c.exerciseLocked(ei)
	if err != nil {
		return false, err
	}
	if si < 0 || si >= len(ex.Sets) {
		return false, fmt.Errorf("set %d: %w", si, ErrIndexOutOfRange)
	}
	if s.RPE != 0 && !s.RPE.Valid() {
		s.RPE = models.SnapRPE(float64(s.RPE))
	}
	s.WeightKg = max(s.WeightKg, 0)
	s.Reps = max(s.Reps, 0)
	ex.Sets[si] = s
	return s.WeightKg > 0 && s.Reps > 0, nil
}

// RemoveSet deletes set si of exercise ei.
func (c *Coordinator) RemoveSet(ei, si int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ex, err := c.exerciseLocked(ei)
	if err != nil {
		return err
	}
	if si < 0 || si >= len(ex.Sets) {
		return fmt.Errorf("set %d: %w", si, ErrIndexOutOfRange)
	}
	ex.Sets = append(ex.Sets[:si], ex.Sets[si+1:]...)
	return nil
}

// RemoveExercise deletes exercise ei.
func (c *Coordinator) RemoveExercise(ei int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.exerciseLocked(ei); err != nil {
		return err
	}
	c.active.Exercises = append(c.active.Exercises[:ei], c.active.Exercises[ei+1:]...)
	return nil
}

// FinishWorkout appends the in-progress workout to history and persists it.
// The workout is recorded even if the local write fails; that error is
// returned.
func (c *Coordinator) FinishWorkout(ctx context.Context, notes string) (models.Workout, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return models.Workout{}, ErrNoActiveWorkout
	}
	w := *c.active
	w.Notes = notes
	c.active = nil
	c.snap.Workouts = append(c.snap.Workouts, w)
	c.lastWorkoutID = w.ID
	return w.Clone(), c.persistLocked(ctx, ScopeWorkout)
}

// AbandonWorkout discards the in-progress workout.
func (c *Coordinator) AbandonWorkout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// AddWorkouts appends completed workouts (e.g. from a file import), assigning
// ids where missing, and persists them. A workout whose id is already in the
// history replaces the stored one. Each workout is replicated.
func (c *Coordinator) AddWorkouts(ctx context.Context, ws []models.Workout) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(ws) == 0 {
		return nil
	}
	for _, w := range ws {
		w = w.Clone()
		if w.ID == "" {
			w.ID = c.newID()
		}
		if i := c.workoutIndexLocked(w.ID); i >= 0 {
			c.snap.Workouts[i] = w
		} else {
			c.snap.Workouts = append(c.snap.Workouts, w)
		}
		c.lastWorkoutID = w.ID
		if c.session != nil {
			uid, cp := c.session.UserID, w.Clone()
			c.repl.enqueue(ScopeWorkout, func(ctx context.Context) error {
				return c.remote.UpsertWorkout(ctx, uid, cp)
			})
		}
	}
	return c.writeLocalLocked(ctx)
}

func (c *Coordinator) workoutIndexLocked(id string) int {
	for i, w := range c.snap.Workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}
