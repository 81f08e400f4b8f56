// Package state owns the client's in-memory snapshot and keeps it durable:
// every mutation is written through to the local store and the most recently
// changed item is replicated best-effort to the remote store.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/athletelog/internal/localstore"
	"github.com/meltforce/athletelog/internal/models"
)

// Scope selects what a Persist call replicates remotely.
type Scope string

const (
	ScopeProfile   Scope = "profile"
	ScopeWorkout   Scope = "workout"
	ScopeBiomarker Scope = "biomarker"
	ScopeAll       Scope = "all"
)

var (
	ErrInvalidFile      = errors.New("invalid file")
	ErrNoActiveWorkout  = errors.New("no active workout")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrBiomarkerUnknown = errors.New("biomarker not found")
)

// LocalStore is the durable on-device key-value store.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// RemoteStore is the per-user remote backend. Upserts are idempotent by
// primary key. GetProfile returns nil when the user has no profile yet.
type RemoteStore interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, userID string, p models.Profile) error
	ListWorkouts(ctx context.Context, userID string) ([]models.Workout, error)
	UpsertWorkout(ctx context.Context, userID string, w models.Workout) error
	ListBiomarkers(ctx context.Context, userID string) ([]models.BiomarkerEntry, error)
	UpsertBiomarker(ctx context.Context, userID string, b models.BiomarkerEntry) error
	DeleteBiomarker(ctx context.Context, userID, id string) error
}

// Session identifies the authenticated remote user.
type Session struct {
	UserID string `json:"user_id"`
	Login  string `json:"login"`
}

// Snapshot is a point-in-time copy of the coordinator's data.
type Snapshot struct {
	Profile     models.Profile          `json:"profile"`
	Workouts    []models.Workout        `json:"workouts"`
	Biomarkers  []models.BiomarkerEntry `json:"biomarkers"`
	ChatHistory []models.ChatMessage    `json:"chat_history"`
}

// Options configures a Coordinator.
type Options struct {
	// Remote and Session enable replication. Both must be set.
	Remote  RemoteStore
	Session *Session

	// QueueSize bounds pending remote writes (default 64).
	QueueSize int
	// RemoteTimeout bounds each remote write (default 15s).
	RemoteTimeout time.Duration

	// NewID generates workout and biomarker ids (default uuid.NewString).
	NewID func() string
	// Today returns the current date (default models.Today).
	Today func() models.Date
}

// Coordinator is the single owner of application state. All methods are safe
// for concurrent use.
type Coordinator struct {
	mu sync.Mutex

	local   LocalStore
	remote  RemoteStore
	session *Session
	repl    *replicator
	log     *slog.Logger

	newID func() string
	today func() models.Date

	snap   Snapshot
	active *models.Workout

	// Most recently changed items, replicated by Persist.
	lastWorkoutID   string
	lastBiomarkerID string
}

// New creates a Coordinator over local. Replication starts only if both
// opts.Remote and opts.Session are set.
func New(local LocalStore, log *slog.Logger, opts Options) *Coordinator {
	c := &Coordinator{
		local: local,
		log:   log,
		newID: opts.NewID,
		today: opts.Today,
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.today == nil {
		c.today = models.Today
	}
	if opts.Remote != nil && opts.Session != nil && opts.Session.UserID != "" {
		c.remote = opts.Remote
		s := *opts.Session
		c.session = &s
		c.repl = newReplicator(log, opts.QueueSize, opts.RemoteTimeout)
	}
	return c
}

// Session returns the active remote session, or nil when running local-only.
func (c *Coordinator) Session() *Session {
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Startup reads the local slots and then, if a remote session is active,
// replaces them with remote data. Unreadable slots are logged and treated as
// empty. Local and remote data are never merged.
func (c *Coordinator) Startup(ctx context.Context) {
	c.mu.Lock()
	c.loadLocalLocked(ctx)
	c.mu.Unlock()

	if c.session != nil {
		c.Load(ctx)
	}
}

func (c *Coordinator) loadLocalLocked(ctx context.Context) {
	var p models.Profile
	if c.readSlot(ctx, localstore.KeyProfile, &p) {
		c.snap.Profile = p
	}
	var ws []models.Workout
	if c.readSlot(ctx, localstore.KeyWorkouts, &ws) {
		c.snap.Workouts = ws
	}
	var bs []models.BiomarkerEntry
	if c.readSlot(ctx, localstore.KeyBiomarkers, &bs) {
		models.SortBiomarkers(bs)
		c.snap.Biomarkers = bs
	}
}

func (c *Coordinator) readSlot(ctx context.Context, key string, v any) bool {
	raw, ok, err := c.local.Get(ctx, key)
	if err != nil {
		c.log.Warn("reading local slot", "slot", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		c.log.Warn("local slot is corrupt, ignoring", "slot", key, "error", err)
		return false
	}
	return true
}

// Load replaces the snapshot with remote data when a session is active. Each
// of profile, workouts and biomarkers is replaced only if its fetch
// succeeded; failures are logged. Workouts and biomarkers are re-sorted
// ascending by date. Without a session Load does nothing.
func (c *Coordinator) Load(ctx context.Context) {
	if c.session == nil {
		return
	}
	uid := c.session.UserID

	profile, perr := c.remote.GetProfile(ctx, uid)
	if perr != nil {
		c.log.Warn("remote load failed", "scope", ScopeProfile, "error", perr)
	}
	workouts, werr := c.remote.ListWorkouts(ctx, uid)
	if werr != nil {
		c.log.Warn("remote load failed", "scope", ScopeWorkout, "error", werr)
	}
	biomarkers, berr := c.remote.ListBiomarkers(ctx, uid)
	if berr != nil {
		c.log.Warn("remote load failed", "scope", ScopeBiomarker, "error", berr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if perr == nil && profile != nil {
		c.snap.Profile = *profile
	}
	if werr == nil {
		// The store lists newest first; history is kept oldest first.
		slices.SortStableFunc(workouts, func(a, b models.Workout) int { return a.Date.Compare(b.Date) })
		c.snap.Workouts = workouts
		c.lastWorkoutID = ""
	}
	if berr == nil {
		models.SortBiomarkers(biomarkers)
		c.snap.Biomarkers = biomarkers
		c.lastBiomarkerID = ""
	}
	c.log.Info("loaded remote data",
		"workouts", len(c.snap.Workouts), "biomarkers", len(c.snap.Biomarkers))
}

// Persist writes all three local slots and, with a remote session, queues a
// remote upsert of the most recently changed item in scope. Only the local
// write can fail the call.
func (c *Coordinator) Persist(ctx context.Context, scope Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked(ctx, scope)
}

func (c *Coordinator) persistLocked(ctx context.Context, scope Scope) error {
	err := c.writeLocalLocked(ctx)
	c.replicateLocked(scope)
	return err
}

func (c *Coordinator) writeLocalLocked(ctx context.Context) error {
	slots := []struct {
		key string
		v   any
	}{
		{localstore.KeyProfile, c.snap.Profile},
		{localstore.KeyWorkouts, nonNil(c.snap.Workouts)},
		{localstore.KeyBiomarkers, nonNil(c.snap.Biomarkers)},
	}
	var errs []error
	for _, s := range slots {
		raw, err := json.Marshal(s.v)
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding %s: %w", s.key, err))
			continue
		}
		if err := c.local.Put(ctx, s.key, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (c *Coordinator) replicateLocked(scope Scope) {
	if c.session == nil {
		return
	}
	uid := c.session.UserID

	if scope == ScopeWorkout || scope == ScopeAll {
		if w, ok := c.latestWorkoutLocked(); ok {
			c.repl.enqueue(ScopeWorkout, func(ctx context.Context) error {
				return c.remote.UpsertWorkout(ctx, uid, w)
			})
		}
	}
	if scope == ScopeProfile || scope == ScopeAll {
		p := c.snap.Profile
		c.repl.enqueue(ScopeProfile, func(ctx context.Context) error {
			return c.remote.UpsertProfile(ctx, uid, p)
		})
	}
	if scope == ScopeBiomarker || scope == ScopeAll {
		if b, ok := c.latestBiomarkerLocked(); ok {
			c.repl.enqueue(ScopeBiomarker, func(ctx context.Context) error {
				return c.remote.UpsertBiomarker(ctx, uid, b)
			})
		}
	}
}

// latestWorkoutLocked returns a copy of the most recently changed workout,
// falling back to the last one in the list.
func (c *Coordinator) latestWorkoutLocked() (models.Workout, bool) {
	ws := c.snap.Workouts
	if len(ws) == 0 {
		return models.Workout{}, false
	}
	if c.lastWorkoutID != "" {
		if i := slices.IndexFunc(ws, func(w models.Workout) bool { return w.ID == c.lastWorkoutID }); i >= 0 {
			return ws[i].Clone(), true
		}
	}
	return ws[len(ws)-1].Clone(), true
}

func (c *Coordinator) latestBiomarkerLocked() (models.BiomarkerEntry, bool) {
	bs := c.snap.Biomarkers
	if len(bs) == 0 {
		return models.BiomarkerEntry{}, false
	}
	if c.lastBiomarkerID != "" {
		if i := slices.IndexFunc(bs, func(b models.BiomarkerEntry) bool { return b.ID == c.lastBiomarkerID }); i >= 0 {
			return bs[i], true
		}
	}
	return bs[len(bs)-1], true
}

// Snapshot returns a deep copy of the current state.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Profile:     c.snap.Profile,
		Workouts:    models.CloneWorkouts(c.snap.Workouts),
		Biomarkers:  slices.Clone(c.snap.Biomarkers),
		ChatHistory: slices.Clone(c.snap.ChatHistory),
	}
}

// Flush waits until every queued remote write has been attempted.
func (c *Coordinator) Flush(ctx context.Context) error {
	if c.repl == nil {
		return nil
	}
	return c.repl.flush(ctx)
}

// Close drains queued remote writes and stops replication. When ctx ends
// before the queue is empty, the write in flight is cancelled, the rest are
// dropped, and ctx's error is returned.
func (c *Coordinator) Close(ctx context.Context) error {
	if c.repl == nil {
		return nil
	}
	return c.repl.close(ctx)
}
