package state

import (
	"context"
	"fmt"
	"slices"

	"github.com/meltforce/athletelog/internal/coach"
	"github.com/meltforce/athletelog/internal/models"
)

// UpdateProfile overwrites the profile and persists it.
func (c *Coordinator) UpdateProfile(ctx context.Context, p models.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.Profile = p
	return c.persistLocked(ctx, ScopeProfile)
}

// LogBiomarker records an entry, keeping the list sorted by date, and
// persists it. Missing id, date, unit and category are filled in, the last
// two from the biomarker catalog.
func (c *Coordinator) LogBiomarker(ctx context.Context, e models.BiomarkerEntry) (models.BiomarkerEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.ID == "" {
		e.ID = c.newID()
	}
	if e.Date.IsZero() {
		e.Date = c.today()
	}
	if def, cat, ok := models.LookupBiomarker(e.Name); ok {
		if e.Unit == "" {
			e.Unit = def.Unit
		}
		if e.Category == "" {
			e.Category = cat
		}
	}
	if e.Category == "" {
		e.Category = models.DefaultBiomarkerCategory
	}

	c.snap.Biomarkers = append(c.snap.Biomarkers, e)
	models.SortBiomarkers(c.snap.Biomarkers)
	c.lastBiomarkerID = e.ID
	return e, c.persistLocked(ctx, ScopeBiomarker)
}

// DeleteBiomarker removes an entry, rewrites the local slots and queues a
// remote delete.
func (c *Coordinator) DeleteBiomarker(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := slices.IndexFunc(c.snap.Biomarkers, func(b models.BiomarkerEntry) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("%s: %w", id, ErrBiomarkerUnknown)
	}
	c.snap.Biomarkers = slices.Delete(c.snap.Biomarkers, i, i+1)
	if c.lastBiomarkerID == id {
		c.lastBiomarkerID = ""
	}
	if c.session != nil {
		uid := c.session.UserID
		c.repl.enqueue(ScopeBiomarker, func(ctx context.Context) error {
			return c.remote.DeleteBiomarker(ctx, uid, id)
		})
	}
	return c.writeLocalLocked(ctx)
}

// Chatter produces a coaching reply.
type Chatter interface {
	Chat(ctx context.Context, cc coach.Context, history []models.ChatMessage, msg string) (string, error)
}

var _ Chatter = (*coach.Client)(nil)

// CoachContext returns the data a coaching request is grounded in.
func (c *Coordinator) CoachContext() coach.Context {
	s := c.Snapshot()
	return coach.Context{Profile: s.Profile, Workouts: s.Workouts, Biomarkers: s.Biomarkers}
}

// Ask appends msg to the chat history, sends it with the most recent prior
// turns and appends the reply. The reply is recorded only on success.
// Overlapping calls append replies in completion order.
func (c *Coordinator) Ask(ctx context.Context, ch Chatter, msg string) (string, error) {
	c.mu.Lock()
	history := models.LastMessages(c.snap.ChatHistory, models.ChatContextLimit)
	c.snap.ChatHistory = append(c.snap.ChatHistory, models.ChatMessage{Role: models.RoleUser, Content: msg})
	c.mu.Unlock()

	reply, err := ch.Chat(ctx, c.CoachContext(), history, msg)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.snap.ChatHistory = append(c.snap.ChatHistory, models.ChatMessage{Role: models.RoleAssistant, Content: reply})
	c.mu.Unlock()
	return reply, nil
}

// RecordExchange appends a user prompt and its reply, e.g. a generated plan.
func (c *Coordinator) RecordExchange(prompt, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.ChatHistory = append(c.snap.ChatHistory,
		models.ChatMessage{Role: models.RoleUser, Content: prompt},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)
}

// ClearChat empties the chat history.
func (c *Coordinator) ClearChat() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.ChatHistory = nil
}
