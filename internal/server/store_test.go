package server

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/meltforce/athletelog/internal/ingest/alpha"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/storage"
)

// memStore is an in-memory Store. Records are owned by the user that first
// wrote them.
type memStore struct {
	mu         sync.Mutex
	users      map[string]string
	profiles   map[string]models.Profile
	workouts   map[string]models.Workout
	wOwner     map[string]string
	biomarkers map[string]models.BiomarkerEntry
	bOwner     map[string]string
	logs       []storage.ImportLog
	failWrites error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]string{},
		profiles:   map[string]models.Profile{},
		workouts:   map[string]models.Workout{},
		wOwner:     map[string]string{},
		biomarkers: map[string]models.BiomarkerEntry{},
		bOwner:     map[string]string{},
	}
}

func (m *memStore) GetOrCreateUser(_ context.Context, login, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.users[login]; ok {
		return id, nil
	}
	id := "user-" + login
	m.users[login] = id
	return id, nil
}

func (m *memStore) GetProfile(_ context.Context, userID string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memStore) UpsertProfile(_ context.Context, userID string, p models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[userID] = p
	return nil
}

func (m *memStore) ListWorkouts(_ context.Context, userID string) ([]models.Workout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Workout
	for id, w := range m.workouts {
		if m.wOwner[id] == userID {
			out = append(out, w.Clone())
		}
	}
	return out, nil
}

func (m *memStore) UpsertWorkout(_ context.Context, userID string, w models.Workout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	if owner, ok := m.wOwner[w.ID]; ok && owner != userID {
		return storage.ErrNotOwner
	}
	m.workouts[w.ID] = w.Clone()
	m.wOwner[w.ID] = userID
	return nil
}

func (m *memStore) DeleteWorkout(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.wOwner[id] == userID {
		delete(m.workouts, id)
		delete(m.wOwner, id)
	}
	return nil
}

func (m *memStore) ListBiomarkers(_ context.Context, userID string) ([]models.BiomarkerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BiomarkerEntry
	for id, b := range m.biomarkers {
		if m.bOwner[id] == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memStore) UpsertBiomarker(_ context.Context, userID string, b models.BiomarkerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if owner, ok := m.bOwner[b.ID]; ok && owner != userID {
		return storage.ErrNotOwner
	}
	m.biomarkers[b.ID] = b
	m.bOwner[b.ID] = userID
	return nil
}

func (m *memStore) DeleteBiomarker(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bOwner[id] == userID {
		delete(m.biomarkers, id)
		delete(m.bOwner, id)
	}
	return nil
}

func (m *memStore) GetDataStats(_ context.Context, userID string) (*storage.DataStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := &storage.DataStats{}
	for id := range m.workouts {
		if m.wOwner[id] == userID {
			st.TotalWorkouts++
		}
	}
	return st, nil
}

func (m *memStore) InsertImportLog(_ context.Context, l storage.ImportLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, l)
	return l.ID, nil
}

func (m *memStore) UpdateImportLog(_ context.Context, id int64, l storage.ImportLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = id
	m.logs[id-1] = l
	return nil
}

func (m *memStore) QueryImportLogs(_ context.Context, userID string, _ int) ([]storage.ImportLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []storage.ImportLog{}
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) Ping(context.Context) error { return nil }

var _ Store = (*memStore)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(store Store) *Server {
	log := discardLogger()
	return New(store, alpha.NewProvider(log), "test-key", "", log)
}
