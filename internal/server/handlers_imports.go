package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/meltforce/athletelog/internal/ingest"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/storage"
)

// maxImportBytes bounds uploaded CSV exports.
const maxImportBytes = 32 << 20

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	stats, err := s.store.GetDataStats(r.Context(), u.UserID)
	if err != nil {
		s.internalError(w, "data stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs, err := s.store.QueryImportLogs(r.Context(), u.UserID, limit)
	if err != nil {
		s.internalError(w, "query import logs", err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// userSink stores imported workouts for one user.
type userSink struct {
	store  Store
	userID string
}

func (u userSink) AddWorkouts(ctx context.Context, ws []models.Workout) error {
	for _, w := range ws {
		if err := u.store.UpsertWorkout(ctx, u.userID, w); err != nil {
			return err
		}
	}
	return nil
}

// handleAlphaImport stores an Alpha Progression CSV export sent as the
// request body. ?sport= tags the workouts (default: the profile's sport).
func (s *Server) handleAlphaImport(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	sport := r.URL.Query().Get("sport")
	if sport == "" {
		p, err := s.store.GetProfile(r.Context(), u.UserID)
		if err != nil {
			s.internalError(w, "get profile", err)
			return
		}
		if p != nil {
			sport = p.SportOrDefault()
		} else {
			sport = models.DefaultSport
		}
	}

	logID := s.beginImport(r.Context(), u.UserID, "alpha")
	start := time.Now()
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	result, err := s.alpha.Ingest(r.Context(), body, sport, u.UserID, userSink{store: s.store, userID: u.UserID})
	s.finishImport(logID, u.UserID, "alpha", result, err, int(time.Since(start).Milliseconds()))
	if err != nil {
		s.log.Error("alpha import error", "error", err)
		writeError(w, importStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// importStatus maps an ingest error: unparseable input is the client's fault,
// a foreign row is forbidden, anything else is a storage failure.
func importStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, ingest.ErrMalformed), errors.As(err, &tooLarge):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// beginImport opens a "running" import log entry. It returns 0 when the log
// could not be written; the import proceeds regardless.
func (s *Server) beginImport(ctx context.Context, userID, source string) int64 {
	id, err := s.store.InsertImportLog(ctx, storage.ImportLog{UserID: userID, Source: source, Status: storage.ImportRunning})
	if err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
		return 0
	}
	return id
}

// finishImport records an import operation's outcome, closing the running
// entry when there is one.
func (s *Server) finishImport(logID int64, userID, source string, result *ingest.Result, importErr error, durationMs int) {
	entry := storage.ImportLog{
		UserID:     userID,
		Source:     source,
		Status:     storage.ImportSuccess,
		DurationMs: &durationMs,
	}
	if result != nil {
		entry.WorkoutsReceived = result.WorkoutsReceived
		entry.WorkoutsInserted = result.WorkoutsInserted
		entry.SetsInserted = result.SetsInserted
	}
	if importErr != nil {
		entry.Status = storage.ImportError
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	if logID != 0 {
		err = s.store.UpdateImportLog(ctx, logID, entry)
	} else {
		_, err = s.store.InsertImportLog(ctx, entry)
	}
	if err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}
