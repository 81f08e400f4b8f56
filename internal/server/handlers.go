package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/athletelog/internal/metrics"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/storage"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 4 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mustUser returns the request's identity, writing a 401 when there is none.
func mustUser(w http.ResponseWriter, r *http.Request) (UserInfo, bool) {
	info, ok := userInfoFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "no user identity")
	}
	return info, ok
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := mustUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetProfile(r.Context(), u.UserID)
	if err != nil {
		s.internalError(w, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	var p models.Profile
	if !decodeBody(w, r, &p) {
		return
	}
	if err := s.store.UpsertProfile(r.Context(), u.UserID, p); err != nil {
		s.internalError(w, "upsert profile", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	ws, err := s.store.ListWorkouts(r.Context(), u.UserID)
	if err != nil {
		s.internalError(w, "list workouts", err)
		return
	}
	if ws == nil {
		ws = []models.Workout{}
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handlePutWorkout(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	var wk models.Workout
	if !decodeBody(w, r, &wk) {
		return
	}
	if !matchID(w, chi.URLParam(r, "id"), &wk.ID) {
		return
	}
	if wk.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "workout date is required")
		return
	}
	s.writeResult(w, "upsert workout", s.store.UpsertWorkout(r.Context(), u.UserID, wk))
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	s.writeResult(w, "delete workout", s.store.DeleteWorkout(r.Context(), u.UserID, chi.URLParam(r, "id")))
}

func (s *Server) handleListBiomarkers(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	bs, err := s.store.ListBiomarkers(r.Context(), u.UserID)
	if err != nil {
		s.internalError(w, "list biomarkers", err)
		return
	}
	if bs == nil {
		bs = []models.BiomarkerEntry{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (s *Server) handlePutBiomarker(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	var b models.BiomarkerEntry
	if !decodeBody(w, r, &b) {
		return
	}
	if !matchID(w, chi.URLParam(r, "id"), &b.ID) {
		return
	}
	if b.Name == "" || b.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "biomarker name and date are required")
		return
	}
	s.writeResult(w, "upsert biomarker", s.store.UpsertBiomarker(r.Context(), u.UserID, b))
}

func (s *Server) handleDeleteBiomarker(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	s.writeResult(w, "delete biomarker", s.store.DeleteBiomarker(r.Context(), u.UserID, chi.URLParam(r, "id")))
}

// handleSummary runs the metrics engine over the stored history. ?date=
// overrides the reference day for the streak.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	u, ok := mustUser(w, r)
	if !ok {
		return
	}
	ref := s.today()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date: "+v)
			return
		}
		ref = d
	}
	ws, err := s.store.ListWorkouts(r.Context(), u.UserID)
	if err != nil {
		s.internalError(w, "list workouts", err)
		return
	}
	writeJSON(w, http.StatusOK, metrics.Summarize(ws, ref))
}

// matchID reconciles the path id with the body id; an empty body id takes
// the path's.
func matchID(w http.ResponseWriter, pathID string, bodyID *string) bool {
	switch {
	case *bodyID == "":
		*bodyID = pathID
	case *bodyID != pathID:
		writeError(w, http.StatusBadRequest, "id in body does not match path")
		return false
	}
	return true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeResult(w http.ResponseWriter, op string, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, storage.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		s.internalError(w, op, err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
