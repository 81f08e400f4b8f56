// Package server is the athleted REST API: the remote store for athlete
// clients, plus server-side summaries and CSV imports.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meltforce/athletelog/internal/ingest/alpha"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/state"
	"github.com/meltforce/athletelog/internal/storage"
)

// Store is everything the handlers need from persistence. *storage.DB
// implements it.
type Store interface {
	state.RemoteStore
	GetOrCreateUser(ctx context.Context, login, displayName string) (string, error)
	DeleteWorkout(ctx context.Context, userID, id string) error
	GetDataStats(ctx context.Context, userID string) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
	QueryImportLogs(ctx context.Context, userID string, limit int) ([]storage.ImportLog, error)
	Ping(ctx context.Context) error
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    Store
	alpha    *alpha.Provider
	log      *slog.Logger
	apiKey   string
	devLogin string
	whois    WhoIser
	today    func() models.Date
	router   chi.Router
}

// New creates a new Server with all routes configured. Requests that do not
// come through a tailnet listener are attributed to devLogin.
func New(store Store, alphaProvider *alpha.Provider, apiKey, devLogin string, log *slog.Logger) *Server {
	if devLogin == "" {
		devLogin = "local"
	}
	s := &Server{
		store:    store,
		alpha:    alphaProvider,
		log:      log,
		apiKey:   apiKey,
		devLogin: devLogin,
		today:    models.Today,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale enables tailnet identity: each request is attributed to the
// login that owns the connecting node.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Use(s.identity)

		r.Get("/me", s.handleMe)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)

		r.Get("/workouts", s.handleListWorkouts)
		r.Put("/workouts/{id}", s.handlePutWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)

		r.Get("/biomarkers", s.handleListBiomarkers)
		r.Put("/biomarkers/{id}", s.handlePutBiomarker)
		r.Delete("/biomarkers/{id}", s.handleDeleteBiomarker)

		r.Get("/summary", s.handleSummary)
		r.Get("/stats", s.handleStats)

		r.Get("/imports", s.handleImportLogs)
		r.Post("/imports/alpha", s.handleAlphaImport)
	})
}
