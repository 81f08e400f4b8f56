package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"tailscale.com/client/tailscale/apitype"

	"github.com/meltforce/athletelog/internal/observability"
)

// WhoIser resolves the tailnet identity behind a connection. The tsnet
// local client implements it.
type WhoIser interface {
	WhoIs(ctx context.Context, remoteAddr string) (*apitype.WhoIsResponse, error)
}

// UserInfo is the identity a request is served for.
type UserInfo struct {
	UserID      string `json:"user_id"`
	Login       string `json:"login"`
	DisplayName string `json:"display_name"`
}

type ctxKey int

const userInfoKey ctxKey = iota

func userInfoFromContext(r *http.Request) (UserInfo, bool) {
	info, ok := r.Context().Value(userInfoKey).(UserInfo)
	return info, ok && info.UserID != ""
}

// APIKeyAuth returns middleware that validates the X-API-Key header.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				writeError(w, http.StatusUnauthorized, "missing API key")
				return
			}
			if key != apiKey {
				writeError(w, http.StatusForbidden, "invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// identity attaches the caller's UserInfo. Over the tailnet the login comes
// from WhoIs; otherwise every request is the dev login.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, display := s.devLogin, ""
		if s.whois != nil {
			who, err := s.whois.WhoIs(r.Context(), r.RemoteAddr)
			if err != nil || who == nil || who.UserProfile == nil {
				s.log.Warn("tailnet identity lookup failed", "remote", r.RemoteAddr, "error", err)
				writeError(w, http.StatusUnauthorized, "unknown tailnet identity")
				return
			}
			login, display = who.UserProfile.LoginName, who.UserProfile.DisplayName
		}

		id, err := s.store.GetOrCreateUser(r.Context(), login, display)
		if err != nil {
			s.log.Error("resolving user", "login", login, "error", err)
			writeError(w, http.StatusInternalServerError, "resolving user")
			return
		}
		info := UserInfo{UserID: id, Login: login, DisplayName: display}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userInfoKey, info)))
	})
}

// RequestLogging returns middleware that logs each request and records its
// latency under the matched route pattern.
func RequestLogging(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			observability.ObserveAPIRequest(r.Method, route, sw.status, elapsed)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", elapsed.String(),
			)
		})
	}
}

// CORS adds permissive CORS headers for local development.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter wraps ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
