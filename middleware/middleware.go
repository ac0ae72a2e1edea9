// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/smrsite/reviews-server/auth"
	"github.com/smrsite/reviews-server/models"
)

// State-changing admin calls must carry this fixed header value. Its
// absence is a malformed request (400), not an auth failure. This is a
// deliberately weak CSRF mitigation, not a boundary against a capable
// attacker.
const (
	CSRFHeader      = "X-Requested-With"
	CSRFHeaderValue = "smr-admin"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Log request
		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		// Call the next handler
		next(w, r)

		// Log completion
		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes the standard error envelope. The tag is either one
// of the models.Err* constants or a human-readable validation message.
func ErrorResponse(w http.ResponseWriter, statusCode int, tag string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		OK:    false,
		Error: tag,
	})
}

// ErrorDetail writes the error envelope with a diagnostic detail string.
// Used for server errors and store contention, where the original error
// helps debugging.
func ErrorDetail(w http.ResponseWriter, statusCode int, tag string, err error) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		OK:     false,
		Error:  tag,
		Detail: err.Error(),
	})
}

// IsJSON reports whether the request body is JSON (as opposed to a form
// post). Public endpoints accept both.
func IsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+CSRFHeader)
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Guard wraps handlers with session-based admin policies.
type Guard struct {
	sessions *auth.Sessions
}

func NewGuard(sessions *auth.Sessions) *Guard {
	return &Guard{sessions: sessions}
}

// RequireAdmin rejects requests without a valid admin session.
func (g *Guard) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.sessions.IsAdmin(r) {
			ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthorized)
			return
		}
		next(w, r)
	}
}

// RequireAdminWrite additionally demands the anti-CSRF header on
// state-changing methods.
func (g *Guard) RequireAdminWrite(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !g.sessions.IsAdmin(r) {
			ErrorResponse(w, http.StatusUnauthorized, models.ErrUnauthorized)
			return
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if r.Header.Get(CSRFHeader) != CSRFHeaderValue {
				ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest)
				return
			}
		}

		next(w, r)
	}
}
