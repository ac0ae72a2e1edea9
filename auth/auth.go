// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
)

// SessionCookieName is the admin session cookie.
const SessionCookieName = "smr_session"

// sessionLifetime bounds how long an encoded session stays decodable.
const sessionLifetime = 86400 // seconds

type sessionPayload struct {
	IsAdmin bool `json:"is_admin"`
}

// Sessions issues and verifies signed admin session cookies.
type Sessions struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewSessions derives the signing key from the configured secret. With no
// secret it falls back to a process-local random key: login still works,
// but sessions die with the process.
func NewSessions(secret string, secure bool) *Sessions {
	var key []byte
	if secret == "" {
		slog.Warn("SESSION_SECRET not set; sessions will not survive restarts")
		key = securecookie.GenerateRandomKey(32)
	} else {
		sum := sha256.Sum256([]byte(secret))
		key = sum[:]
	}

	sc := securecookie.New(key, nil)
	sc.MaxAge(sessionLifetime)

	return &Sessions{sc: sc, secure: secure}
}

// SetAdmin writes an admin session cookie to the response.
func (s *Sessions) SetAdmin(w http.ResponseWriter) error {
	encoded, err := s.sc.Encode(SessionCookieName, sessionPayload{IsAdmin: true})
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// IsAdmin reports whether the request carries a valid admin session.
// Tampered, expired, or absent cookies all read as not-admin.
func (s *Sessions) IsAdmin(r *http.Request) bool {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return false
	}

	var payload sessionPayload
	if err := s.sc.Decode(SessionCookieName, c.Value, &payload); err != nil {
		return false
	}
	return payload.IsAdmin
}

// CheckPassword compares a candidate against the configured admin
// password in constant time. An empty configured password never matches.
func CheckPassword(candidate, configured string) bool {
	if configured == "" {
		return false
	}
	return hmac.Equal([]byte(candidate), []byte(configured))
}
