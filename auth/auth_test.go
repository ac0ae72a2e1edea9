// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func sessionCookie(t *testing.T, s *Sessions) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := s.SetAdmin(w); err != nil {
		t.Fatalf("SetAdmin failed: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	s := NewSessions("test-secret", false)
	cookie := sessionCookie(t, s)

	if cookie.Name != SessionCookieName {
		t.Errorf("Expected cookie name %q, got %q", SessionCookieName, cookie.Name)
	}
	if !cookie.HttpOnly {
		t.Error("Session cookie must be HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Session cookie must be SameSite=Lax")
	}

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req.AddCookie(cookie)

	if !s.IsAdmin(req) {
		t.Error("Expected valid session cookie to read as admin")
	}
}

func TestNoCookieIsNotAdmin(t *testing.T) {
	s := NewSessions("test-secret", false)
	req := httptest.NewRequest("GET", "/api/admin/me", nil)

	if s.IsAdmin(req) {
		t.Error("Request without cookie must not be admin")
	}
}

func TestTamperedCookieRejected(t *testing.T) {
	s := NewSessions("test-secret", false)
	cookie := sessionCookie(t, s)

	// Flip a character in the encoded value
	tampered := []byte(cookie.Value)
	if tampered[0] == 'A' {
		tampered[0] = 'B'
	} else {
		tampered[0] = 'A'
	}

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: string(tampered)})

	if s.IsAdmin(req) {
		t.Error("Tampered cookie must not be admin")
	}
}

func TestCookieFromDifferentSecretRejected(t *testing.T) {
	s1 := NewSessions("secret-one", false)
	s2 := NewSessions("secret-two", false)
	cookie := sessionCookie(t, s1)

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req.AddCookie(cookie)

	if s2.IsAdmin(req) {
		t.Error("Cookie signed under a different secret must not verify")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	s := NewSessions("test-secret", false)

	w := httptest.NewRecorder()
	s.Clear(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != -1 {
		t.Errorf("Expected MaxAge -1, got %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Errorf("Expected empty value, got %q", cookies[0].Value)
	}
}

func TestEmptySecretStillIssuesSessions(t *testing.T) {
	s := NewSessions("", false)
	cookie := sessionCookie(t, s)

	req := httptest.NewRequest("GET", "/api/admin/me", nil)
	req.AddCookie(cookie)

	if !s.IsAdmin(req) {
		t.Error("Process-local key should still round-trip within the process")
	}
}

func TestSecureFlagFollowsConfig(t *testing.T) {
	s := NewSessions("test-secret", true)
	cookie := sessionCookie(t, s)

	if !cookie.Secure {
		t.Error("Expected Secure cookie when configured")
	}
}

func TestCheckPassword(t *testing.T) {
	if !CheckPassword("hunter2", "hunter2") {
		t.Error("Matching password rejected")
	}
	if CheckPassword("hunter3", "hunter2") {
		t.Error("Wrong password accepted")
	}
	if CheckPassword("", "hunter2") {
		t.Error("Empty candidate accepted")
	}
	// Fails closed: empty configured password matches nothing
	if CheckPassword("", "") {
		t.Error("Empty configured password must never match")
	}
	if CheckPassword("anything", "") {
		t.Error("Empty configured password must never match")
	}
}
