// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smrsite/reviews-server/auth"
	"github.com/smrsite/reviews-server/cliparse"
	"github.com/smrsite/reviews-server/db"
)

// SetupTestDB creates a fresh on-disk SQLite database with the full
// schema. A real file (not :memory:) so the immediate-lock and busy
// behavior under concurrent connections matches production.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reviews_test.db")
	conn, err := db.Open(path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration with a throwaway
// uploads directory.
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()

	return cliparse.Config{
		Port:          8000,
		DBPath:        "unused-in-tests",
		UploadsDir:    t.TempDir(),
		AdminPassword: "test-password",
		SessionSecret: "test-session-secret",
		SecureCookies: false,
	}
}

// NewTestSessions builds the session manager for a test config. Any two
// instances with the same secret verify each other's cookies.
func NewTestSessions(cfg cliparse.Config) *auth.Sessions {
	return auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
}

// AdminCookie returns a valid admin session cookie.
func AdminCookie(t *testing.T, sessions *auth.Sessions) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := sessions.SetAdmin(w); err != nil {
		t.Fatalf("Failed to create admin session: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 session cookie, got %d", len(cookies))
	}
	return cookies[0]
}

// SeedCode inserts an unredeemed code.
func SeedCode(t *testing.T, conn *sql.DB, code string) {
	t.Helper()

	_, err := conn.Exec(`INSERT INTO review_codes (code) VALUES (?)`, code)
	if err != nil {
		t.Fatalf("Failed to seed code %s: %v", code, err)
	}
}

// SeedUsedCode inserts a code already redeemed by the given reviewer.
func SeedUsedCode(t *testing.T, conn *sql.DB, code, name, email string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO review_codes (code, used_at, used_by_name, used_by_email)
		VALUES (?, datetime('now'), ?, ?)
	`, code, name, email)
	if err != nil {
		t.Fatalf("Failed to seed used code %s: %v", code, err)
	}
}

// SeedReview inserts a review row directly and returns its id.
func SeedReview(t *testing.T, conn *sql.DB, name string, rating int, message string) int64 {
	t.Helper()

	res, err := conn.Exec(`
		INSERT INTO reviews (name, rating, message, created_at)
		VALUES (?, ?, ?, datetime('now'))
	`, name, rating, message)
	if err != nil {
		t.Fatalf("Failed to seed review: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get review id: %v", err)
	}
	return id
}

// SeedGalleryImage inserts a gallery row and writes a small backing file
// into the uploads directory. Returns the row id.
func SeedGalleryImage(t *testing.T, conn *sql.DB, uploadsDir, filename, category, alt string) int64 {
	t.Helper()

	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		t.Fatalf("Failed to create uploads dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(uploadsDir, filename), []byte("fake-image-bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write backing file: %v", err)
	}

	res, err := conn.Exec(`
		INSERT INTO gallery_images (filename, category, alt)
		VALUES (?, ?, ?)
	`, filename, category, alt)
	if err != nil {
		t.Fatalf("Failed to seed gallery image: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to get image id: %v", err)
	}
	return id
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with a form-encoded body
func MakeFormRequest(method, path string, form url.Values, headers map[string]string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
