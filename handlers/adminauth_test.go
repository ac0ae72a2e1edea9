// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/smrsite/reviews-server/models"
	"github.com/smrsite/reviews-server/testutil"
)

func TestAdminLogin(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	h := NewAdminAuthHandler(cfg, testutil.NewTestSessions(cfg))

	w := httptest.NewRecorder()
	h.Login(w, testutil.MakeRequest("POST", "/api/admin/login",
		models.LoginRequest{Password: "test-password"}, nil))
	testutil.AssertStatus(t, w, 200)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Expected 1 session cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if !c.HttpOnly {
		t.Error("Expected HttpOnly session cookie")
	}
	if c.Value == "" {
		t.Error("Expected a non-empty session value")
	}
}

func TestAdminLoginWrongPassword(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	h := NewAdminAuthHandler(cfg, testutil.NewTestSessions(cfg))

	for _, password := range []string{"wrong", "", "test-password "} {
		w := httptest.NewRecorder()
		h.Login(w, testutil.MakeRequest("POST", "/api/admin/login",
			models.LoginRequest{Password: password}, nil))

		testutil.AssertStatus(t, w, 401)
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != "bad_password" {
			t.Errorf("password=%q: expected bad_password, got %q", password, resp.Error)
		}
		if len(w.Result().Cookies()) != 0 {
			t.Errorf("password=%q: rejected login must not set a cookie", password)
		}
	}
}

// With no password configured, login is disabled outright, even for an
// empty submitted password.
func TestAdminLoginNotConfigured(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	cfg.AdminPassword = ""
	h := NewAdminAuthHandler(cfg, testutil.NewTestSessions(cfg))

	w := httptest.NewRecorder()
	h.Login(w, testutil.MakeRequest("POST", "/api/admin/login",
		models.LoginRequest{Password: ""}, nil))

	testutil.AssertStatus(t, w, 500)
	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Error != "admin_not_configured" {
		t.Errorf("Expected admin_not_configured, got %q", resp.Error)
	}
}

func TestAdminLoginFormEncoded(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	h := NewAdminAuthHandler(cfg, testutil.NewTestSessions(cfg))

	form := url.Values{}
	form.Set("password", "test-password")

	w := httptest.NewRecorder()
	h.Login(w, testutil.MakeFormRequest("POST", "/api/admin/login", form, nil))
	testutil.AssertStatus(t, w, 200)
}

func TestAdminMe(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	sessions := testutil.NewTestSessions(cfg)
	h := NewAdminAuthHandler(cfg, sessions)

	// Anonymous: still 200, is_admin false
	w := httptest.NewRecorder()
	h.Me(w, testutil.MakeRequest("GET", "/api/admin/me", nil, nil))
	testutil.AssertStatus(t, w, 200)

	var resp models.MeResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.OK || resp.IsAdmin {
		t.Errorf("Expected anonymous me response, got %+v", resp)
	}

	// With a session cookie
	req := testutil.MakeRequest("GET", "/api/admin/me", nil, nil)
	req.AddCookie(testutil.AdminCookie(t, sessions))

	w = httptest.NewRecorder()
	h.Me(w, req)
	testutil.AssertStatus(t, w, 200)

	testutil.AssertJSON(t, w, &resp)
	if !resp.IsAdmin {
		t.Errorf("Expected is_admin=true, got %+v", resp)
	}
}

func TestAdminLogout(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	sessions := testutil.NewTestSessions(cfg)
	h := NewAdminAuthHandler(cfg, sessions)

	req := testutil.MakeRequest("POST", "/api/admin/logout", nil, nil)
	req.AddCookie(testutil.AdminCookie(t, sessions))

	w := httptest.NewRecorder()
	h.Logout(w, req)
	testutil.AssertStatus(t, w, 200)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Expected an expiring cookie, got %+v", cookies)
	}
}
