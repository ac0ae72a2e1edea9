// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/smrsite/reviews-server/auth"
	"github.com/smrsite/reviews-server/cliparse"
	"github.com/smrsite/reviews-server/middleware"
	"github.com/smrsite/reviews-server/models"
)

type AdminAuthHandler struct {
	cfg      cliparse.Config
	sessions *auth.Sessions
}

func NewAdminAuthHandler(cfg cliparse.Config, sessions *auth.Sessions) *AdminAuthHandler {
	return &AdminAuthHandler{cfg: cfg, sessions: sessions}
}

// Me handles GET /api/admin/me - whoami without requiring auth.
func (h *AdminAuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		OK:      true,
		IsAdmin: h.sessions.IsAdmin(r),
	})
}

// Login handles POST /api/admin/login
//
// An empty configured password disables admin login entirely (fails
// closed) and reports the deployment problem as a server error.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.cfg.AdminPassword == "" {
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrAdminNotConfigured)
		return
	}

	raw, _, err := formOrJSONValue(r, "password")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// Deliberately untrimmed: whitespace in a password is meaningful.
	password, _ := raw.(string)

	if !auth.CheckPassword(password, h.cfg.AdminPassword) {
		slog.Warn("admin login rejected", "remote", r.RemoteAddr)
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.ErrBadPassword)
		return
	}

	if err := h.sessions.SetAdmin(w); err != nil {
		slog.Error("failed to issue admin session", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	slog.Info("admin logged in", "remote", r.RemoteAddr)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

// Logout handles POST /api/admin/logout (guarded by RequireAdminWrite).
func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
