// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/smrsite/reviews-server/db"
	"github.com/smrsite/reviews-server/middleware"
	"github.com/smrsite/reviews-server/models"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(conn *sql.DB) *HealthHandler {
	return &HealthHandler{db: conn}
}

// Health handles GET /health - liveness plus schema bootstrap, so a
// fresh deployment is ready after its first probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := db.CreateSchema(h.db); err != nil {
		slog.Error("health check schema bootstrap failed", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
