// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smrsite/reviews-server/db"
	"github.com/smrsite/reviews-server/middleware"
	"github.com/smrsite/reviews-server/models"
)

type CodesHandler struct {
	db *sql.DB
}

func NewCodesHandler(conn *sql.DB) *CodesHandler {
	return &CodesHandler{db: conn}
}

// List handles GET /api/admin/codes - counts plus previews of unused and
// recently redeemed codes.
func (h *CodesHandler) List(w http.ResponseWriter, r *http.Request) {
	previewLimit := clampLimit(r.URL.Query().Get("limit"), 300, 50, 2000)

	var unused, used int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM review_codes WHERE used_at IS NULL`).Scan(&unused); err != nil {
		slog.Error("failed to count unused codes", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM review_codes WHERE used_at IS NOT NULL`).Scan(&used); err != nil {
		slog.Error("failed to count used codes", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	unusedCodes := []models.UnusedCode{}
	rows, err := h.db.Query(`
		SELECT code, created_at
		  FROM review_codes
		 WHERE used_at IS NULL
		 ORDER BY created_at DESC, code
		 LIMIT ?
	`, previewLimit)
	if err != nil {
		slog.Error("failed to query unused codes", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var c models.UnusedCode
		if err := rows.Scan(&c.Code, &c.CreatedAt); err != nil {
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}
		unusedCodes = append(unusedCodes, c)
	}

	usedCodes := []models.UsedCode{}
	usedRows, err := h.db.Query(`
		SELECT code, created_at, used_at, used_by_name, used_by_email
		  FROM review_codes
		 WHERE used_at IS NOT NULL
		 ORDER BY used_at DESC, code
		 LIMIT ?
	`, previewLimit)
	if err != nil {
		slog.Error("failed to query used codes", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer usedRows.Close()
	for usedRows.Next() {
		var c models.UsedCode
		var name, email sql.NullString
		if err := usedRows.Scan(&c.Code, &c.CreatedAt, &c.UsedAt, &name, &email); err != nil {
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}
		if name.Valid {
			c.UsedByName = &name.String
		}
		if email.Valid {
			c.UsedByEmail = &email.String
		}
		usedCodes = append(usedCodes, c)
	}

	middleware.JSONResponse(w, http.StatusOK, models.CodesResponse{
		OK: true,
		Counts: models.CodeCounts{
			Unused: unused,
			Used:   used,
			Total:  unused + used,
		},
		UnusedCodes: unusedCodes,
		UsedCodes:   usedCodes,
	})
}

// Add handles POST /api/admin/codes/add - bulk insert of newline
// separated codes.
//
// All-or-nothing: every line is validated before any insert, and the
// inserts share one transaction, so a single malformed line means zero
// rows change. Codes that already exist are ignored, not errors.
func (h *CodesHandler) Add(w http.ResponseWriter, r *http.Request) {
	raw, _, err := formOrJSONValue(r, "codes")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	text := stringField(raw)
	if text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoCodes)
		return
	}

	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !codePattern.MatchString(line) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid_code_format:"+line)
			return
		}
		cleaned = append(cleaned, line)
	}
	if len(cleaned) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrNoCodes)
		return
	}

	tx, err := h.db.BeginTx(r.Context(), nil)
	if err != nil {
		h.storeError(w, "begin code insert", err)
		return
	}
	defer tx.Rollback()

	for _, code := range cleaned {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO review_codes (code) VALUES (?)`, code); err != nil {
			h.storeError(w, "insert code", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		h.storeError(w, "commit code insert", err)
		return
	}

	slog.Info("codes added", "submitted", len(cleaned))
	middleware.JSONResponse(w, http.StatusOK, models.AddCodesResponse{
		OK:        true,
		Submitted: len(cleaned),
	})
}

// Delete handles POST /api/admin/codes/delete
func (h *CodesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	raw, _, err := formOrJSONValue(r, "code")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	code := stringField(raw)
	if !codePattern.MatchString(code) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid_code_format")
		return
	}

	res, err := h.db.Exec(`DELETE FROM review_codes WHERE code = ?`, code)
	if err != nil {
		h.storeError(w, "delete code", err)
		return
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	slog.Info("code deleted", "code", code, "deleted", deleted)
	middleware.JSONResponse(w, http.StatusOK, models.DeleteCodeResponse{
		OK:      true,
		Deleted: deleted,
	})
}

// UnusedCSV handles GET /api/admin/codes/unused.csv
func (h *CodesHandler) UnusedCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT code FROM review_codes WHERE used_at IS NULL ORDER BY code
	`)
	if err != nil {
		slog.Error("failed to query unused codes", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Write([]string{"code"})
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}
		cw.Write([]string{code})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=unused_review_codes.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// storeError maps lock contention to 503 and everything else to 500.
func (h *CodesHandler) storeError(w http.ResponseWriter, op string, err error) {
	if db.IsBusy(err) {
		slog.Warn(op+" hit store contention", "error", err)
		middleware.ErrorDetail(w, http.StatusServiceUnavailable, models.ErrDBBusy, err)
		return
	}
	slog.Error("failed to "+op, "error", err)
	middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
}
