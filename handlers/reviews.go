// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smrsite/reviews-server/cliparse"
	"github.com/smrsite/reviews-server/middleware"
	"github.com/smrsite/reviews-server/models"
	"github.com/smrsite/reviews-server/redeem"
)

const publicReviewLimit = 50

type ReviewsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewReviewsHandler(db *sql.DB, cfg cliparse.Config) *ReviewsHandler {
	return &ReviewsHandler{db: db, cfg: cfg}
}

// incomingReview is the normalized submission, before validation.
type incomingReview struct {
	name    string
	email   string
	rating  any
	message string
	code    string
}

// parseIncomingReview accepts both JSON and form-encoded bodies.
func parseIncomingReview(r *http.Request) (incomingReview, error) {
	if middleware.IsJSON(r) {
		var req models.SubmitReviewRequest
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			return incomingReview{}, err
		}
		return incomingReview{
			name:    strings.TrimSpace(req.Name),
			email:   strings.TrimSpace(req.Email),
			rating:  req.Rating,
			message: strings.TrimSpace(req.Message),
			code:    strings.TrimSpace(req.Code),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return incomingReview{}, err
	}
	in := incomingReview{
		name:    strings.TrimSpace(r.PostForm.Get("name")),
		email:   strings.TrimSpace(r.PostForm.Get("email")),
		message: strings.TrimSpace(r.PostForm.Get("message")),
		code:    strings.TrimSpace(r.PostForm.Get("code")),
	}
	if vs, ok := r.PostForm["rating"]; ok && len(vs) > 0 {
		in.rating = vs[0]
	}
	return in, nil
}

// SubmitReview handles POST /submit-review
//
// All validation happens before the redemption engine is invoked, so a
// bad request never opens a transaction or consumes a code.
func (h *ReviewsHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	in, err := parseIncomingReview(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if in.name == "" || in.message == "" || in.rating == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, rating, and message are required")
		return
	}

	if !codePattern.MatchString(in.code) {
		middleware.ErrorResponse(w, http.StatusForbidden, models.ErrInvalidCode)
		return
	}

	rating, err := coerceInt(in.rating)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rating must be an integer")
		return
	}
	if rating < 1 || rating > 5 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	err = redeem.Redeem(r.Context(), h.db, redeem.Submission{
		Code:    in.code,
		Name:    in.name,
		Email:   in.email,
		Rating:  rating,
		Message: in.message,
	})

	switch {
	case err == nil:
		slog.Info("review submitted", "code", in.code)
		middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
	case errors.Is(err, redeem.ErrCodeInvalidOrUsed):
		middleware.ErrorResponse(w, http.StatusForbidden, models.ErrInvalidCode)
	case errors.Is(err, redeem.ErrStoreBusy):
		slog.Warn("redemption hit store contention", "error", err)
		middleware.ErrorDetail(w, http.StatusServiceUnavailable, models.ErrDBBusy, err)
	default:
		slog.Error("redemption failed", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
	}
}

// ListReviews handles GET /reviews - the public recent-reviews feed.
func (h *ReviewsHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT name, rating, message, created_at
		  FROM reviews
		 ORDER BY id DESC
		 LIMIT ?
	`, publicReviewLimit)
	if err != nil {
		slog.Error("failed to query reviews", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()

	reviews := []models.PublicReview{}
	for rows.Next() {
		var rv models.PublicReview
		if err := rows.Scan(&rv.Name, &rv.Rating, &rv.Message, &rv.CreatedAt); err != nil {
			slog.Error("failed to scan review", "error", err)
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}
		reviews = append(reviews, rv)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ReviewsResponse{Reviews: reviews})
}

// AdminListReviews handles GET /api/admin/reviews
func (h *ReviewsHandler) AdminListReviews(w http.ResponseWriter, r *http.Request) {
	limit := clampLimit(r.URL.Query().Get("limit"), 500, 1, 5000)

	rows, err := h.db.Query(`
		SELECT id, created_at, name, email, rating, message
		  FROM reviews
		 ORDER BY id DESC
		 LIMIT ?
	`, limit)
	if err != nil {
		slog.Error("failed to query reviews", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		var email sql.NullString
		if err := rows.Scan(&rv.ID, &rv.CreatedAt, &rv.Name, &email, &rv.Rating, &rv.Message); err != nil {
			slog.Error("failed to scan review", "error", err)
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}
		rv.Email = email.String
		reviews = append(reviews, rv)
	}

	var total int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		slog.Error("failed to count reviews", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminReviewsResponse{
		OK:      true,
		Total:   total,
		Reviews: reviews,
	})
}

// AdminDeleteReview handles POST /api/admin/reviews/delete
func (h *ReviewsHandler) AdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	raw, _, err := formOrJSONValue(r, "id")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := coerceID(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadID)
		return
	}

	res, err := h.db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		slog.Error("failed to delete review", "error", err, "id", id)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	if affected != 1 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound)
		return
	}

	slog.Info("review deleted", "id", id)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}
