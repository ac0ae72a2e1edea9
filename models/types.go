// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Stable error tags returned in the "error" field of ErrorResponse.
// Validation failures carry a human-readable message instead.
const (
	ErrUnauthorized       = "unauthorized"
	ErrBadRequest         = "bad_request"
	ErrInvalidCode        = "invalid_code"
	ErrDBBusy             = "db_busy"
	ErrServerError        = "server_error"
	ErrBadPassword        = "bad_password"
	ErrAdminNotConfigured = "admin_not_configured"
	ErrNoCodes            = "no_codes"
	ErrBadID              = "bad_id"
	ErrNotFound           = "not_found"
)

// Request types

// SubmitReviewRequest is the JSON body for POST /submit-review.
// Rating is `any` because callers send both 5 and "5"; the handler
// coerces it to an integer.
type SubmitReviewRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Rating  any    `json:"rating"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type LoginRequest struct {
	Password string `json:"password"`
}

// AddCodesRequest carries newline-separated 3-digit codes.
type AddCodesRequest struct {
	Codes string `json:"codes"`
}

type DeleteCodeRequest struct {
	Code string `json:"code"`
}

// DeleteByIDRequest is shared by review and gallery deletion; ID is `any`
// because callers send both 7 and "7".
type DeleteByIDRequest struct {
	ID any `json:"id"`
}

// Response types

type OKResponse struct {
	OK bool `json:"ok"`
}

type MeResponse struct {
	OK      bool `json:"ok"`
	IsAdmin bool `json:"is_admin"`
}

type ReviewsResponse struct {
	Reviews []PublicReview `json:"reviews"`
}

type AdminReviewsResponse struct {
	OK      bool     `json:"ok"`
	Total   int      `json:"total"`
	Reviews []Review `json:"reviews"`
}

type CodeCounts struct {
	Unused int `json:"unused"`
	Used   int `json:"used"`
	Total  int `json:"total"`
}

type CodesResponse struct {
	OK          bool         `json:"ok"`
	Counts      CodeCounts   `json:"counts"`
	UnusedCodes []UnusedCode `json:"unused_codes"`
	UsedCodes   []UsedCode   `json:"used_codes"`
}

type AddCodesResponse struct {
	OK        bool `json:"ok"`
	Submitted int  `json:"submitted"`
}

type DeleteCodeResponse struct {
	OK      bool  `json:"ok"`
	Deleted int64 `json:"deleted"`
}

type GalleryDataResponse struct {
	OK     bool           `json:"ok"`
	Groups []GalleryGroup `json:"groups"`
}

type GalleryGroup struct {
	Category string        `json:"category"`
	Images   []PublicImage `json:"images"`
}

type AdminGalleryResponse struct {
	OK     bool                `json:"ok"`
	Images []AdminGalleryImage `json:"images"`
}

type UploadImageResponse struct {
	OK    bool              `json:"ok"`
	Image AdminGalleryImage `json:"image"`
}

// Domain types
//
// Timestamps are the store's datetime('now') strings; they pass through
// to JSON unchanged.

type ReviewCode struct {
	Code        string  `json:"code"`
	CreatedAt   string  `json:"created_at"`
	UsedAt      *string `json:"used_at,omitempty"`
	UsedByName  *string `json:"used_by_name,omitempty"`
	UsedByEmail *string `json:"used_by_email,omitempty"`
}

type UnusedCode struct {
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
}

type UsedCode struct {
	Code        string  `json:"code"`
	CreatedAt   string  `json:"created_at"`
	UsedAt      string  `json:"used_at"`
	UsedByName  *string `json:"used_by_name"`
	UsedByEmail *string `json:"used_by_email"`
}

type Review struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Rating    int    `json:"rating"`
	Message   string `json:"message"`
}

// PublicReview is the unauthenticated listing shape; no id or email.
type PublicReview struct {
	Name      string `json:"name"`
	Rating    int    `json:"rating"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

type GalleryImage struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	Category  string `json:"category"`
	Alt       string `json:"alt"`
	CreatedAt string `json:"created_at"`
}

type PublicImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	CreatedAt string `json:"created_at"`
}

// AdminGalleryImage adds on-disk bookkeeping to the metadata row. Size is
// human-readable; Missing is set when the backing file is gone.
type AdminGalleryImage struct {
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	Filename  string `json:"filename"`
	Category  string `json:"category"`
	Alt       string `json:"alt"`
	CreatedAt string `json:"created_at"`
	Size      string `json:"size,omitempty"`
	Missing   bool   `json:"missing,omitempty"`
}

// Error response

type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
