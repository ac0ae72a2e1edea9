// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/smrsite/reviews-server/cliparse"
	"github.com/smrsite/reviews-server/db"
	"github.com/smrsite/reviews-server/middleware"
	"github.com/smrsite/reviews-server/models"
)

// maxUploadBytes caps a single gallery upload.
const maxUploadBytes = 16 << 20

// allowedExtensions is the upload allowlist. Checked before anything is
// written to disk.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type GalleryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGalleryHandler(conn *sql.DB, cfg cliparse.Config) *GalleryHandler {
	return &GalleryHandler{db: conn, cfg: cfg}
}

func imageURL(filename string) string {
	return "/uploads/" + filename
}

// PublicData handles GET /gallery-data - images grouped by category for
// the public site.
func (h *GalleryHandler) PublicData(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, filename, category, alt, created_at
		  FROM gallery_images
		 ORDER BY category ASC, id DESC
	`)
	if err != nil {
		slog.Error("failed to query gallery", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()

	groups := []models.GalleryGroup{}
	for rows.Next() {
		var img models.GalleryImage
		if err := rows.Scan(&img.ID, &img.Filename, &img.Category, &img.Alt, &img.CreatedAt); err != nil {
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}

		pub := models.PublicImage{
			ID:        img.ID,
			URL:       imageURL(img.Filename),
			Alt:       img.Alt,
			CreatedAt: img.CreatedAt,
		}
		if n := len(groups); n > 0 && groups[n-1].Category == img.Category {
			groups[n-1].Images = append(groups[n-1].Images, pub)
		} else {
			groups = append(groups, models.GalleryGroup{
				Category: img.Category,
				Images:   []models.PublicImage{pub},
			})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.GalleryDataResponse{
		OK:     true,
		Groups: groups,
	})
}

// AdminList handles GET /api/admin/gallery - all rows, decorated with
// on-disk size (or a missing-file flag when the backing file is gone).
func (h *GalleryHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, filename, category, alt, created_at
		  FROM gallery_images
		 ORDER BY id DESC
	`)
	if err != nil {
		slog.Error("failed to query gallery", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}
	defer rows.Close()

	images := []models.AdminGalleryImage{}
	for rows.Next() {
		var img models.GalleryImage
		if err := rows.Scan(&img.ID, &img.Filename, &img.Category, &img.Alt, &img.CreatedAt); err != nil {
			middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
			return
		}

		admin := models.AdminGalleryImage{
			ID:        img.ID,
			URL:       imageURL(img.Filename),
			Filename:  img.Filename,
			Category:  img.Category,
			Alt:       img.Alt,
			CreatedAt: img.CreatedAt,
		}
		if fi, err := os.Stat(filepath.Join(h.cfg.UploadsDir, img.Filename)); err == nil {
			admin.Size = humanize.Bytes(uint64(fi.Size()))
		} else {
			admin.Missing = true
		}
		images = append(images, admin)
	}

	middleware.JSONResponse(w, http.StatusOK, models.AdminGalleryResponse{
		OK:     true,
		Images: images,
	})
}

// Upload handles POST /api/admin/gallery/upload (multipart).
//
// The stored name is a random token plus the original extension, so
// concurrent uploads cannot collide and nothing is ever overwritten. If
// the metadata insert fails after the file was written, the orphaned
// file is removed best-effort.
func (h *GalleryHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	category := strings.TrimSpace(r.FormValue("category"))
	if category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "category is required")
		return
	}
	alt := strings.TrimSpace(r.FormValue("alt"))

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		middleware.ErrorResponse(w, http.StatusBadRequest, "file type not allowed")
		return
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0o755); err != nil {
		slog.Error("failed to create uploads dir", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	filename := uuid.NewString() + ext
	path := filepath.Join(h.cfg.UploadsDir, filename)

	// O_EXCL: never overwrite, even if the token ever repeats
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		slog.Error("failed to create upload file", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	written, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		h.removeOrphan(path)
		slog.Error("failed to write upload", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	res, err := h.db.Exec(`
		INSERT INTO gallery_images (filename, category, alt)
		VALUES (?, ?, ?)
	`, filename, category, alt)
	if err != nil {
		// Metadata is authoritative; don't leave an unreferenced file
		h.removeOrphan(path)
		if db.IsBusy(err) {
			middleware.ErrorDetail(w, http.StatusServiceUnavailable, models.ErrDBBusy, err)
			return
		}
		slog.Error("failed to insert gallery row", "error", err)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	var createdAt string
	if err := h.db.QueryRow(`SELECT created_at FROM gallery_images WHERE id = ?`, id).Scan(&createdAt); err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	slog.Info("gallery image uploaded", "id", id, "filename", filename, "bytes", written)
	middleware.JSONResponse(w, http.StatusOK, models.UploadImageResponse{
		OK: true,
		Image: models.AdminGalleryImage{
			ID:        id,
			URL:       imageURL(filename),
			Filename:  filename,
			Category:  category,
			Alt:       alt,
			CreatedAt: createdAt,
			Size:      humanize.Bytes(uint64(written)),
		},
	})
}

// Delete handles POST /api/admin/gallery/delete
//
// The metadata delete is authoritative; removing the backing file is
// best-effort and a failure there is logged, not surfaced.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	var filename string
	err = h.db.QueryRow(`SELECT filename FROM gallery_images WHERE id = ?`, id).Scan(&filename)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.ErrNotFound)
		return
	}
	if err != nil {
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	if _, err := h.db.Exec(`DELETE FROM gallery_images WHERE id = ?`, id); err != nil {
		slog.Error("failed to delete gallery row", "error", err, "id", id)
		middleware.ErrorDetail(w, http.StatusInternalServerError, models.ErrServerError, err)
		return
	}

	if err := os.Remove(filepath.Join(h.cfg.UploadsDir, filename)); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove gallery file", "error", err, "filename", filename)
	}

	slog.Info("gallery image deleted", "id", id, "filename", filename)
	middleware.JSONResponse(w, http.StatusOK, models.OKResponse{OK: true})
}

func (h *GalleryHandler) removeOrphan(path string) {
	if err := os.Remove(path); err != nil {
		slog.Warn("failed to clean up orphaned upload", "error", err, "path", path)
	}
}
