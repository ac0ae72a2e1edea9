// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/smrsite/reviews-server/auth"
	"github.com/smrsite/reviews-server/cliparse"
	"github.com/smrsite/reviews-server/handlers"
	"github.com/smrsite/reviews-server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
	guard := middleware.NewGuard(sessions)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	reviewsHandler := handlers.NewReviewsHandler(db, cfg)
	codesHandler := handlers.NewCodesHandler(db)
	galleryHandler := handlers.NewGalleryHandler(db, cfg)
	adminAuthHandler := handlers.NewAdminAuthHandler(cfg, sessions)

	// Health check (also bootstraps the schema)
	mux.HandleFunc("GET /health", middleware.WithLogging(healthHandler.Health))

	// Public endpoints
	mux.HandleFunc("POST /submit-review", middleware.WithLogging(reviewsHandler.SubmitReview))
	mux.HandleFunc("GET /reviews", middleware.WithLogging(reviewsHandler.ListReviews))
	mux.HandleFunc("GET /gallery-data", middleware.WithLogging(galleryHandler.PublicData))

	// Admin session
	mux.HandleFunc("GET /api/admin/me", middleware.WithLogging(adminAuthHandler.Me))
	mux.HandleFunc("POST /api/admin/login", middleware.WithLogging(adminAuthHandler.Login))
	mux.HandleFunc("POST /api/admin/logout", middleware.WithLogging(guard.RequireAdminWrite(adminAuthHandler.Logout)))

	// Admin code management
	mux.HandleFunc("GET /api/admin/codes", middleware.WithLogging(guard.RequireAdmin(codesHandler.List)))
	mux.HandleFunc("POST /api/admin/codes/add", middleware.WithLogging(guard.RequireAdminWrite(codesHandler.Add)))
	mux.HandleFunc("POST /api/admin/codes/delete", middleware.WithLogging(guard.RequireAdminWrite(codesHandler.Delete)))
	mux.HandleFunc("GET /api/admin/codes/unused.csv", middleware.WithLogging(guard.RequireAdmin(codesHandler.UnusedCSV)))

	// Admin review moderation
	mux.HandleFunc("GET /api/admin/reviews", middleware.WithLogging(guard.RequireAdmin(reviewsHandler.AdminListReviews)))
	mux.HandleFunc("POST /api/admin/reviews/delete", middleware.WithLogging(guard.RequireAdminWrite(reviewsHandler.AdminDeleteReview)))

	// Admin gallery management
	mux.HandleFunc("GET /api/admin/gallery", middleware.WithLogging(guard.RequireAdmin(galleryHandler.AdminList)))
	mux.HandleFunc("POST /api/admin/gallery/upload", middleware.WithLogging(guard.RequireAdminWrite(galleryHandler.Upload)))
	mux.HandleFunc("POST /api/admin/gallery/delete", middleware.WithLogging(guard.RequireAdminWrite(galleryHandler.Delete)))

	// Uploaded gallery files (static file layer, outside the store)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("reviews API v1"))
	})

	return mux
}
