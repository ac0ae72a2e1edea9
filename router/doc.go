// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ routing.

# Public Routes

	GET  /health              liveness + schema bootstrap
	POST /submit-review       redeem a code, create a review
	GET  /reviews             recent reviews feed
	GET  /gallery-data        categorized image listing
	GET  /uploads/{file}      static gallery files

# Admin Routes

	GET  /api/admin/me                  whoami (no auth required)
	POST /api/admin/login               password -> session cookie
	POST /api/admin/logout              session + header
	GET  /api/admin/codes               counts + previews
	POST /api/admin/codes/add           bulk insert, all-or-nothing
	POST /api/admin/codes/delete        delete one code
	GET  /api/admin/codes/unused.csv    CSV export
	GET  /api/admin/reviews             full listing
	POST /api/admin/reviews/delete      delete one review
	GET  /api/admin/gallery             listing with disk state
	POST /api/admin/gallery/upload      multipart upload
	POST /api/admin/gallery/delete      delete row + file

GET admin routes go through guard.RequireAdmin, POST ones through
guard.RequireAdminWrite (session plus the anti-CSRF header). The session
manager is built here once and shared by the guard and the auth handler.
*/
package router
