// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the reviews API server.

The server collects customer reviews gated by one-time 3-digit
redemption codes, serves an image gallery, and exposes a
session-authenticated admin surface for moderation and code management.

# Starting the Server

The server runs with no mandatory configuration:

	go run main.go

Or with flags:

	go run main.go -p 8000 -d reviews.db -u uploads

# Configuration

Optional settings (flag / env):

  - PORT (-p): server port (default 8000)
  - REVIEWS_DB (-d): SQLite database path (default reviews.db)
  - UPLOADS_DIR (-u): gallery uploads directory (default uploads)
  - ADMIN_PASSWORD: admin login password; empty disables admin login
  - SESSION_SECRET: session cookie signing secret
  - SESSION_COOKIE_SECURE: "0" to allow plain-HTTP cookies in dev

Secrets prefer systemd credentials ($CREDENTIALS_DIRECTORY/admin_password,
$CREDENTIALS_DIRECTORY/session_secret) over the environment. A .env file
is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (reviews, codes, gallery, admin auth)
  - redeem: the one-time code redemption transaction
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, admin/CSRF guards
  - models: Request/response types
  - auth: Session cookies and password verification
  - db: Store opening and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
