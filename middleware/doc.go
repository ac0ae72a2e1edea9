// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides request-wrapping policies and HTTP helpers.

# Helpers

  - WithLogging: request start/completion logging via slog
  - JSONResponse / ErrorResponse / ErrorDetail: the JSON envelope
  - ParseJSONBody / IsJSON: body parsing for JSON-or-form endpoints
  - CORS: credentials-aware cross-origin support

# Admin Policies

Guard composes the session check and the anti-CSRF header check as plain
handler wrappers:

	guard := middleware.NewGuard(sessions)
	mux.HandleFunc("GET /api/admin/codes", guard.RequireAdmin(h.ListCodes))
	mux.HandleFunc("POST /api/admin/codes/add", guard.RequireAdminWrite(h.AddCodes))

RequireAdmin returns 401 unauthorized without a valid session cookie.
RequireAdminWrite additionally returns 400 bad_request when a
state-changing method lacks the X-Requested-With: smr-admin header. That
is a malformed request, not an auth failure, so the two conditions stay
distinguishable to clients.
*/
package middleware
