// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the reviews API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ReviewsHandler: review submission, public feed, admin list/delete
  - CodesHandler: admin code management and CSV export
  - GalleryHandler: public gallery data, admin upload/list/delete
  - AdminAuthHandler: login, logout, whoami
  - HealthHandler: liveness + schema bootstrap

Handlers are created via constructor functions:

	reviewsHandler := handlers.NewReviewsHandler(db, cfg)

# Submission Flow

POST /submit-review validates name/message presence, the 3-digit code
format, and the 1-5 integer rating before anything touches the store;
only then does the redemption transaction run (package redeem). Outcomes
map to fixed statuses:

	200 {"ok":true}         redeemed, review stored
	400                     bad input (nothing consumed)
	403 invalid_code        unknown or already-used code
	503 db_busy             store contention, retry later
	500 server_error        anything else, fully rolled back

# Admin Surface

All /api/admin/* handlers run behind the session guard; state-changing
ones also require the X-Requested-With: smr-admin header (package
middleware). Bodies may be JSON or form-encoded throughout, matching the
public endpoints.

# Gallery Rules

Uploads pass an extension allowlist before any disk write. Stored names
are random (uuid + original extension) and never overwritten. The
metadata row is authoritative: a failed insert removes the just-written
file, and a row delete only best-effort removes the backing file.
*/
package handlers
