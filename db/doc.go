// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles opening the SQLite store and schema creation.

# Opening

Open configures the connection for the redemption workload:

	conn, err := db.Open("reviews.db")

The DSN enables WAL journaling, a 5 second busy timeout, foreign keys,
and immediate transaction locking. With _txlock=immediate every BeginTx
issues BEGIN IMMEDIATE, so writers serialize at transaction start, the
property the redemption engine's check-and-mark sequence relies on.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The /health endpoint calls it too, so a fresh deployment
bootstraps its schema on first probe.

# Tables

  - review_codes: one-time 3-digit codes; used_at NULL means available
  - reviews: created only by the redemption transaction
  - gallery_images: metadata for uploaded files

No foreign key links review_codes to reviews: the code row keeps its own
denormalized used_by_name/used_by_email copies, so deleting a review never
touches the redeemed status of the code that paid for it.

# Contention

IsBusy classifies driver errors: SQLITE_BUSY or SQLITE_LOCKED after the
busy-wait budget means the caller should surface "store busy" (HTTP 503)
rather than a server error.
*/
package db
