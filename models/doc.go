// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types for the
reviews API.

# Domain Types

Three persisted entities:

  - ReviewCode: a one-time 3-digit redemption code. used_at is nil until
    the code is redeemed; the redeemer's name and email are denormalized
    onto the code row and survive deletion of the review itself.
  - Review: created only as a side effect of a successful redemption,
    never independently. Deleted by admins, never updated.
  - GalleryImage: metadata for an uploaded file living under the uploads
    directory.

# Wire Shapes

Public endpoints strip private fields: PublicReview omits id and email,
PublicImage exposes only id/url/alt/created_at. Admin endpoints return the
full rows, and the gallery admin listing decorates each row with on-disk
size and a missing-file flag (AdminGalleryImage).

# Error Envelope

Every error is

	{"ok": false, "error": "<tag or message>", "detail": "..."}

where the tags are the Err* constants. Server errors include a diagnostic
detail string; the HTTP status code is the primary signal.
*/
package models
