// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing.

# Sources

Each setting resolves from, in order: CLI flag, then environment variable,
then a built-in default. Secrets additionally check the systemd credentials
directory before the environment:

	$CREDENTIALS_DIRECTORY/admin_password  → ADMIN_PASSWORD
	$CREDENTIALS_DIRECTORY/session_secret  → SESSION_SECRET

# Settings

  - PORT (-p): server port (default 8000)
  - REVIEWS_DB (-d): SQLite database path (default reviews.db)
  - UPLOADS_DIR (-u): gallery uploads directory (default uploads)
  - ADMIN_PASSWORD (--admin-password): empty disables admin login
  - SESSION_SECRET (--session-secret): session cookie signing secret
  - SESSION_COOKIE_SECURE: "0" disables the Secure cookie attribute

An empty admin password is deliberately not a parse error: the login
endpoint fails closed instead.
*/
package cliparse
