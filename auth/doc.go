// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin session cookies and password verification.

# Sessions

Sessions are a single signed cookie (no server-side session store):

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SecureCookies)
	err := sessions.SetAdmin(w)   // after a successful login
	ok := sessions.IsAdmin(r)     // in middleware
	sessions.Clear(w)             // on logout

The payload is encoded and HMAC-signed by gorilla/securecookie with a key
derived from SESSION_SECRET (SHA-256 of the secret). The cookie is
HttpOnly, SameSite=Lax, and Secure unless SESSION_COOKIE_SECURE=0.

Without a configured secret a random per-process key is generated, so a
restart invalidates all sessions.

# Passwords

CheckPassword is a constant-time comparison against the configured admin
password. An empty configured password never matches anything: admin
login is disabled rather than open.
*/
package auth
