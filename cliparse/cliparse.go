// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Port          int
	DBPath        string
	UploadsDir    string
	AdminPassword string
	SessionSecret string
	SecureCookies bool
}

// ParseFlags validates flags and resolves configuration.
//
// Secrets resolve in order: CLI flag (dev only), systemd credential file,
// environment variable. An empty admin password is not an error here; it
// disables admin login at the handler level.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("reviews-server", flag.ContinueOnError)

	// Network and storage config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DBPath, "d", "", "SQLite database path")
	fs.StringVar(&cfg.UploadsDir, "u", "", "Gallery uploads directory")

	// Secrets (prefer systemd credentials or env, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin password (prefer env)")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000 // default
		}
	}

	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("REVIEWS_DB")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "reviews.db"
	}

	if cfg.UploadsDir == "" {
		cfg.UploadsDir = os.Getenv("UPLOADS_DIR")
	}
	if cfg.UploadsDir == "" {
		cfg.UploadsDir = "uploads"
	}

	// Secrets: systemd credential beats env
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = getSecret("ADMIN_PASSWORD", "admin_password")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = getSecret("SESSION_SECRET", "session_secret")
	}

	// Secure session cookies unless explicitly disabled
	cfg.SecureCookies = os.Getenv("SESSION_COOKIE_SECURE") != "0"

	return cfg, nil
}

// readCredential reads a systemd credential from
// $CREDENTIALS_DIRECTORY/<name>. Returns "" if not present or unreadable.
func readCredential(name string) string {
	credDir := os.Getenv("CREDENTIALS_DIRECTORY")
	if credDir == "" {
		return ""
	}
	b, err := os.ReadFile(filepath.Join(credDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

// getSecret prefers the systemd credential, falling back to the
// environment variable.
func getSecret(envName, credName string) string {
	if v := readCredential(credName); v != "" {
		return v
	}
	return os.Getenv(envName)
}
