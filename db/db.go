// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// busyTimeoutMS is the busy-wait budget: how long a transaction may wait
// for a conflicting writer before the store reports contention.
const busyTimeoutMS = 5000

// Open opens the SQLite database at path.
//
// The DSN sets _txlock=immediate so every transaction takes the write
// lock at BEGIN, not at the first write. The redemption path depends on
// this: two concurrent redemptions of the same code serialize at
// transaction start instead of deadlocking mid-transaction.
func Open(path string) (*sql.DB, error) {
	dsn := "file:" + url.PathEscape(path) +
		"?_txlock=immediate" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=busy_timeout(" + fmt.Sprint(busyTimeoutMS) + ")" +
		"&_pragma=foreign_keys(ON)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return conn, nil
}

// IsBusy reports whether err is the store's lock-contention error,
// raised after the busy-wait budget is exhausted.
func IsBusy(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		primary := se.Code() & 0xff
		return primary == sqlite3.SQLITE_BUSY || primary == sqlite3.SQLITE_LOCKED
	}
	return false
}
