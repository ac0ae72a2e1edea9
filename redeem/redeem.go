// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package redeem

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smrsite/reviews-server/db"
)

var (
	// ErrCodeInvalidOrUsed covers both "never existed" and "already
	// redeemed". Callers must not be able to tell the two apart.
	ErrCodeInvalidOrUsed = errors.New("code is invalid or already used")

	// ErrStoreBusy means the store could not take the write lock within
	// the busy-wait budget. The whole operation may be retried from
	// scratch; retrying only the insert is never safe.
	ErrStoreBusy = errors.New("store is busy")
)

// Submission is a validated review submission. The caller has already
// checked the code format and field constraints; Redeem only decides
// whether the code can be spent.
type Submission struct {
	Code    string
	Name    string
	Email   string
	Rating  int
	Message string
}

// Redeem atomically marks sub.Code used and inserts the review row, or
// does neither.
//
// The transaction opens with exclusive-write intent (BEGIN IMMEDIATE via
// the connection's _txlock setting), and the precondition is encoded in
// the UPDATE's predicate: "used_at IS NULL". Of any number of concurrent
// attempts on the same code, at most one can observe one affected row.
//
// Redemption is not idempotent: replaying a successful request returns
// ErrCodeInvalidOrUsed, because codes are single-use.
func Redeem(ctx context.Context, conn *sql.DB, sub Submission) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin redemption", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE review_codes
		   SET used_at = datetime('now'),
		       used_by_email = ?,
		       used_by_name  = ?
		 WHERE code = ?
		   AND used_at IS NULL
	`, nullable(sub.Email), sub.Name, sub.Code)
	if err != nil {
		return classify("mark code used", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCodeInvalidOrUsed
	}
	if affected > 1 {
		// code is the primary key; more than one row means the store
		// lost its uniqueness invariant
		return fmt.Errorf("redemption updated %d rows for code %q", affected, sub.Code)
	}

	// Same transaction: a failed insert rolls the code flip back too.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO reviews (name, email, rating, message, created_at)
		VALUES (?, ?, ?, ?, datetime('now'))
	`, sub.Name, nullable(sub.Email), sub.Rating, sub.Message)
	if err != nil {
		return classify("insert review", err)
	}

	if err := tx.Commit(); err != nil {
		return classify("commit redemption", err)
	}

	return nil
}

// classify maps lock contention to ErrStoreBusy and wraps everything
// else as-is.
func classify(op string, err error) error {
	if db.IsBusy(err) {
		return fmt.Errorf("%s: %w", op, ErrStoreBusy)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// nullable stores empty strings as NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
