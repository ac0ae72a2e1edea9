// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package redeem

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/smrsite/reviews-server/testutil"
)

func countReviews(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&n); err != nil {
		t.Fatalf("Failed to count reviews: %v", err)
	}
	return n
}

func TestRedeemUnknownCode(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	err := Redeem(context.Background(), conn, Submission{
		Code: "999", Name: "Alice", Rating: 5, Message: "Great!",
	})

	if !errors.Is(err, ErrCodeInvalidOrUsed) {
		t.Errorf("Expected ErrCodeInvalidOrUsed, got %v", err)
	}
	if n := countReviews(t, conn); n != 0 {
		t.Errorf("Expected 0 reviews after failed redemption, got %d", n)
	}
}

func TestRedeemSuccess(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCode(t, conn, "123")

	err := Redeem(context.Background(), conn, Submission{
		Code: "123", Name: "Alice", Email: "alice@example.com",
		Rating: 5, Message: "Great!",
	})
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}

	// Code is flipped with the reviewer identity denormalized onto it
	var usedAt, usedByName, usedByEmail sql.NullString
	err = conn.QueryRow(`
		SELECT used_at, used_by_name, used_by_email FROM review_codes WHERE code = '123'
	`).Scan(&usedAt, &usedByName, &usedByEmail)
	if err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if !usedAt.Valid {
		t.Error("Expected used_at to be set")
	}
	if usedByName.String != "Alice" {
		t.Errorf("Expected used_by_name Alice, got %q", usedByName.String)
	}
	if usedByEmail.String != "alice@example.com" {
		t.Errorf("Expected used_by_email, got %q", usedByEmail.String)
	}

	// Exactly one review row with the submitted fields
	var name, message string
	var rating int
	err = conn.QueryRow(`SELECT name, rating, message FROM reviews`).Scan(&name, &rating, &message)
	if err != nil {
		t.Fatalf("Failed to query review: %v", err)
	}
	if name != "Alice" || rating != 5 || message != "Great!" {
		t.Errorf("Unexpected review row: %s/%d/%s", name, rating, message)
	}
}

// Redemption is intentionally not idempotent: replaying the same request
// after a success must fail, because codes are single-use.
func TestRedeemNotIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCode(t, conn, "123")

	sub := Submission{Code: "123", Name: "Alice", Rating: 5, Message: "Great!"}

	if err := Redeem(context.Background(), conn, sub); err != nil {
		t.Fatalf("First redemption failed: %v", err)
	}
	err := Redeem(context.Background(), conn, sub)
	if !errors.Is(err, ErrCodeInvalidOrUsed) {
		t.Errorf("Expected ErrCodeInvalidOrUsed on replay, got %v", err)
	}
	if n := countReviews(t, conn); n != 1 {
		t.Errorf("Expected exactly 1 review after replay, got %d", n)
	}
}

func TestRedeemAlreadyUsedCode(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedUsedCode(t, conn, "321", "Bob", "bob@example.com")

	err := Redeem(context.Background(), conn, Submission{
		Code: "321", Name: "Alice", Rating: 4, Message: "Nice",
	})
	if !errors.Is(err, ErrCodeInvalidOrUsed) {
		t.Errorf("Expected ErrCodeInvalidOrUsed, got %v", err)
	}

	// The original redeemer sticks
	var usedByName string
	if err := conn.QueryRow(`SELECT used_by_name FROM review_codes WHERE code = '321'`).Scan(&usedByName); err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if usedByName != "Bob" {
		t.Errorf("Expected used_by_name Bob, got %q", usedByName)
	}
}

func TestRedeemEmptyEmailStoredAsNull(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCode(t, conn, "456")

	err := Redeem(context.Background(), conn, Submission{
		Code: "456", Name: "Carol", Rating: 3, Message: "Fine",
	})
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}

	var usedByEmail, reviewEmail sql.NullString
	if err := conn.QueryRow(`SELECT used_by_email FROM review_codes WHERE code = '456'`).Scan(&usedByEmail); err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if usedByEmail.Valid {
		t.Errorf("Expected NULL used_by_email, got %q", usedByEmail.String)
	}
	if err := conn.QueryRow(`SELECT email FROM reviews`).Scan(&reviewEmail); err != nil {
		t.Fatalf("Failed to query review: %v", err)
	}
	if reviewEmail.Valid {
		t.Errorf("Expected NULL review email, got %q", reviewEmail.String)
	}
}

// TestConcurrentRedeemSameCode verifies the single-use invariant under
// contention: of N simultaneous attempts on one code, exactly one
// succeeds and at most one review row exists.
func TestConcurrentRedeemSameCode(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCode(t, conn, "777")

	numAttempts := 8
	var successCount, invalidCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			err := Redeem(context.Background(), conn, Submission{
				Code: "777", Name: "Racer", Rating: 5, Message: "fast",
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, ErrCodeInvalidOrUsed):
				invalidCount.Add(1)
			case errors.Is(err, ErrStoreBusy):
				// Acceptable under heavy contention; still a failure
			default:
				t.Errorf("Unexpected redemption error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly 1 successful redemption, got %d", successCount.Load())
	}
	if n := countReviews(t, conn); n != 1 {
		t.Errorf("Expected exactly 1 review row, got %d", n)
	}

	var used int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM review_codes WHERE used_at IS NOT NULL`).Scan(&used); err != nil {
		t.Fatalf("Failed to count used codes: %v", err)
	}
	if used != 1 {
		t.Errorf("Expected 1 used code, got %d", used)
	}
}

// A failure on the insert step (here: the reviews table is gone) must
// roll back the code flip too - no partial state.
func TestRedeemRollsBackOnInsertFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	testutil.SeedCode(t, conn, "888")

	if _, err := conn.Exec(`DROP TABLE reviews`); err != nil {
		t.Fatalf("Failed to drop reviews table: %v", err)
	}

	err := Redeem(context.Background(), conn, Submission{
		Code: "888", Name: "Dave", Rating: 2, Message: "meh",
	})
	if err == nil {
		t.Fatal("Expected redemption to fail without a reviews table")
	}
	if errors.Is(err, ErrCodeInvalidOrUsed) {
		t.Error("Schema failure must not masquerade as an invalid code")
	}

	// The code must still be spendable
	var usedAt sql.NullString
	if err := conn.QueryRow(`SELECT used_at FROM review_codes WHERE code = '888'`).Scan(&usedAt); err != nil {
		t.Fatalf("Failed to query code: %v", err)
	}
	if usedAt.Valid {
		t.Error("Expected code to remain unredeemed after rollback")
	}
}
