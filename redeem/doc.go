// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package redeem implements the code-redemption transaction that gates
review submission.

# Contract

	err := redeem.Redeem(ctx, conn, redeem.Submission{
		Code: "123", Name: "Alice", Rating: 5, Message: "Great!",
	})

Outcomes:

  - nil: the code existed, was unredeemed, and is now marked used with
    the reviewer identity recorded; the review row was inserted in the
    same transaction.
  - ErrCodeInvalidOrUsed: no row matched "exists and unredeemed". Unknown
    and already-spent codes are deliberately indistinguishable so callers
    can't probe which codes were ever issued.
  - ErrStoreBusy: lock contention outlasted the busy-wait budget. The
    whole call may be retried.
  - anything else: store failure; the transaction rolled back and no
    partial state is observable.

# Why a Conditional Update

The precondition ("code unredeemed") and the mutation ("mark used") are
one UPDATE statement, so check-then-mark cannot race: at most one of any
number of concurrent attempts sees one affected row. Combined with
BEGIN IMMEDIATE (writers serialize at transaction start, see package db)
this is the system's entire concurrency-safety mechanism.

More than one affected row is impossible while code stays the primary
key; it is treated as a store-consistency violation, not a redemption
outcome.
*/
package redeem
