// Package revokedtokens declares the repository contract for the
// refresh-token revocation ledger.
package revokedtokens

import (
	"context"
	"time"
)

// Repository is an append-only ledger of refresh-token jtis that must no
// longer be honored. Appends from concurrent requests are independent;
// only the presence of a jti matters, not ordering.
type Repository interface {
	// Add records a jti as revoked and reports whether this call inserted
	// it. Recording an already-present jti is not an error; it returns
	// false. Check and insert happen in one atomic statement, so of any
	// number of concurrent Adds for the same jti exactly one sees true.
	Add(ctx context.Context, jti string, userID int64) (bool, error)

	// PurgeOlderThan deletes entries recorded before cutoff and returns
	// how many were removed. Entries older than the maximum refresh-token
	// lifetime can never match a live token, so purging them is pure
	// space reclamation.
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
