package models

import "time"

// RevokedToken is one entry of the refresh-token revocation ledger.
// Only the presence of a jti matters for correctness; RevokedAt exists
// so that entries older than the refresh lifetime can be purged.
type RevokedToken struct {
	JTI       string
	UserID    int64
	RevokedAt time.Time
}
