package model

import (
	"time"

	"github.com/google/uuid"
)

// RedemptionToken is a short-lived single-use code presented as QR at the
// point of sale. The redeemed flag flips exactly once, inside the redemption
// transaction.
type RedemptionToken struct {
	Code            string
	UserID          int64
	IssuedAt        time.Time
	ExpiresAt       time.Time
	Redeemed        bool
	RedeemedOrderID *uuid.UUID
}

// Expired reports whether the token validity window has passed.
func (t *RedemptionToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Active reports whether the token can still be redeemed.
func (t *RedemptionToken) Active(now time.Time) bool {
	return !t.Redeemed && !t.Expired(now)
}
