package errors

import "errors"

// Every failure path of the redemption protocol surfaces as one of these
// kinds so callers can branch with errors.Is instead of string-matching.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")

	ErrTokenInvalid  = errors.New("redemption token invalid")
	ErrTokenExpired  = errors.New("redemption token expired")
	ErrTokenRedeemed = errors.New("redemption token already redeemed")

	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDiscount     = errors.New("discount violates partner policy")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateRequest marks an idempotency-key replay that could not be
	// resolved to the prior result within the bounded wait.
	ErrDuplicateRequest = errors.New("duplicate request still in flight")

	// ErrTransientStore wraps storage failures that are safe to retry:
	// serialization conflicts, deadlocks, lock and connection timeouts.
	ErrTransientStore = errors.New("transient storage error")
)
