package model

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountExists      = errors.New("account already exists")
	ErrPermissionNotFound = errors.New("permission not found")
	ErrInvalidAuthority   = errors.New("invalid authority")

	// ErrUnauthorized means the provided signatures do not satisfy the required permission.
	ErrUnauthorized = errors.New("unauthorized")

	ErrRecoveryAlreadyPending = errors.New("recovery already pending")
	ErrNoPendingRecovery      = errors.New("no pending recovery")
	ErrRecoveryNotPending     = errors.New("recovery request is not pending")

	// ErrInvariantViolation signals a broken scheduler contract. It is never a user error.
	ErrInvariantViolation = errors.New("internal invariant violation")

	ErrInvalidTransaction     = errors.New("invalid transaction")
	ErrTransactionExpired     = errors.New("transaction expired")
	ErrDuplicateTransaction   = errors.New("duplicate transaction")
	ErrInvalidSignature       = errors.New("invalid signature")
	ErrUnknownAction          = errors.New("unknown action")
	ErrTooManyRecoveryActions = errors.New("transaction carries more than one recovery action")
)
