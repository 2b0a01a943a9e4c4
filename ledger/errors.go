package ledger

import "errors"

// caller-facing errors, all recoverable; controllers map these to HTTP
// status codes and nothing is committed when they are returned
var (
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrAlreadyApproved        = errors.New("proof already approved")
	ErrNotFound               = errors.New("record not found")
	ErrPackageInactive        = errors.New("package is not active")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrAlreadyReferred        = errors.New("user already has a referrer")
	ErrSelfReferral           = errors.New("users cannot refer themselves")
	ErrUnknownReferrer        = errors.New("referrer does not exist")
)
