package controllers

import (
	"errors"
	"net/http"

	"go-affiliate/ledger"
)

// map ledger sentinel errors to HTTP status codes; anything unknown is
// a storage failure
func statusForError(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrPackageInactive),
		errors.Is(err, ledger.ErrAlreadyReferred),
		errors.Is(err, ledger.ErrSelfReferral),
		errors.Is(err, ledger.ErrUnknownReferrer):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
