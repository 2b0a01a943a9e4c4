package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"go-affiliate/ledger"
)

func TestStatusForError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ledger.ErrNotFound, http.StatusNotFound},
		{ledger.ErrInvalidStateTransition, http.StatusConflict},
		{ledger.ErrInsufficientBalance, http.StatusPaymentRequired},
		{ledger.ErrInvalidAmount, http.StatusBadRequest},
		{ledger.ErrPackageInactive, http.StatusBadRequest},
		{ledger.ErrAlreadyReferred, http.StatusBadRequest},
		{ledger.ErrSelfReferral, http.StatusBadRequest},
		{ledger.ErrUnknownReferrer, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ledger.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, c := range cases {
		if got := statusForError(c.err); got != c.want {
			t.Errorf("statusForError(%v): expected %d, got %d", c.err, c.want, got)
		}
	}
}
