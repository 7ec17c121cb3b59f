package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dlatelier/storefront/pkg/apperr"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		kind apperr.Kind
		want int
	}{
		{apperr.Unauthorized, http.StatusUnauthorized},
		{apperr.Forbidden, http.StatusForbidden},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.InvalidInput, http.StatusBadRequest},
		{apperr.InvalidState, http.StatusConflict},
		{apperr.InvalidSignature, http.StatusBadRequest},
		{apperr.Upstream, http.StatusBadGateway},
	}
	for _, c := range cases {
		if got := apperr.Status(apperr.New(c.kind, "x")); got != c.want {
			t.Errorf("Status(%s) = %d, want %d", c.kind, got, c.want)
		}
	}
}

func TestUnclassifiedErrorsStayInternal(t *testing.T) {
	err := errors.New("pq: connection refused")

	if got := apperr.Status(err); got != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", got)
	}
	if got := apperr.MessageOf(err); got != "Internal server error" {
		t.Errorf("MessageOf leaked internals: %q", got)
	}
}

func TestWrapKeepsCauseInChain(t *testing.T) {
	cause := errors.New("timeout")
	err := apperr.Wrap(apperr.Upstream, cause, "Payment gateway unavailable")

	if !errors.Is(err, cause) {
		t.Error("wrapped cause lost from chain")
	}
	if !apperr.Is(err, apperr.Upstream) {
		t.Error("kind lost")
	}
	if apperr.MessageOf(err) != "Payment gateway unavailable" {
		t.Errorf("MessageOf = %q", apperr.MessageOf(err))
	}
	// Kind survives fmt wrapping too.
	if !apperr.Is(fmt.Errorf("verify: %w", err), apperr.Upstream) {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
}
