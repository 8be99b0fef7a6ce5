package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("post: %w", ErrNotFound), http.StatusNotFound},
		{"invalid", Invalid("title is required"), http.StatusBadRequest},
		{"forbidden", Forbidden("not your comment"), http.StatusForbidden},
		{"transition", fmt.Errorf("accept: %w", ErrInvalidTransition), http.StatusConflict},
		{"stale", ErrStaleView, http.StatusConflict},
		{"rate limit", &RateLimitError{Message: "slow down", RetryAfter: time.Second}, http.StatusTooManyRequests},
		{"app error", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot},
		{"store error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatus(tc.err))
		})
	}
}

func TestInvalid_KeepsReason(t *testing.T) {
	err := Invalid("content is required")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "invalid input: content is required", err.Error())
}
