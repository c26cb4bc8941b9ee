//go:build !integration

package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty code", ErrEmptyCode, "empty_code"},
		{"invalid code", ErrInvalidCode, "invalid_code"},
		{"wrapped transport", fmt.Errorf("%w: %w", ErrTransportFailure, context.DeadlineExceeded), "transport_failure"},
		{"duplicate", ErrCodeAlreadyRegistered, "code_already_registered"},
		{"busy lock", fmt.Errorf("%w: %w", ErrCodeBusy, context.DeadlineExceeded), "code_busy"},
		{"rate limited", ErrRateLimited, "rate_limited"},
		{"not found", fmt.Errorf("find: %w", ErrNotFound), "not_found"},
		{"invalid argument", ErrInvalidArgument, "invalid_argument"},
		{"unknown", errors.New("boom"), "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Kind(tc.err); got != tc.want {
				t.Errorf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
