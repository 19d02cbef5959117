// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "message only",
			err:      NewValidationError("missing_session_or_user"),
			expected: "missing_session_or_user",
		},
		{
			name:     "wrapped error",
			err:      NewInternalError("failed to write entry", errors.New("connection reset")),
			expected: "failed to write entry: connection reset",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Error() != tc.expected {
				t.Errorf("got %q, want %q", tc.err.Error(), tc.expected)
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{name: "validation", err: NewValidationError("bad input"), expected: ErrorTypeValidation},
		{name: "not found", err: NewNotFoundError("missing"), expected: ErrorTypeNotFound},
		{name: "conflict", err: NewConflictError("already_submitted"), expected: ErrorTypeConflict},
		{name: "internal", err: NewInternalError("boom"), expected: ErrorTypeInternal},
		{name: "unavailable", err: NewUnavailableError("down"), expected: ErrorTypeUnavailable},
		{name: "wrapped domain error", err: fmt.Errorf("context: %w", NewConflictError("dup")), expected: ErrorTypeConflict},
		{name: "plain error defaults to internal", err: errors.New("boom"), expected: ErrorTypeInternal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GetErrorType(tc.err); got != tc.expected {
				t.Errorf("got %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("connection reset")
	err := NewUnavailableError("store down", inner)

	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}
