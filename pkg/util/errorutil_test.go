package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainError(t *testing.T) {
	domainErr := NewValidationError("bad input", nil)
	if got := ToDomainError(domainErr); got.Code != "VALIDATION_FAILED" || got.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("got %+v", got)
	}

	wrapped := fmt.Errorf("handler: %w", NewAuthExpired("expired"))
	if got := ToDomainError(wrapped); got.Code != "AUTH_EXPIRED" {
		t.Fatalf("wrapped error lost its code: %+v", got)
	}

	if got := ToDomainError(errors.New("plain")); got.Code != "INTERNAL_ERROR" || got.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("plain error mapped to %+v", got)
	}

	if ToDomainError(nil) != nil {
		t.Fatal("nil error produced a DomainError")
	}
}

func TestIsAuthFailure(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewAuthExpired("expired"), true},
		{NewAuthInvalid("invalid"), true},
		{fmt.Errorf("call: %w", NewAuthInvalid("invalid")), true},
		{NewGatewayError("boom"), false},
		{NewNetworkFailure(errors.New("refused")), false},
		{NewUnauthorized("no header"), false},
		{errors.New("plain"), false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsAuthFailure(tt.err); got != tt.want {
			t.Errorf("IsAuthFailure(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestNetworkFailureWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkFailure(cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
	if ToDomainError(err).HTTPStatus != http.StatusBadGateway {
		t.Fatalf("status = %d", ToDomainError(err).HTTPStatus)
	}
}
