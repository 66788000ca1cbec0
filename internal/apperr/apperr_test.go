package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeDatabase, http.StatusInternalServerError},
		{CodeTimeout, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
		{CodeTransaction, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.code.HTTPStatus(); got != tt.want {
			t.Fatalf("%s.HTTPStatus() = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := Wrap(CodeDatabase, "list characters", errors.New("connection refused"))
	if got := err.Error(); got != "list characters: connection refused" {
		t.Fatalf("Error() = %q", got)
	}
	if got := New(CodeNotFound, "missing").Error(); got != "missing" {
		t.Fatalf("Error() = %q, want %q", got, "missing")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("delete mission: %w", NotFound("mission 3 not found"))
	if !errors.Is(err, New(CodeNotFound, "")) {
		t.Fatal("expected wrapped NotFound to match by code")
	}
	if errors.Is(err, New(CodeValidation, "")) {
		t.Fatal("did not expect NotFound to match Validation")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeTransaction, "create player", cause)
	if !errors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != CodeDatabase {
		t.Fatalf("CodeOf(plain) = %s, want %s", got, CodeDatabase)
	}
	wrapped := fmt.Errorf("outer: %w", Validation("email", "email is required"))
	if got := CodeOf(wrapped); got != CodeValidation {
		t.Fatalf("CodeOf(wrapped) = %s, want %s", got, CodeValidation)
	}
	if !IsClientError(wrapped) {
		t.Fatal("validation should be a client error")
	}
	if IsClientError(Wrap(CodeTimeout, "slow", nil)) {
		t.Fatal("timeout should not be a client error")
	}
	if !IsClientError(NotFound("x")) {
		t.Fatal("not found should be a client error")
	}
}
