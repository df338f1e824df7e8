package messages

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"Invalid content", NewInvalidContentError(RoleUser, "user", "content"), IsInvalidContentError},
		{"System format", NewSystemFormatError("ui"), IsSystemFormatError},
		{"Thread mismatch", NewThreadMismatchError("threadId", "a", "b"), IsThreadMismatchError},
		{"Unhandled shape", NewUnhandledShapeError(struct{}{}), IsUnhandledShapeError},
		{"Role mapping", NewRoleMappingError(Role("bot")), IsRoleMappingError},
		{"Conversion", NewConversionError("v2", "v3", "bad part", nil), IsConversionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pred(tt.err) {
				t.Errorf("Predicate rejected its own error: %v", tt.err)
			}
			if tt.pred(errors.New("other")) {
				t.Error("Predicate accepted an unrelated error")
			}
		})
	}
}

func TestErrorPredicateUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("adding message: %w", NewThreadMismatchError("threadId", "a", "b"))
	if !IsThreadMismatchError(wrapped) {
		t.Error("Expected predicate to see through wrapping")
	}
}

func TestConversionErrorCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewConversionError("json", "canonical", "invalid JSON", cause)
	if !errors.Is(err, cause) {
		t.Error("Expected cause to be reachable through Unwrap")
	}
}
