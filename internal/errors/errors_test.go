package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryNotFound, SeverityWarning, "unknown list id"),
			expected: "not_found: unknown list id",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("disk full"), CategoryPersistence, SeverityError, "state write failed"),
			expected: "persistence: state write failed: disk full",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.Error(); got != test.expected {
				t.Errorf("Error() = %q, want %q", got, test.expected)
			}
		})
	}
}

func TestError_WithContext(t *testing.T) {
	err := ListNotFound("movies")

	if err.Context["list_id"] != "movies" {
		t.Errorf("Context[list_id] = %v, want movies", err.Context["list_id"])
	}
}

func TestCategoryThroughWrapping(t *testing.T) {
	base := LastListProtected("books")
	wrapped := fmt.Errorf("rmlist: %w", base)

	if !IsCategory(wrapped, CategoryInvariant) {
		t.Error("expected invariant category through fmt wrapping")
	}
	if GetCategory(wrapped) != CategoryInvariant {
		t.Errorf("GetCategory = %s, want %s", GetCategory(wrapped), CategoryInvariant)
	}
	if GetCategory(stdErrors.New("plain")) != CategoryInternal {
		t.Error("plain errors should classify as internal")
	}
}

func TestPersistenceFailed(t *testing.T) {
	cause := stdErrors.New("read-only file system")
	err := PersistenceFailed("write", cause)

	if !IsRetryable(err) {
		t.Error("persistence failures should be retryable")
	}
	if !stdErrors.Is(err, cause) {
		t.Error("cause should be reachable via errors.Is")
	}
	if err.Context["operation"] != "write" {
		t.Errorf("Context[operation] = %v, want write", err.Context["operation"])
	}
}
