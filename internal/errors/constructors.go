package errors

// Convenience functions for common error patterns

// List errors

func MissingListID() *Error {
	return New(CategoryValidation, SeverityWarning, "no list id")
}

func ListNotFound(listID string) *Error {
	return New(CategoryNotFound, SeverityWarning, "unknown list id").
		WithContext("list_id", listID)
}

func LastListProtected(listID string) *Error {
	return New(CategoryInvariant, SeverityWarning, "cannot delete the last list").
		WithContext("list_id", listID)
}

// State errors

func InvalidState(field, reason string) *Error {
	return New(CategoryValidation, SeverityError, "invalid state").
		WithContext("field", field).
		WithContext("reason", reason)
}

func PersistenceFailed(operation string, cause error) *Error {
	return WrapRetryable(cause, CategoryPersistence, SeverityError, "state "+operation+" failed").
		WithContext("operation", operation)
}

// Config errors

func ConfigInvalid(path string, cause error) *Error {
	return Wrap(cause, CategoryConfig, SeverityFatal, "invalid configuration").
		WithContext("path", path)
}
