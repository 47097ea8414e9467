package handlers

// Stable machine-readable codes carried in ErrorResponse.Code.
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeUnavailable      = "unavailable"
	ErrCodeInternal         = "internal_error"
)
