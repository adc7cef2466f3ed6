// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings carried in the `code` field
// of ErrorResponse. Clients branch on them; the message is for humans.
//
// Status mapping for service errors (see failErr):
//
//	not found   404  not_found
//	validation  400  validation_failed
//	conflict    400  conflict          (slot already booked)
//	other       500  internal_error
//
// Conflicts are reported as 400 rather than 409 because existing clients of
// this API expect a 400 with the conflict message.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeValidation       = "validation_failed"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
