// Package handlers defines HTTP-layer error codes used across all endpoints.
//
// These symbolic constants are mapped to HTTP responses via the fail()
// helper in this package and give clients a stable, machine-readable error
// taxonomy that supplements human-readable messages. Codes are lowercase
// snake_case; generic codes mirror common HTTP status semantics.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
