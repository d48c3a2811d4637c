package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes.
var (
	ErrNotFound      = errors.New("not found")
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidJSON   = errors.New("invalid JSON body")
	ErrPartialDelete = errors.New("batch delete left unprocessed items")
)
