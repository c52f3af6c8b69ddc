package service

import "errors"

// Sentinel errors returned by the service layer. The HTTP layer maps these
// to status codes; anything else becomes a 500 with a generic body.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidID       = errors.New("invalid id")
	ErrValidation      = errors.New("validation failed")
	ErrInvalidCategory = errors.New("unknown product category")
	ErrInvalidOrder    = errors.New("invalid or missing order data")
	ErrInvalidFormat   = errors.New("invalid or missing base64 image data")
	ErrFetchFailed     = errors.New("failed to fetch remote image")
	ErrPayloadRejected = errors.New("image payload rejected")
)
