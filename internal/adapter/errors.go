package adapter

import "errors"

// Sentinel errors mapped from HTTP response statuses so that callers can
// branch with [errors.Is] instead of inspecting status codes.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("access denied")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnprocessable       = errors.New("operation rejected")
	ErrInternalServerError = errors.New("internal server error")
)
