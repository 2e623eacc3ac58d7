package service

import "errors"

// Sentinel errors for the HTTP layer to map onto status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
)
