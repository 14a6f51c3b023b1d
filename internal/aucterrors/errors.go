package aucterrors

import "errors"

// Input and credential errors
var (
	ErrValidation   = errors.New("invalid input")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("action not permitted")
	ErrConflict     = errors.New("username already taken")
)

// Entity and state errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidState  = errors.New("action invalid for current state")
	ErrListingClosed = errors.New("listing is closed")
	ErrBidTooLow     = errors.New("bid amount too low")
)
