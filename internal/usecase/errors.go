package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrLocked                = errors.New("predictions locked")
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyMember         = errors.New("already a member")
	ErrConflict              = errors.New("conflict")
	ErrIncompleteResult      = errors.New("match result incomplete")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
