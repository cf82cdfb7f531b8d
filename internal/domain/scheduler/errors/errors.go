package errors

import "errors"

var (
	ErrTickInProgress   = errors.New("a scheduler tick is already running")
	ErrLockHeld         = errors.New("scheduler tick lock is held by another instance")
	ErrMalformedGroupID = errors.New("malformed group id")
	ErrInvalidTickTime  = errors.New("invalid tick time")
)
