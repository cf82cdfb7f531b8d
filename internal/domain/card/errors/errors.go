package errors

import "errors"

var (
	ErrSubscriptionNotFound = errors.New("card subscription not found")
	ErrSubscriptionExists   = errors.New("card subscription already exists")
	ErrAlreadyInactive      = errors.New("card subscription is already inactive")
	ErrNotOwner             = errors.New("card subscription belongs to another user or project")
	ErrNotCancellable       = errors.New("card subscription is not cancellable")
	ErrInvalidUserID        = errors.New("invalid user ID")
	ErrInvalidProjectCode   = errors.New("invalid project code")
	ErrInvalidContent       = errors.New("invalid card content")
	ErrInvalidBusinessType  = errors.New("invalid business type")
	ErrDatabaseOperation    = errors.New("database operation failed")
)
