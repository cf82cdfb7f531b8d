package errors

import "errors"

var (
	ErrInvalidSubject    = errors.New("invalid delivery subject")
	ErrInvalidKind       = errors.New("invalid delivery kind")
	ErrEmptyContent      = errors.New("delivery content is empty")
	ErrDatabaseOperation = errors.New("database operation failed")
)
