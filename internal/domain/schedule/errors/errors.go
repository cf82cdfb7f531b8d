package errors

import "errors"

var (
	ErrScheduleNotFound    = errors.New("push schedule not found")
	ErrScheduleExists      = errors.New("push schedule already exists")
	ErrAlreadyInactive     = errors.New("push schedule is already inactive")
	ErrInvalidUserID       = errors.New("invalid user ID")
	ErrInvalidProjectCode  = errors.New("invalid project code")
	ErrInvalidSubscription = errors.New("invalid subscription ID")
	ErrInvalidBusinessType = errors.New("invalid business type")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidTimeSlot     = errors.New("invalid time slot")
	ErrNoTimeSlots         = errors.New("at least one time slot is required")
	ErrDatabaseOperation   = errors.New("database operation failed")
)
