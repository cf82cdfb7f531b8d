package dto

import "time"

// TickReport sums up one scheduler tick
type TickReport struct {
	TickID          string        `json:"tickId"`
	At              time.Time     `json:"at"`
	Matched         int           `json:"matched"`
	SubscribedFired int           `json:"subscribedFired"`
	FallbackRan     bool          `json:"fallbackRan"`
	FallbackFired   int           `json:"fallbackFired"`
	Revoked         int           `json:"revoked"`
	Duplicates      int           `json:"duplicates"`
	Errors          int           `json:"errors"`
	Duration        time.Duration `json:"duration"`
}

// TickRequest is the optional body of POST /scheduler/tick
type TickRequest struct {
	At string `json:"at"` // RFC3339, defaults to now
}
