package events

import "time"

// MessageLoggedEvent is published after a delivery record is stored
type MessageLoggedEvent struct {
	RecordID  uint      `json:"record_id"`
	SubjectID uint      `json:"subject_id"`
	UserID    int64     `json:"user_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	LoggedAt  time.Time `json:"logged_at"`
}
