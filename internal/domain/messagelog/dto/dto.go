package dto

import "time"

// LatestMessageResponse is returned by GET /cards/{id}/latest
type LatestMessageResponse struct {
	CardID    uint      `json:"cardId"`
	Content   string    `json:"content"`
	Style     string    `json:"style"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeleteResponse is returned by DELETE /messages/{id}
type DeleteResponse struct {
	MessageID uint `json:"messageId"`
}

// DeleteByCardResponse is returned by DELETE /cards/{id}/messages
type DeleteByCardResponse struct {
	CardID  uint  `json:"cardId"`
	Deleted int64 `json:"deleted"`
}
