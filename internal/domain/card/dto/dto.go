package dto

import "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"

// UnsubscribeOutcome reports whether a subscription was deactivated. Reason
// holds a card errors sentinel when it was not.
type UnsubscribeOutcome struct {
	Unsubscribed bool
	Reason       error
}

// SubscribeRequest is the body of POST /cards/subscribe
type SubscribeRequest struct {
	UserID       int64                 `json:"userId"`
	ProjectCode  string                `json:"projectCode"`
	Content      string                `json:"content"`
	BusinessType entities.BusinessType `json:"businessType"`
}

// SubscribeResponse is returned by POST /cards/subscribe
type SubscribeResponse struct {
	CardID uint `json:"cardId"`
}

// UnsubscribeRequest is the body of POST /cards/{id}/unsubscribe
type UnsubscribeRequest struct {
	UserID      int64  `json:"userId"`
	ProjectCode string `json:"projectCode"`
}

// Command types carried on the subscription commands topic
const (
	CommandSubscribe      = "subscribe"
	CommandUnsubscribe    = "unsubscribe"
	CommandScheduleCancel = "schedule_cancel"
)

// Command is a subscription change requested over Kafka
type Command struct {
	Type           string                `json:"type"`
	UserID         int64                 `json:"userId"`
	ProjectCode    string                `json:"projectCode"`
	Content        string                `json:"content,omitempty"`
	BusinessType   entities.BusinessType `json:"businessType,omitempty"`
	SubscriptionID uint                  `json:"subscriptionId,omitempty"`
	ScheduleID     uint                  `json:"scheduleId,omitempty"`
}
