package dto

import (
	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
)

// CreateOrReplaceInput is a full schedule definition for one subscription
type CreateOrReplaceInput struct {
	UserID         int64
	ProjectCode    string
	SubscriptionID uint
	Frequency      string
	Content        string
	BusinessType   cardentities.BusinessType
	TimeSlots      []entities.SlotSpec
}

// TimeSlotRequest is one slot in a schedule request
type TimeSlotRequest struct {
	Weekday  string `json:"weekday"`
	MonthDay string `json:"monthDay"`
	Hour     string `json:"hour"`
}

// ScheduleRequest is the body of PUT /schedules. A request without
// timeSlots is read as a single slot built from the flat fields.
type ScheduleRequest struct {
	UserID         int64                     `json:"userId"`
	ProjectCode    string                    `json:"projectCode"`
	SubscriptionID uint                      `json:"subscriptionId"`
	Frequency      string                    `json:"frequency"`
	Content        string                    `json:"content"`
	BusinessType   cardentities.BusinessType `json:"businessType"`
	TimeSlots      []TimeSlotRequest         `json:"timeSlots"`
	Weekday        string                    `json:"weekday"`
	MonthDay       string                    `json:"monthDay"`
	Hour           string                    `json:"hour"`
}

// ToInput converts the request into use case input
func (r *ScheduleRequest) ToInput() CreateOrReplaceInput {
	slots := make([]entities.SlotSpec, 0, len(r.TimeSlots))
	for _, s := range r.TimeSlots {
		slots = append(slots, entities.SlotSpec{Weekdays: s.Weekday, MonthDays: s.MonthDay, Hours: s.Hour})
	}
	if len(slots) == 0 && r.Hour != "" {
		slots = append(slots, entities.SlotSpec{Weekdays: r.Weekday, MonthDays: r.MonthDay, Hours: r.Hour})
	}

	return CreateOrReplaceInput{
		UserID:         r.UserID,
		ProjectCode:    r.ProjectCode,
		SubscriptionID: r.SubscriptionID,
		Frequency:      r.Frequency,
		Content:        r.Content,
		BusinessType:   r.BusinessType,
		TimeSlots:      slots,
	}
}

// ScheduleResponse is returned by PUT /schedules
type ScheduleResponse struct {
	ScheduleID uint `json:"scheduleId"`
}
