package entities

import (
	"fmt"
	"strings"
	"time"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
)

// Frequency is the closed set of push cadences
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// ParseFrequency accepts DAILY/WEEKLY/MONTHLY and the short DAY/WEEK/MONTH forms
func ParseFrequency(raw string) (Frequency, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DAILY", "DAY":
		return FrequencyDaily, nil
	case "WEEKLY", "WEEK":
		return FrequencyWeekly, nil
	case "MONTHLY", "MONTH":
		return FrequencyMonthly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", raw)
	}
}

// PushSchedule is a user's delivery plan for one card subscription
type PushSchedule struct {
	ID             uint                      `gorm:"primaryKey" json:"id"`
	UserID         int64                     `gorm:"not null;uniqueIndex:idx_push_schedules_subscription,priority:1" json:"userId"`
	ProjectCode    string                    `gorm:"type:varchar(64);not null;uniqueIndex:idx_push_schedules_subscription,priority:2" json:"projectCode"`
	SubscriptionID uint                      `gorm:"not null;uniqueIndex:idx_push_schedules_subscription,priority:3" json:"subscriptionId"`
	Frequency      Frequency                 `gorm:"type:varchar(16);not null" json:"frequency"`
	Content        string                    `gorm:"type:varchar(255);not null" json:"content"`
	BusinessType   cardentities.BusinessType `gorm:"not null" json:"businessType"`
	Active         bool                      `gorm:"not null;index" json:"active"`
	CreatedAt      time.Time                 `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time                 `gorm:"autoUpdateTime" json:"updatedAt"`
	TimeSlots      []TimeSlot                `gorm:"foreignKey:ScheduleID" json:"timeSlots"`
}

func (PushSchedule) TableName() string {
	return "push_schedules"
}

// ActiveSlots returns the slots taking part in matching
func (s *PushSchedule) ActiveSlots() []TimeSlot {
	out := make([]TimeSlot, 0, len(s.TimeSlots))
	for _, slot := range s.TimeSlots {
		if slot.Active {
			out = append(out, slot)
		}
	}
	return out
}

// TimeSlot is one clock-time rule of a schedule. Weekdays use ISO numbering
// (1 = Monday .. 7 = Sunday); all lists are comma separated.
type TimeSlot struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScheduleID uint      `gorm:"not null;index" json:"scheduleId"`
	Weekdays   string    `gorm:"type:varchar(32)" json:"weekday,omitempty"`
	MonthDays  string    `gorm:"type:varchar(128)" json:"monthDay,omitempty"`
	Hours      string    `gorm:"type:varchar(255);not null" json:"hour"`
	Active     bool      `gorm:"not null" json:"active"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (TimeSlot) TableName() string {
	return "push_time_slots"
}

// SlotSpec is the caller supplied content of a time slot
type SlotSpec struct {
	Weekdays  string
	MonthDays string
	Hours     string
}
