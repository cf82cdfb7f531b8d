package entities

import "time"

// Kind tells what produced a delivery record
type Kind string

const (
	KindSubscribed Kind = "subscribed"
	KindFallback   Kind = "fallback"
)

// DeliveryRecord is an append-only log entry of a fired push. SubjectID is
// the card subscription id, or the template id for fallback pushes.
type DeliveryRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SubjectID uint      `gorm:"not null;index:idx_delivery_records_subject" json:"subjectId"`
	UserID    int64     `gorm:"not null" json:"userId"`
	Kind      Kind      `gorm:"type:varchar(16);not null" json:"kind"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Active    bool      `gorm:"not null" json:"active"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_delivery_records_subject" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DeliveryRecord) TableName() string {
	return "delivery_records"
}
