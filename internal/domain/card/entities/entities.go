package entities

import "time"

const (
	// SystemUserID owns template cards
	SystemUserID int64 = -1
	// DefaultProjectCode is the project of template cards
	DefaultProjectCode = "DEFAULT"
)

// BusinessType distinguishes cards from questions
type BusinessType int

const (
	BusinessTypeQuestion BusinessType = 0
	BusinessTypeCard     BusinessType = 1
)

// Catalog content keys
const (
	StudyReportCard        = "Study Report Card"
	GradeAssessmentCard    = "Grade Assessment Card"
	PlanProgressCard       = "Plan Progress Card"
	DailyFocusCard         = "Daily Focus Card"
	TeachingAidProcurement = "Teaching Aid Procurement Card"
)

// Catalog lists every card a user may subscribe to
var Catalog = []string{
	StudyReportCard,
	GradeAssessmentCard,
	PlanProgressCard,
	DailyFocusCard,
	TeachingAidProcurement,
}

// CardSubscription is a user's opt-in to a card. Rows are never physically
// deleted; the (user, project, content, business type) key is unique.
type CardSubscription struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	UserID       int64        `gorm:"not null;uniqueIndex:idx_card_subscriptions_key,priority:1" json:"userId"`
	ProjectCode  string       `gorm:"type:varchar(64);not null;uniqueIndex:idx_card_subscriptions_key,priority:2" json:"projectCode"`
	Content      string       `gorm:"type:varchar(255);not null;uniqueIndex:idx_card_subscriptions_key,priority:3" json:"content"`
	BusinessType BusinessType `gorm:"not null;uniqueIndex:idx_card_subscriptions_key,priority:4" json:"businessType"`
	Cancellable  bool         `gorm:"not null" json:"cancellable"`
	Active       bool         `gorm:"not null;index" json:"active"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CardSubscription) TableName() string {
	return "card_subscriptions"
}

// IsTemplate reports whether the row is a system template
func (c *CardSubscription) IsTemplate() bool {
	return c.UserID == SystemUserID && c.ProjectCode == DefaultProjectCode
}

// SameCard reports whether both rows refer to the same card
func (c *CardSubscription) SameCard(other *CardSubscription) bool {
	return c.Content == other.Content && c.BusinessType == other.BusinessType
}

// OwnedBy reports whether the row belongs to the given user and project
func (c *CardSubscription) OwnedBy(userID int64, projectCode string) bool {
	return c.UserID == userID && c.ProjectCode == projectCode
}

// TemplateSpec describes a template card required at startup
type TemplateSpec struct {
	Content      string
	BusinessType BusinessType
	Cancellable  bool
}

// DefaultTemplates returns the template cards every deployment carries
func DefaultTemplates() []TemplateSpec {
	return []TemplateSpec{
		{Content: DailyFocusCard, BusinessType: BusinessTypeCard, Cancellable: false},
		{Content: TeachingAidProcurement, BusinessType: BusinessTypeCard, Cancellable: true},
	}
}
