package deps

import (
	"context"
	"time"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	messageentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
	scheduleentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/dto"
)

// ScheduleSource lists the schedules evaluated on every tick
type ScheduleSource interface {
	ListActive(ctx context.Context) ([]scheduleentities.PushSchedule, error)
}

// CardSource re-reads subscriptions while a tick runs
type CardSource interface {
	GetByID(ctx context.Context, id uint) (*cardentities.CardSubscription, error)
	ListAll(ctx context.Context, userID int64, projectCode string) ([]cardentities.CardSubscription, error)
}

// ContentLookup returns the payload of a card; unknown keys get a placeholder
type ContentLookup interface {
	CardData(ctx context.Context, content string) (string, error)
}

// GroupLookup returns the "{projectCode}_{userId}" groups of a project
type GroupLookup interface {
	GroupIDs(ctx context.Context, projectCode string) ([]string, error)
}

// DeliverySink records a fired push
type DeliverySink interface {
	Append(ctx context.Context, subjectID uint, userID int64, kind messageentities.Kind, content string) (*messageentities.DeliveryRecord, error)
}

// FireGuard claims a fire key; false means the key was already claimed
type FireGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
}

// TickLocker keeps one instance per tick minute across processes
type TickLocker interface {
	Acquire(ctx context.Context, name string) error
}

type TickRunner interface {
	RunTick(ctx context.Context, now time.Time) (*dto.TickReport, error)
}
