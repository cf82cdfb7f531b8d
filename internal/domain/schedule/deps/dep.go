package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/dto"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
)

// ScheduleRepository persists push schedules and their slots. Lookups
// return nil, nil when nothing matches and always load the slots.
type ScheduleRepository interface {
	InTx(ctx context.Context, fn func(tx ScheduleRepository) error) error

	FindBySubscription(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (*entities.PushSchedule, error)
	GetByID(ctx context.Context, id uint) (*entities.PushSchedule, error)
	ListActive(ctx context.Context) ([]entities.PushSchedule, error)

	Create(ctx context.Context, schedule *entities.PushSchedule) error
	// Overwrite replaces frequency and snapshots and reactivates the row
	Overwrite(ctx context.Context, schedule *entities.PushSchedule) error
	Deactivate(ctx context.Context, id uint) error

	// DeleteSlots physically removes every slot of a schedule
	DeleteSlots(ctx context.Context, scheduleID uint) error
	CreateSlots(ctx context.Context, slots []entities.TimeSlot) error
}

type ScheduleUseCase interface {
	CreateOrReplace(ctx context.Context, input dto.CreateOrReplaceInput) (uint, error)
	Cancel(ctx context.Context, scheduleID uint) (bool, error)
	GetByID(ctx context.Context, id uint) (*entities.PushSchedule, error)
	ListActive(ctx context.Context) ([]entities.PushSchedule, error)
	GetBySubscription(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (*entities.PushSchedule, error)
}
