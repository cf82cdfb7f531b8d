package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	scheduleerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ deps.ScheduleRepository = (*Repository)(nil)

func (r *Repository) InTx(ctx context.Context, fn func(tx deps.ScheduleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) FindBySubscription(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (*entities.PushSchedule, error) {
	var schedule entities.PushSchedule
	err := r.withSlots(ctx).
		Where("user_id = ? AND project_code = ? AND subscription_id = ?", userID, projectCode, subscriptionID).
		Take(&schedule).Error

	return found(&schedule, err)
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.PushSchedule, error) {
	var schedule entities.PushSchedule
	err := r.withSlots(ctx).Where("id = ?", id).Take(&schedule).Error

	return found(&schedule, err)
}

func (r *Repository) ListActive(ctx context.Context) ([]entities.PushSchedule, error) {
	var schedules []entities.PushSchedule
	err := r.db.WithContext(ctx).
		Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
			return db.Where("active = ?", true).Order("id")
		}).
		Where("active = ?", true).
		Order("id").
		Find(&schedules).Error
	if err != nil {
		return nil, dbError(err)
	}
	return schedules, nil
}

func (r *Repository) Create(ctx context.Context, schedule *entities.PushSchedule) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return scheduleerrors.ErrScheduleExists
		}
		return dbError(err)
	}
	return nil
}

func (r *Repository) Overwrite(ctx context.Context, schedule *entities.PushSchedule) error {
	result := r.db.WithContext(ctx).
		Model(&entities.PushSchedule{}).
		Where("id = ?", schedule.ID).
		Updates(map[string]any{
			"frequency":     schedule.Frequency,
			"content":       schedule.Content,
			"business_type": schedule.BusinessType,
			"active":        true,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return scheduleerrors.ErrScheduleNotFound
	}
	return nil
}

// Deactivate soft-deletes the schedule together with its slots
func (r *Repository) Deactivate(ctx context.Context, id uint) error {
	now := time.Now()
	db := r.db.WithContext(ctx)

	result := db.Model(&entities.PushSchedule{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": now})
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return scheduleerrors.ErrScheduleNotFound
	}

	err := db.Model(&entities.TimeSlot{}).
		Where("schedule_id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": now}).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) DeleteSlots(ctx context.Context, scheduleID uint) error {
	err := r.db.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Delete(&entities.TimeSlot{}).Error
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) CreateSlots(ctx context.Context, slots []entities.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&slots).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) withSlots(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("TimeSlots", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

func found(schedule *entities.PushSchedule, err error) (*entities.PushSchedule, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err)
	}
	return schedule, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", scheduleerrors.ErrDatabaseOperation, err)
}
