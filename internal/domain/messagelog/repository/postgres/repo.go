package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
	messageerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/errors"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ deps.MessageLogRepository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, record *entities.DeliveryRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return dbError(err)
	}
	return nil
}

func (r *Repository) Latest(ctx context.Context, subjectID uint) (*entities.DeliveryRecord, error) {
	var record entities.DeliveryRecord
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND active = ?", subjectID, true).
		Order("created_at DESC, id DESC").
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &record, nil
}

func (r *Repository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.DeliveryRecord{}).
		Where("id = ? AND active = ?", id, true).
		Updates(map[string]any{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return false, dbError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) SoftDeleteBySubject(ctx context.Context, subjectID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.DeliveryRecord{}).
		Where("subject_id = ? AND active = ?", subjectID, true).
		Updates(map[string]any{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, dbError(result.Error)
	}
	return result.RowsAffected, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", messageerrors.ErrDatabaseOperation, err)
}
