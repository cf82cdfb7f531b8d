package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	carderrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/errors"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ deps.CardRepository = (*Repository)(nil)

func (r *Repository) InTx(ctx context.Context, fn func(tx deps.CardRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) FindByKey(
	ctx context.Context,
	userID int64,
	projectCode, content string,
	businessType entities.BusinessType,
) (*entities.CardSubscription, error) {
	var card entities.CardSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_code = ? AND content = ? AND business_type = ?", userID, projectCode, content, businessType).
		Take(&card).Error

	return found(&card, err)
}

func (r *Repository) FindTemplate(ctx context.Context, content string, businessType entities.BusinessType) (*entities.CardSubscription, error) {
	return r.FindByKey(ctx, entities.SystemUserID, entities.DefaultProjectCode, content, businessType)
}

func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.CardSubscription, error) {
	var card entities.CardSubscription
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&card).Error

	return found(&card, err)
}

func (r *Repository) Create(ctx context.Context, card *entities.CardSubscription) error {
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return carderrors.ErrSubscriptionExists
		}
		return dbError(err)
	}
	return nil
}

func (r *Repository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.update(ctx, id, map[string]any{"active": active})
}

func (r *Repository) UpdateFlags(ctx context.Context, id uint, cancellable, active bool) error {
	return r.update(ctx, id, map[string]any{"cancellable": cancellable, "active": active})
}

func (r *Repository) ListActive(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error) {
	var cards []entities.CardSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_code = ? AND active = ?", userID, projectCode, true).
		Order("id").
		Find(&cards).Error
	if err != nil {
		return nil, dbError(err)
	}
	return cards, nil
}

func (r *Repository) ListWithTemplates(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error) {
	var cards []entities.CardSubscription
	err := r.db.WithContext(ctx).
		Where("(user_id = ? AND project_code = ?) OR (user_id = ? AND project_code = ?)",
			userID, projectCode, entities.SystemUserID, entities.DefaultProjectCode).
		Order("id").
		Find(&cards).Error
	if err != nil {
		return nil, dbError(err)
	}
	return cards, nil
}

func (r *Repository) update(ctx context.Context, id uint, fields map[string]any) error {
	fields["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entities.CardSubscription{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return dbError(result.Error)
	}
	if result.RowsAffected == 0 {
		return carderrors.ErrSubscriptionNotFound
	}
	return nil
}

func found(card *entities.CardSubscription, err error) (*entities.CardSubscription, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError(err)
	}
	return card, nil
}

func dbError(err error) error {
	return fmt.Errorf("%w: %w", carderrors.ErrDatabaseOperation, err)
}
