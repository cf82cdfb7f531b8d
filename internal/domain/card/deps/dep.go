package deps

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/dto"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
)

// CardRepository persists card subscriptions. Lookups return nil, nil when
// nothing matches.
type CardRepository interface {
	// InTx runs fn inside one transaction with a transaction-bound repository
	InTx(ctx context.Context, fn func(tx CardRepository) error) error

	FindByKey(ctx context.Context, userID int64, projectCode, content string, businessType entities.BusinessType) (*entities.CardSubscription, error)
	FindTemplate(ctx context.Context, content string, businessType entities.BusinessType) (*entities.CardSubscription, error)
	GetByID(ctx context.Context, id uint) (*entities.CardSubscription, error)
	Create(ctx context.Context, card *entities.CardSubscription) error
	SetActive(ctx context.Context, id uint, active bool) error
	UpdateFlags(ctx context.Context, id uint, cancellable, active bool) error

	ListActive(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error)
	// ListWithTemplates returns the user's rows and every template row, active or not
	ListWithTemplates(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error)
}

type CardUseCase interface {
	Subscribe(ctx context.Context, userID int64, projectCode, content string, businessType entities.BusinessType) (uint, error)
	Unsubscribe(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (dto.UnsubscribeOutcome, error)
	ListActive(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error)
	ListAll(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error)
	GetByID(ctx context.Context, id uint) (*entities.CardSubscription, error)
	ReconcileTemplates(ctx context.Context, templates []entities.TemplateSpec) error
}

// ScheduleCanceller cancels push schedules on behalf of card commands
type ScheduleCanceller interface {
	Cancel(ctx context.Context, scheduleID uint) (bool, error)
}
