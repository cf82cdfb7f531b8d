package deps

import (
	"context"

	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
)

// MessageLogRepository stores delivery records. Records are never
// physically removed.
type MessageLogRepository interface {
	Create(ctx context.Context, record *entities.DeliveryRecord) error
	// Latest returns the newest active record of a subject, or nil, nil
	Latest(ctx context.Context, subjectID uint) (*entities.DeliveryRecord, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	SoftDeleteBySubject(ctx context.Context, subjectID uint) (int64, error)
}

type MessageLogUseCase interface {
	Append(ctx context.Context, subjectID uint, userID int64, kind entities.Kind, content string) (*entities.DeliveryRecord, error)
	Latest(ctx context.Context, subjectID uint) (*entities.DeliveryRecord, error)
	Delete(ctx context.Context, id uint) (bool, error)
	DeleteBySubject(ctx context.Context, subjectID uint) (int64, error)
}

// CardLookup resolves the card a record was logged for
type CardLookup interface {
	GetByID(ctx context.Context, id uint) (*cardentities.CardSubscription, error)
}

// StyleLookup returns the display style of a card
type StyleLookup interface {
	CardStyle(ctx context.Context, content string) (string, error)
}
