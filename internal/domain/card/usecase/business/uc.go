package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/dto"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	carderrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
)

// subscribeAttempts bounds retries after losing an insert race to another process
const subscribeAttempts = 2

type UseCase struct {
	repo    deps.CardRepository
	metrics *metrics.Metrics
	logger  zerolog.Logger

	// serializes read-check-write sequences within the process
	writeMu sync.Mutex
}

func NewUseCase(repo deps.CardRepository, m *metrics.Metrics, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:    repo,
		metrics: m,
		logger:  logger,
	}
}

var _ deps.CardUseCase = (*UseCase)(nil)

// Subscribe opts the user into a card and returns the subscription id. An
// existing row for the same key is returned as is, or reactivated.
func (u *UseCase) Subscribe(
	ctx context.Context,
	userID int64,
	projectCode, content string,
	businessType entities.BusinessType,
) (uint, error) {
	if err := validateKey(userID, projectCode, content, businessType); err != nil {
		return 0, err
	}

	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	var (
		id  uint
		err error
	)
	for attempt := 1; attempt <= subscribeAttempts; attempt++ {
		id, err = u.subscribeTx(ctx, userID, projectCode, content, businessType)
		if !errors.Is(err, carderrors.ErrSubscriptionExists) {
			break
		}
		u.logger.Warn().
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Str("content", content).
			Int("attempt", attempt).
			Msg("concurrent subscribe detected, re-reading winner")
	}
	if err != nil {
		u.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Str("content", content).
			Msg("failed to subscribe")
		return 0, err
	}

	u.metrics.RecordSubscription()
	return id, nil
}

func (u *UseCase) subscribeTx(
	ctx context.Context,
	userID int64,
	projectCode, content string,
	businessType entities.BusinessType,
) (uint, error) {
	var id uint

	err := u.repo.InTx(ctx, func(tx deps.CardRepository) error {
		existing, err := tx.FindByKey(ctx, userID, projectCode, content, businessType)
		if err != nil {
			return err
		}

		if existing != nil {
			id = existing.ID
			if existing.Active {
				u.logger.Debug().Uint("subscription_id", id).Msg("card already subscribed, no change")
				return nil
			}
			if err := tx.SetActive(ctx, existing.ID, true); err != nil {
				return err
			}
			u.logger.Info().
				Uint("subscription_id", id).
				Int64("user_id", userID).
				Str("content", content).
				Msg("card subscription reactivated")
			return nil
		}

		cancellable := true
		template, err := tx.FindTemplate(ctx, content, businessType)
		if err != nil {
			return err
		}
		if template != nil {
			cancellable = template.Cancellable
		}

		card := &entities.CardSubscription{
			UserID:       userID,
			ProjectCode:  projectCode,
			Content:      content,
			BusinessType: businessType,
			Cancellable:  cancellable,
			Active:       true,
		}
		if err := tx.Create(ctx, card); err != nil {
			return err
		}

		id = card.ID
		u.logger.Info().
			Uint("subscription_id", id).
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Str("content", content).
			Bool("cancellable", cancellable).
			Msg("card subscribed")
		return nil
	})

	return id, err
}

// Unsubscribe deactivates a subscription owned by the caller. Refusals are
// reported through the outcome; err is set only on storage failure.
func (u *UseCase) Unsubscribe(ctx context.Context, userID int64, projectCode string, subscriptionID uint) (dto.UnsubscribeOutcome, error) {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	var outcome dto.UnsubscribeOutcome

	err := u.repo.InTx(ctx, func(tx deps.CardRepository) error {
		card, err := tx.GetByID(ctx, subscriptionID)
		if err != nil {
			return err
		}

		switch {
		case card == nil:
			outcome.Reason = carderrors.ErrSubscriptionNotFound
		case !card.Active:
			outcome.Reason = carderrors.ErrAlreadyInactive
		case !card.OwnedBy(userID, projectCode):
			outcome.Reason = carderrors.ErrNotOwner
		case !card.Cancellable:
			outcome.Reason = carderrors.ErrNotCancellable
		}
		if outcome.Reason != nil {
			return nil
		}

		if err := tx.SetActive(ctx, card.ID, false); err != nil {
			return err
		}
		outcome.Unsubscribed = true
		return nil
	})
	if err != nil {
		u.logger.Error().Err(err).
			Uint("subscription_id", subscriptionID).
			Msg("failed to unsubscribe")
		return dto.UnsubscribeOutcome{}, err
	}

	if outcome.Reason != nil {
		u.logger.Info().
			Uint("subscription_id", subscriptionID).
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Str("reason", outcome.Reason.Error()).
			Msg("unsubscribe rejected")
		u.metrics.RecordUnsubscription(reasonLabel(outcome.Reason))
		return outcome, nil
	}

	u.logger.Info().
		Uint("subscription_id", subscriptionID).
		Int64("user_id", userID).
		Msg("card unsubscribed")
	u.metrics.RecordUnsubscription("")
	return outcome, nil
}

func (u *UseCase) ListActive(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error) {
	cards, err := u.repo.ListActive(ctx, userID, projectCode)
	if err != nil {
		u.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Msg("failed to list active cards")
		return nil, err
	}
	return cards, nil
}

// ListAll returns the user's rows together with all template rows
func (u *UseCase) ListAll(ctx context.Context, userID int64, projectCode string) ([]entities.CardSubscription, error) {
	cards, err := u.repo.ListWithTemplates(ctx, userID, projectCode)
	if err != nil {
		u.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("project_code", projectCode).
			Msg("failed to list cards with templates")
		return nil, err
	}
	return cards, nil
}

func (u *UseCase) GetByID(ctx context.Context, id uint) (*entities.CardSubscription, error) {
	return u.repo.GetByID(ctx, id)
}

// ReconcileTemplates makes the template rows match templates. It is safe to
// run on every start.
func (u *UseCase) ReconcileTemplates(ctx context.Context, templates []entities.TemplateSpec) error {
	u.writeMu.Lock()
	defer u.writeMu.Unlock()

	err := u.repo.InTx(ctx, func(tx deps.CardRepository) error {
		for _, spec := range templates {
			existing, err := tx.FindTemplate(ctx, spec.Content, spec.BusinessType)
			if err != nil {
				return err
			}

			if existing == nil {
				card := &entities.CardSubscription{
					UserID:       entities.SystemUserID,
					ProjectCode:  entities.DefaultProjectCode,
					Content:      spec.Content,
					BusinessType: spec.BusinessType,
					Cancellable:  spec.Cancellable,
					Active:       true,
				}
				if err := tx.Create(ctx, card); err != nil {
					return fmt.Errorf("create template %q: %w", spec.Content, err)
				}
				u.logger.Info().Str("content", spec.Content).Uint("template_id", card.ID).Msg("template card created")
				continue
			}

			if existing.Active && existing.Cancellable == spec.Cancellable {
				continue
			}
			if err := tx.UpdateFlags(ctx, existing.ID, spec.Cancellable, true); err != nil {
				return fmt.Errorf("correct template %q: %w", spec.Content, err)
			}
			u.logger.Info().Str("content", spec.Content).Uint("template_id", existing.ID).Msg("template card corrected")
		}
		return nil
	})
	if err != nil {
		u.logger.Error().Err(err).Msg("template reconciliation rolled back")
		return err
	}

	return nil
}

func validateKey(userID int64, projectCode, content string, businessType entities.BusinessType) error {
	if userID <= 0 {
		return carderrors.ErrInvalidUserID
	}
	if strings.TrimSpace(projectCode) == "" || projectCode == entities.DefaultProjectCode {
		return carderrors.ErrInvalidProjectCode
	}
	if strings.TrimSpace(content) == "" {
		return carderrors.ErrInvalidContent
	}
	if businessType != entities.BusinessTypeCard && businessType != entities.BusinessTypeQuestion {
		return carderrors.ErrInvalidBusinessType
	}
	return nil
}

func reasonLabel(reason error) string {
	switch {
	case errors.Is(reason, carderrors.ErrSubscriptionNotFound):
		return "not_found"
	case errors.Is(reason, carderrors.ErrAlreadyInactive):
		return "already_inactive"
	case errors.Is(reason, carderrors.ErrNotOwner):
		return "not_owner"
	case errors.Is(reason, carderrors.ErrNotCancellable):
		return "not_cancellable"
	default:
		return "other"
	}
}
