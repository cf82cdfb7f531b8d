package business

import (
	"context"
	"strconv"
	"strings"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
	messageerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/events"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/kafka"
	"github.com/rs/zerolog"
)

type UseCase struct {
	repo      deps.MessageLogRepository
	publisher kafka.Publisher
	topic     string
	logger    zerolog.Logger
}

func NewUseCase(repo deps.MessageLogRepository, publisher kafka.Publisher, topic string, logger zerolog.Logger) *UseCase {
	return &UseCase{
		repo:      repo,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

var _ deps.MessageLogUseCase = (*UseCase)(nil)

// Append stores a delivery record and announces it on Kafka. The record
// stays stored when publishing fails.
func (u *UseCase) Append(
	ctx context.Context,
	subjectID uint,
	userID int64,
	kind entities.Kind,
	content string,
) (*entities.DeliveryRecord, error) {
	if subjectID == 0 {
		return nil, messageerrors.ErrInvalidSubject
	}
	if kind != entities.KindSubscribed && kind != entities.KindFallback {
		return nil, messageerrors.ErrInvalidKind
	}
	if strings.TrimSpace(content) == "" {
		return nil, messageerrors.ErrEmptyContent
	}

	record := &entities.DeliveryRecord{
		SubjectID: subjectID,
		UserID:    userID,
		Kind:      kind,
		Content:   content,
		Active:    true,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		u.logger.Error().Err(err).
			Uint("subject_id", subjectID).
			Str("kind", string(kind)).
			Msg("failed to store delivery record")
		return nil, err
	}

	u.logger.Info().
		Uint("record_id", record.ID).
		Uint("subject_id", subjectID).
		Int64("user_id", userID).
		Str("kind", string(kind)).
		Msg("delivery record stored")

	event := events.MessageLoggedEvent{
		RecordID:  record.ID,
		SubjectID: record.SubjectID,
		UserID:    record.UserID,
		Kind:      string(record.Kind),
		Content:   record.Content,
		LoggedAt:  record.CreatedAt,
	}
	if err := u.publisher.SendToTopic(ctx, u.topic, strconv.FormatUint(uint64(subjectID), 10), event); err != nil {
		u.logger.Warn().Err(err).
			Uint("record_id", record.ID).
			Str("topic", u.topic).
			Msg("failed to publish message logged event")
	}

	return record, nil
}

func (u *UseCase) Latest(ctx context.Context, subjectID uint) (*entities.DeliveryRecord, error) {
	return u.repo.Latest(ctx, subjectID)
}

// Delete soft-deletes one record; false means it was absent or already deleted
func (u *UseCase) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := u.repo.SoftDelete(ctx, id)
	if err != nil {
		u.logger.Error().Err(err).Uint("record_id", id).Msg("failed to delete delivery record")
		return false, err
	}
	if deleted {
		u.logger.Info().Uint("record_id", id).Msg("delivery record deleted")
	}
	return deleted, nil
}

func (u *UseCase) DeleteBySubject(ctx context.Context, subjectID uint) (int64, error) {
	n, err := u.repo.SoftDeleteBySubject(ctx, subjectID)
	if err != nil {
		u.logger.Error().Err(err).Uint("subject_id", subjectID).Msg("failed to delete delivery records")
		return 0, err
	}
	u.logger.Info().Uint("subject_id", subjectID).Int64("count", n).Msg("delivery records deleted")
	return n, nil
}
