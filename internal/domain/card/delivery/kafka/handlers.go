package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/dto"
	carderrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/errors"
	kafkaInfra "github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// CommandHandler applies subscription commands consumed from Kafka
type CommandHandler struct {
	cards     deps.CardUseCase
	schedules deps.ScheduleCanceller
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	processed atomic.Uint64
	failed    atomic.Uint64
}

func NewCommandHandler(
	cards deps.CardUseCase,
	schedules deps.ScheduleCanceller,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *CommandHandler {
	return &CommandHandler{
		cards:     cards,
		schedules: schedules,
		metrics:   m,
		logger:    logger,
	}
}

var _ kafkaInfra.MessageHandler = (*CommandHandler)(nil)

// HandleMessage decodes and applies one command. Malformed payloads and
// business refusals are permanent; storage errors are retried.
func (h *CommandHandler) HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var cmd dto.Command
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		h.failed.Add(1)
		h.logger.Error().
			Err(err).
			Str("topic", msg.Topic).
			Int64("offset", msg.Offset).
			Msg("failed to unmarshal subscription command")
		return fmt.Errorf("%w: %v", kafkaInfra.ErrPermanent, err)
	}

	err := h.Apply(ctx, &cmd)
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, kafkaInfra.ErrPermanent) {
			result = "rejected"
		}
		h.failed.Add(1)
	}
	h.metrics.RecordCommand(cmd.Type, result)
	h.processed.Add(1)

	h.logger.Debug().
		Str("type", cmd.Type).
		Str("result", result).
		Uint64("processed_total", h.processed.Load()).
		Uint64("failed_total", h.failed.Load()).
		Msg("subscription command processed")

	return err
}

// Apply executes a decoded command
func (h *CommandHandler) Apply(ctx context.Context, cmd *dto.Command) error {
	switch cmd.Type {
	case dto.CommandSubscribe:
		id, err := h.cards.Subscribe(ctx, cmd.UserID, cmd.ProjectCode, cmd.Content, cmd.BusinessType)
		if err != nil {
			return classify(err)
		}
		h.logger.Info().
			Int64("user_id", cmd.UserID).
			Str("project_code", cmd.ProjectCode).
			Uint("subscription_id", id).
			Msg("subscribe command applied")
		return nil

	case dto.CommandUnsubscribe:
		outcome, err := h.cards.Unsubscribe(ctx, cmd.UserID, cmd.ProjectCode, cmd.SubscriptionID)
		if err != nil {
			return err
		}
		if !outcome.Unsubscribed {
			h.logger.Warn().
				Uint("subscription_id", cmd.SubscriptionID).
				Str("reason", outcome.Reason.Error()).
				Msg("unsubscribe command rejected")
			return fmt.Errorf("%w: %w", kafkaInfra.ErrPermanent, outcome.Reason)
		}
		return nil

	case dto.CommandScheduleCancel:
		cancelled, err := h.schedules.Cancel(ctx, cmd.ScheduleID)
		if err != nil {
			return err
		}
		if !cancelled {
			h.logger.Warn().Uint("schedule_id", cmd.ScheduleID).Msg("schedule already inactive or absent")
		}
		return nil

	default:
		h.logger.Warn().Str("type", cmd.Type).Msg("received unknown subscription command type")
		return fmt.Errorf("%w: unknown command type %q", kafkaInfra.ErrPermanent, cmd.Type)
	}
}

func classify(err error) error {
	switch {
	case errors.Is(err, carderrors.ErrInvalidUserID),
		errors.Is(err, carderrors.ErrInvalidProjectCode),
		errors.Is(err, carderrors.ErrInvalidContent),
		errors.Is(err, carderrors.ErrInvalidBusinessType):
		return fmt.Errorf("%w: %w", kafkaInfra.ErrPermanent, err)
	default:
		return err
	}
}
