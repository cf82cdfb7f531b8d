package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

const maxRetries = 3

// MessageHandler processes a single consumed message
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg *sarama.ConsumerMessage) error
}

// ErrPermanent marks a message that must not be retried
var ErrPermanent = errors.New("permanent message failure")

// KafkaConsumer runs a consumer group and feeds messages to a handler
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	handler       MessageHandler
	logger        zerolog.Logger
	wg            sync.WaitGroup
}

// NewKafkaConsumer creates a new consumer group for topics
func NewKafkaConsumer(
	brokers []string,
	groupID string,
	topics []string,
	handler MessageHandler,
	logger zerolog.Logger,
) (*KafkaConsumer, error) {
	config := sarama.NewConfig()
	config.Version = sarama.V3_6_0_0
	config.Consumer.Return.Errors = true
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}

	consumerGroup, err := sarama.NewConsumerGroup(brokers, groupID, config)
	if err != nil {
		logger.Error().
			Err(err).
			Str("group_id", groupID).
			Msg("failed to create Kafka consumer group")
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	logger.Info().
		Str("group_id", groupID).
		Strs("topics", topics).
		Msg("Kafka consumer group successfully initialized")

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		topics:        topics,
		handler:       handler,
		logger:        logger,
	}, nil
}

// Start begins consuming messages in a goroutine until ctx is cancelled
func (c *KafkaConsumer) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			if ctx.Err() != nil {
				c.logger.Info().Msg("consumer context canceled, stopping consumer group")
				return
			}

			if err := c.consumerGroup.Consume(ctx, c.topics, c); err != nil {
				if errors.Is(err, sarama.ErrClosedConsumerGroup) {
					return
				}
				c.logger.Error().Err(err).Msg("error from consumer group")
			}
		}
	}()

	c.logger.Info().
		Strs("topics", c.topics).
		Msg("Kafka consumer group started")
}

// Close shuts the consumer group down and waits for the loop to exit
func (c *KafkaConsumer) Close() error {
	if c.consumerGroup == nil {
		return nil
	}

	err := c.consumerGroup.Close()
	c.wg.Wait()
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to close Kafka consumer group")
		return err
	}

	c.logger.Info().Msg("Kafka consumer group successfully closed")
	return nil
}

// Setup is called at the beginning of a new session
func (c *KafkaConsumer) Setup(session sarama.ConsumerGroupSession) error {
	c.logger.Debug().Str("member_id", session.MemberID()).Msg("consumer group session setup completed")
	return nil
}

// Cleanup is called at the end of a session
func (c *KafkaConsumer) Cleanup(session sarama.ConsumerGroupSession) error {
	c.logger.Debug().Str("member_id", session.MemberID()).Msg("consumer group session cleanup completed")
	return nil
}

// ConsumeClaim processes messages from a partition
func (c *KafkaConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := Process(session.Context(), c.handler, msg, c.logger); err != nil {
			c.logger.Error().
				Err(err).
				Str("topic", msg.Topic).
				Int64("offset", msg.Offset).
				Msg("giving up on message")
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

// Process runs handler with bounded retries; permanent failures are not retried
func Process(ctx context.Context, handler MessageHandler, msg *sarama.ConsumerMessage, logger zerolog.Logger) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = handler.HandleMessage(ctx, msg)
		if lastErr == nil || errors.Is(lastErr, ErrPermanent) {
			return lastErr
		}

		logger.Warn().
			Err(lastErr).
			Int("attempt", attempt).
			Int("max_attempts", maxRetries).
			Str("topic", msg.Topic).
			Msg("handler failed to process message, retrying")
	}

	return lastErr
}
