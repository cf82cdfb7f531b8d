package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
}

func TestKafkaProducer_SendToTopic(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev testEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.ID != 42 || ev.Content != "hello" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewProducer(mock, metrics.GetDefaultMetrics(), zerolog.Nop())

	err := p.SendToTopic(context.Background(), "card.message.logged", "42", testEvent{ID: 42, Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.successCount.Load())
	require.NoError(t, p.Close())
}

func TestKafkaProducer_SendFailure(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewProducer(mock, metrics.GetDefaultMetrics(), zerolog.Nop())

	err := p.SendToTopic(context.Background(), "card.message.logged", "1", testEvent{ID: 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	assert.Equal(t, uint64(1), p.errorCount.Load())
	require.NoError(t, p.Close())
}

func TestKafkaProducer_CancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	p := NewProducer(mock, metrics.GetDefaultMetrics(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.SendToTopic(ctx, "t", "k", testEvent{}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNoopProducer(t *testing.T) {
	p := NewNoopProducer(zerolog.Nop())

	assert.NoError(t, p.SendToTopic(context.Background(), "t", "k", testEvent{}))
	assert.NoError(t, p.Close())
}

type flakyHandler struct {
	failures int
	calls    int
	err      error
}

func (h *flakyHandler) HandleMessage(context.Context, *sarama.ConsumerMessage) error {
	h.calls++
	if h.calls <= h.failures {
		return h.err
	}
	return nil
}

func TestProcess_Retries(t *testing.T) {
	h := &flakyHandler{failures: 2, err: errors.New("db busy")}

	err := Process(context.Background(), h, &sarama.ConsumerMessage{Topic: "t"}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, h.calls)
}

func TestProcess_GivesUp(t *testing.T) {
	h := &flakyHandler{failures: 10, err: errors.New("db down")}

	err := Process(context.Background(), h, &sarama.ConsumerMessage{Topic: "t"}, zerolog.Nop())
	assert.Error(t, err)
	assert.Equal(t, maxRetries, h.calls)
}

func TestProcess_PermanentNotRetried(t *testing.T) {
	h := &flakyHandler{failures: 10, err: ErrPermanent}

	err := Process(context.Background(), h, &sarama.ConsumerMessage{Topic: "t"}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, h.calls)
}
