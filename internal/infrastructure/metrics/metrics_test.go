package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGetDefaultMetrics_Singleton(t *testing.T) {
	assert.Same(t, GetDefaultMetrics(), GetDefaultMetrics())
}

func TestMetrics_RecordUnsubscription(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.UnsubscriptionsTotal)
	m.RecordUnsubscription("")
	assert.Equal(t, before+1, testutil.ToFloat64(m.UnsubscriptionsTotal))

	rejectedBefore := testutil.ToFloat64(m.UnsubscribeRejections.WithLabelValues("not_cancellable"))
	m.RecordUnsubscription("not_cancellable")
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(m.UnsubscribeRejections.WithLabelValues("not_cancellable")))
}

func TestMetrics_RecordTickItemError_EmptyStage(t *testing.T) {
	m := GetDefaultMetrics()

	before := testutil.ToFloat64(m.TickItemErrors.WithLabelValues("unknown"))
	m.RecordTickItemError("")
	assert.Equal(t, before+1, testutil.ToFloat64(m.TickItemErrors.WithLabelValues("unknown")))
}

// The remaining recorders only need to not panic
func TestMetrics_Recorders(t *testing.T) {
	m := GetDefaultMetrics()

	m.RecordSubscription()
	m.RecordScheduleSaved()
	m.RecordScheduleCancelled()
	m.RecordTick(0.25)
	m.RecordTickSkipped("local")
	m.RecordPush("subscribed")
	m.RecordDuplicate("fallback")
	m.RecordKafkaMessage()
	m.RecordKafkaError()
	m.RecordCommand("subscribe", "ok")
}
