package workers

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/dto"
	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls       atomic.Int32
	hasDeadline atomic.Bool
	duration    time.Duration
	err         error
}

func (r *countingRunner) RunTick(ctx context.Context, now time.Time) (*dto.TickReport, error) {
	r.calls.Add(1)
	_, ok := ctx.Deadline()
	r.hasDeadline.Store(ok)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.TickReport{At: now, Duration: r.duration}, nil
}

func testConfig(spec string) *config.SchedulerConfig {
	return &config.SchedulerConfig{
		Enabled:       true,
		CronSpec:      spec,
		Timezone:      "UTC",
		TickWarnAfter: time.Second,
	}
}

func TestNewCronWorker_InvalidSpec(t *testing.T) {
	_, err := NewCronWorker(&countingRunner{}, testConfig("every minute"), zerolog.Nop())
	assert.Error(t, err)
}

func TestCronWorker_TickHasNoDeadline(t *testing.T) {
	runner := &countingRunner{}
	w, err := NewCronWorker(runner, testConfig("* * * * *"), zerolog.Nop())
	require.NoError(t, err)

	w.tick()
	assert.Equal(t, int32(1), runner.calls.Load())
	assert.False(t, runner.hasDeadline.Load())
}

func TestCronWorker_OverrunIsLogged(t *testing.T) {
	var buf bytes.Buffer
	runner := &countingRunner{duration: 3 * time.Second}
	w, err := NewCronWorker(runner, testConfig("* * * * *"), zerolog.New(&buf))
	require.NoError(t, err)

	w.tick()
	assert.Contains(t, buf.String(), "scheduler tick overran")

	buf.Reset()
	runner.duration = time.Millisecond
	w.tick()
	assert.NotContains(t, buf.String(), "scheduler tick overran")
}

func TestCronWorker_TickSwallowsErrors(t *testing.T) {
	runner := &countingRunner{err: schedulererrors.ErrTickInProgress}
	w, err := NewCronWorker(runner, testConfig("@every 1s"), zerolog.Nop())
	require.NoError(t, err)

	assert.NotPanics(t, w.tick)
}

func TestCronWorker_StartStop(t *testing.T) {
	runner := &countingRunner{}
	w, err := NewCronWorker(runner, testConfig("@every 1s"), zerolog.Nop())
	require.NoError(t, err)

	w.Start()
	assert.Eventually(t, func() bool { return runner.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	w.Stop()
}
