package app

import (
	"testing"

	scheduledeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	schedulerdeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestCreateApp(t *testing.T) {
	require.NoError(t, fx.ValidateApp(CreateApp()))
}

func TestCreateApp_ProvidesSchedulerGraph(t *testing.T) {
	err := fx.ValidateApp(
		CreateApp(),
		fx.Invoke(func(schedulerdeps.TickRunner, schedulerdeps.FireGuard, scheduledeps.ScheduleUseCase, *server.Server) {}),
	)
	require.NoError(t, err)
}
