package infrastructure

import (
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/database"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/logger"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/redis"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/thirdparty"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"infrastructure",
	logger.Module,
	metrics.Module,
	database.Module,
	redis.Module,
	kafka.Module,
	thirdparty.Module,
	http.Module,
)
