package domain

import (
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"domain",
	card.Module,
	schedule.Module,
	messagelog.Module,
	scheduler.Module,
)
