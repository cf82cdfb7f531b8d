package http

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/dto"
	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	apperrors "github.com/Conte777/NewsFlow/services/cardpush-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/pkg/httputil"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Handler struct {
	runner deps.TickRunner
	mapper *apperrors.Mapper
	now    func() time.Time
	logger zerolog.Logger
}

func NewHandler(runner deps.TickRunner, mapper *apperrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		runner: runner,
		mapper: mapper,
		now:    time.Now,
		logger: logger,
	}
}

func (h *Handler) Register(api *httputil.MiddlewareGroup) {
	api.POST("/scheduler/tick", h.Tick)
}

// Tick handles POST /scheduler/tick
func (h *Handler) Tick(ctx *fasthttp.RequestCtx) {
	at, err := h.tickTime(ctx)
	if err != nil {
		h.writeError(ctx, apperrors.WrapValidation("invalid tick request", err))
		return
	}

	report, err := h.runner.RunTick(context.Background(), at)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}

	httputil.WriteResponse(ctx, report)
}

func (h *Handler) tickTime(ctx *fasthttp.RequestCtx) (time.Time, error) {
	if len(ctx.PostBody()) == 0 {
		return h.now(), nil
	}

	var req dto.TickRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		return time.Time{}, err
	}
	if req.At == "" {
		return h.now(), nil
	}

	at, err := time.Parse(time.RFC3339, req.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", schedulererrors.ErrInvalidTickTime, err)
	}
	return at, nil
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

func translate(err error) error {
	switch {
	case errors.Is(err, schedulererrors.ErrTickInProgress), errors.Is(err, schedulererrors.ErrLockHeld):
		return apperrors.WrapConflict("tick not started", err)
	default:
		return apperrors.WrapInternal("tick failed", err)
	}
}
