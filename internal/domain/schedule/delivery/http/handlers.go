package http

import (
	"context"
	"errors"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/dto"
	scheduleerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/errors"
	apperrors "github.com/Conte777/NewsFlow/services/cardpush-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/pkg/httputil"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Handler struct {
	usecase deps.ScheduleUseCase
	mapper  *apperrors.Mapper
	logger  zerolog.Logger
}

func NewHandler(usecase deps.ScheduleUseCase, mapper *apperrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		mapper:  mapper,
		logger:  logger,
	}
}

func (h *Handler) Register(api *httputil.MiddlewareGroup) {
	schedules := api.Group("/schedules")
	schedules.PUT("", h.Save)
	schedules.GET("/{id}", h.Get)
	schedules.DELETE("/{id}", h.Cancel)
}

// Save handles PUT /schedules
func (h *Handler) Save(ctx *fasthttp.RequestCtx) {
	var req dto.ScheduleRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, apperrors.WrapValidation("invalid request body", err))
		return
	}

	id, err := h.usecase.CreateOrReplace(context.Background(), req.ToInput())
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}

	httputil.WriteResponse(ctx, dto.ScheduleResponse{ScheduleID: id})
}

// Get handles GET /schedules/{id}
func (h *Handler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid schedule id"))
		return
	}

	schedule, err := h.usecase.GetByID(context.Background(), id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}
	if schedule == nil {
		h.writeError(ctx, apperrors.NewNotFoundErrorf("schedule %d not found", id))
		return
	}

	httputil.WriteResponse(ctx, schedule)
}

// Cancel handles DELETE /schedules/{id}
func (h *Handler) Cancel(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid schedule id"))
		return
	}

	cancelled, err := h.usecase.Cancel(context.Background(), id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}
	if !cancelled {
		h.writeError(ctx, apperrors.NewNotFoundErrorf("active schedule %d not found", id))
		return
	}

	httputil.WriteResponse(ctx, dto.ScheduleResponse{ScheduleID: id})
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

func translate(err error) error {
	switch {
	case errors.Is(err, scheduleerrors.ErrDatabaseOperation):
		return apperrors.WrapInternal("schedule operation failed", err)
	case errors.Is(err, scheduleerrors.ErrScheduleNotFound):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, scheduleerrors.ErrInvalidUserID),
		errors.Is(err, scheduleerrors.ErrInvalidProjectCode),
		errors.Is(err, scheduleerrors.ErrInvalidSubscription),
		errors.Is(err, scheduleerrors.ErrInvalidBusinessType),
		errors.Is(err, scheduleerrors.ErrInvalidFrequency),
		errors.Is(err, scheduleerrors.ErrInvalidTimeSlot),
		errors.Is(err, scheduleerrors.ErrNoTimeSlots):
		return apperrors.WrapValidation("invalid schedule", err)
	default:
		return apperrors.WrapInternal("schedule operation failed", err)
	}
}
