package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/dto"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	carderrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/errors"
	apperrors "github.com/Conte777/NewsFlow/services/cardpush-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/pkg/httputil"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Handler struct {
	usecase deps.CardUseCase
	mapper  *apperrors.Mapper
	logger  zerolog.Logger
}

func NewHandler(usecase deps.CardUseCase, mapper *apperrors.Mapper, logger zerolog.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		mapper:  mapper,
		logger:  logger,
	}
}

// Register mounts the card routes on the api group
func (h *Handler) Register(api *httputil.MiddlewareGroup) {
	cards := api.Group("/cards")
	cards.POST("/subscribe", h.Subscribe)
	cards.POST("/{id}/unsubscribe", h.Unsubscribe)
	cards.GET("/catalog", h.Catalog)
	api.GET("/cards", h.List)
}

// Subscribe handles POST /cards/subscribe
func (h *Handler) Subscribe(ctx *fasthttp.RequestCtx) {
	var req dto.SubscribeRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, apperrors.WrapValidation("invalid request body", err))
		return
	}

	id, err := h.usecase.Subscribe(context.Background(), req.UserID, req.ProjectCode, req.Content, req.BusinessType)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}

	httputil.WriteResponse(ctx, dto.SubscribeResponse{CardID: id})
}

// Unsubscribe handles POST /cards/{id}/unsubscribe
func (h *Handler) Unsubscribe(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid card id"))
		return
	}

	var req dto.UnsubscribeRequest
	if err := httputil.DecodeJSON(ctx, &req); err != nil {
		h.writeError(ctx, apperrors.WrapValidation("invalid request body", err))
		return
	}

	outcome, err := h.usecase.Unsubscribe(context.Background(), req.UserID, req.ProjectCode, id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}
	if !outcome.Unsubscribed {
		h.writeError(ctx, translate(outcome.Reason))
		return
	}

	httputil.WriteResponse(ctx, map[string]uint{"cardId": id})
}

// List handles GET /cards?userId=&projectCode=
func (h *Handler) List(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()

	userID, err := strconv.ParseInt(string(args.Peek("userId")), 10, 64)
	if err != nil {
		h.writeError(ctx, apperrors.NewValidationError("userId query parameter is required"))
		return
	}
	projectCode := string(args.Peek("projectCode"))
	if projectCode == "" {
		h.writeError(ctx, apperrors.NewValidationError("projectCode query parameter is required"))
		return
	}

	cards, err := h.usecase.ListActive(context.Background(), userID, projectCode)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}

	if cards == nil {
		cards = []entities.CardSubscription{}
	}
	httputil.WriteResponse(ctx, cards)
}

// Catalog handles GET /cards/catalog
func (h *Handler) Catalog(ctx *fasthttp.RequestCtx) {
	httputil.WriteResponse(ctx, entities.Catalog)
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

// translate maps card errors onto typed API errors
func translate(err error) error {
	switch {
	case errors.Is(err, carderrors.ErrInvalidUserID),
		errors.Is(err, carderrors.ErrInvalidProjectCode),
		errors.Is(err, carderrors.ErrInvalidContent),
		errors.Is(err, carderrors.ErrInvalidBusinessType):
		return apperrors.WrapValidation("invalid card subscription", err)
	case errors.Is(err, carderrors.ErrSubscriptionNotFound):
		return apperrors.NewNotFoundError(err.Error())
	case errors.Is(err, carderrors.ErrNotOwner), errors.Is(err, carderrors.ErrNotCancellable):
		return apperrors.WrapPermission("unsubscribe rejected", err)
	case errors.Is(err, carderrors.ErrAlreadyInactive):
		return apperrors.WrapConflict("unsubscribe rejected", err)
	default:
		return apperrors.WrapInternal("card operation failed", err)
	}
}
