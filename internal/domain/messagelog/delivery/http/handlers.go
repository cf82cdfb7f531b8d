package http

import (
	"context"
	"errors"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/dto"
	messageerrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/errors"
	apperrors "github.com/Conte777/NewsFlow/services/cardpush-service/pkg/errors"
	"github.com/Conte777/NewsFlow/services/cardpush-service/pkg/httputil"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

type Handler struct {
	messages deps.MessageLogUseCase
	cards    deps.CardLookup
	styles   deps.StyleLookup
	mapper   *apperrors.Mapper
	logger   zerolog.Logger
}

func NewHandler(
	messages deps.MessageLogUseCase,
	cards deps.CardLookup,
	styles deps.StyleLookup,
	mapper *apperrors.Mapper,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		messages: messages,
		cards:    cards,
		styles:   styles,
		mapper:   mapper,
		logger:   logger,
	}
}

func (h *Handler) Register(api *httputil.MiddlewareGroup) {
	api.GET("/cards/{id}/latest", h.Latest)
	api.DELETE("/messages/{id}", h.Delete)
	api.DELETE("/cards/{id}/messages", h.DeleteByCard)
}

// Latest handles GET /cards/{id}/latest
func (h *Handler) Latest(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid card id"))
		return
	}

	reqCtx := context.Background()

	record, err := h.messages.Latest(reqCtx, id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}
	if record == nil {
		h.writeError(ctx, apperrors.NewNotFoundErrorf("no message for card %d", id))
		return
	}

	var content string
	card, err := h.cards.GetByID(reqCtx, id)
	if err != nil {
		h.writeError(ctx, apperrors.WrapInternal("card lookup failed", err))
		return
	}
	if card != nil {
		content = card.Content
	}

	style, err := h.styles.CardStyle(reqCtx, content)
	if err != nil {
		h.logger.Warn().Err(err).Uint("card_id", id).Msg("card style lookup failed")
		h.writeError(ctx, apperrors.NewServiceUnavailableError("card style service unavailable"))
		return
	}

	httputil.WriteResponse(ctx, dto.LatestMessageResponse{
		CardID:    id,
		Content:   record.Content,
		Style:     style,
		Kind:      string(record.Kind),
		CreatedAt: record.CreatedAt,
	})
}

// Delete handles DELETE /messages/{id}
func (h *Handler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid message id"))
		return
	}

	deleted, err := h.messages.Delete(context.Background(), id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}
	if !deleted {
		h.writeError(ctx, apperrors.NewNotFoundErrorf("message %d not found", id))
		return
	}

	httputil.WriteResponse(ctx, dto.DeleteResponse{MessageID: id})
}

// DeleteByCard handles DELETE /cards/{id}/messages. Clearing a card with no
// messages is not an error.
func (h *Handler) DeleteByCard(ctx *fasthttp.RequestCtx) {
	id, ok := httputil.PathUint(ctx, "id")
	if !ok {
		h.writeError(ctx, apperrors.NewValidationError("invalid card id"))
		return
	}

	deleted, err := h.messages.DeleteBySubject(context.Background(), id)
	if err != nil {
		h.writeError(ctx, translate(err))
		return
	}

	h.logger.Info().Uint("card_id", id).Int64("deleted", deleted).Msg("card messages deleted")
	httputil.WriteResponse(ctx, dto.DeleteByCardResponse{CardID: id, Deleted: deleted})
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, err error) {
	status, msg := h.mapper.MapErrorToHTTP(err)
	httputil.WriteErrorResponse(ctx, msg, status)
}

func translate(err error) error {
	switch {
	case errors.Is(err, messageerrors.ErrInvalidSubject),
		errors.Is(err, messageerrors.ErrInvalidKind),
		errors.Is(err, messageerrors.ErrEmptyContent):
		return apperrors.WrapValidation("invalid message", err)
	default:
		return apperrors.WrapInternal("message log operation failed", err)
	}
}
