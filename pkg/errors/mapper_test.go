package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestMapper_MapErrorToHTTP(t *testing.T) {
	sentinel := errors.New("card subscription is not cancellable")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "nil", err: nil, wantStatus: fasthttp.StatusOK},
		{name: "validation", err: NewValidationError("bad hour"), wantStatus: fasthttp.StatusBadRequest, wantMsg: "bad hour"},
		{name: "permission wraps cause", err: WrapPermission("unsubscribe rejected", sentinel), wantStatus: fasthttp.StatusForbidden, wantMsg: "unsubscribe rejected: card subscription is not cancellable"},
		{name: "not found", err: NewNotFoundErrorf("schedule %d not found", 3), wantStatus: fasthttp.StatusNotFound, wantMsg: "schedule 3 not found"},
		{name: "conflict wrapped twice", err: fmt.Errorf("handler: %w", WrapConflict("already inactive", nil)), wantStatus: fasthttp.StatusConflict, wantMsg: "already inactive"},
		{name: "unavailable", err: NewServiceUnavailableError("tick running"), wantStatus: fasthttp.StatusServiceUnavailable, wantMsg: "tick running"},
		{name: "internal hides cause", err: WrapInternal("failed to subscribe", errors.New("disk full")), wantStatus: fasthttp.StatusInternalServerError, wantMsg: "failed to subscribe"},
		{name: "deadline", err: fmt.Errorf("run tick: %w", context.DeadlineExceeded), wantStatus: fasthttp.StatusGatewayTimeout, wantMsg: "request timed out"},
		{name: "unknown", err: errors.New("boom"), wantStatus: fasthttp.StatusInternalServerError, wantMsg: "internal server error"},
	}

	mapper := NewMapper(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapper.MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestWrap_KeepsCause(t *testing.T) {
	sentinel := errors.New("not owner")
	err := WrapPermission("unsubscribe rejected", sentinel)

	assert.ErrorIs(t, err, sentinel)
}
