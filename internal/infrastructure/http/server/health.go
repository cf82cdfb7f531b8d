package server

import (
	"context"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/pkg/httputil"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// OptionalComponent reports a dependency that may be switched off by config
type OptionalComponent struct {
	Name    string
	Enabled bool
}

// HealthHandler pings the database and reports optional components
type HealthHandler struct {
	db       *gorm.DB
	optional []OptionalComponent
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(db *gorm.DB, optional []OptionalComponent, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{db: db, optional: optional, logger: logger}
}

// Check collects component health
func (h *HealthHandler) Check(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:    HealthStatusHealthy,
		Timestamp: time.Now().UTC(),
	}

	db := ComponentHealth{Name: "database", Healthy: true}
	if err := h.pingDB(ctx); err != nil {
		db.Healthy = false
		db.Message = err.Error()
		resp.Status = HealthStatusUnhealthy
	}
	resp.Components = append(resp.Components, db)

	for _, c := range h.optional {
		msg := "enabled"
		if !c.Enabled {
			msg = "disabled"
		}
		resp.Components = append(resp.Components, ComponentHealth{Name: c.Name, Healthy: true, Message: msg})
	}

	return resp
}

// Handle serves GET /health
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	resp := h.Check(c)
	if resp.Status != HealthStatusHealthy {
		h.logger.Warn().Interface("components", resp.Components).Msg("health check failed")
	}
	httputil.WriteHealthResponse(ctx, resp, resp.Status == HealthStatusHealthy)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
