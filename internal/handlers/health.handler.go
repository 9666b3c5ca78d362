package handlers

import (
	"context"

	"github.com/fasthttp/router"
	xhttp "github.com/nimasrn/seller-crm/pkg/http"
	"github.com/nimasrn/seller-crm/pkg/logger"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db HealthChecker
}

func RegisterHealthRoutes(e *router.Group, h *HealthHandler) {
	e.GET("/health", h.GetHealth)
}

func NewHealthHandler(db HealthChecker) *HealthHandler {
	return &HealthHandler{
		db: db,
	}
}

func (h *HealthHandler) GetHealth(ctx *xhttp.RequestCtx) {
	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("[handlers] health check failed", "error", err)
		writeJSON(ctx, xhttp.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
		return
	}
	writeJSON(ctx, xhttp.StatusOK, statusResponse{Status: "ok"})
}
