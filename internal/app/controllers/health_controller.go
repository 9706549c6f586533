package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/topicreg/internal/app/models/dto"
)

// ReadinessChecker reports whether the store is usable.
type ReadinessChecker interface {
	IsReady() bool
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes
type HealthController struct {
	store ReadinessChecker
}

// NewHealthController creates a new HealthController
func NewHealthController(store ReadinessChecker) *HealthController {
	return &HealthController{store: store}
}

// Ping godoc
// @Summary Liveness probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}

// Health godoc
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.ErrorResponse "Service unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if !c.store.IsReady() || c.store.Ping(ctx.Request.Context()) != nil {
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.MessageServiceUnavailable))
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
