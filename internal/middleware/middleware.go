package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/topicreg/internal/app/models/dto"
)

// RequestLogger logs every request except those to the skipped paths.
func RequestLogger(logger zerolog.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skipped[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}

// CORS allows the configured origins, or any origin when none are set.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "x-access-token")
	return cors.New(cfg)
}

// ReadinessWaiter is satisfied by the database handle.
type ReadinessWaiter interface {
	WaitReady(ctx context.Context) error
}

// Readiness holds requests until the store is ready, for at most wait. After
// that the request fails with 503 instead of hanging.
func Readiness(store ReadinessWaiter, wait time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), wait)
		defer cancel()

		if err := store.WaitReady(ctx); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(dto.MessageServiceUnavailable))
			return
		}
		c.Next()
	}
}
