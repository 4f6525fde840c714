package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// Timeout puts a deadline on the request context. The quote client and the
// wizard store observe it through ctx; when it passes before the handler
// wrote anything the request is answered with 503.
//
// budgets overrides the deadline per route pattern (c.FullPath()); a zero
// budget runs the route without one, for exports that page through a whole
// collection.
func Timeout(def time.Duration, budgets map[string]time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		budget := def
		if b, ok := budgets[c.FullPath()]; ok {
			budget = b
		}

		if budget <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), budget)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if !errors.Is(ctx.Err(), context.DeadlineExceeded) || c.Writer.Written() {
			return
		}

		logging.FromContext(ctx).WarnContext(ctx, "request deadline exceeded",
			slog.String("route", c.FullPath()),
			slog.Duration("budget", budget),
		)

		c.AbortWithStatusJSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrorCodeTimeout, "request timeout exceeded").WithTraceID(dto.GetTraceID(c)))
	}
}
