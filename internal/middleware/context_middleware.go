package middleware

import (
	"go-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger copies the request identity set by RequestID and
// AuthMiddleware into the standard context, together with a logger carrying
// the same fields. Services read both through contextutil.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("request_id", rid)
			c.Header(requestIDHeader, rid)
		}

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithUserID(ctx, c.GetString("user_id"))
		ctx = contextutil.WithCompanyID(ctx, c.GetString("company_id"))

		md := contextutil.ExtractMetadata(ctx)
		ctx = contextutil.WithLogger(ctx, logger.With(md.Fields()...))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
