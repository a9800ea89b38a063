package realtime

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, verifier middleware.TokenVerifier) {
	stream := r.Group("/stream")
	stream.Use(middleware.AuthMiddleware(verifier))
	{
		stream.GET("/:collection",
			middleware.RBACAuthorize(rbacService, "stream", "read"),
			handler.Stream,
		)
	}
}
