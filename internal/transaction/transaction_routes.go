package transaction

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) {
	transactions := r.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(verifier))
	transactions.Use(middleware.ContextLogger(logger))
	{
		transactions.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "transaction", "read"),
			handler.GetAll,
		)
		transactions.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "transaction", "read"),
			handler.GetByID,
		)
		transactions.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "transaction", "create"),
			handler.Create,
		)
		transactions.PUT("/:id",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "transaction", "update"),
			handler.Update,
		)
		transactions.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "transaction", "delete"),
			handler.Delete,
		)
	}
}
