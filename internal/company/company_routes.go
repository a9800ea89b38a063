package company

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, verifier middleware.TokenVerifier) {
	r.POST("/auth/register", middleware.RateLimitByIP(0.1, 1), handler.Register)

	company := r.Group("/companies")
	company.Use(middleware.AuthMiddleware(verifier))
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, "company", "read"),
			handler.GetMe,
		)
		company.PUT("/me",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "company", "update"),
			handler.UpdateMe,
		)
	}
}
