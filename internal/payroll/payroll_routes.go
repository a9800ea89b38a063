package payroll

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
	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware(verifier))
	payslips.Use(middleware.ContextLogger(logger))
	payslips.Use(middleware.RBACAuthorize(rbacService, "payslip", "read"))
	{
		payslips.GET("/:employee_id", middleware.RateLimitByUser(3, 10), handler.Get)
		payslips.GET("/:employee_id/text", middleware.RateLimitByUser(3, 10), handler.Text)
		payslips.GET("/:employee_id/pdf", middleware.RateLimitByUser(1, 5), handler.PDF)
		payslips.POST("/:employee_id/narrative", middleware.RateLimitByUser(1, 3), handler.Narrate)
	}
}
