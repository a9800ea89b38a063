package rbac

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, verifier middleware.TokenVerifier) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(verifier))
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/enforce", handler.Enforce)
	}
}
