package middleware

import (
	"context"
	"strings"

	"go-payroll/internal/domain"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// TokenVerifier is satisfied by the identity provider.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (domain.Principal, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.CodeUnauthorized, "Token not found", nil)
			c.Abort()
			return
		}

		principal, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			if httpErr.Code != apperror.CodeUnauthorized {
				httpErr = apperror.ToHTTP(apperror.ErrUnauthorized)
			}
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Set("user_id", principal.UID)
		c.Set("employee_id", principal.EmployeeID)
		c.Set("company_id", principal.CompanyID)
		c.Set("role", string(principal.Role))

		c.Next()
	}
}

// CurrentPrincipal returns the principal installed by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok && !p.IsZero()
}

// WithPrincipal installs a principal directly. Used by tests and internal
// callers that already authenticated the request.
func WithPrincipal(p domain.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, p)
		c.Set("user_id", p.UID)
		c.Set("employee_id", p.EmployeeID)
		c.Set("company_id", p.CompanyID)
		c.Set("role", string(p.Role))
		c.Next()
	}
}

func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := CurrentPrincipal(c)
		if !ok {
			response.Error(c, apperror.ErrUnauthorized.HTTPStatus, apperror.ErrUnauthorized.Code, apperror.ErrUnauthorized.Message, nil)
			c.Abort()
			return
		}

		for _, role := range allowedRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, nil)
		c.Abort()
	}
}
