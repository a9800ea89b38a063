package identity

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	platform "go-payroll/internal/shared/request"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	provider Provider
	secure   bool
	logger   *zap.Logger
}

// NewHandler builds the auth handler. secure marks cookies Secure, which is
// what production runs with.
func NewHandler(p Provider, secure bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("identity.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("identity.handler")
	}
	return &Handler{provider: p, secure: secure, logger: l}
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	principal, err := h.provider.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	tokens, err := h.provider.IssueTokens(c.Request.Context(), principal)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	if platform.IsWebClient(clientType) {
		h.setAuthCookies(c, tokens)
	}

	h.logger.Info("login succeeded",
		zap.String("uid", principal.UID),
		zap.String("company_id", principal.CompanyID),
	)

	response.Success(c, http.StatusOK, gin.H{
		"user":          toAuthResponse(principal),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	isWeb := platform.IsWebClient(clientType)

	var refreshToken string
	if isWeb {
		cookie, err := c.Cookie("refresh_token")
		if err != nil {
			response.Error(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing refresh token", nil)
			return
		}
		refreshToken = cookie
	} else {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
			response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "refresh_token is required", nil)
			return
		}
		refreshToken = req.RefreshToken
	}

	tokens, principal, err := h.provider.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if isWeb {
		h.setAuthCookies(c, tokens)
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":          toAuthResponse(principal),
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	current, ok := middleware.CurrentPrincipal(c)
	if !ok {
		writeServiceError(c, apperror.ErrUnauthorized)
		return
	}

	principal, err := h.provider.GetPrincipal(c.Request.Context(), current.UID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, toAuthResponse(principal), nil)
}

func (h *Handler) Logout(c *gin.Context) {
	h.clearAuthCookies(c)
	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func (h *Handler) setAuthCookies(c *gin.Context, tokens Tokens) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    tokens.AccessToken,
		Path:     "/",
		MaxAge:   15 * 60,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refresh_token",
		Value:    tokens.RefreshToken,
		Path:     "/",
		MaxAge:   3600 * 24 * 7,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func writeServiceError(c *gin.Context, err error) {
	response.FromError(c, err)
}
