package identity_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/identity"
	identityerrors "go-payroll/internal/identity/errors"
	identityMock "go-payroll/internal/identity/mock"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupIdentityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

var principal = domain.Principal{
	UID:       "6f1c5c1e-0000-4000-8000-000000000001",
	CompanyID: "6f1c5c1e-0000-4000-8000-0000000000c1",
	Email:     "jane@example.com",
	Name:      "Jane Doe",
	Role:      domain.RoleAdmin,
}

func TestHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := identityMock.NewMockProvider(ctrl)
	handler := identity.NewHandler(mockProvider, false)
	router := setupIdentityRouter()
	router.POST("/login", handler.Login)

	t.Run("web client gets cookies", func(t *testing.T) {
		mockProvider.EXPECT().Authenticate(gomock.Any(), "jane@example.com", "password123").Return(principal, nil)
		mockProvider.EXPECT().IssueTokens(gomock.Any(), principal).
			Return(identity.Tokens{AccessToken: "access", RefreshToken: "refresh"}, nil)

		body, _ := json.Marshal(identity.LoginRequest{Email: "jane@example.com", Password: "password123"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-Type", "WEB")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		cookies := w.Result().Cookies()
		assert.Len(t, cookies, 2)
		assert.Equal(t, "access_token", cookies[0].Name)
		assert.Equal(t, "access", cookies[0].Value)

		var res map[string]any
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		user := res["data"].(map[string]any)["user"].(map[string]any)
		assert.Equal(t, "jane@example.com", user["email"])
		assert.Equal(t, "admin", user["role"])
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockProvider.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domain.Principal{}, identityerrors.ErrInvalidCredentials)

		body, _ := json.Marshal(identity.LoginRequest{Email: "jane@example.com", Password: "bad"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := identityMock.NewMockProvider(ctrl)
	handler := identity.NewHandler(mockProvider, false)
	router := setupIdentityRouter()
	router.POST("/refresh", handler.Refresh)

	t.Run("body token", func(t *testing.T) {
		mockProvider.EXPECT().Refresh(gomock.Any(), "r-1").
			Return(identity.Tokens{AccessToken: "a-2", RefreshToken: "r-2"}, principal, nil)

		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"r-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"access_token":"a-2"`)
	})

	t.Run("web client without cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
		req.Header.Set("X-Client-Type", "WEB")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		mockProvider.EXPECT().Refresh(gomock.Any(), "bad").
			Return(identity.Tokens{}, domain.Principal{}, identityerrors.ErrInvalidRefreshToken)

		req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"bad"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockProvider := identityMock.NewMockProvider(ctrl)
	handler := identity.NewHandler(mockProvider, false)
	router := setupIdentityRouter()
	router.GET("/me", middleware.WithPrincipal(principal), handler.Me)

	mockProvider.EXPECT().GetPrincipal(gomock.Any(), principal.UID).Return(principal, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), principal.CompanyID)
}
