package rbac_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := rbac.NewHandler(newTestService(t))

	router := gin.New()
	router.POST("/rbac/enforce",
		middleware.WithPrincipal(domain.Principal{UID: "u-1", CompanyID: "c-1", Role: domain.RoleManager}),
		handler.Enforce,
	)

	body, _ := json.Marshal(rbac.EnforceRequest{Resource: "employee", Action: "read"})
	req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data domain.EnforceResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Allowed)
}

func TestHandler_Permissions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := rbac.NewHandler(newTestService(t))

	router := gin.New()
	router.GET("/rbac/permissions", handler.Permissions)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rbac/permissions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
