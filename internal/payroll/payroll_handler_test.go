package payroll_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	payrollMock "go-payroll/internal/payroll/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupPayrollHandler(t *testing.T) (*gin.Engine, *payrollMock.MockService, domain.Principal) {
	gin.SetMode(gin.TestMode)
	svc := payrollMock.NewMockService(gomock.NewController(t))
	actor := domain.Principal{UID: uuid.NewString(), CompanyID: uuid.NewString(), Role: domain.RoleAdmin}

	h := payroll.NewHandler(svc)
	r := gin.New()
	r.Use(middleware.WithPrincipal(actor))
	r.GET("/payslips/:employee_id", h.Get)
	r.GET("/payslips/:employee_id/text", h.Text)
	r.GET("/payslips/:employee_id/pdf", h.PDF)
	r.POST("/payslips/:employee_id/narrative", h.Narrate)
	return r, svc, actor
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPayrollHandler_Get(t *testing.T) {
	r, svc, actor := setupPayrollHandler(t)
	svc.EXPECT().
		Generate(gomock.Any(), actor, payroll.GenerateRequest{EmployeeID: "EMP-000001", Period: march2026}).
		Return(payroll.PayslipResponse{Document: "doc"}, nil)

	w := serve(r, http.MethodGet, "/payslips/EMP-000001?month=3&year=2026", "")
	require.Equal(t, http.StatusOK, w.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	assert.Contains(t, string(env.Data), `"document":"doc"`)
}

func TestPayrollHandler_GetDaysWorked(t *testing.T) {
	r, svc, _ := setupPayrollHandler(t)
	svc.EXPECT().
		Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ domain.Principal, req payroll.GenerateRequest) (payroll.PayslipResponse, error) {
			require.NotNil(t, req.DaysWorked)
			assert.Equal(t, 18, *req.DaysWorked)
			return payroll.PayslipResponse{}, nil
		})

	w := serve(r, http.MethodGet, "/payslips/EMP-000001?month=3&year=2026&days_worked=18", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPayrollHandler_InvalidQuery(t *testing.T) {
	r, _, _ := setupPayrollHandler(t)

	for _, target := range []string{
		"/payslips/EMP-000001?month=13&year=2026",
		"/payslips/EMP-000001?month=abc",
		"/payslips/EMP-000001?days_worked=-1",
	} {
		w := serve(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestPayrollHandler_Forbidden(t *testing.T) {
	r, svc, _ := setupPayrollHandler(t)
	svc.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(payroll.PayslipResponse{}, payrollerrors.ErrPayslipForbidden)

	w := serve(r, http.MethodGet, "/payslips/EMP-000009", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)
}

func TestPayrollHandler_Text(t *testing.T) {
	r, svc, _ := setupPayrollHandler(t)
	svc.EXPECT().Text(gomock.Any(), gomock.Any(), gomock.Any()).Return(goldenPayslip, nil)

	w := serve(r, http.MethodGet, "/payslips/EMP-000001/text?month=3&year=2026", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, goldenPayslip, w.Body.String())
}

func TestPayrollHandler_PDF(t *testing.T) {
	r, svc, _ := setupPayrollHandler(t)
	svc.EXPECT().PDF(gomock.Any(), gomock.Any(), gomock.Any()).Return([]byte("%PDF-1.4\n"), nil)

	w := serve(r, http.MethodGet, "/payslips/EMP-000001/pdf?month=3&year=2026", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payslip-EMP-000001-2026-03.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestPayrollHandler_Narrate(t *testing.T) {
	t.Run("body selects period", func(t *testing.T) {
		r, svc, _ := setupPayrollHandler(t)
		svc.EXPECT().
			Narrate(gomock.Any(), gomock.Any(), payroll.GenerateRequest{EmployeeID: "EMP-000001", Period: march2026}).
			Return(payroll.NarrativeResponse{Text: "hi", Source: payroll.NarrativeSourceNarrator}, nil)

		w := serve(r, http.MethodPost, "/payslips/EMP-000001/narrative", `{"month":3,"year":2026}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("empty body uses current period", func(t *testing.T) {
		r, svc, _ := setupPayrollHandler(t)
		now := time.Now()
		svc.EXPECT().
			Narrate(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _ domain.Principal, req payroll.GenerateRequest) (payroll.NarrativeResponse, error) {
				assert.Equal(t, now.Month(), req.Period.Month)
				assert.Equal(t, now.Year(), req.Period.Year)
				return payroll.NarrativeResponse{Source: payroll.NarrativeSourceFormatter}, nil
			})

		w := serve(r, http.MethodPost, "/payslips/EMP-000001/narrative", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		r, _, _ := setupPayrollHandler(t)
		w := serve(r, http.MethodPost, "/payslips/EMP-000001/narrative", `{"month":14}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
