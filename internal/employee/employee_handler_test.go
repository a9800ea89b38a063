package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payroll/internal/domain"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeService struct {
	CreateFn     func(ctx context.Context, actor domain.Principal, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error)
	GetAllFn     func(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error)
	GetOptionsFn func(ctx context.Context, companyID string) ([]employee.EmployeeOption, error)
	GetByIDFn    func(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error)
	UpdateFn     func(ctx context.Context, companyID, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	DeleteFn     func(ctx context.Context, companyID, id string) error
}

func (f *fakeEmployeeService) Create(ctx context.Context, actor domain.Principal, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
	return f.CreateFn(ctx, actor, req)
}
func (f *fakeEmployeeService) GetAll(ctx context.Context, companyID string) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetOptions(ctx context.Context, companyID string) ([]employee.EmployeeOption, error) {
	return f.GetOptionsFn(ctx, companyID)
}
func (f *fakeEmployeeService) GetByID(ctx context.Context, companyID, id string) (employee.EmployeeResponse, error) {
	return f.GetByIDFn(ctx, companyID, id)
}
func (f *fakeEmployeeService) Update(ctx context.Context, companyID, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.UpdateFn(ctx, companyID, id, req)
}
func (f *fakeEmployeeService) Delete(ctx context.Context, companyID, id string) error {
	return f.DeleteFn(ctx, companyID, id)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

// installPrincipal mimics AuthMiddleware on a bare test context.
func installPrincipal(c *gin.Context, p domain.Principal) {
	middleware.WithPrincipal(p)(c)
}

const validCreateBody = `{"name":"Grace Hopper","email":"grace@acme.test","password":"supersecret","employment_type":"salaried","salary":"1000","job_title":"Engineer"}`

func TestEmployeeHandler_Create(t *testing.T) {
	companyID := uuid.NewString()
	admin := domain.Principal{UID: uuid.NewString(), CompanyID: companyID, Role: domain.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		uid := uuid.NewString()
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, actor domain.Principal, req employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
				assert.Equal(t, admin.UID, actor.UID)
				assert.Equal(t, "Grace Hopper", req.Name)
				assert.True(t, req.Salary.Equal(decimal.NewFromInt(1000)))
				return employee.CreateEmployeeResponse{
					IdentityID: uid,
					Employee:   employee.EmployeeResponse{ID: "EMP-000001", Name: req.Name, CompanyID: companyID},
				}, nil
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", validCreateBody)
		installPrincipal(c, admin)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"identity_id":"`+uid+`"`)
		assert.Contains(t, w.Body.String(), "EMP-000001")
	})

	t.Run("stores idempotent result", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		resp := employee.CreateEmployeeResponse{IdentityID: "uid-1", Employee: employee.EmployeeResponse{ID: "EMP-000001"}}
		data, _ := json.Marshal(resp)
		mock.ExpectSet("idemp:key", data, 24*time.Hour).SetVal("OK")

		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, domain.Principal, employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
				return resp, nil
			},
		}

		h := employee.NewHandler(svc, rdb)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", validCreateBody)
		installPrincipal(c, admin)
		c.Set(middleware.IdempotencyCacheKey, "idemp:key")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("validation error", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{}, nil)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", `{"name":"x"}`)
		installPrincipal(c, admin)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeInvalidInput)
	})

	t.Run("duplicate returns conflict", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, domain.Principal, employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
				return employee.CreateEmployeeResponse{}, employeeerrors.ErrEmployeeIDAlreadyExists
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", validCreateBody)
		installPrincipal(c, admin)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), apperror.CodeConflict)
		assert.Contains(t, w.Body.String(), "Employee ID already exists")
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, domain.Principal, employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
				return employee.CreateEmployeeResponse{}, employeeerrors.ErrCannotGrantAdmin
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", validCreateBody)
		installPrincipal(c, admin)

		h.Create(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("service error hides cause", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(context.Context, domain.Principal, employee.CreateEmployeeRequest) (employee.CreateEmployeeResponse, error) {
				return employee.CreateEmployeeResponse{}, errors.New("database connection failed")
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodPost, "/api/v1/employees", validCreateBody)
		installPrincipal(c, admin)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "database connection failed")
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	companyID := uuid.NewString()
	list := []employee.EmployeeResponse{
		{ID: "EMP-000002", Name: "Jane Doe", Email: "jane@example.com"},
		{ID: "EMP-000001", Name: "John Doe", Email: "john@example.com"},
		{ID: "EMP-000003", Name: "Alice Smith", Email: "alice@example.com"},
	}

	t.Run("search sort and paginate", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context, cid string) ([]employee.EmployeeResponse, error) {
				assert.Equal(t, companyID, cid)
				return append([]employee.EmployeeResponse(nil), list...), nil
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodGet, "/employees?q=doe&sort_by=id&page=1&page_size=1", "")
		c.Set("company_id", companyID)

		h.GetAll(c)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data []employee.EmployeeResponse `json:"data"`
			Meta struct {
				Total      int `json:"total"`
				TotalPages int `json:"totalPages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data, 1)
		assert.Equal(t, "EMP-000001", body.Data[0].ID)
		assert.Equal(t, 2, body.Meta.Total)
		assert.Equal(t, 2, body.Meta.TotalPages)
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(context.Context, string) ([]employee.EmployeeResponse, error) {
				return nil, errors.New("database error")
			},
		}

		h := employee.NewHandler(svc, nil)
		c, w := newTestContext(http.MethodGet, "/employees", "")
		c.Set("company_id", companyID)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestEmployeeHandler_GetOptions(t *testing.T) {
	companyID := uuid.NewString()
	svc := &fakeEmployeeService{
		GetOptionsFn: func(ctx context.Context, cid string) ([]employee.EmployeeOption, error) {
			assert.Equal(t, companyID, cid)
			return []employee.EmployeeOption{{ID: "EMP-000001", Name: "Alice Smith"}}, nil
		},
	}

	h := employee.NewHandler(svc, nil)
	c, w := newTestContext(http.MethodGet, "/employees/options", "")
	c.Set("company_id", companyID)

	h.GetOptions(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice Smith")
}

func TestEmployeeHandler_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(context.Context, string, string) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
			},
		}

		r := gin.New()
		h := employee.NewHandler(svc, nil)
		r.GET("/employees/:id", h.GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/EMP-404", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetByIDFn: func(_ context.Context, _ string, id string) (employee.EmployeeResponse, error) {
				assert.Equal(t, "EMP-000001", id)
				return employee.EmployeeResponse{ID: id, Name: "Grace"}, nil
			},
		}

		r := gin.New()
		h := employee.NewHandler(svc, nil)
		r.GET("/employees/:id", h.GetByID)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/EMP-000001", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Grace")
	})
}

func TestEmployeeHandler_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			UpdateFn: func(_ context.Context, _ string, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
				require.NotNil(t, req.Name)
				assert.Equal(t, "Grace B. Hopper", *req.Name)
				assert.Nil(t, req.Salary)
				return employee.EmployeeResponse{ID: id, Name: *req.Name}, nil
			},
		}

		r := gin.New()
		h := employee.NewHandler(svc, nil)
		r.PUT("/employees/:id", h.Update)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/employees/EMP-000001", strings.NewReader(`{"name":"Grace B. Hopper"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid employment type", func(t *testing.T) {
		r := gin.New()
		h := employee.NewHandler(&fakeEmployeeService{}, nil)
		r.PUT("/employees/:id", h.Update)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/employees/EMP-000001", strings.NewReader(`{"employment_type":"hourly"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeHandler_Delete(t *testing.T) {
	companyID := uuid.NewString()
	called := false
	svc := &fakeEmployeeService{
		DeleteFn: func(_ context.Context, cid, id string) error {
			called = true
			assert.Equal(t, companyID, cid)
			assert.Equal(t, "EMP-000001", id)
			return nil
		},
	}

	r := gin.New()
	h := employee.NewHandler(svc, nil)
	r.DELETE("/employees/:id", func(c *gin.Context) {
		c.Set("company_id", companyID)
		c.Next()
	}, h.Delete)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees/EMP-000001", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
