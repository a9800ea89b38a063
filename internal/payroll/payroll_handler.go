package payroll

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go-payroll/internal/middleware"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, now: time.Now, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := response.FromError(c, err)
	h.logger.Warn("payslip request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
}

// generateRequest reads ?month=&year=&days_worked= for the path employee.
// Missing month or year default to the current period.
func (h *Handler) generateRequest(c *gin.Context) (GenerateRequest, error) {
	period, err := ParsePeriod(c.Query("month"), c.Query("year"), h.now())
	if err != nil {
		return GenerateRequest{}, err
	}
	req := GenerateRequest{EmployeeID: c.Param("employee_id"), Period: period}
	if raw := c.Query("days_worked"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return GenerateRequest{}, payrollerrors.ErrNegativeDaysWorked
		}
		req.DaysWorked = &days
	}
	return req, nil
}

func (h *Handler) Get(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	req, err := h.generateRequest(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Generate(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Text(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	req, err := h.generateRequest(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	doc, err := h.service.Text(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

func (h *Handler) PDF(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)
	req, err := h.generateRequest(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	out, err := h.service.PDF(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := fmt.Sprintf("payslip-%s-%d-%02d.pdf", req.EmployeeID, req.Period.Year, int(req.Period.Month))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", out)
}

func (h *Handler) Narrate(c *gin.Context) {
	actor, _ := middleware.CurrentPrincipal(c)

	var body NarrativeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	period := PeriodOf(h.now())
	if body.Month != 0 {
		period.Month = time.Month(body.Month)
	}
	if body.Year != 0 {
		period.Year = body.Year
	}

	resp, err := h.service.Narrate(c.Request.Context(), actor, GenerateRequest{
		EmployeeID: c.Param("employee_id"),
		Period:     period,
		DaysWorked: body.DaysWorked,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
