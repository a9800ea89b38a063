package payroll

import (
	"context"
	"errors"

	"go-payroll/internal/company"
	"go-payroll/internal/domain"
	"go-payroll/internal/employee"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/transaction"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type EmployeeLookup interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error)
}

type CompanyLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*company.Company, error)
}

type TransactionLookup interface {
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]transaction.Transaction, error)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, actor domain.Principal, req GenerateRequest) (PayslipResponse, error)
	Text(ctx context.Context, actor domain.Principal, req GenerateRequest) (string, error)
	PDF(ctx context.Context, actor domain.Principal, req GenerateRequest) ([]byte, error)
	Narrate(ctx context.Context, actor domain.Principal, req GenerateRequest) (NarrativeResponse, error)
}

type Dependencies struct {
	Employees    EmployeeLookup
	Companies    CompanyLookup
	Transactions TransactionLookup
	Narrator     Narrator
	Audit        audit.Logger
	PDFWrapWidth int
}

type service struct {
	employees    EmployeeLookup
	companies    CompanyLookup
	transactions TransactionLookup
	narrator     Narrator
	audit        audit.Logger
	pdfWidth     int
	logger       *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	auditLogger := deps.Audit
	if auditLogger == nil {
		auditLogger = audit.Nop
	}
	width := deps.PDFWrapWidth
	if width <= 0 {
		width = DefaultPDFWrapWidth
	}
	return &service{
		employees:    deps.Employees,
		companies:    deps.Companies,
		transactions: deps.Transactions,
		narrator:     deps.Narrator,
		audit:        auditLogger,
		pdfWidth:     width,
		logger:       l,
	}
}

func (s *service) Generate(ctx context.Context, actor domain.Principal, req GenerateRequest) (PayslipResponse, error) {
	in, err := s.compute(ctx, actor, req, "json")
	if err != nil {
		return PayslipResponse{}, err
	}
	return PayslipResponse{
		Payslip:  in,
		Document: FormatPayslip(in),
		Display: DisplayTotals{
			GrossPay: FormatDisplayMoney(in.Currency, in.GrossPay),
			Taxes:    FormatDisplayMoney(in.Currency, in.Taxes),
			NetPay:   FormatDisplayMoney(in.Currency, in.NetPay),
		},
	}, nil
}

func (s *service) Text(ctx context.Context, actor domain.Principal, req GenerateRequest) (string, error) {
	in, err := s.compute(ctx, actor, req, "text")
	if err != nil {
		return "", err
	}
	return FormatPayslip(in), nil
}

func (s *service) PDF(ctx context.Context, actor domain.Principal, req GenerateRequest) ([]byte, error) {
	in, err := s.compute(ctx, actor, req, "pdf")
	if err != nil {
		return nil, err
	}
	out, err := RenderPDF(FormatPayslip(in), s.pdfWidth)
	if err != nil {
		s.logger.Error("render payslip pdf failed", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, apperror.WithCause(payrollerrors.ErrRenderFailed, err)
	}
	return out, nil
}

// Narrate asks the narrator for prose and falls back to the deterministic
// document when it is not configured or fails.
func (s *service) Narrate(ctx context.Context, actor domain.Principal, req GenerateRequest) (NarrativeResponse, error) {
	in, err := s.compute(ctx, actor, req, "narrative")
	if err != nil {
		return NarrativeResponse{}, err
	}
	if s.narrator != nil {
		text, err := s.narrator.Render(ctx, in)
		if err == nil {
			return NarrativeResponse{Text: text, Source: NarrativeSourceNarrator}, nil
		}
		s.logger.Warn("narrator failed, using formatter",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("employee_id", in.EmployeeID),
			zap.Error(err),
		)
	}
	return NarrativeResponse{Text: FormatPayslip(in), Source: NarrativeSourceFormatter}, nil
}

// compute authorizes the actor, loads immutable snapshots and aggregates.
func (s *service) compute(ctx context.Context, actor domain.Principal, req GenerateRequest, format string) (PayslipInput, error) {
	rid := contextutil.GetRequestID(ctx)

	if actor.IsZero() {
		return PayslipInput{}, apperror.ErrUnauthorized
	}
	if !actor.Role.CanManage() && actor.EmployeeID != req.EmployeeID {
		return PayslipInput{}, payrollerrors.ErrPayslipForbidden
	}
	if !req.Period.Valid() {
		return PayslipInput{}, payrollerrors.ErrInvalidPeriod
	}

	companyID, err := uuid.Parse(actor.CompanyID)
	if err != nil {
		return PayslipInput{}, payrollerrors.ErrCompanyNotFound
	}
	co, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipInput{}, payrollerrors.ErrCompanyNotFound
		}
		s.logger.Error("load company failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipInput{}, apperror.WithCause(apperror.ErrInternal, err)
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, actor.CompanyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipInput{}, payrollerrors.ErrEmployeeNotFound
		}
		s.logger.Error("load employee failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipInput{}, apperror.WithCause(apperror.ErrInternal, err)
	}

	txs, err := s.transactions.FindByEmployee(ctx, actor.CompanyID, req.EmployeeID)
	if err != nil {
		s.logger.Error("load transactions failed", zap.String("request_id", rid), zap.Error(err))
		return PayslipInput{}, apperror.WithCause(apperror.ErrInternal, err)
	}

	in, err := Aggregate(AggregateInput{
		Employee:     emp,
		Company:      co,
		Transactions: txs,
		Period:       req.Period,
		DaysWorked:   req.DaysWorked,
	})
	if err != nil {
		return PayslipInput{}, err
	}

	s.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionPayslipGenerated,
		Message: "payslip generated",
		Meta: map[string]any{
			"actor_uid":   actor.UID,
			"company_id":  actor.CompanyID,
			"employee_id": req.EmployeeID,
			"period":      req.Period.Label(),
			"format":      format,
		},
	})
	contextutil.GetLogger(ctx, s.logger).Info("payslip generated",
		zap.String("employee_id", req.EmployeeID),
		zap.String("period", req.Period.Label()),
		zap.String("format", format),
	)
	return in, nil
}
