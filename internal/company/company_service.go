package company

import (
	"context"
	"errors"
	"strings"
	"time"

	companyerrors "go-payroll/internal/company/errors"
	"go-payroll/internal/domain"
	"go-payroll/internal/identity"
	identityerrors "go-payroll/internal/identity/errors"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// compensationTimeout bounds the rollback of a half-finished onboarding. It
// runs detached from the request so a cancelled client cannot skip it.
const compensationTimeout = 10 * time.Second

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	Onboard(ctx context.Context, req OnboardRequest) (*OnboardResponse, error)
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (*CompanyResponse, error)
}

type service struct {
	repo     Repository
	identity identity.Provider
	audit    audit.Logger
	logger   *zap.Logger
}

func NewService(repo Repository, provider identity.Provider, auditLogger audit.Logger, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	if auditLogger == nil {
		auditLogger = audit.Nop
	}
	return &service{repo: repo, identity: provider, audit: auditLogger, logger: l}
}

// Onboard creates a company with default settings and its first admin. The
// company and the principal live in different stores, so a failed principal
// creation deletes the company again.
func (s *service) Onboard(ctx context.Context, req OnboardRequest) (*OnboardResponse, error) {
	if req.Currency != "" && !req.Currency.Valid() {
		return nil, companyerrors.ErrInvalidCurrency
	}

	taken, err := s.identity.EmailTaken(ctx, req.Email)
	if err != nil {
		s.logger.Error("check admin email failed", zap.Error(err))
		return nil, companyerrors.ErrOnboardingFailed
	}
	if taken {
		return nil, companyerrors.ErrAdminEmailTaken
	}

	comp := NewDefaultCompany(strings.TrimSpace(req.CompanyName), strings.ToLower(strings.TrimSpace(req.Email)), req.Currency)
	if err := s.repo.Create(ctx, comp); err != nil {
		s.logger.Error("create company failed", zap.Error(err))
		return nil, companyerrors.ErrOnboardingFailed
	}

	uid, err := s.identity.CreatePrincipal(ctx, identity.NewPrincipal{
		CompanyID: comp.ID.String(),
		Name:      strings.TrimSpace(req.AdminName),
		Email:     req.Email,
		Password:  req.Password,
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		s.compensateCompany(ctx, comp.ID, err)
		if errors.Is(err, identityerrors.ErrEmailAlreadyRegistered) {
			return nil, companyerrors.ErrAdminEmailTaken
		}
		return nil, companyerrors.ErrOnboardingFailed
	}

	s.logger.Info("company onboarded",
		zap.String("company_id", comp.ID.String()),
		zap.String("admin_id", uid),
	)

	resp := &OnboardResponse{Company: mapToResponse(comp), AdminID: uid}

	tokens, err := s.identity.IssueTokens(ctx, domain.Principal{
		UID:       uid,
		CompanyID: comp.ID.String(),
		Email:     comp.Email,
		Name:      strings.TrimSpace(req.AdminName),
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		// The account exists; the caller can still log in.
		s.logger.Warn("issue onboarding tokens failed", zap.Error(err))
		return resp, nil
	}
	resp.AccessToken = tokens.AccessToken
	resp.RefreshToken = tokens.RefreshToken
	return resp, nil
}

func (s *service) compensateCompany(reqCtx context.Context, id uuid.UUID, cause error) {
	ctx, cancel := contextutil.Detached(reqCtx, compensationTimeout)
	defer cancel()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("compensating company delete failed",
			zap.String("company_id", id.String()),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		s.audit.Log(ctx, audit.Entry{
			Action:  audit.ActionCompensationFailed,
			Message: "company left without admin principal",
			Meta:    map[string]any{"company_id": id.String(), "error": err.Error()},
		})
		return
	}

	s.logger.Warn("company removed after principal creation failed",
		zap.String("company_id", id.String()),
		zap.NamedError("cause", cause),
	)
	s.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionCompanyCompensated,
		Message: "company removed after principal creation failed",
		Meta:    map[string]any{"company_id": id.String()},
	})
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	comp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToResponse(comp), nil
}

func (s *service) UpdateSettings(ctx context.Context, id string, req UpdateSettingsRequest) (*CompanyResponse, error) {
	comp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		comp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Currency != nil {
		if !req.Currency.Valid() {
			return nil, companyerrors.ErrInvalidCurrency
		}
		comp.Currency = *req.Currency
	}
	if req.TaxRate != nil {
		if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(hundred) {
			return nil, companyerrors.ErrInvalidTaxRate
		}
		comp.TaxRate = *req.TaxRate
	}
	if req.ClearFlatTaxRate {
		comp.FlatTaxRate = decimal.NullDecimal{}
	} else if req.FlatTaxRate != nil {
		if req.FlatTaxRate.IsNegative() {
			return nil, companyerrors.ErrInvalidFlatTaxRate
		}
		comp.FlatTaxRate = decimal.NewNullDecimal(*req.FlatTaxRate)
	}
	if req.RecurringContributions != nil {
		contributions, err := buildContributions(*req.RecurringContributions)
		if err != nil {
			return nil, err
		}
		comp.RecurringContributions = contributions
	}
	if req.PayslipInfo != nil {
		comp.PayslipInfo = *req.PayslipInfo
	}

	if err := s.repo.Update(ctx, comp); err != nil {
		s.logger.Error("update company settings failed", zap.String("company_id", id), zap.Error(err))
		return nil, apperror.ErrInternal
	}

	s.logger.Info("company settings updated", zap.String("company_id", id))
	return mapToResponse(comp), nil
}

// buildContributions validates the list and assigns ids to new entries while
// keeping the caller's order.
func buildContributions(items []ContributionRequest) ([]Contribution, error) {
	seen := make(map[string]struct{}, len(items))
	out := make([]Contribution, 0, len(items))

	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" || item.Percentage.IsNegative() || item.Percentage.GreaterThan(hundred) {
			return nil, companyerrors.ErrInvalidContribution
		}

		id := strings.TrimSpace(item.ID)
		if id == "" {
			id = uuid.NewString()
		}
		if _, dup := seen[id]; dup {
			return nil, companyerrors.ErrDuplicateContributionID
		}
		seen[id] = struct{}{}

		out = append(out, Contribution{ID: id, Name: name, Percentage: item.Percentage})
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id string) (*Company, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, companyerrors.ErrCompanyNotFound
		}
		s.logger.Error("load company failed", zap.String("company_id", id), zap.Error(err))
		return nil, apperror.ErrInternal
	}
	return comp, nil
}
