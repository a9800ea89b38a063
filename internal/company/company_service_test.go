package company_test

import (
	"context"
	"errors"
	"testing"

	"go-payroll/internal/company"
	companyerrors "go-payroll/internal/company/errors"
	companyMock "go-payroll/internal/company/mock"
	"go-payroll/internal/domain"
	"go-payroll/internal/identity"
	identityerrors "go-payroll/internal/identity/errors"
	identityMock "go-payroll/internal/identity/mock"
	"go-payroll/internal/shared/audit"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type recordingAudit struct {
	entries []audit.Entry
}

func (r *recordingAudit) Log(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

func onboardRequest() company.OnboardRequest {
	return company.OnboardRequest{
		CompanyName: "Acme Ltd",
		AdminName:   "Ada Admin",
		Email:       "ada@acme.test",
		Password:    "supersecret",
	}
}

func TestService_Onboard(t *testing.T) {
	ctx := context.Background()

	t.Run("success with defaults", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		mockIdentity := identityMock.NewMockProvider(ctrl)
		svc := company.NewService(mockRepo, mockIdentity, nil)

		var created *company.Company
		mockIdentity.EXPECT().EmailTaken(ctx, "ada@acme.test").Return(false, nil)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *company.Company) error {
			created = c
			return nil
		})
		mockIdentity.EXPECT().CreatePrincipal(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, p identity.NewPrincipal) (string, error) {
			assert.Equal(t, domain.RoleAdmin, p.Role)
			assert.Equal(t, created.ID.String(), p.CompanyID)
			return "uid-1", nil
		})
		mockIdentity.EXPECT().IssueTokens(ctx, gomock.Any()).Return(identity.Tokens{AccessToken: "a", RefreshToken: "r"}, nil)

		resp, err := svc.Onboard(ctx, onboardRequest())
		require.NoError(t, err)

		assert.Equal(t, "uid-1", resp.AdminID)
		assert.Equal(t, "a", resp.AccessToken)
		assert.Equal(t, company.CurrencyUSD, resp.Company.Currency)
		assert.True(t, resp.Company.TaxRate.Equal(company.DefaultTaxRate))
		require.Len(t, resp.Company.RecurringContributions, 1)
		assert.Equal(t, "Pension Fund", resp.Company.RecurringContributions[0].Name)
		assert.True(t, resp.Company.RecurringContributions[0].Percentage.Equal(decimal.NewFromInt(5)))
		assert.Equal(t, "Acme Ltd", resp.Company.PayslipInfo.CompanyName)
	})

	t.Run("taken email creates nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		mockIdentity := identityMock.NewMockProvider(ctrl)
		svc := company.NewService(mockRepo, mockIdentity, nil)

		mockIdentity.EXPECT().EmailTaken(ctx, gomock.Any()).Return(true, nil)

		_, err := svc.Onboard(ctx, onboardRequest())
		assert.ErrorIs(t, err, companyerrors.ErrAdminEmailTaken)
	})

	t.Run("principal failure deletes company", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		mockIdentity := identityMock.NewMockProvider(ctrl)
		rec := &recordingAudit{}
		svc := company.NewService(mockRepo, mockIdentity, rec)

		var createdID uuid.UUID
		mockIdentity.EXPECT().EmailTaken(ctx, gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *company.Company) error {
			createdID = c.ID
			return nil
		})
		mockIdentity.EXPECT().CreatePrincipal(ctx, gomock.Any()).Return("", errors.New("identity store down"))
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, id uuid.UUID) error {
			assert.Equal(t, createdID, id)
			return nil
		})

		_, err := svc.Onboard(ctx, onboardRequest())
		assert.ErrorIs(t, err, companyerrors.ErrOnboardingFailed)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, audit.ActionCompanyCompensated, rec.entries[0].Action)
	})

	t.Run("cancelled request still deletes company", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		mockIdentity := identityMock.NewMockProvider(ctrl)
		rec := &recordingAudit{}
		svc := company.NewService(mockRepo, mockIdentity, rec)

		reqCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		mockIdentity.EXPECT().EmailTaken(reqCtx, gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().Create(reqCtx, gomock.Any()).Return(nil)
		mockIdentity.EXPECT().CreatePrincipal(reqCtx, gomock.Any()).
			DoAndReturn(func(context.Context, identity.NewPrincipal) (string, error) {
				cancel()
				return "", context.Canceled
			})
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(func(c context.Context, _ uuid.UUID) error {
			assert.NoError(t, c.Err())
			return nil
		})

		_, err := svc.Onboard(reqCtx, onboardRequest())
		assert.ErrorIs(t, err, companyerrors.ErrOnboardingFailed)
		require.Len(t, rec.entries, 1)
		assert.Equal(t, audit.ActionCompanyCompensated, rec.entries[0].Action)
	})

	t.Run("racing duplicate email maps to conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		mockIdentity := identityMock.NewMockProvider(ctrl)
		svc := company.NewService(mockRepo, mockIdentity, nil)

		mockIdentity.EXPECT().EmailTaken(ctx, gomock.Any()).Return(false, nil)
		mockRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		mockIdentity.EXPECT().CreatePrincipal(ctx, gomock.Any()).Return("", identityerrors.ErrEmailAlreadyRegistered)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		_, err := svc.Onboard(ctx, onboardRequest())
		assert.ErrorIs(t, err, companyerrors.ErrAdminEmailTaken)
	})
}

func TestService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := companyMock.NewMockRepository(ctrl)
	svc := company.NewService(mockRepo, identityMock.NewMockProvider(ctrl), nil)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		comp := company.NewDefaultCompany("Acme", "ops@acme.test", company.CurrencyRWF)
		comp.FlatTaxRate = decimal.NewNullDecimal(decimal.NewFromInt(150))
		mockRepo.EXPECT().GetByID(ctx, comp.ID).Return(comp, nil)

		resp, err := svc.GetByID(ctx, comp.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "RWF ", resp.CurrencySymbol)
		require.NotNil(t, resp.FlatTaxRate)
		assert.Equal(t, "150", resp.FlatTaxRate.String())
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		mockRepo.EXPECT().GetByID(ctx, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.GetByID(ctx, id.String())
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})

	t.Run("bad id", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, companyerrors.ErrInvalidCompanyID)
	})
}

func TestService_UpdateSettings(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (company.Service, *companyMock.MockRepository, *company.Company) {
		ctrl := gomock.NewController(t)
		mockRepo := companyMock.NewMockRepository(ctrl)
		svc := company.NewService(mockRepo, identityMock.NewMockProvider(ctrl), nil)
		comp := company.NewDefaultCompany("Acme", "ops@acme.test", company.CurrencyUSD)
		mockRepo.EXPECT().GetByID(ctx, comp.ID).Return(comp, nil)
		return svc, mockRepo, comp
	}

	t.Run("replaces contributions in order and sets flat tax", func(t *testing.T) {
		svc, mockRepo, comp := setup(t)
		mockRepo.EXPECT().Update(ctx, comp).Return(nil)

		rate := decimal.NewFromInt(20)
		flat := decimal.NewFromInt(75)
		currency := company.CurrencyRWF
		contributions := []company.ContributionRequest{
			{ID: "c1", Name: "Health", Percentage: decimal.NewFromInt(3)},
			{Name: "Pension Fund", Percentage: decimal.NewFromInt(5)},
		}

		resp, err := svc.UpdateSettings(ctx, comp.ID.String(), company.UpdateSettingsRequest{
			Currency:               &currency,
			TaxRate:                &rate,
			FlatTaxRate:            &flat,
			RecurringContributions: &contributions,
		})
		require.NoError(t, err)

		assert.Equal(t, company.CurrencyRWF, resp.Currency)
		assert.True(t, resp.TaxRate.Equal(rate))
		assert.True(t, resp.FlatTaxRate.Equal(flat))
		require.Len(t, resp.RecurringContributions, 2)
		assert.Equal(t, "Health", resp.RecurringContributions[0].Name)
		assert.Equal(t, "c1", resp.RecurringContributions[0].ID)
		assert.NotEmpty(t, resp.RecurringContributions[1].ID)
	})

	t.Run("duplicate contribution id", func(t *testing.T) {
		svc, _, comp := setup(t)
		contributions := []company.ContributionRequest{
			{ID: "x", Name: "A", Percentage: decimal.NewFromInt(1)},
			{ID: "x", Name: "B", Percentage: decimal.NewFromInt(2)},
		}

		_, err := svc.UpdateSettings(ctx, comp.ID.String(), company.UpdateSettingsRequest{RecurringContributions: &contributions})
		assert.ErrorIs(t, err, companyerrors.ErrDuplicateContributionID)
	})

	t.Run("negative tax rate", func(t *testing.T) {
		svc, _, comp := setup(t)
		rate := decimal.NewFromInt(-1)

		_, err := svc.UpdateSettings(ctx, comp.ID.String(), company.UpdateSettingsRequest{TaxRate: &rate})
		assert.ErrorIs(t, err, companyerrors.ErrInvalidTaxRate)
	})

	t.Run("clear flat tax", func(t *testing.T) {
		svc, mockRepo, comp := setup(t)
		comp.FlatTaxRate = decimal.NewNullDecimal(decimal.NewFromInt(10))
		mockRepo.EXPECT().Update(ctx, comp).Return(nil)

		resp, err := svc.UpdateSettings(ctx, comp.ID.String(), company.UpdateSettingsRequest{ClearFlatTaxRate: true})
		require.NoError(t, err)
		assert.Nil(t, resp.FlatTaxRate)
	})
}
