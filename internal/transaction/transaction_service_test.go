package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/realtime"
	"go-payroll/internal/transaction"
	transactionerrors "go-payroll/internal/transaction/errors"
	transactionMock "go-payroll/internal/transaction/mock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type serviceDeps struct {
	service   transaction.Service
	repo      *transactionMock.MockRepository
	employees *transactionMock.MockEmployeeLookup
	hub       *realtime.Hub
	companyID string
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	repo := transactionMock.NewMockRepository(ctrl)
	employees := transactionMock.NewMockEmployeeLookup(ctrl)
	hub := realtime.NewHub()

	return &serviceDeps{
		service:   transaction.NewService(repo, employees, realtime.NewHubPublisher(hub)),
		repo:      repo,
		employees: employees,
		hub:       hub,
		companyID: uuid.NewString(),
	}
}

func createRequest() transaction.CreateTransactionRequest {
	return transaction.CreateTransactionRequest{
		EmployeeID:  "EMP-000001",
		Date:        "2026-03-14",
		Type:        transaction.TypeBonus,
		Amount:      decimal.NewFromInt(100),
		Description: "Holiday Bonus",
	}
}

func TestTransactionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success defaults to pending and snapshots name", func(t *testing.T) {
		deps := setupServiceTest(t)
		changes, cleanup := deps.hub.Subscribe(realtime.Topic(deps.companyID, realtime.CollectionTransactions))
		defer cleanup()

		deps.employees.EXPECT().
			FindByIDAndCompany(ctx, deps.companyID, "EMP-000001").
			Return(&employee.Employee{ID: "EMP-000001", Name: "Grace Hopper"}, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				assert.Equal(t, transaction.StatusPending, tx.Status)
				assert.Equal(t, "Grace Hopper", tx.EmployeeName)
				assert.Equal(t, deps.companyID, tx.CompanyID.String())
				assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), tx.Date)
				return nil
			})

		resp, err := deps.service.Create(ctx, deps.companyID, createRequest())
		require.NoError(t, err)
		assert.Equal(t, "2026-03-14", resp.Date)
		assert.Equal(t, "Grace Hopper", resp.EmployeeName)

		select {
		case change := <-changes:
			assert.Equal(t, realtime.OpCreated, change.Op)
			assert.Equal(t, resp.ID, change.ID)
		case <-time.After(time.Second):
			t.Fatal("no change published")
		}
	})

	t.Run("amount must be positive", func(t *testing.T) {
		deps := setupServiceTest(t)
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
			req := createRequest()
			req.Amount = amount
			_, err := deps.service.Create(ctx, deps.companyID, req)
			assert.ErrorIs(t, err, transactionerrors.ErrInvalidAmount)
		}
	})

	t.Run("invalid date", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := createRequest()
		req.Date = "14/03/2026"

		_, err := deps.service.Create(ctx, deps.companyID, req)
		assert.ErrorIs(t, err, transactionerrors.ErrInvalidDate)
	})

	t.Run("unknown type", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := createRequest()
		req.Type = "Refund"

		_, err := deps.service.Create(ctx, deps.companyID, req)
		assert.ErrorIs(t, err, transactionerrors.ErrInvalidType)
	})

	t.Run("employee must exist in company", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.employees.EXPECT().
			FindByIDAndCompany(ctx, deps.companyID, "EMP-000001").
			Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Create(ctx, deps.companyID, createRequest())
		assert.ErrorIs(t, err, transactionerrors.ErrEmployeeNotFound)
	})
}

func TestTransactionService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("any status may follow any other", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		paid := transaction.StatusPaid

		deps.repo.EXPECT().FindByIDAndCompany(ctx, deps.companyID, id.String()).Return(&transaction.Transaction{
			ID:     id,
			Status: transaction.StatusRejected,
			Amount: decimal.NewFromInt(50),
		}, nil)
		deps.repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
				assert.Equal(t, transaction.StatusPaid, tx.Status)
				return nil
			})

		resp, err := deps.service.Update(ctx, deps.companyID, id.String(), transaction.UpdateTransactionRequest{Status: &paid})
		require.NoError(t, err)
		assert.Equal(t, transaction.StatusPaid, resp.Status)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.New()
		zero := decimal.Zero

		deps.repo.EXPECT().FindByIDAndCompany(ctx, deps.companyID, id.String()).Return(&transaction.Transaction{ID: id}, nil)

		_, err := deps.service.Update(ctx, deps.companyID, id.String(), transaction.UpdateTransactionRequest{Amount: &zero})
		assert.ErrorIs(t, err, transactionerrors.ErrInvalidAmount)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.repo.EXPECT().FindByIDAndCompany(ctx, deps.companyID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, deps.companyID, id, transaction.UpdateTransactionRequest{})
		assert.ErrorIs(t, err, transactionerrors.ErrTransactionNotFound)
	})
}

func TestTransactionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid id", func(t *testing.T) {
		deps := setupServiceTest(t)
		assert.ErrorIs(t, deps.service.Delete(ctx, deps.companyID, "nope"), transactionerrors.ErrInvalidTransactionID)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.repo.EXPECT().Delete(ctx, deps.companyID, id).Return(nil)

		assert.NoError(t, deps.service.Delete(ctx, deps.companyID, id))
	})

	t.Run("missing row", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		deps.repo.EXPECT().Delete(ctx, deps.companyID, id).Return(gorm.ErrRecordNotFound)

		assert.ErrorIs(t, deps.service.Delete(ctx, deps.companyID, id), transactionerrors.ErrTransactionNotFound)
	})
}

func TestTransactionService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects inverted range", func(t *testing.T) {
		deps := setupServiceTest(t)
		from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

		_, err := deps.service.GetAll(ctx, deps.companyID, transaction.ListFilter{From: &from, To: &to})
		assert.ErrorIs(t, err, transactionerrors.ErrInvalidDateRange)
	})

	t.Run("maps rows", func(t *testing.T) {
		deps := setupServiceTest(t)
		filter := transaction.ListFilter{EmployeeID: "EMP-000001", Status: transaction.StatusApproved}
		deps.repo.EXPECT().FindAllByCompany(ctx, deps.companyID, filter).Return([]transaction.Transaction{
			{ID: uuid.New(), EmployeeID: "EMP-000001", EmployeeName: "Grace", Amount: decimal.NewFromInt(10), Status: transaction.StatusApproved},
		}, nil)

		res, err := deps.service.GetAll(ctx, deps.companyID, filter)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "Grace", res[0].EmployeeName)
	})
}

func TestTransactionService_SyncEmployeeName(t *testing.T) {
	ctx := context.Background()

	t.Run("returns affected rows", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().SyncEmployeeName(ctx, deps.companyID, "EMP-000001", "Grace B. Hopper").Return(int64(3), nil)

		n, err := deps.service.SyncEmployeeName(ctx, deps.companyID, "EMP-000001", "Grace B. Hopper")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("propagates failure", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.repo.EXPECT().SyncEmployeeName(ctx, gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db down"))

		_, err := deps.service.SyncEmployeeName(ctx, deps.companyID, "EMP-000001", "x")
		assert.Error(t, err)
	})
}
