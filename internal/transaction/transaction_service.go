package transaction

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/employee"
	"go-payroll/internal/realtime"
	"go-payroll/internal/shared/contextutil"
	transactionerrors "go-payroll/internal/transaction/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeLookup resolves the employee a transaction belongs to.
type EmployeeLookup interface {
	FindByIDAndCompany(ctx context.Context, companyID string, id string) (*employee.Employee, error)
}

//go:generate mockgen -source=transaction_service.go -destination=mock/transaction_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateTransactionRequest) (TransactionResponse, error)
	GetAll(ctx context.Context, companyID string, filter ListFilter) ([]TransactionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (TransactionResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateTransactionRequest) (TransactionResponse, error)
	Delete(ctx context.Context, companyID, id string) error
	SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error)
}

type service struct {
	repo      Repository
	employees EmployeeLookup
	publisher realtime.Publisher
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, employees EmployeeLookup, publisher realtime.Publisher, logger ...*zap.Logger) Service {
	l := zap.L().Named("transaction.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("transaction.service")
	}
	return &service{
		repo:      repo,
		employees: employees,
		publisher: publisher,
		now:       time.Now,
		logger:    l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateTransactionRequest) (TransactionResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	date, err := parseDate(req.Date)
	if err != nil {
		return TransactionResponse{}, err
	}
	if !req.Type.Valid() {
		return TransactionResponse{}, transactionerrors.ErrInvalidType
	}
	if !req.Amount.IsPositive() {
		return TransactionResponse{}, transactionerrors.ErrInvalidAmount
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return TransactionResponse{}, transactionerrors.ErrMissingDescription
	}
	status := req.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return TransactionResponse{}, transactionerrors.ErrInvalidStatus
	}

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TransactionResponse{}, transactionerrors.ErrEmployeeNotFound
	}

	empl, err := s.employees.FindByIDAndCompany(ctx, companyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TransactionResponse{}, transactionerrors.ErrEmployeeNotFound
		}
		s.logger.Error("create transaction lookup employee failed", zap.String("request_id", rid), zap.Error(err))
		return TransactionResponse{}, err
	}

	now := s.now().UTC()
	tx := &Transaction{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		EmployeeID:   empl.ID,
		EmployeeName: empl.Name,
		Date:         date,
		Type:         req.Type,
		Amount:       req.Amount,
		Description:  description,
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.logger.Error("create transaction persist failed", zap.String("request_id", rid), zap.Error(err))
		return TransactionResponse{}, mapRepositoryError(err)
	}

	s.publishChange(ctx, companyID, tx.ID.String(), realtime.OpCreated)
	contextutil.GetLogger(ctx, s.logger).Info("create transaction success",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("employee_id", tx.EmployeeID),
	)
	return mapToResponse(*tx), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, filter ListFilter) ([]TransactionResponse, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, transactionerrors.ErrInvalidType
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, transactionerrors.ErrInvalidStatus
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, transactionerrors.ErrInvalidDateRange
	}

	txs, err := s.repo.FindAllByCompany(ctx, companyID, filter)
	if err != nil {
		s.logger.Error("get all transactions failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	res := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		res[i] = mapToResponse(tx)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (TransactionResponse, error) {
	tx, err := s.load(ctx, companyID, id)
	if err != nil {
		return TransactionResponse{}, err
	}
	return mapToResponse(*tx), nil
}

// Update applies the provided fields. Any status may follow any other.
func (s *service) Update(ctx context.Context, companyID, id string, req UpdateTransactionRequest) (TransactionResponse, error) {
	tx, err := s.load(ctx, companyID, id)
	if err != nil {
		return TransactionResponse{}, err
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return TransactionResponse{}, err
		}
		tx.Date = date
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return TransactionResponse{}, transactionerrors.ErrInvalidType
		}
		tx.Type = *req.Type
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return TransactionResponse{}, transactionerrors.ErrInvalidAmount
		}
		tx.Amount = *req.Amount
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return TransactionResponse{}, transactionerrors.ErrMissingDescription
		}
		tx.Description = description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return TransactionResponse{}, transactionerrors.ErrInvalidStatus
		}
		tx.Status = *req.Status
	}
	tx.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, tx); err != nil {
		s.logger.Error("update transaction failed", zap.String("transaction_id", id), zap.Error(err))
		return TransactionResponse{}, mapRepositoryError(err)
	}

	s.publishChange(ctx, companyID, id, realtime.OpUpdated)
	s.logger.Info("update transaction success", zap.String("transaction_id", id))
	return mapToResponse(*tx), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return transactionerrors.ErrInvalidTransactionID
	}
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("delete transaction failed", zap.String("transaction_id", id), zap.Error(err))
		}
		return mapRepositoryError(err)
	}

	s.publishChange(ctx, companyID, id, realtime.OpDeleted)
	s.logger.Info("delete transaction success", zap.String("transaction_id", id))
	return nil
}

// SyncEmployeeName is the projection step for employee_renamed events.
func (s *service) SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error) {
	n, err := s.repo.SyncEmployeeName(ctx, companyID, employeeID, name)
	if err != nil {
		s.logger.Error("sync employee name failed",
			zap.String("company_id", companyID),
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return 0, err
	}
	s.logger.Debug("employee name projected",
		zap.String("employee_id", employeeID),
		zap.Int64("rows", n),
	)
	return n, nil
}

func (s *service) load(ctx context.Context, companyID, id string) (*Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, transactionerrors.ErrInvalidTransactionID
	}
	tx, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return tx, nil
}

func (s *service) publishChange(ctx context.Context, companyID, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.Change{
		Collection: realtime.CollectionTransactions,
		Op:         op,
		CompanyID:  companyID,
		ID:         id,
		OccurredAt: s.now().UTC(),
	}); err != nil {
		s.logger.Warn("publish transaction change failed", zap.String("transaction_id", id), zap.Error(err))
	}
}

func parseDate(v string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, transactionerrors.ErrInvalidDate
	}
	return d, nil
}

func mapToResponse(tx Transaction) TransactionResponse {
	return TransactionResponse{
		ID:           tx.ID.String(),
		EmployeeID:   tx.EmployeeID,
		EmployeeName: tx.EmployeeName,
		Date:         tx.Date.Format(dateLayout),
		Type:         tx.Type,
		Amount:       tx.Amount,
		Description:  tx.Description,
		Status:       tx.Status,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}
}
