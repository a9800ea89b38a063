package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-payroll/internal/domain"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/identity"
	identityerrors "go-payroll/internal/identity/errors"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/realtime"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/audit"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	EmployeeIDPrefix         = "EMP"
	minPasswordLength        = 8

	// compensationTimeout bounds the principal delete that undoes a failed
	// create. It runs detached from the request context.
	compensationTimeout = 10 * time.Second
)

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor domain.Principal, req CreateEmployeeRequest) (CreateEmployeeResponse, error)
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	identity  identity.Provider
	publisher realtime.Publisher
	rdb       *redis.Client
	audit     audit.Logger
	sf        *singleflight.Group
	logger    *zap.Logger
}

// Dependencies groups the collaborators of the employee service. Outbox,
// Publisher, Redis and Audit are optional.
type Dependencies struct {
	DB        *sql.DB
	Repo      Repository
	Counter   counter.Repository
	Outbox    kafka.OutboxRepository
	Identity  identity.Provider
	Publisher realtime.Publisher
	Redis     *redis.Client
	Audit     audit.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	auditLogger := deps.Audit
	if auditLogger == nil {
		auditLogger = audit.Nop
	}
	return &service{
		db:        deps.DB,
		repo:      deps.Repo,
		counter:   deps.Counter,
		outbox:    deps.Outbox,
		identity:  deps.Identity,
		publisher: deps.Publisher,
		rdb:       deps.Redis,
		audit:     auditLogger,
		sf:        &singleflight.Group{},
		logger:    l,
	}
}

// Create registers an employee together with its login principal. The
// principal lives in the identity store, so a failed employee write after
// the principal exists deletes the principal again.
func (s *service) Create(
	ctx context.Context,
	actor domain.Principal,
	req CreateEmployeeRequest,
) (CreateEmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyID, role, err := authorizeCreate(actor, req)
	if err != nil {
		s.logger.Warn("create employee not authorized",
			zap.String("request_id", rid),
			zap.String("actor", actor.UID),
			zap.Error(err),
		)
		return CreateEmployeeResponse{}, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if err := validateCreate(req); err != nil {
		return CreateEmployeeResponse{}, err
	}

	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("email", req.Email),
	)

	if err := s.ensureUnique(ctx, companyID, req.EmployeeID, req.Email); err != nil {
		return CreateEmployeeResponse{}, err
	}

	if req.EmployeeID == "" {
		code, err := s.counter.NextCode(ctx, companyID, counter.TypeEmployee, EmployeeIDPrefix)
		if err != nil {
			s.logger.Error("create employee generate id failed", zap.String("request_id", rid), zap.Error(err))
			return CreateEmployeeResponse{}, employeeerrors.ErrCreateFailed
		}
		req.EmployeeID = code
	}

	uid, err := s.identity.CreatePrincipal(ctx, identity.NewPrincipal{
		CompanyID:  companyID,
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
	})
	if err != nil {
		if errors.Is(err, identityerrors.ErrEmailAlreadyRegistered) {
			return CreateEmployeeResponse{}, employeeerrors.ErrEmployeeAlreadyExists
		}
		s.logger.Error("create employee principal failed", zap.String("request_id", rid), zap.Error(err))
		return CreateEmployeeResponse{}, employeeerrors.ErrCreateFailed
	}

	empl := &Employee{
		CompanyID:      uuid.MustParse(companyID),
		ID:             req.EmployeeID,
		Name:           req.Name,
		JobTitle:       strings.TrimSpace(req.JobTitle),
		EmploymentType: req.EmploymentType,
		Salary:         req.Salary,
		BankName:       strings.TrimSpace(req.BankName),
		AccountNumber:  strings.TrimSpace(req.AccountNumber),
		Role:           role,
		Email:          req.Email,
		IdentityID:     &uid,
	}

	if err := s.persistCreated(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed",
			zap.String("request_id", rid),
			zap.String("employee_id", empl.ID),
			zap.Error(err),
		)
		s.compensatePrincipal(ctx, uid, empl, err)

		mapped := mapRepositoryError(err)
		var appErr *apperror.AppError
		if errors.As(mapped, &appErr) && appErr.HTTPStatus < 500 {
			return CreateEmployeeResponse{}, mapped
		}
		return CreateEmployeeResponse{}, employeeerrors.ErrCreateFailed
	}

	s.invalidateOptions(ctx, companyID)
	s.publishChange(ctx, companyID, empl.ID, realtime.OpCreated)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID),
		zap.String("identity_id", uid),
	)

	return CreateEmployeeResponse{IdentityID: uid, Employee: mapToResponse(*empl)}, nil
}

func authorizeCreate(actor domain.Principal, req CreateEmployeeRequest) (string, domain.Role, error) {
	if actor.IsZero() {
		return "", "", apperror.ErrUnauthorized
	}
	if !actor.Role.CanManage() {
		return "", "", employeeerrors.ErrCreateForbidden
	}

	companyID := strings.TrimSpace(req.CompanyID)
	if companyID == "" {
		companyID = actor.CompanyID
	}
	if companyID != actor.CompanyID {
		return "", "", employeeerrors.ErrCreateForbidden
	}
	if _, err := uuid.Parse(companyID); err != nil {
		return "", "", employeeerrors.ErrInvalidCompanyID
	}

	role := req.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !role.Valid() {
		return "", "", employeeerrors.ErrInvalidRole
	}
	if role == domain.RoleAdmin && actor.Role != domain.RoleAdmin {
		return "", "", employeeerrors.ErrCannotGrantAdmin
	}
	return companyID, role, nil
}

func validateCreate(req CreateEmployeeRequest) error {
	if req.Name == "" || req.Email == "" {
		return employeeerrors.ErrMissingRequiredFields
	}
	if len(req.Password) < minPasswordLength {
		return employeeerrors.ErrWeakPassword
	}
	if !req.EmploymentType.Valid() {
		return employeeerrors.ErrInvalidEmploymentType
	}
	if req.Salary.IsNegative() {
		return employeeerrors.ErrNegativeSalary
	}
	return nil
}

// ensureUnique runs before any identity call so a duplicate never leaves a
// principal behind.
func (s *service) ensureUnique(ctx context.Context, companyID, employeeID, email string) error {
	if employeeID != "" {
		exists, err := s.repo.ExistsByID(ctx, companyID, employeeID)
		if err != nil {
			s.logger.Error("check employee id failed", zap.Error(err))
			return employeeerrors.ErrCreateFailed
		}
		if exists {
			return employeeerrors.ErrEmployeeIDAlreadyExists
		}
	}

	exists, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("check employee email failed", zap.Error(err))
		return employeeerrors.ErrCreateFailed
	}
	if exists {
		return employeeerrors.ErrEmployeeAlreadyExists
	}

	taken, err := s.identity.EmailTaken(ctx, email)
	if err != nil {
		s.logger.Error("check principal email failed", zap.Error(err))
		return employeeerrors.ErrCreateFailed
	}
	if taken {
		return employeeerrors.ErrEmployeeAlreadyExists
	}
	return nil
}

func (s *service) persistCreated(ctx context.Context, empl *Employee) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		return err
	}

	if err := s.enqueue(ctx, tx, empl.ID, events.EmployeeCreatedType, events.EmployeeCreatedEvent{
		EventType:  events.EmployeeCreatedType,
		EmployeeID: empl.ID,
		CompanyID:  empl.CompanyID.String(),
		IdentityID: derefString(empl.IdentityID),
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) compensatePrincipal(reqCtx context.Context, uid string, empl *Employee, cause error) {
	ctx, cancel := contextutil.Detached(reqCtx, compensationTimeout)
	defer cancel()

	meta := map[string]any{
		"identity_id": uid,
		"employee_id": empl.ID,
		"company_id":  empl.CompanyID.String(),
	}

	if err := s.identity.DeletePrincipal(ctx, uid); err != nil {
		s.logger.Error("compensating principal delete failed",
			zap.String("identity_id", uid),
			zap.NamedError("cause", cause),
			zap.Error(err),
		)
		meta["error"] = err.Error()
		s.audit.Log(ctx, audit.Entry{
			Action:  audit.ActionCompensationFailed,
			Message: "principal left without employee record",
			Meta:    meta,
		})
		return
	}

	s.logger.Warn("principal removed after employee write failed",
		zap.String("identity_id", uid),
		zap.NamedError("cause", cause),
	)
	s.audit.Log(ctx, audit.Entry{
		Action:  audit.ActionPrincipalCompensated,
		Message: "principal removed after employee write failed",
		Meta:    meta,
	})
}

func (s *service) GetAll(
	ctx context.Context,
	companyID string,
) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	empls, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(empls), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]EmployeeOption, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Coalesce concurrent misses for the same company.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		opts, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		if opts == nil {
			opts = []EmployeeOption{}
		}

		if s.rdb != nil {
			if data, err := json.Marshal(opts); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, data, time.Hour).Err(); err != nil {
					s.logger.Warn("cache employee options failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}

		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(
	ctx context.Context,
	companyID, id string,
) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	empl, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*empl), nil
}

// Update edits the employee record. A name change is queued as an
// employee_renamed event in the same transaction.
func (s *service) Update(
	ctx context.Context,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	if req.EmploymentType != nil && !req.EmploymentType.Valid() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmploymentType
	}
	if req.Salary != nil && req.Salary.IsNegative() {
		return EmployeeResponse{}, employeeerrors.ErrNegativeSalary
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return EmployeeResponse{}, employeeerrors.ErrMissingRequiredFields
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, apperror.ErrInternal
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("update employee fetch existing failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	oldName := empl.Name
	if req.Name != nil {
		empl.Name = strings.TrimSpace(*req.Name)
	}
	if req.JobTitle != nil {
		empl.JobTitle = strings.TrimSpace(*req.JobTitle)
	}
	if req.EmploymentType != nil {
		empl.EmploymentType = *req.EmploymentType
	}
	if req.Salary != nil {
		empl.Salary = *req.Salary
	}
	if req.BankName != nil {
		empl.BankName = strings.TrimSpace(*req.BankName)
	}
	if req.AccountNumber != nil {
		empl.AccountNumber = strings.TrimSpace(*req.AccountNumber)
	}

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if empl.Name != oldName {
		if err := s.enqueue(ctx, tx, empl.ID, events.EmployeeRenamedType, events.EmployeeRenamedEvent{
			EventType:  events.EmployeeRenamedType,
			EmployeeID: empl.ID,
			CompanyID:  companyID,
			OldName:    oldName,
			NewName:    empl.Name,
			OccurredAt: time.Now().UTC(),
		}); err != nil {
			s.logger.Error("update employee outbox persist failed", zap.String("employee_id", id), zap.Error(err))
			return EmployeeResponse{}, apperror.ErrInternal
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, apperror.ErrInternal
	}

	s.invalidateOptions(ctx, companyID)
	s.publishChange(ctx, companyID, id, realtime.OpUpdated)

	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

// Delete removes the employee record and then its login principal.
func (s *service) Delete(
	ctx context.Context,
	companyID, id string,
) error {
	s.logger.Debug("delete employee requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete employee begin tx failed", zap.Error(err))
		return apperror.ErrInternal
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, companyID, id); err != nil {
		s.logger.Error("delete employee failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, id, events.EmployeeDeletedType, events.EmployeeDeletedEvent{
		EventType:  events.EmployeeDeletedType,
		EmployeeID: id,
		CompanyID:  companyID,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Error("delete employee outbox persist failed", zap.String("employee_id", id), zap.Error(err))
		return apperror.ErrInternal
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete employee commit failed", zap.Error(err))
		return apperror.ErrInternal
	}

	if uid := derefString(empl.IdentityID); uid != "" {
		if err := s.identity.DeletePrincipal(ctx, uid); err != nil {
			s.logger.Error("delete employee principal failed", zap.String("identity_id", uid), zap.Error(err))
			s.audit.Log(ctx, audit.Entry{
				Action:  audit.ActionPrincipalOrphaned,
				Message: "principal left after employee delete",
				Meta:    map[string]any{"identity_id": uid, "employee_id": id, "company_id": companyID},
			})
		}
	}

	s.invalidateOptions(ctx, companyID)
	s.publishChange(ctx, companyID, id, realtime.OpDeleted)

	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, employeeID, eventType string, payload any) error {
	if s.outbox == nil {
		return nil
	}
	event, err := kafka.NewEvent(ctx, events.EmployeeAggregate, employeeID, eventType, events.EmployeeLifecycleTopic, payload)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, event)
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func (s *service) publishChange(ctx context.Context, companyID, id, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, realtime.Change{
		Collection: realtime.CollectionEmployees,
		Op:         op,
		CompanyID:  companyID,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("publish employee change failed", zap.String("employee_id", id), zap.Error(err))
	}
}

func mapToResponse(empl Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             empl.ID,
		CompanyID:      empl.CompanyID.String(),
		Name:           empl.Name,
		JobTitle:       empl.JobTitle,
		EmploymentType: empl.EmploymentType,
		Salary:         empl.Salary,
		BankName:       empl.BankName,
		AccountNumber:  empl.AccountNumber,
		Role:           empl.Role,
		Email:          empl.Email,
		IdentityID:     derefString(empl.IdentityID),
		CreatedAt:      empl.CreatedAt,
		UpdatedAt:      empl.UpdatedAt,
	}
}

func mapToListResponse(empls []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(empls))
	for i, e := range empls {
		res[i] = mapToResponse(e)
	}
	return res
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
