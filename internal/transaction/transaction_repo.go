package transaction

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

// joinedColumns resolves the employee name from the employees table and
// falls back to the projected copy when the employee is gone.
const joinedColumns = `t.id, t.company_id, t.employee_id, COALESCE(e.name, t.employee_name) AS employee_name,
	t.date, t.type, t.amount, t.description, t.status, t.created_at, t.updated_at`

//go:generate mockgen -source=transaction_repo.go -destination=mock/transaction_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Transaction, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Transaction, error)
	FindByEmployee(ctx context.Context, companyID, employeeID string) ([]Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, companyID, id string) error
	SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) joined(ctx context.Context, companyID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(joinedColumns).
		Joins("LEFT JOIN employees e ON e.company_id = t.company_id AND e.id = t.employee_id").
		Scopes(tenant.ScopeAlias("t", companyID))
}

func (r *repository) Create(ctx context.Context, tx *Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, filter ListFilter) ([]Transaction, error) {
	q := r.joined(ctx, companyID)
	if filter.EmployeeID != "" {
		q = q.Where("t.employee_id = ?", filter.EmployeeID)
	}
	if filter.Type != "" {
		q = q.Where("t.type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("t.status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("t.date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("t.date <= ?", *filter.To)
	}

	var txs []Transaction
	err := q.Order("t.date DESC, t.id ASC").Scan(&txs).Error
	return txs, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Transaction, error) {
	var txs []Transaction
	err := r.joined(ctx, companyID).
		Where("t.id = ?", id).
		Limit(1).
		Scan(&txs).Error
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &txs[0], nil
}

// FindByEmployee returns every transaction of the employee regardless of
// date or status.
func (r *repository) FindByEmployee(ctx context.Context, companyID, employeeID string) ([]Transaction, error) {
	var txs []Transaction
	err := r.joined(ctx, companyID).
		Where("t.employee_id = ?", employeeID).
		Order("t.date ASC, t.id ASC").
		Scan(&txs).Error
	return txs, err
}

func (r *repository) Update(ctx context.Context, tx *Transaction) error {
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Scopes(tenant.Scope(tx.CompanyID.String())).
		Where("id = ?", tx.ID).
		Updates(map[string]any{
			"date":        tx.Date,
			"type":        tx.Type,
			"amount":      tx.Amount,
			"description": tx.Description,
			"status":      tx.Status,
			"updated_at":  tx.UpdatedAt,
		}).Error
}

func (r *repository) Delete(ctx context.Context, companyID, id string) error {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Delete(&Transaction{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SyncEmployeeName rewrites the projected name on the employee's
// transactions and returns the number of rows touched.
func (r *repository) SyncEmployeeName(ctx context.Context, companyID, employeeID, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("employee_name IS DISTINCT FROM ?", name).
		Update("employee_name", name)
	return res.RowsAffected, res.Error
}
