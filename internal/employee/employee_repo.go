package employee

import (
	"context"
	"database/sql"
	"time"

	"go-foresthr/internal/transition"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	// FindByIDForUpdate re-reads inside a transaction holding a row lock.
	FindByIDForUpdate(ctx context.Context, id string) (*Employee, error)
	UpdateStatus(ctx context.Context, id string, status transition.EmployeeState) error
	Exists(ctx context.Context, id string) (bool, error)
	// HasOpenAbsence reports whether an approved leave or an active sick
	// leave other than the excluded records covers `at`.
	HasOpenAbsence(ctx context.Context, employeeID string, at time.Time, excludeLeaveID, excludeSickLeaveID *string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := r.db.WithContext(ctx).Order("full_name ASC").Find(&employees).Error
	return employees, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) UpdateStatus(ctx context.Context, id string, status transition.EmployeeState) error {
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOpenAbsence(ctx context.Context, employeeID string, at time.Time, excludeLeaveID, excludeSickLeaveID *string) (bool, error) {
	openLeaveStatuses := []string{
		"APPROVED", "APPROVED_PENDING_DOCUMENT", "APPROVED_IN_COMPENSATION",
	}

	// start_date/end_date are DATE columns at midnight; compare against the
	// day, not the wall-clock instant, or a record stops counting on its
	// own last day.
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())

	leaves := r.db.WithContext(ctx).
		Table("leaves").
		Where("employee_id = ?", employeeID).
		Where("status IN ?", openLeaveStatuses).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Where("deleted_at IS NULL")
	if excludeLeaveID != nil && *excludeLeaveID != "" {
		leaves = leaves.Where("id <> ?", *excludeLeaveID)
	}

	var count int64
	if err := leaves.Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	sick := r.db.WithContext(ctx).
		Table("sick_leaves").
		Where("employee_id = ?", employeeID).
		Where("status = ?", "ACTIVE").
		Where("start_date <= ? AND end_date >= ?", day, day).
		Where("deleted_at IS NULL")
	if excludeSickLeaveID != nil && *excludeSickLeaveID != "" {
		sick = sick.Where("id <> ?", *excludeSickLeaveID)
	}

	if err := sick.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
