package sickleave

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=sickleave_repo.go -destination=mock/sickleave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, sl *SickLeave) error
	FindAll(ctx context.Context) ([]SickLeave, error)
	FindByID(ctx context.Context, id string) (*SickLeave, error)
	// FindByIDForUpdate re-reads inside a transaction holding a row lock.
	FindByIDForUpdate(ctx context.Context, id string) (*SickLeave, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]SickLeave, error)
	Update(ctx context.Context, sl *SickLeave) error
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

func (r *repository) Create(ctx context.Context, sl *SickLeave) error {
	return r.db.WithContext(ctx).Create(sl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]SickLeave, error) {
	var records []SickLeave
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SickLeave, error) {
	var sl SickLeave
	err := r.db.WithContext(ctx).First(&sl, "id = ?", id).Error
	return &sl, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*SickLeave, error) {
	var sl SickLeave
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sl, "id = ?", id).Error
	return &sl, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]SickLeave, error) {
	var records []SickLeave
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&records).Error
	return records, err
}

func (r *repository) Update(ctx context.Context, sl *SickLeave) error {
	return r.db.WithContext(ctx).Save(sl).Error
}
