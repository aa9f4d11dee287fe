package tracking

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tracking_repo.go -destination=mock/tracking_repo_mock.go -package=mock

// Repository is deliberately append-only: no Update or Delete exists, so
// history cannot be rewritten by any code path.
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Append(ctx context.Context, e *Entry) error
	FindByParent(ctx context.Context, parentType, parentID string) ([]Entry, error)
	LastActionFor(ctx context.Context, parentType, parentID string) (string, error)
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

func (r *repository) Append(ctx context.Context, e *Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByParent(ctx context.Context, parentType, parentID string) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("parent_type = ?", parentType).
		Where("parent_id = ?", parentID).
		Order("timestamp ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) LastActionFor(ctx context.Context, parentType, parentID string) (string, error) {
	var e Entry
	err := r.db.WithContext(ctx).
		Where("parent_type = ?", parentType).
		Where("parent_id = ?", parentID).
		Order("timestamp DESC, id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return e.ActionType, nil
}
