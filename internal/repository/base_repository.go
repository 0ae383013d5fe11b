package repository

import (
	"context"
	"errors"
	"fmt"

	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id uuid.UUID, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Deactivate clears the active flag of an active row and reports whether
	// a row was changed. Missing and already inactive rows both yield false.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error)
}

type baseRepository[T any] struct {
	db           *gorm.DB
	entity       string
	activeColumn string
}

// NewBaseRepository returns a BaseRepository for T. entity names T in error
// messages; activeColumn is the soft-delete flag column ("" disables Deactivate).
func NewBaseRepository[T any](db *gorm.DB, entity, activeColumn string) BaseRepository[T] {
	return &baseRepository[T]{db: db, entity: entity, activeColumn: activeColumn}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.Wrap(err, appErr.CodeConflict, fmt.Sprintf("%s already exists", r.entity))
		}
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("create %s failed", r.entity))
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id uuid.UUID, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, fmt.Sprintf("%s not found", r.entity))
		}
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("get %s failed", r.entity))
	}
	return nil
}

// Update saves every column of obj. Associations are managed separately.
func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(obj).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return appErr.Wrap(err, appErr.CodeConflict, fmt.Sprintf("%s already exists", r.entity))
		}
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("update %s failed", r.entity))
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, fmt.Sprintf("delete %s failed", r.entity))
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, fmt.Sprintf("%s %v not found", r.entity, id))
	}
	return nil
}

func (r *baseRepository[T]) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	if r.activeColumn == "" {
		return false, appErr.New(appErr.CodeInternal, fmt.Sprintf("%s has no active flag", r.entity))
	}
	var t T
	res := r.db.WithContext(ctx).Model(&t).
		Where("id = ?", id).
		Where(clause.Eq{Column: clause.Column{Name: r.activeColumn}, Value: true}).
		Update(r.activeColumn, false)
	if res.Error != nil {
		return false, appErr.Wrap(res.Error, appErr.CodeInternal, fmt.Sprintf("deactivate %s failed", r.entity))
	}
	return res.RowsAffected > 0, nil
}

func (r *baseRepository[T]) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]T, error) {
	var out []T
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("find %s by ids failed", r.entity))
	}
	return out, nil
}
