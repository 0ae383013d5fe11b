package repository

import (
	"context"
	"errors"

	"github.com/floreria/catalog/internal/models"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	BaseRepository[models.Category]
	WithTx(tx *gorm.DB) CategoryRepository
	List(ctx context.Context) ([]models.Category, error)
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Category, error)
	// FindByName looks a category up by name ignoring case, skipping excludeID.
	// It returns (nil, nil) when there is no match.
	FindByName(ctx context.Context, name string, excludeID uuid.UUID) (*models.Category, error)
}

type categoryRepository struct {
	BaseRepository[models.Category]
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{BaseRepository: NewBaseRepository[models.Category](db, "category", "activa"), db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepository { return NewCategoryRepository(tx) }

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") }).
		Order("nombre ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list categories failed")
	}
	return out, nil
}

func (r *categoryRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var c models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "category not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get category failed")
	}
	return &c, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string, excludeID uuid.UUID) (*models.Category, error) {
	var c models.Category
	q := r.db.WithContext(ctx).Where("LOWER(nombre) = LOWER(?)", name)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "find category by name failed")
	}
	return &c, nil
}
