package repository

import (
	"context"
	"errors"

	"github.com/floreria/catalog/internal/models"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	BaseRepository[models.Product]
	WithTx(tx *gorm.DB) ProductRepository
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
	// GetDetailed loads a product with its owner, categories, promotions and images.
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type productRepository struct {
	BaseRepository[models.Product]
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{BaseRepository: NewBaseRepository[models.Product](db, "product", "activo"), db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository { return NewProductRepository(tx) }

func (r *productRepository) detailed(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "nombre", "apellido") }).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("nombre ASC") }).
		Preload("Promotions", func(db *gorm.DB) *gorm.DB { return db.Order("fecha_inicio DESC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("principal DESC").Order("id ASC") })
}

func (r *productRepository) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	var out []models.Product
	q := r.detailed(ctx)
	if activeOnly {
		q = q.Where("activo = ?", true)
	}
	if err := q.Order("nombre ASC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list products failed")
	}
	return out, nil
}

func (r *productRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var p models.Product
	if err := r.detailed(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "product not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get product failed")
	}
	return &p, nil
}
