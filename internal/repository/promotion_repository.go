package repository

import (
	"context"
	"errors"

	"github.com/floreria/catalog/internal/models"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromotionRepository interface {
	BaseRepository[models.Promotion]
	WithTx(tx *gorm.DB) PromotionRepository
	List(ctx context.Context, activeOnly bool) ([]models.Promotion, error)
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
}

type promotionRepository struct {
	BaseRepository[models.Promotion]
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{BaseRepository: NewBaseRepository[models.Promotion](db, "promotion", "activo"), db: db}
}

func (r *promotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	return NewPromotionRepository(tx)
}

func withProducts(db *gorm.DB) *gorm.DB {
	return db.Preload("Products", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "nombre", "precio", "activo").Order("nombre ASC")
	})
}

func (r *promotionRepository) List(ctx context.Context, activeOnly bool) ([]models.Promotion, error) {
	var out []models.Promotion
	q := withProducts(r.db.WithContext(ctx))
	if activeOnly {
		q = q.Where("activo = ?", true)
	}
	if err := q.Order("fecha_inicio DESC").Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list promotions failed")
	}
	return out, nil
}

func (r *promotionRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	var p models.Promotion
	if err := withProducts(r.db.WithContext(ctx)).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "promotion not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get promotion failed")
	}
	return &p, nil
}
