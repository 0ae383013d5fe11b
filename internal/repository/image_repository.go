package repository

import (
	"context"
	"errors"

	"github.com/floreria/catalog/internal/models"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImageRepository interface {
	BaseRepository[models.Image]
	WithTx(tx *gorm.DB) ImageRepository
	// ListByProduct returns the product's images, principal first.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error)
	GetDetailed(ctx context.Context, id uuid.UUID) (*models.Image, error)
	// ClearPrincipal unsets the principal flag on every image of the product
	// except exceptID (uuid.Nil clears all).
	ClearPrincipal(ctx context.Context, productID, exceptID uuid.UUID) error
	// MarkPrincipal flags the image as principal when it belongs to the
	// product and reports whether it did.
	MarkPrincipal(ctx context.Context, id, productID uuid.UUID) (bool, error)
}

type imageRepository struct {
	BaseRepository[models.Image]
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{BaseRepository: NewBaseRepository[models.Image](db, "image", ""), db: db}
}

func (r *imageRepository) WithTx(tx *gorm.DB) ImageRepository { return NewImageRepository(tx) }

func (r *imageRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	var out []models.Image
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("principal DESC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list product images failed")
	}
	return out, nil
}

func (r *imageRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	var img models.Image
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "nombre", "precio", "activo") }).
		First(&img, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "image not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get image failed")
	}
	return &img, nil
}

func (r *imageRepository) ClearPrincipal(ctx context.Context, productID, exceptID uuid.UUID) error {
	q := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("product_id = ? AND principal = ?", productID, true)
	if exceptID != uuid.Nil {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Update("principal", false).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "clear principal image failed")
	}
	return nil
}

func (r *imageRepository) MarkPrincipal(ctx context.Context, id, productID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("id = ? AND product_id = ?", id, productID).
		Update("principal", true)
	if res.Error != nil {
		return false, appErr.Wrap(res.Error, appErr.CodeInternal, "mark principal image failed")
	}
	return res.RowsAffected == 1, nil
}
