package services

import (
	"context"
	"strings"

	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/repository"
	"github.com/floreria/catalog/pkg/database"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, input *CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*models.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreateProductInput struct {
	Name         string
	Description  *string
	Price        decimal.Decimal
	CategoryIDs  []uuid.UUID
	PromotionIDs []uuid.UUID
	UserID       *uuid.UUID
}

// UpdateProductInput applies only the non-nil fields. A non-nil id slice
// replaces the whole set, so a pointer to an empty slice clears it.
type UpdateProductInput struct {
	Name         *string
	Description  *string
	Price        *decimal.Decimal
	Active       *bool
	CategoryIDs  *[]uuid.UUID
	PromotionIDs *[]uuid.UUID
}

func (in *UpdateProductInput) empty() bool {
	return in == nil || (in.Name == nil && in.Description == nil && in.Price == nil &&
		in.Active == nil && in.CategoryIDs == nil && in.PromotionIDs == nil)
}

type productService struct {
	db            *gorm.DB
	productRepo   repository.ProductRepository
	categoryRepo  repository.CategoryRepository
	promotionRepo repository.PromotionRepository
	userRepo      repository.UserRepository
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository,
	promotionRepo repository.PromotionRepository, userRepo repository.UserRepository) ProductService {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		categoryRepo:  categoryRepo,
		promotionRepo: promotionRepo,
		userRepo:      userRepo,
	}
}

var _ ProductService = (*productService)(nil)

func (s *productService) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	return s.productRepo.List(ctx, activeOnly)
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.productRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, "Producto no encontrado")
	}
	return p, nil
}

func validateProductFields(name *string, price *decimal.Decimal) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return appErr.Invalid("El nombre del producto es requerido")
	}
	if price != nil && !models.ValidatePrice(*price) {
		return appErr.Invalid("El precio debe ser mayor a 0").WithMeta("precio", price.String())
	}
	return nil
}

func (s *productService) Create(ctx context.Context, input *CreateProductInput) (*models.Product, error) {
	if err := validateProductFields(&input.Name, &input.Price); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Active:      true,
		UserID:      input.UserID,
	}

	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		if input.UserID != nil {
			var owner models.User
			if err := s.userRepo.WithTx(tx).GetByID(ctx, *input.UserID, &owner); err != nil {
				if appErr.IsCode(err, appErr.CodeNotFound) {
					return appErr.NotFound("El usuario no existe").WithMeta("userId", input.UserID.String())
				}
				return err
			}
		}
		categories, err := resolveCategories(ctx, s.categoryRepo.WithTx(tx), input.CategoryIDs)
		if err != nil {
			return err
		}
		promotions, err := resolvePromotions(ctx, s.promotionRepo.WithTx(tx), input.PromotionIDs)
		if err != nil {
			return err
		}

		if err := s.productRepo.WithTx(tx).Create(ctx, p); err != nil {
			return err
		}
		if err := replaceAssociation(ctx, tx, p, "Categories", categories); err != nil {
			return err
		}
		return replaceAssociation(ctx, tx, p, "Promotions", promotions)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product created",
		zap.String("product_id", p.ID.String()),
		zap.Int("categories", len(input.CategoryIDs)),
		zap.Int("promotions", len(input.PromotionIDs)))
	return s.productRepo.GetDetailed(ctx, p.ID)
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*models.Product, error) {
	if input.empty() {
		return nil, appErr.Invalid("No se enviaron campos para actualizar")
	}
	if err := validateProductFields(input.Name, input.Price); err != nil {
		return nil, err
	}

	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		var p models.Product
		if err := repo.GetByID(ctx, id, &p); err != nil {
			return notFound(err, "Producto no encontrado")
		}

		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			p.Description = input.Description
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		if input.Active != nil {
			p.Active = *input.Active
		}
		if err := repo.Update(ctx, &p); err != nil {
			return err
		}

		if input.CategoryIDs != nil {
			categories, err := resolveCategories(ctx, s.categoryRepo.WithTx(tx), *input.CategoryIDs)
			if err != nil {
				return err
			}
			if err := replaceAssociation(ctx, tx, &p, "Categories", categories); err != nil {
				return err
			}
		}
		if input.PromotionIDs != nil {
			promotions, err := resolvePromotions(ctx, s.promotionRepo.WithTx(tx), *input.PromotionIDs)
			if err != nil {
				return err
			}
			if err := replaceAssociation(ctx, tx, &p, "Promotions", promotions); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("product updated", zap.String("product_id", id.String()))
	return s.productRepo.GetDetailed(ctx, id)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.productRepo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("product deactivate", zap.String("product_id", id.String()), zap.Bool("changed", ok))
	return ok, nil
}
