package services

import (
	"context"
	"strings"
	"time"

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

type PromotionService interface {
	List(ctx context.Context, activeOnly bool) ([]models.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error)
	Create(ctx context.Context, input *CreatePromotionInput) (*models.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdatePromotionInput) (*models.Promotion, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
	// ApplyToProducts replaces the set of products the promotion applies to.
	ApplyToProducts(ctx context.Context, id uuid.UUID, productIDs []uuid.UUID) (*ApplyResult, error)
}

type CreatePromotionInput struct {
	Name        string
	Description *string
	Value       decimal.Decimal
	StartsAt    time.Time
	EndsAt      time.Time
	// Active defaults to true when nil.
	Active     *bool
	ProductIDs []uuid.UUID
}

type UpdatePromotionInput struct {
	Name        *string
	Description *string
	Value       *decimal.Decimal
	StartsAt    *time.Time
	EndsAt      *time.Time
	Active      *bool
}

func (in *UpdatePromotionInput) empty() bool {
	return in == nil || (in.Name == nil && in.Description == nil && in.Value == nil &&
		in.StartsAt == nil && in.EndsAt == nil && in.Active == nil)
}

// ApplyResult reports how many products a promotion now covers.
type ApplyResult struct {
	Affected  int              `json:"affected"`
	Promotion PromotionSummary `json:"promotion"`
}

type PromotionSummary struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"nombre"`
	Value decimal.Decimal `json:"valor"`
}

type promotionService struct {
	db            *gorm.DB
	promotionRepo repository.PromotionRepository
	productRepo   repository.ProductRepository
}

func NewPromotionService(db *gorm.DB, promotionRepo repository.PromotionRepository, productRepo repository.ProductRepository) PromotionService {
	return &promotionService{db: db, promotionRepo: promotionRepo, productRepo: productRepo}
}

var _ PromotionService = (*promotionService)(nil)

func (s *promotionService) List(ctx context.Context, activeOnly bool) ([]models.Promotion, error) {
	return s.promotionRepo.List(ctx, activeOnly)
}

func (s *promotionService) Get(ctx context.Context, id uuid.UUID) (*models.Promotion, error) {
	p, err := s.promotionRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, "Promoción no encontrada")
	}
	return p, nil
}

func validatePromotionValue(v decimal.Decimal) error {
	if !models.ValidatePromotionValue(v) {
		return appErr.Invalid("El valor de la promoción debe ser mayor a 0 y menor o igual a 100").WithMeta("valor", v.String())
	}
	return nil
}

func validatePromotionWindow(start, end time.Time) error {
	if !models.ValidatePromotionWindow(start, end) {
		return appErr.Invalid("La fecha de inicio debe ser anterior a la fecha de fin")
	}
	return nil
}

func (s *promotionService) Create(ctx context.Context, input *CreatePromotionInput) (*models.Promotion, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, appErr.Invalid("El nombre de la promoción es requerido")
	}
	if err := validatePromotionValue(input.Value); err != nil {
		return nil, err
	}
	if err := validatePromotionWindow(input.StartsAt, input.EndsAt); err != nil {
		return nil, err
	}

	p := &models.Promotion{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Type:        models.PromotionTypePercentage,
		Value:       input.Value,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Active:      true,
	}

	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		products, err := resolveProducts(ctx, s.productRepo.WithTx(tx), input.ProductIDs)
		if err != nil {
			return err
		}
		repo := s.promotionRepo.WithTx(tx)
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
		// activo has a column default, so an inactive promotion needs a second write
		if input.Active != nil && !*input.Active {
			p.Active = false
			if err := repo.Update(ctx, p); err != nil {
				return err
			}
		}
		return replaceAssociation(ctx, tx, p, "Products", products)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("promotion created", zap.String("promotion_id", p.ID.String()), zap.String("valor", p.Value.String()))
	return s.promotionRepo.GetDetailed(ctx, p.ID)
}

func (s *promotionService) Update(ctx context.Context, id uuid.UUID, input *UpdatePromotionInput) (*models.Promotion, error) {
	if input.empty() {
		return nil, appErr.Invalid("No se enviaron campos para actualizar")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, appErr.Invalid("El nombre de la promoción es requerido")
	}
	if input.Value != nil {
		if err := validatePromotionValue(*input.Value); err != nil {
			return nil, err
		}
	}

	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.promotionRepo.WithTx(tx)
		var p models.Promotion
		if err := repo.GetByID(ctx, id, &p); err != nil {
			return notFound(err, "Promoción no encontrada")
		}

		if input.Name != nil {
			p.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			p.Description = input.Description
		}
		if input.Value != nil {
			p.Value = *input.Value
		}
		if input.StartsAt != nil {
			p.StartsAt = *input.StartsAt
		}
		if input.EndsAt != nil {
			p.EndsAt = *input.EndsAt
		}
		if input.Active != nil {
			p.Active = *input.Active
		}
		if err := validatePromotionWindow(p.StartsAt, p.EndsAt); err != nil {
			return err
		}
		return repo.Update(ctx, &p)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("promotion updated", zap.String("promotion_id", id.String()))
	return s.promotionRepo.GetDetailed(ctx, id)
}

func (s *promotionService) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.promotionRepo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("promotion deactivate", zap.String("promotion_id", id.String()), zap.Bool("changed", ok))
	return ok, nil
}

func (s *promotionService) ApplyToProducts(ctx context.Context, id uuid.UUID, productIDs []uuid.UUID) (*ApplyResult, error) {
	var res ApplyResult
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		var p models.Promotion
		if err := s.promotionRepo.WithTx(tx).GetByID(ctx, id, &p); err != nil {
			return notFound(err, "Promoción no encontrada")
		}
		products, err := resolveProducts(ctx, s.productRepo.WithTx(tx), productIDs)
		if err != nil {
			return err
		}
		if err := replaceAssociation(ctx, tx, &p, "Products", products); err != nil {
			return err
		}
		res = ApplyResult{
			Affected:  len(products),
			Promotion: PromotionSummary{ID: p.ID, Name: p.Name, Value: p.Value},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("promotion applied", zap.String("promotion_id", id.String()), zap.Int("affected", res.Affected))
	return &res, nil
}
