package services

import (
	"context"
	"strings"

	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/repository"
	"github.com/floreria/catalog/pkg/database"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/floreria/catalog/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, input *CreateCategoryInput) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*models.Category, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type CreateCategoryInput struct {
	Name string
}

type UpdateCategoryInput struct {
	Name   *string
	Active *bool
}

func (in *UpdateCategoryInput) empty() bool {
	return in == nil || (in.Name == nil && in.Active == nil)
}

type categoryService struct {
	db           *gorm.DB
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(db *gorm.DB, categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{db: db, categoryRepo: categoryRepo}
}

var _ CategoryService = (*categoryService)(nil)

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.categoryRepo.GetDetailed(ctx, id)
	if err != nil {
		return nil, notFound(err, "Categoría no encontrada")
	}
	return c, nil
}

func normalizeCategoryName(name string) (string, error) {
	n := utils.FormatName(name)
	if n == "" {
		return "", appErr.Invalid("El nombre de la categoría es requerido")
	}
	if len([]rune(n)) > 100 {
		return "", appErr.Invalid("El nombre de la categoría no puede superar 100 caracteres")
	}
	return n, nil
}

func (s *categoryService) Create(ctx context.Context, input *CreateCategoryInput) (*models.Category, error) {
	name, err := normalizeCategoryName(input.Name)
	if err != nil {
		return nil, err
	}

	c := &models.Category{Name: name, Active: true}
	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		existing, err := repo.FindByName(ctx, name, uuid.Nil)
		if err != nil {
			return err
		}
		if existing != nil {
			return appErr.Conflict("La categoría ya existe").WithMeta("categoryId", existing.ID.String())
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("category created", zap.String("category_id", c.ID.String()), zap.String("name", c.Name))
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input *UpdateCategoryInput) (*models.Category, error) {
	if input.empty() {
		return nil, appErr.Invalid("No se enviaron campos para actualizar")
	}

	var c models.Category
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		if err := repo.GetByID(ctx, id, &c); err != nil {
			return notFound(err, "Categoría no encontrada")
		}
		if input.Name != nil {
			name, err := normalizeCategoryName(*input.Name)
			if err != nil {
				return err
			}
			if !strings.EqualFold(name, c.Name) {
				existing, err := repo.FindByName(ctx, name, id)
				if err != nil {
					return err
				}
				if existing != nil {
					return appErr.Conflict("Ya existe otra categoría con ese nombre").WithMeta("categoryId", existing.ID.String())
				}
			}
			c.Name = name
		}
		if input.Active != nil {
			c.Active = *input.Active
		}
		return repo.Update(ctx, &c)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("category updated", zap.String("category_id", id.String()))
	return &c, nil
}

func (s *categoryService) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.categoryRepo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("category deactivate", zap.String("category_id", id.String()), zap.Bool("changed", ok))
	return ok, nil
}
