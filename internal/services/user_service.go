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

type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*models.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

// UpdateUserInput lists every user field that may change. Callers decide who
// may set Role and Active.
type UpdateUserInput struct {
	Name     *string
	Surname  *string
	Phone    *string
	Email    *string
	Password *string
	Active   *bool
	Role     *models.Role
}

func (in *UpdateUserInput) empty() bool {
	return in == nil || (in.Name == nil && in.Surname == nil && in.Phone == nil && in.Email == nil &&
		in.Password == nil && in.Active == nil && in.Role == nil)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

var _ UserService = (*userService)(nil)

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.userRepo.GetByID(ctx, id, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("Usuario no encontrado")
		}
		return nil, err
	}
	return &u, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input *UpdateUserInput) (*models.User, error) {
	if input.empty() {
		return nil, appErr.Invalid("No se enviaron campos para actualizar")
	}
	if input.Role != nil && !input.Role.Valid() {
		return nil, appErr.Invalid("Rol inválido").WithMeta("rol", string(*input.Role))
	}
	if input.Password != nil && len(*input.Password) < minPasswordLength {
		return nil, appErr.Invalid("La contraseña debe tener al menos 6 caracteres")
	}

	var u models.User
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)
		if err := repo.GetByID(ctx, id, &u); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return appErr.NotFound("Usuario no encontrado")
			}
			return err
		}

		if input.Name != nil {
			name, err := normalizePersonName(*input.Name, "Nombre")
			if err != nil {
				return err
			}
			u.Name = name
		}
		if input.Surname != nil {
			surname, err := normalizePersonName(*input.Surname, "Apellido")
			if err != nil {
				return err
			}
			u.Surname = surname
		}
		if input.Phone != nil {
			u.Phone = strings.TrimSpace(*input.Phone)
		}
		if input.Email != nil {
			email := normalizeEmail(*input.Email)
			if email == "" {
				return appErr.Invalid("Email inválido")
			}
			if email != u.Email {
				taken, err := repo.EmailTaken(ctx, email, id)
				if err != nil {
					return err
				}
				if taken {
					return appErr.Conflict("El email ya está registrado")
				}
			}
			u.Email = email
		}
		if input.Password != nil {
			hash, err := utils.HashPassword(*input.Password)
			if err != nil {
				return appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
			}
			u.PasswordHash = hash
		}
		if input.Active != nil {
			u.Active = *input.Active
		}
		if input.Role != nil {
			u.Role = *input.Role
		}
		return repo.Update(ctx, &u)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user updated", zap.String("user_id", id.String()), zap.Bool("password_changed", input.Password != nil))
	return &u, nil
}

func (s *userService) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	ok, err := s.userRepo.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	logger.FromContext(ctx).Info("user deactivate", zap.String("user_id", id.String()), zap.Bool("changed", ok))
	return ok, nil
}
