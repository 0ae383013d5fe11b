package services

import (
	"context"
	"errors"
	"strings"

	"github.com/floreria/catalog/internal/auth"
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

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, input *RegisterUserInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// Current returns the user a verified token points at.
	Current(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type RegisterUserInput struct {
	Name     string
	Surname  string
	Phone    string
	Email    string
	Password string
}

type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
	Role  models.Role  `json:"rol"`
}

type authService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

func NewAuthService(db *gorm.DB, userRepo repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{db: db, userRepo: userRepo, tokens: tokens}
}

var _ AuthService = (*authService)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizePersonName(value, field string) (string, error) {
	v := utils.FormatName(value)
	if len([]rune(v)) < 2 {
		return "", appErr.Invalid(field + " debe tener al menos 2 caracteres")
	}
	return v, nil
}

func (s *authService) Register(ctx context.Context, input *RegisterUserInput) (*models.User, error) {
	name, err := normalizePersonName(input.Name, "Nombre")
	if err != nil {
		return nil, err
	}
	surname, err := normalizePersonName(input.Surname, "Apellido")
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, appErr.Invalid("Email inválido")
	}
	if len(input.Password) < minPasswordLength {
		return nil, appErr.Invalid("La contraseña debe tener al menos 6 caracteres")
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}

	u := &models.User{
		Name:         name,
		Surname:      surname,
		Phone:        strings.TrimSpace(input.Phone),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
		Active:       true,
	}

	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.userRepo.WithTx(tx)
		taken, err := repo.EmailTaken(ctx, email, uuid.Nil)
		if err != nil {
			return err
		}
		if taken {
			return appErr.Conflict("El email ya está registrado")
		}
		return repo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, appErr.Invalid("Email y contraseña son requeridos")
	}

	var u models.User
	if err := s.userRepo.GetActiveByEmail(ctx, email, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("Usuario no encontrado")
		}
		return nil, err
	}

	if err := utils.ComparePassword(u.PasswordHash, password); err != nil {
		if errors.Is(err, utils.ErrPasswordMismatch) {
			logger.FromContext(ctx).Info("login rejected", zap.String("user_id", u.ID.String()))
			return nil, appErr.Unauthorized("Contraseña incorrecta")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "compare password failed")
	}

	token, err := s.tokens.Issue(&u)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "issue token failed")
	}

	logger.FromContext(ctx).Info("user logged in", zap.String("user_id", u.ID.String()), zap.String("rol", string(u.Role)))
	return &LoginResult{User: &u, Token: token, Role: u.Role}, nil
}

func (s *authService) Current(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := s.userRepo.GetByID(ctx, id, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.Unauthorized("Token inválido o información de usuario no disponible")
		}
		return nil, err
	}
	if !u.Active {
		return nil, appErr.Unauthorized("Usuario inactivo")
	}
	return &u, nil
}
