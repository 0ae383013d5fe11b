package services

import (
	"context"
	"errors"
	"strings"

	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/repository"
	"github.com/floreria/catalog/internal/storage"
	"github.com/floreria/catalog/pkg/database"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ImageStore keeps image binaries outside the database.
type ImageStore interface {
	Put(ctx context.Context, data []byte, contentType string) (*storage.Object, error)
	Remove(ctx context.Context, publicID string) error
}

type ImageService interface {
	Upload(ctx context.Context, productID uuid.UUID, input *UploadImageInput) (*models.Image, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Image, error)
	Update(ctx context.Context, id uuid.UUID, input *UpdateImageInput) (*models.Image, error)
	// SetPrincipal makes imageID the only principal image of the product. It
	// reports false, leaving the product untouched, when the image belongs
	// to another product or does not exist.
	SetPrincipal(ctx context.Context, productID, imageID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type UploadImageInput struct {
	Data        []byte
	ContentType string
	AltText     *string
	Principal   bool
}

// UpdateImageInput replaces the stored binary when Data is set.
type UpdateImageInput struct {
	Data        []byte
	ContentType string
	AltText     *string
	Principal   *bool
}

func (in *UpdateImageInput) empty() bool {
	return in == nil || (len(in.Data) == 0 && in.AltText == nil && in.Principal == nil)
}

var errNotInProduct = errors.New("image does not belong to product")

type imageService struct {
	db          *gorm.DB
	imageRepo   repository.ImageRepository
	productRepo repository.ProductRepository
	store       ImageStore
}

func NewImageService(db *gorm.DB, imageRepo repository.ImageRepository, productRepo repository.ProductRepository, store ImageStore) ImageService {
	return &imageService{db: db, imageRepo: imageRepo, productRepo: productRepo, store: store}
}

var _ ImageService = (*imageService)(nil)

func (s *imageService) Upload(ctx context.Context, productID uuid.UUID, input *UploadImageInput) (*models.Image, error) {
	if len(input.Data) == 0 {
		return nil, appErr.Invalid("Imagen es requerida")
	}

	var product models.Product
	if err := s.productRepo.GetByID(ctx, productID, &product); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("Producto no encontrado")
		}
		return nil, err
	}

	obj, err := s.store.Put(ctx, input.Data, input.ContentType)
	if err != nil {
		return nil, err
	}

	alt := "Imagen de " + product.Name
	if input.AltText != nil && strings.TrimSpace(*input.AltText) != "" {
		alt = strings.TrimSpace(*input.AltText)
	}
	img := &models.Image{
		URL:       obj.URL,
		PublicID:  obj.PublicID,
		AltText:   &alt,
		Principal: input.Principal,
		ProductID: productID,
	}

	err = database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.imageRepo.WithTx(tx)
		if img.Principal {
			if err := repo.ClearPrincipal(ctx, productID, uuid.Nil); err != nil {
				return err
			}
		}
		return repo.Create(ctx, img)
	})
	if err != nil {
		s.discard(obj.PublicID)
		return nil, err
	}

	logger.FromContext(ctx).Info("image uploaded",
		zap.String("image_id", img.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Bool("principal", img.Principal))
	return img, nil
}

func (s *imageService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.Image, error) {
	return s.imageRepo.ListByProduct(ctx, productID)
}

func (s *imageService) Get(ctx context.Context, id uuid.UUID) (*models.Image, error) {
	img, err := s.imageRepo.GetDetailed(ctx, id)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.NotFound("Imagen no encontrada")
		}
		return nil, err
	}
	return img, nil
}

func (s *imageService) Update(ctx context.Context, id uuid.UUID, input *UpdateImageInput) (*models.Image, error) {
	if input.empty() {
		return nil, appErr.Invalid("No se proporcionaron datos para actualizar")
	}

	var obj *storage.Object
	if len(input.Data) > 0 {
		var err error
		if obj, err = s.store.Put(ctx, input.Data, input.ContentType); err != nil {
			return nil, err
		}
	}

	var img models.Image
	var oldPublicID string
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.imageRepo.WithTx(tx)
		if err := repo.GetByID(ctx, id, &img); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return appErr.NotFound("Imagen no encontrada")
			}
			return err
		}

		if input.AltText != nil {
			img.AltText = input.AltText
		}
		if obj != nil {
			oldPublicID = img.PublicID
			img.URL = obj.URL
			img.PublicID = obj.PublicID
		}
		if input.Principal != nil {
			if *input.Principal {
				if err := repo.ClearPrincipal(ctx, img.ProductID, img.ID); err != nil {
					return err
				}
			}
			img.Principal = *input.Principal
		}
		return repo.Update(ctx, &img)
	})
	if err != nil {
		if obj != nil {
			s.discard(obj.PublicID)
		}
		return nil, err
	}
	if oldPublicID != "" {
		s.discard(oldPublicID)
	}

	logger.FromContext(ctx).Info("image updated", zap.String("image_id", id.String()), zap.Bool("replaced", obj != nil))
	return s.imageRepo.GetDetailed(ctx, id)
}

func (s *imageService) SetPrincipal(ctx context.Context, productID, imageID uuid.UUID) (bool, error) {
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.imageRepo.WithTx(tx)
		if err := repo.ClearPrincipal(ctx, productID, uuid.Nil); err != nil {
			return err
		}
		ok, err := repo.MarkPrincipal(ctx, imageID, productID)
		if err != nil {
			return err
		}
		if !ok {
			return errNotInProduct
		}
		return nil
	})
	if errors.Is(err, errNotInProduct) {
		logger.FromContext(ctx).Info("principal image not changed",
			zap.String("image_id", imageID.String()),
			zap.String("product_id", productID.String()))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	logger.FromContext(ctx).Info("principal image set", zap.String("image_id", imageID.String()), zap.String("product_id", productID.String()))
	return true, nil
}

func (s *imageService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	err := database.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := s.imageRepo.WithTx(tx)
		var img models.Image
		if err := repo.GetByID(ctx, id, &img); err != nil {
			if appErr.IsCode(err, appErr.CodeNotFound) {
				return appErr.NotFound("Imagen no encontrada")
			}
			return err
		}
		if img.PublicID != "" {
			if err := s.store.Remove(ctx, img.PublicID); err != nil {
				return err
			}
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return false, err
	}

	logger.FromContext(ctx).Info("image deleted", zap.String("image_id", id.String()))
	return true, nil
}

// discard removes an object that no row references anymore. Failures are
// only logged.
func (s *imageService) discard(publicID string) {
	ctx, cancel := context.WithTimeout(context.Background(), discardTimeout)
	defer cancel()
	if err := s.store.Remove(ctx, publicID); err != nil {
		logger.FromContext(ctx).Warn("orphaned image object", zap.String("public_id", publicID), zap.Error(err))
	}
}
