package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/repository"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// uniqueIDs drops repeated ids, keeping first-seen order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveSet loads every requested row or fails as a whole. The error names
// the ids that do not exist; message is the user-facing prefix.
func resolveSet[T any](ctx context.Context, repo repository.BaseRepository[T], ids []uuid.UUID, idOf func(*T) uuid.UUID, message string) ([]T, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []T{}, nil
	}
	found, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == len(ids) {
		return found, nil
	}

	present := make(map[uuid.UUID]struct{}, len(found))
	for i := range found {
		present[idOf(&found[i])] = struct{}{}
	}
	missing := make([]string, 0, len(ids)-len(found))
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return nil, appErr.Invalid(fmt.Sprintf("%s: %s", message, strings.Join(missing, ", "))).
		WithMeta("missingIds", missing)
}

func resolveCategories(ctx context.Context, repo repository.CategoryRepository, ids []uuid.UUID) ([]models.Category, error) {
	return resolveSet[models.Category](ctx, repo, ids, func(c *models.Category) uuid.UUID { return c.ID }, "Las siguientes categorías no existen")
}

func resolvePromotions(ctx context.Context, repo repository.PromotionRepository, ids []uuid.UUID) ([]models.Promotion, error) {
	return resolveSet[models.Promotion](ctx, repo, ids, func(p *models.Promotion) uuid.UUID { return p.ID }, "Las siguientes promociones no existen")
}

func resolveProducts(ctx context.Context, repo repository.ProductRepository, ids []uuid.UUID) ([]models.Product, error) {
	return resolveSet[models.Product](ctx, repo, ids, func(p *models.Product) uuid.UUID { return p.ID }, "Los siguientes productos no existen")
}

// replaceAssociation swaps owner's many-to-many set for values in two steps on
// tx: the current join rows are cleared, then the new set is appended.
func replaceAssociation[T any](ctx context.Context, tx *gorm.DB, owner any, name string, values []T) error {
	if err := tx.WithContext(ctx).Model(owner).Association(name).Clear(); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "clear "+strings.ToLower(name)+" failed")
	}
	if len(values) == 0 {
		return nil
	}
	if err := tx.WithContext(ctx).Model(owner).Association(name).Append(values); err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "assign "+strings.ToLower(name)+" failed")
	}
	return nil
}
