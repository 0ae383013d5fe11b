// Package migrations brings the catalog schema up to date.
package migrations

import (
	"gorm.io/gorm"

	"github.com/floreria/catalog/internal/models"
)

// registerModels returns all models that need migration
func registerModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Promotion{},
		&models.Product{},
		&models.Image{},
	}
}

// Run executes all database migrations.
func Run(db *gorm.DB) error {
	if err := enableUUIDExtension(db); err != nil {
		return err
	}

	if err := db.AutoMigrate(registerModels()...); err != nil {
		return err
	}

	return runCustomMigrations(db)
}

// runCustomMigrations handles schema changes AutoMigrate can't handle
func runCustomMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		addCategoryNameIndex,
		addPrincipalImageIndex,
	}

	for _, migration := range migrations {
		if err := migration(db); err != nil {
			return err
		}
	}

	return nil
}

// enableUUIDExtension ensures gen_random_uuid() is available
func enableUUIDExtension(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// addCategoryNameIndex makes category names unique regardless of case.
func addCategoryNameIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_nombre_lower
		ON categories (LOWER(nombre))
	`).Error
}

// addPrincipalImageIndex allows at most one principal image per product.
func addPrincipalImageIndex(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_images_single_principal
		ON images (product_id)
		WHERE principal
	`).Error
}
