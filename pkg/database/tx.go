package database

import (
	"context"

	appErr "github.com/floreria/catalog/pkg/errors"
	"gorm.io/gorm"
)

// WithTx runs fn inside a single transaction. The transaction is committed when
// fn returns nil and rolled back otherwise; in both cases the connection is
// released before WithTx returns. An error from fn is returned unchanged.
func WithTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) (err error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return appErr.Wrap(tx.Error, appErr.CodeInternal, "begin transaction failed")
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return appErr.Wrap(err, appErr.CodeInternal, "commit transaction failed")
	}
	return nil
}
