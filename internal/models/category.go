package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products. Name is stored normalized ("Rosas") and is unique
// regardless of case.
type Category struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name     string    `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Active   bool      `gorm:"column:activa;not null;default:true" json:"activa"`
	Products []Product `gorm:"many2many:product_categories" json:"products,omitempty"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
