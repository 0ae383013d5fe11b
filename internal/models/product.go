package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. Deleting a product only clears Active.
type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string          `gorm:"column:nombre;not null;index" json:"nombre"`
	Description *string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	Price       decimal.Decimal `gorm:"column:precio;type:decimal(10,2);not null" json:"precio"`
	Active      bool            `gorm:"column:activo;not null;default:true" json:"activo"`
	CreatedAt   time.Time       `gorm:"column:fecha_creacion;autoCreateTime" json:"fecha_creacion"`

	UserID *uuid.UUID `gorm:"type:uuid;index" json:"-"`
	User   *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Categories []Category  `gorm:"many2many:product_categories;constraint:OnDelete:CASCADE" json:"categories"`
	Promotions []Promotion `gorm:"many2many:product_promotions;constraint:OnDelete:CASCADE" json:"promotions"`
	Images     []Image     `gorm:"foreignKey:ProductID" json:"images"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ValidatePrice reports whether price is strictly positive.
func ValidatePrice(price decimal.Decimal) bool {
	return price.IsPositive()
}
