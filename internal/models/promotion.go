package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PromotionTypePercentage is the only supported promotion type.
const PromotionTypePercentage = "porcentaje"

var maxPromotionValue = decimal.NewFromInt(100)

// Promotion is a percentage discount valid between StartsAt and EndsAt.
type Promotion struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string          `gorm:"column:nombre;not null" json:"nombre"`
	Description *string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	Type        string          `gorm:"column:tipo;type:varchar(20);not null;default:porcentaje" json:"tipo"`
	Value       decimal.Decimal `gorm:"column:valor;type:decimal(5,2);not null" json:"valor"`
	StartsAt    time.Time       `gorm:"column:fecha_inicio;not null;index" json:"fecha_inicio"`
	EndsAt      time.Time       `gorm:"column:fecha_fin;not null" json:"fecha_fin"`
	Active      bool            `gorm:"column:activo;not null;default:true" json:"activo"`
	Products    []Product       `gorm:"many2many:product_promotions" json:"products"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Type = PromotionTypePercentage
	return nil
}

// ValidatePromotionValue reports whether v lies in (0, 100].
func ValidatePromotionValue(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThanOrEqual(maxPromotionValue)
}

// ValidatePromotionWindow reports whether start strictly precedes end.
func ValidatePromotionWindow(start, end time.Time) bool {
	return start.Before(end)
}
