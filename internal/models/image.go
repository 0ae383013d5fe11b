package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image is a product picture held in object storage. At most one image per
// product is Principal.
type Image struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	URL       string    `gorm:"not null" json:"url"`
	AltText   *string   `gorm:"column:alt_text" json:"alt_text"`
	Principal bool      `gorm:"not null;default:false;index" json:"principal"`
	PublicID  string    `gorm:"column:public_id" json:"public_id,omitempty"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty"`
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
