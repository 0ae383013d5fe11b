package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role gates administrative actions.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleAdmin || r == RoleUser }

// User is a registered customer or administrator. Deleting a user only clears Active.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string    `gorm:"column:nombre;size:100;not null" json:"nombre"`
	Surname      string    `gorm:"column:apellido;size:100;not null" json:"apellido"`
	Phone        string    `gorm:"column:telefono;size:9" json:"telefono"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password;not null" json:"-" swaggerignore:"true"`
	Role         Role      `gorm:"column:rol;type:varchar(10);not null;default:USER" json:"rol"`
	Active       bool      `gorm:"column:activo;not null;default:true" json:"activo"`
	RegisteredAt time.Time `gorm:"column:fecha_registro;autoCreateTime" json:"fecha_registro"`
	Products     []Product `gorm:"foreignKey:UserID" json:"products,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}
