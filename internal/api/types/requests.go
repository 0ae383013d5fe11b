package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Nombre       string          `json:"nombre" validate:"required,notblank,max=255"`
	Descripcion  *string         `json:"descripcion"`
	Precio       decimal.Decimal `json:"precio"`
	CategoryIDs  []string        `json:"categoryIds" validate:"omitempty,dive,uuid"`
	PromotionIDs []string        `json:"promotionIds" validate:"omitempty,dive,uuid"`
	UserID       *string         `json:"userId" validate:"omitempty,uuid"`
}

type UpdateProductRequest struct {
	Nombre       *string          `json:"nombre" validate:"omitempty,notblank,max=255"`
	Descripcion  *string          `json:"descripcion"`
	Precio       *decimal.Decimal `json:"precio"`
	Activo       *bool            `json:"activo"`
	CategoryIDs  *[]string        `json:"categoryIds" validate:"omitempty,dive,uuid"`
	PromotionIDs *[]string        `json:"promotionIds" validate:"omitempty,dive,uuid"`
}

type CreateCategoryRequest struct {
	Nombre string `json:"nombre" validate:"required,notblank,max=100"`
}

type UpdateCategoryRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,notblank,max=100"`
	Activa *bool   `json:"activa"`
}

type CreatePromotionRequest struct {
	Nombre      string          `json:"nombre" validate:"required,notblank,max=255"`
	Descripcion *string         `json:"descripcion"`
	Valor       decimal.Decimal `json:"valor"`
	FechaInicio *Date           `json:"fecha_inicio" validate:"required"`
	FechaFin    *Date           `json:"fecha_fin" validate:"required"`
	Activo      *bool           `json:"activo"`
	ProductIDs  []string        `json:"productIds" validate:"omitempty,dive,uuid"`
}

type UpdatePromotionRequest struct {
	Nombre      *string          `json:"nombre" validate:"omitempty,notblank,max=255"`
	Descripcion *string          `json:"descripcion"`
	Valor       *decimal.Decimal `json:"valor"`
	FechaInicio *Date            `json:"fecha_inicio"`
	FechaFin    *Date            `json:"fecha_fin"`
	Activo      *bool            `json:"activo"`
}

type ApplyPromotionRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,dive,uuid"`
}

type RegisterRequest struct {
	Nombre   string `json:"nombre" validate:"required,notblank,min=2,max=100"`
	Apellido string `json:"apellido" validate:"required,notblank,min=2,max=100"`
	Telefono string `json:"telefono" validate:"omitempty,pe_mobile"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Nombre   *string `json:"nombre" validate:"omitempty,notblank,min=2,max=100"`
	Apellido *string `json:"apellido" validate:"omitempty,notblank,min=2,max=100"`
	Telefono *string `json:"telefono" validate:"omitempty,pe_mobile"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Activo   *bool   `json:"activo"`
	Rol      *string `json:"rol" validate:"omitempty,oneof=ADMIN USER"`
}

// UploadImageRequest carries the picture as base64, optionally as a data URI.
type UploadImageRequest struct {
	Image     string  `json:"image" validate:"required"`
	AltText   *string `json:"alt_text" validate:"omitempty,max=255"`
	Principal Flag    `json:"principal"`
}

type UpdateImageRequest struct {
	Image     *string `json:"image" validate:"omitempty,notblank"`
	AltText   *string `json:"alt_text" validate:"omitempty,max=255"`
	Principal *Flag   `json:"principal"`
}

// ParseIDs converts already validated uuid strings.
func ParseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// Date accepts RFC 3339 timestamps and plain YYYY-MM-DD dates (read as UTC midnight).
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

// Flag is a boolean that also accepts "true" and "false" strings, as sent by
// multipart-era clients.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	b = bytes.Trim(b, `"`)
	v, err := strconv.ParseBool(string(b))
	if err != nil {
		return fmt.Errorf("invalid boolean %q", b)
	}
	*f = Flag(v)
	return nil
}
