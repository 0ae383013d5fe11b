package validators

import (
	"testing"

	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Nombre   string  `json:"nombre" validate:"required,notblank"`
	Telefono string  `json:"telefono" validate:"omitempty,pe_mobile"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(sample{Nombre: "Ana", Telefono: "987654321"}))

	err := Validate(sample{Nombre: "   ", Telefono: "12345"})
	require.Error(t, err)
	ae, ok := appErr.As(err)
	require.True(t, ok)
	assert.Equal(t, appErr.CodeInvalid, ae.Code)
	assert.Equal(t, "notblank", ae.Meta["nombre"])
	assert.Equal(t, "pe_mobile", ae.Meta["telefono"])
	assert.Contains(t, ae.Message, "telefono")
}

func TestPeMobile(t *testing.T) {
	bad := "not-an-email"
	assert.Error(t, Validate(sample{Nombre: "Ana", Telefono: "812345678"}))
	assert.Error(t, Validate(sample{Nombre: "Ana", Telefono: "9123456789"}))
	assert.Error(t, Validate(sample{Nombre: "Ana", Email: &bad}))
}
