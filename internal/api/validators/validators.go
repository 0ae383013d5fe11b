// Package validators configures the request validator shared by the handlers.
package validators

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/go-playground/validator/v10"
	nonstandard "github.com/go-playground/validator/v10/non-standard/validators"
)

// Peruvian mobile numbers: nine digits starting with 9.
var peMobile = regexp.MustCompile(`^9\d{8}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns the process-wide validator with the catalog's custom tags.
func New() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", nonstandard.NotBlank)
		_ = v.RegisterValidation("pe_mobile", func(fl validator.FieldLevel) bool {
			return peMobile.MatchString(strings.TrimSpace(fl.Field().String()))
		})
		instance = v
	})
	return instance
}

var messages = map[string]string{
	"required":  "es requerido",
	"notblank":  "no puede estar vacío",
	"min":       "es demasiado corto",
	"max":       "es demasiado largo",
	"email":     "debe ser un email válido",
	"uuid":      "debe ser un ID válido",
	"oneof":     "tiene un valor no permitido",
	"pe_mobile": "debe ser un teléfono móvil válido",
}

// Validate checks req and returns an invalid AppError naming each failing field.
func Validate(req any) error {
	err := New().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.Wrap(err, appErr.CodeInvalid, "Datos inválidos")
	}

	fields := make(map[string]any, len(verrs))
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "es inválido"
		}
		fields[fe.Field()] = fe.Tag()
		parts = append(parts, fe.Field()+" "+msg)
	}
	ae := appErr.Invalid("Datos inválidos: " + strings.Join(parts, "; "))
	ae.Meta = fields
	return ae
}
