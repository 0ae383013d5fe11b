package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/api/validators"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	types.WriteJSON(w, status, v)
}

func writeOK(w http.ResponseWriter, status int, data any) {
	types.WriteJSON(w, status, types.OK(data))
}

// writeError maps err to its status. Internal errors are logged with the
// request id and answered with a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := types.FromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	types.WriteJSON(w, status, resp)
}

// decode reads a JSON body into dst and validates it.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return appErr.Invalid("El cuerpo de la solicitud es demasiado grande")
		case errors.Is(err, io.EOF):
			return appErr.Invalid("No se proporcionaron datos")
		default:
			return appErr.Wrap(err, appErr.CodeInvalid, "JSON inválido")
		}
	}
	return validators.Validate(dst)
}

func pathID(r *http.Request, name, message string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, appErr.Invalid(message)
	}
	return id, nil
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	out, err := types.ParseIDs(ids)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInvalid, "IDs inválidos")
	}
	return out, nil
}

// boolQuery reads a boolean query parameter, falling back to def when absent.
func boolQuery(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, appErr.Invalid("Parámetro " + name + " inválido")
	}
	return v, nil
}

func outcome(ok bool, done, notDone string) types.MessageData {
	if ok {
		return types.MessageData{Message: done}
	}
	return types.MessageData{Message: notDone}
}
