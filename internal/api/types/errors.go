package types

import (
	"encoding/json"
	"net/http"

	appErr "github.com/floreria/catalog/pkg/errors"
)

const internalMessage = "Error interno del servidor"

// FromError turns err into the HTTP status and envelope sent to the client.
// Messages of internal errors are never exposed.
func FromError(err error) (int, ErrorResponse) {
	status := appErr.HTTPStatus(err)
	resp := ErrorResponse{Code: string(appErr.CodeInternal), Message: internalMessage}
	if e, ok := appErr.As(err); ok && status != http.StatusInternalServerError {
		resp.Code = string(e.Code)
		resp.Message = e.Message
		resp.Details = e.Meta
	}
	return status, resp
}

// NewError builds an envelope for failures detected outside the services.
func NewError(code appErr.Code, message string) ErrorResponse {
	return ErrorResponse{Code: string(code), Message: message}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
