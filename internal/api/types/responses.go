package types

import "github.com/floreria/catalog/internal/services"

// APIResponse is the success envelope.
type APIResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// MessageData carries the outcome of operations that return no entity.
type MessageData struct {
	Message string `json:"message"`
}

// ApplyPromotionData is the body of a successful promotion apply.
type ApplyPromotionData struct {
	Message   string                    `json:"message"`
	Affected  int                       `json:"affected"`
	Promotion services.PromotionSummary `json:"promotion"`
}

func OK(data any) APIResponse { return APIResponse{Success: true, Data: data} }
