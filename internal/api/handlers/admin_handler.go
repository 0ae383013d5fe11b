package handlers

import (
	"net/http"

	"github.com/floreria/catalog/internal/services"
)

type AdminHandler struct {
	svc services.DashboardService
}

func NewAdminHandler(svc services.DashboardService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Dashboard godoc
// @Summary  Catalog overview for administrators
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} types.APIResponse{data=services.Dashboard}
// @Router   /admin [get]
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, d)
}
