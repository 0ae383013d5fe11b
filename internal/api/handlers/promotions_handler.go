package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/services"
)

type PromotionsHandler struct {
	svc services.PromotionService
}

func NewPromotionsHandler(svc services.PromotionService) *PromotionsHandler {
	return &PromotionsHandler{svc: svc}
}

func dateOrNil(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// List godoc
// @Summary  List promotions
// @Tags     promotions
// @Produce  json
// @Param    activeOnly query bool false "only active promotions (default true)"
// @Success  200 {object} types.APIResponse{data=[]models.Promotion}
// @Router   /promotions [get]
func (h *PromotionsHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := boolQuery(r, "activeOnly", true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, items)
}

// Get godoc
// @Summary  Get a promotion with its products
// @Tags     promotions
// @Produce  json
// @Param    id path string true "promotion id"
// @Success  200 {object} types.APIResponse{data=models.Promotion}
// @Router   /promotions/{id} [get]
func (h *PromotionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de promoción inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

// Create godoc
// @Summary  Create a percentage promotion
// @Tags     promotions
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body types.CreatePromotionRequest true "promotion"
// @Success  201 {object} types.APIResponse{data=models.Promotion}
// @Failure  400 {object} types.ErrorResponse
// @Router   /promotions/create [post]
func (h *PromotionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreatePromotionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	productIDs, err := parseIDs(req.ProductIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), &services.CreatePromotionInput{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Value:       req.Valor,
		StartsAt:    req.FechaInicio.Time,
		EndsAt:      req.FechaFin.Time,
		Active:      req.Activo,
		ProductIDs:  productIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, p)
}

// Update godoc
// @Summary  Update a promotion
// @Tags     promotions
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "promotion id"
// @Param    body body types.UpdatePromotionRequest true "fields to change"
// @Success  200 {object} types.APIResponse{data=models.Promotion}
// @Router   /promotions/{id} [put]
func (h *PromotionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de promoción inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdatePromotionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), id, &services.UpdatePromotionInput{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Value:       req.Valor,
		StartsAt:    dateOrNil(req.FechaInicio),
		EndsAt:      dateOrNil(req.FechaFin),
		Active:      req.Activo,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

// Deactivate godoc
// @Summary  Deactivate a promotion
// @Tags     promotions
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "promotion id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Router   /promotions/{id} [delete]
func (h *PromotionsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de promoción inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Promoción desactivada", "Promoción no encontrada o ya inactiva"))
}

// Apply godoc
// @Summary  Replace the products a promotion applies to
// @Tags     promotions
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "promotion id"
// @Param    body body types.ApplyPromotionRequest true "product ids"
// @Success  200 {object} types.APIResponse{data=types.ApplyPromotionData}
// @Failure  400 {object} types.ErrorResponse
// @Router   /promotions/{id}/apply [post]
func (h *PromotionsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de promoción inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.ApplyPromotionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	productIDs, err := parseIDs(req.ProductIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.ApplyToProducts(r.Context(), id, productIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, types.ApplyPromotionData{
		Message:   fmt.Sprintf("Promoción aplicada a %d productos", res.Affected),
		Affected:  res.Affected,
		Promotion: res.Promotion,
	})
}
