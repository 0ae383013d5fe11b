package handlers

import (
	"net/http"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/services"
)

type CategoriesHandler struct {
	svc services.CategoryService
}

func NewCategoriesHandler(svc services.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// List godoc
// @Summary  List categories with their products
// @Tags     categories
// @Produce  json
// @Success  200 {object} types.APIResponse{data=[]models.Category}
// @Router   /categories [get]
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, items)
}

// Get godoc
// @Summary  Get a category
// @Tags     categories
// @Produce  json
// @Param    id path string true "category id"
// @Success  200 {object} types.APIResponse{data=models.Category}
// @Router   /categories/{id} [get]
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de categoría inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, c)
}

// Create godoc
// @Summary  Create a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body types.CreateCategoryRequest true "category"
// @Success  201 {object} types.APIResponse{data=models.Category}
// @Failure  409 {object} types.ErrorResponse
// @Router   /categories/create [post]
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCategoryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), &services.CreateCategoryInput{Name: req.Nombre})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, c)
}

// Update godoc
// @Summary  Rename or (de)activate a category
// @Tags     categories
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "category id"
// @Param    body body types.UpdateCategoryRequest true "fields to change"
// @Success  200 {object} types.APIResponse{data=models.Category}
// @Router   /categories/{id} [put]
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de categoría inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdateCategoryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), id, &services.UpdateCategoryInput{Name: req.Nombre, Active: req.Activa})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, c)
}

// Deactivate godoc
// @Summary  Deactivate a category
// @Tags     categories
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "category id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Router   /categories/{id} [delete]
func (h *CategoriesHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de categoría inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Categoría desactivada", "Categoría no encontrada o ya inactiva"))
}
