package handlers

import (
	"net/http"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/services"
	"github.com/google/uuid"
)

type ProductsHandler struct {
	svc services.ProductService
}

func NewProductsHandler(svc services.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    activeOnly query bool false "only active products"
// @Success  200 {object} types.APIResponse{data=[]models.Product}
// @Router   /products [get]
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := boolQuery(r, "activeOnly", false)
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
// @Summary  Get a product with its categories, promotions and images
// @Tags     products
// @Produce  json
// @Param    id path string true "product id"
// @Success  200 {object} types.APIResponse{data=models.Product}
// @Failure  404 {object} types.ErrorResponse
// @Router   /products/{id} [get]
func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de producto inválido")
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
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body types.CreateProductRequest true "product"
// @Success  201 {object} types.APIResponse{data=models.Product}
// @Failure  400 {object} types.ErrorResponse
// @Router   /products/create [post]
func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := &services.CreateProductInput{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Price:       req.Precio,
	}
	var err error
	if in.CategoryIDs, err = parseIDs(req.CategoryIDs); err != nil {
		writeError(w, r, err)
		return
	}
	if in.PromotionIDs, err = parseIDs(req.PromotionIDs); err != nil {
		writeError(w, r, err)
		return
	}
	if req.UserID != nil {
		uid := uuid.MustParse(*req.UserID)
		in.UserID = &uid
	}

	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, p)
}

// Update godoc
// @Summary  Update a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "product id"
// @Param    body body types.UpdateProductRequest true "fields to change"
// @Success  200 {object} types.APIResponse{data=models.Product}
// @Router   /products/{id} [put]
func (h *ProductsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de producto inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdateProductRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := &services.UpdateProductInput{
		Name:        req.Nombre,
		Description: req.Descripcion,
		Price:       req.Precio,
		Active:      req.Activo,
	}
	if req.CategoryIDs != nil {
		ids, err := parseIDs(*req.CategoryIDs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.CategoryIDs = &ids
	}
	if req.PromotionIDs != nil {
		ids, err := parseIDs(*req.PromotionIDs)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.PromotionIDs = &ids
	}

	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

// Deactivate godoc
// @Summary  Deactivate a product
// @Tags     products
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "product id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Router   /products/{id} [delete]
func (h *ProductsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de producto inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Producto desactivado", "Producto no encontrado"))
}
