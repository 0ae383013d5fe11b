package handlers

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/services"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/gabriel-vasile/mimetype"
)

type ImagesHandler struct {
	svc services.ImageService
}

func NewImagesHandler(svc services.ImageService) *ImagesHandler {
	return &ImagesHandler{svc: svc}
}

// decodeImage accepts raw base64 or a data URI ("data:image/png;base64,...")
// and returns the bytes with their sniffed content type. Only images pass.
func decodeImage(encoded string) ([]byte, string, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		i := strings.Index(encoded, ",")
		if i < 0 {
			return nil, "", appErr.Invalid("Formato de imagen inválido")
		}
		encoded = encoded[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(encoded); err != nil {
			return nil, "", appErr.Wrap(err, appErr.CodeInvalid, "La imagen debe estar codificada en base64")
		}
	}
	if len(data) == 0 {
		return nil, "", appErr.Invalid("Imagen es requerida")
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", appErr.Invalid("El archivo no es una imagen").WithMeta("contentType", mt.String())
	}
	return data, mt.String(), nil
}

// Upload godoc
// @Summary  Upload a product image
// @Tags     images
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    productId path string true "product id"
// @Param    body      body types.UploadImageRequest true "base64 image"
// @Success  201 {object} types.APIResponse{data=models.Image}
// @Failure  404 {object} types.ErrorResponse
// @Failure  503 {object} types.ErrorResponse
// @Router   /images/products/{productId}/images [post]
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", "ID de producto inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UploadImageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	data, contentType, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.svc.Upload(r.Context(), productID, &services.UploadImageInput{
		Data:        data,
		ContentType: contentType,
		AltText:     req.AltText,
		Principal:   bool(req.Principal),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, img)
}

// ListByProduct godoc
// @Summary  List a product's images, principal first
// @Tags     images
// @Produce  json
// @Security BearerAuth
// @Param    productId path string true "product id"
// @Success  200 {object} types.APIResponse{data=[]models.Image}
// @Router   /images/products/{productId}/images [get]
func (h *ImagesHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", "ID de producto inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.ListByProduct(r.Context(), productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, items)
}

// Get godoc
// @Summary  Get an image with its product
// @Tags     images
// @Produce  json
// @Param    id path string true "image id"
// @Success  200 {object} types.APIResponse{data=models.Image}
// @Router   /images/{id} [get]
func (h *ImagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de imagen inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, img)
}

// Update godoc
// @Summary  Update image metadata or replace the picture
// @Tags     images
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "image id"
// @Param    body body types.UpdateImageRequest true "fields to change"
// @Success  200 {object} types.APIResponse{data=models.Image}
// @Router   /images/{id} [put]
func (h *ImagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de imagen inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdateImageRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := &services.UpdateImageInput{AltText: req.AltText}
	if req.Principal != nil {
		p := bool(*req.Principal)
		in.Principal = &p
	}
	if req.Image != nil {
		if in.Data, in.ContentType, err = decodeImage(*req.Image); err != nil {
			writeError(w, r, err)
			return
		}
	}
	img, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, img)
}

// SetMain godoc
// @Summary  Make an image the product's principal image
// @Tags     images
// @Produce  json
// @Security BearerAuth
// @Param    productId path string true "product id"
// @Param    id        path string true "image id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Router   /images/products/{productId}/images/{id}/main [patch]
func (h *ImagesHandler) SetMain(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId", "IDs inválidos")
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id", "IDs inválidos")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.svc.SetPrincipal(r.Context(), productID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Imagen principal actualizada", "No se pudo actualizar"))
}

// Delete godoc
// @Summary  Delete an image and its stored picture
// @Tags     images
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "image id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Failure  503 {object} types.ErrorResponse
// @Router   /images/{id} [delete]
func (h *ImagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de imagen inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Imagen eliminada", "Imagen no encontrada"))
}
