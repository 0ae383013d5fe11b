package handlers

import (
	"net/http"

	"github.com/floreria/catalog/internal/api/middleware"
	"github.com/floreria/catalog/internal/api/types"
	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/services"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/google/uuid"
)

type UsersHandler struct {
	users services.UserService
	auth  services.AuthService
}

func NewUsersHandler(users services.UserService, auth services.AuthService) *UsersHandler {
	return &UsersHandler{users: users, auth: auth}
}

// selfOrAdmin resolves the {id} path parameter and checks that the caller
// is that user or an administrator.
func selfOrAdmin(r *http.Request) (uuid.UUID, bool, error) {
	id, err := pathID(r, "id", "ID de usuario inválido")
	if err != nil {
		return uuid.Nil, false, err
	}
	caller, ok := middleware.GetIdentity(r.Context())
	if !ok {
		return uuid.Nil, false, appErr.Unauthorized("Token inválido o información de usuario no disponible")
	}
	if caller.UserID != id && !caller.IsAdmin() {
		return uuid.Nil, false, appErr.Forbidden("Acceso denegado")
	}
	return id, caller.IsAdmin(), nil
}

// List godoc
// @Summary  List users
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} types.APIResponse{data=[]models.User}
// @Router   /users [get]
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, items)
}

// Register godoc
// @Summary  Register a customer account
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body body types.RegisterRequest true "account"
// @Success  201 {object} types.APIResponse{data=models.User}
// @Failure  409 {object} types.ErrorResponse
// @Router   /users/register [post]
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.auth.Register(r.Context(), &services.RegisterUserInput{
		Name:     req.Nombre,
		Surname:  req.Apellido,
		Phone:    req.Telefono,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, u)
}

// Login godoc
// @Summary  Exchange credentials for a bearer token
// @Tags     users
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "credentials"
// @Success  200 {object} types.APIResponse{data=services.LoginResult}
// @Failure  401 {object} types.ErrorResponse
// @Failure  404 {object} types.ErrorResponse
// @Router   /users/login [post]
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, res)
}

// Get godoc
// @Summary  Get a user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "user id"
// @Success  200 {object} types.APIResponse{data=models.User}
// @Router   /users/{id} [get]
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, _, err := selfOrAdmin(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	u, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, u)
}

// Update godoc
// @Summary  Update a user; rol and activo need an administrator
// @Tags     users
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "user id"
// @Param    body body types.UpdateUserRequest true "fields to change"
// @Success  200 {object} types.APIResponse{data=models.User}
// @Router   /users/{id} [put]
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, admin, err := selfOrAdmin(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.UpdateUserRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !admin && (req.Rol != nil || req.Activo != nil) {
		writeError(w, r, appErr.Forbidden("Solo un administrador puede cambiar el rol o el estado"))
		return
	}

	in := &services.UpdateUserInput{
		Name:     req.Nombre,
		Surname:  req.Apellido,
		Phone:    req.Telefono,
		Email:    req.Email,
		Password: req.Password,
		Active:   req.Activo,
	}
	if req.Rol != nil {
		role := models.Role(*req.Rol)
		in.Role = &role
	}
	u, err := h.users.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, u)
}

// Deactivate godoc
// @Summary  Deactivate a user
// @Tags     users
// @Produce  json
// @Security BearerAuth
// @Param    id path string true "user id"
// @Success  200 {object} types.APIResponse{data=types.MessageData}
// @Router   /users/{id} [delete]
func (h *UsersHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id", "ID de usuario inválido")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ok, err := h.users.Deactivate(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, outcome(ok, "Usuario desactivado", "Usuario no encontrado"))
}

// VerifyToken godoc
// @Summary  Return the user behind the bearer token
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} types.APIResponse{data=models.User}
// @Failure  401 {object} types.ErrorResponse
// @Router   /verifyToken [get]
func (h *UsersHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, r, appErr.Unauthorized("Token inválido o información de usuario no disponible"))
		return
	}
	u, err := h.auth.Current(r.Context(), caller.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, u)
}
