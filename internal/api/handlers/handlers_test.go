package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/floreria/catalog/internal/api/middleware"
	"github.com/floreria/catalog/internal/auth"
	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/services"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Details map[string]any  `json:"details"`
}

// serve routes a single request through a chi router so path parameters
// resolve the way they do in production.
func serve(t *testing.T, method, pattern, target, body string, h http.HandlerFunc, id *auth.Identity) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if id != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *id))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func adminID() *auth.Identity { return &auth.Identity{UserID: uuid.New(), Role: models.RoleAdmin} }

func TestProductsList(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)
	svc.On("List", mock.Anything, false).Return([]models.Product{{Name: "Ramo"}}, nil).Once()
	svc.On("List", mock.Anything, true).Return([]models.Product{}, nil).Once()

	rr, env := serve(t, http.MethodGet, "/products", "/products", "", h.List, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"nombre":"Ramo"`)

	rr, _ = serve(t, http.MethodGet, "/products", "/products?activeOnly=true", "", h.List, nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env = serve(t, http.MethodGet, "/products", "/products?activeOnly=maybe", "", h.List, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid", env.Code)
	svc.AssertExpectations(t)
}

func TestProductsGetInvalidID(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)

	rr, env := serve(t, http.MethodGet, "/products/{id}", "/products/not-a-uuid", "", h.Get, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "ID de producto inválido", env.Message)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestProductsCreate(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)
	cat := uuid.New()

	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *services.CreateProductInput) bool {
		return in.Name == "Ramo" &&
			in.Price.Equal(decimal.RequireFromString("49.90")) &&
			len(in.CategoryIDs) == 1 && in.CategoryIDs[0] == cat &&
			in.UserID == nil
	})).Return(&models.Product{ID: uuid.New(), Name: "Ramo"}, nil)

	body := `{"nombre":"Ramo","precio":49.90,"categoryIds":["` + cat.String() + `"]}`
	rr, env := serve(t, http.MethodPost, "/products/create", "/products/create", body, h.Create, adminID())
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestProductsCreateRejectsBadInput(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)

	for name, body := range map[string]string{
		"bad json":     `{"nombre":`,
		"blank name":   `{"nombre":"  ","precio":10}`,
		"bad category": `{"nombre":"Ramo","precio":10,"categoryIds":["x"]}`,
		"empty":        ``,
	} {
		t.Run(name, func(t *testing.T) {
			rr, env := serve(t, http.MethodPost, "/products/create", "/products/create", body, h.Create, adminID())
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, "invalid", env.Code)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductsUpdateCategories(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)
	id := uuid.New()

	svc.On("Update", mock.Anything, id, mock.MatchedBy(func(in *services.UpdateProductInput) bool {
		return in.CategoryIDs != nil && len(*in.CategoryIDs) == 0 && in.PromotionIDs == nil && in.Name == nil
	})).Return(&models.Product{ID: id}, nil)

	rr, _ := serve(t, http.MethodPut, "/products/{id}", "/products/"+id.String(), `{"categoryIds":[]}`, h.Update, adminID())
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestProductsDeactivate(t *testing.T) {
	svc := new(mockProductService)
	h := NewProductsHandler(svc)
	id := uuid.New()
	svc.On("Deactivate", mock.Anything, id).Return(false, nil)

	rr, env := serve(t, http.MethodDelete, "/products/{id}", "/products/"+id.String(), "", h.Deactivate, adminID())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Producto no encontrado"}`, string(env.Data))
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	svc := new(mockCategoryService)
	h := NewCategoriesHandler(svc)
	svc.On("List", mock.Anything).Return(nil, errors.New("pq: password authentication failed"))

	rr, env := serve(t, http.MethodGet, "/categories", "/categories", "", h.List, nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal", env.Code)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestCategoriesCreateConflict(t *testing.T) {
	svc := new(mockCategoryService)
	h := NewCategoriesHandler(svc)
	svc.On("Create", mock.Anything, &services.CreateCategoryInput{Name: "rosas"}).
		Return(nil, appErr.Conflict("La categoría ya existe"))

	rr, env := serve(t, http.MethodPost, "/categories/create", "/categories/create", `{"nombre":"rosas"}`, h.Create, adminID())
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "conflict", env.Code)
}

func TestPromotionsListDefaultsToActive(t *testing.T) {
	svc := new(mockPromotionService)
	h := NewPromotionsHandler(svc)
	svc.On("List", mock.Anything, true).Return([]models.Promotion{}, nil).Once()
	svc.On("List", mock.Anything, false).Return([]models.Promotion{}, nil).Once()

	rr, _ := serve(t, http.MethodGet, "/promotions", "/promotions", "", h.List, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = serve(t, http.MethodGet, "/promotions", "/promotions?activeOnly=false", "", h.List, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	svc.AssertExpectations(t)
}

func TestPromotionsCreateParsesDates(t *testing.T) {
	svc := new(mockPromotionService)
	h := NewPromotionsHandler(svc)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *services.CreatePromotionInput) bool {
		return in.StartsAt.Format("2006-01-02") == "2025-05-01" &&
			in.EndsAt.Format("2006-01-02") == "2025-06-01" &&
			in.Value.Equal(decimal.NewFromInt(20))
	})).Return(&models.Promotion{ID: uuid.New()}, nil)

	body := `{"nombre":"Verano","valor":"20","fecha_inicio":"2025-05-01","fecha_fin":"2025-06-01"}`
	rr, _ := serve(t, http.MethodPost, "/promotions/create", "/promotions/create", body, h.Create, adminID())
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)

	rr, env := serve(t, http.MethodPost, "/promotions/create", "/promotions/create", `{"nombre":"Verano","valor":20}`, h.Create, adminID())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "required", env.Details["fecha_inicio"])
}

func TestPromotionsApplyMissingProduct(t *testing.T) {
	svc := new(mockPromotionService)
	h := NewPromotionsHandler(svc)
	id, p1, p2 := uuid.New(), uuid.New(), uuid.New()

	svc.On("ApplyToProducts", mock.Anything, id, []uuid.UUID{p1, p2}).
		Return(nil, appErr.Invalid("Los siguientes productos no existen: "+p2.String()).WithMeta("missingIds", []string{p2.String()}))

	body := `{"productIds":["` + p1.String() + `","` + p2.String() + `"]}`
	rr, env := serve(t, http.MethodPost, "/promotions/{id}/apply", "/promotions/"+id.String()+"/apply", body, h.Apply, adminID())
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, []any{p2.String()}, env.Details["missingIds"])
	svc.AssertExpectations(t)
}

func TestPromotionsApply(t *testing.T) {
	svc := new(mockPromotionService)
	h := NewPromotionsHandler(svc)
	id, p1, p2 := uuid.New(), uuid.New(), uuid.New()

	svc.On("ApplyToProducts", mock.Anything, id, []uuid.UUID{p1, p2}).Return(&services.ApplyResult{
		Affected:  2,
		Promotion: services.PromotionSummary{ID: id, Name: "Verano", Value: decimal.NewFromInt(10)},
	}, nil)

	body := `{"productIds":["` + p1.String() + `","` + p2.String() + `"]}`
	rr, env := serve(t, http.MethodPost, "/promotions/{id}/apply", "/promotions/"+id.String()+"/apply", body, h.Apply, adminID())
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Message   string `json:"message"`
		Affected  int    `json:"affected"`
		Promotion struct {
			Name string `json:"nombre"`
		} `json:"promotion"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Promoción aplicada a 2 productos", data.Message)
	assert.Equal(t, 2, data.Affected)
	assert.Equal(t, "Verano", data.Promotion.Name)
	svc.AssertExpectations(t)
}

func TestPromotionsCreatePassesActivo(t *testing.T) {
	svc := new(mockPromotionService)
	h := NewPromotionsHandler(svc)
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *services.CreatePromotionInput) bool {
		return in.Active != nil && !*in.Active
	})).Return(&models.Promotion{ID: uuid.New()}, nil).Once()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(in *services.CreatePromotionInput) bool {
		return in.Active == nil
	})).Return(&models.Promotion{ID: uuid.New()}, nil).Once()

	body := `{"nombre":"Otoño","valor":"15","fecha_inicio":"2025-09-01","fecha_fin":"2025-10-01","activo":false}`
	rr, _ := serve(t, http.MethodPost, "/promotions/create", "/promotions/create", body, h.Create, adminID())
	assert.Equal(t, http.StatusCreated, rr.Code)

	body = `{"nombre":"Otoño","valor":"15","fecha_inicio":"2025-09-01","fecha_fin":"2025-10-01"}`
	rr, _ = serve(t, http.MethodPost, "/promotions/create", "/promotions/create", body, h.Create, adminID())
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestUsersLoginWrongPassword(t *testing.T) {
	auths := new(mockAuthService)
	h := NewUsersHandler(new(mockUserService), auths)
	auths.On("Login", mock.Anything, "ana@floreria.pe", "wrong").Return(nil, appErr.Unauthorized("Contraseña incorrecta"))

	rr, env := serve(t, http.MethodPost, "/users/login", "/users/login", `{"email":"ana@floreria.pe","password":"wrong"}`, h.Login, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotContains(t, rr.Body.String(), "token")
	assert.Equal(t, "unauthorized", env.Code)
}

func TestUsersRegisterValidatesPhone(t *testing.T) {
	auths := new(mockAuthService)
	h := NewUsersHandler(new(mockUserService), auths)

	body := `{"nombre":"Ana","apellido":"Pérez","telefono":"12345","email":"ana@floreria.pe","password":"secreto"}`
	rr, env := serve(t, http.MethodPost, "/users/register", "/users/register", body, h.Register, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "pe_mobile", env.Details["telefono"])
	auths.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestUsersSelfOrAdmin(t *testing.T) {
	users := new(mockUserService)
	h := NewUsersHandler(users, new(mockAuthService))
	self := &auth.Identity{UserID: uuid.New(), Role: models.RoleUser}
	other := uuid.New()

	rr, env := serve(t, http.MethodGet, "/users/{id}", "/users/"+other.String(), "", h.Get, self)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "forbidden", env.Code)

	users.On("Get", mock.Anything, self.UserID).Return(&models.User{ID: self.UserID}, nil)
	rr, _ = serve(t, http.MethodGet, "/users/{id}", "/users/"+self.UserID.String(), "", h.Get, self)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, _ = serve(t, http.MethodPut, "/users/{id}", "/users/"+self.UserID.String(), `{"rol":"ADMIN"}`, h.Update, self)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)

	admin := adminID()
	role := models.RoleAdmin
	users.On("Update", mock.Anything, other, &services.UpdateUserInput{Role: &role}).Return(&models.User{ID: other, Role: role}, nil)
	rr, _ = serve(t, http.MethodPut, "/users/{id}", "/users/"+other.String(), `{"rol":"ADMIN"}`, h.Update, admin)
	assert.Equal(t, http.StatusOK, rr.Code)
	users.AssertExpectations(t)
}

func TestVerifyToken(t *testing.T) {
	auths := new(mockAuthService)
	h := NewUsersHandler(new(mockUserService), auths)
	id := &auth.Identity{UserID: uuid.New(), Role: models.RoleUser}
	auths.On("Current", mock.Anything, id.UserID).Return(&models.User{ID: id.UserID, Email: "ana@floreria.pe"}, nil)

	rr, env := serve(t, http.MethodGet, "/verifyToken", "/verifyToken", "", h.VerifyToken, id)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, string(env.Data), "ana@floreria.pe")
	assert.NotContains(t, string(env.Data), "password")

	rr, _ = serve(t, http.MethodGet, "/verifyToken", "/verifyToken", "", h.VerifyToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestDecodeImage(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString(pngHeader)

	data, ct, err := decodeImage("data:image/png;base64," + raw)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, pngHeader, data)

	_, ct, err = decodeImage(raw)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)

	_, _, err = decodeImage(base64.StdEncoding.EncodeToString([]byte("hello, plain text")))
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))

	_, _, err = decodeImage("%%%")
	assert.True(t, appErr.IsCode(err, appErr.CodeInvalid))
}

func TestImagesUpload(t *testing.T) {
	svc := new(mockImageService)
	h := NewImagesHandler(svc)
	productID := uuid.New()
	svc.On("Upload", mock.Anything, productID, mock.MatchedBy(func(in *services.UploadImageInput) bool {
		return in.ContentType == "image/png" && in.Principal && in.AltText == nil
	})).Return(&models.Image{ID: uuid.New(), ProductID: productID, Principal: true}, nil)

	body := `{"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(pngHeader) + `","principal":"true"}`
	rr, _ := serve(t, http.MethodPost, "/images/products/{productId}/images", "/images/products/"+productID.String()+"/images", body, h.Upload, adminID())
	assert.Equal(t, http.StatusCreated, rr.Code)
	svc.AssertExpectations(t)
}

func TestImagesSetMainAndDeleteUnavailable(t *testing.T) {
	svc := new(mockImageService)
	h := NewImagesHandler(svc)
	productID, imageID := uuid.New(), uuid.New()
	svc.On("SetPrincipal", mock.Anything, productID, imageID).Return(false, nil)
	svc.On("Delete", mock.Anything, imageID).Return(false, appErr.New(appErr.CodeUnavailable, "image storage unavailable"))

	target := "/images/products/" + productID.String() + "/images/" + imageID.String() + "/main"
	rr, env := serve(t, http.MethodPatch, "/images/products/{productId}/images/{id}/main", target, "", h.SetMain, adminID())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"No se pudo actualizar"}`, string(env.Data))

	rr, env = serve(t, http.MethodDelete, "/images/{id}", "/images/"+imageID.String(), "", h.Delete, adminID())
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unavailable", env.Code)
}

func TestAdminDashboard(t *testing.T) {
	svc := new(mockDashboardService)
	h := NewAdminHandler(svc)
	top := "Rosas"
	svc.On("Summary", mock.Anything).Return(&services.Dashboard{
		TotalProducts:    3,
		TopCategory:      &top,
		BiggestPromotion: &services.DashboardPromotion{Name: "Verano", Discount: "25.00%"},
	}, nil)

	rr, env := serve(t, http.MethodGet, "/admin", "/admin", "", h.Dashboard, adminID())
	assert.Equal(t, http.StatusOK, rr.Code)
	var d map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &d))
	assert.EqualValues(t, 3, d["totalProducts"])
	assert.Equal(t, "Rosas", d["topCategory"])
	assert.Nil(t, d["mostExpensiveProduct"])
}
