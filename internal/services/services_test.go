package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/floreria/catalog/internal/models"
	"github.com/floreria/catalog/internal/repository"
	"github.com/floreria/catalog/internal/storage"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/floreria/catalog/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("info", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	code := m.Run()
	stopPostgres()
	os.Exit(code)
}

type mockDashboardRepo struct {
	mock.Mock
}

func (m *mockDashboardRepo) Summary(ctx context.Context, now time.Time) (*repository.DashboardSummary, error) {
	args := m.Called(ctx, now)
	if v := args.Get(0); v != nil {
		return v.(*repository.DashboardSummary), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, data []byte, contentType string) (*storage.Object, error) {
	args := m.Called(ctx, data, contentType)
	if v := args.Get(0); v != nil {
		return v.(*storage.Object), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Remove(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func ptr[T any](v T) *T { return &v }

func requireCode(t *testing.T, err error, code appErr.Code) {
	t.Helper()
	require.Error(t, err)
	ae, ok := appErr.As(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, code, ae.Code)
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, b, a, a, b}))
	assert.Empty(t, uniqueIDs(nil))
}

func TestNotFoundMessage(t *testing.T) {
	err := notFound(appErr.New(appErr.CodeNotFound, "product not found"), "Producto no encontrado")
	requireCode(t, err, appErr.CodeNotFound)
	ae, _ := appErr.As(err)
	assert.Equal(t, "Producto no encontrado", ae.Message)

	internal := appErr.New(appErr.CodeInternal, "get product failed")
	assert.Same(t, internal, notFound(internal, "Producto no encontrado"))
	assert.NoError(t, notFound(nil, "Producto no encontrado"))
}

func TestCategoryValidation(t *testing.T) {
	svc := NewCategoryService(nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateCategoryInput{Name: "   "})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateCategoryInput{})
	requireCode(t, err, appErr.CodeInvalid)

	name, err := normalizeCategoryName("  rOSAS ")
	require.NoError(t, err)
	assert.Equal(t, "Rosas", name)
}

func TestProductValidation(t *testing.T) {
	svc := NewProductService(nil, nil, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, &CreateProductInput{Name: "Ramo", Price: decimal.Zero})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Create(ctx, &CreateProductInput{Name: "Ramo", Price: decimal.NewFromInt(-3)})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Create(ctx, &CreateProductInput{Name: " ", Price: decimal.NewFromInt(10)})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateProductInput{})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateProductInput{Price: ptr(decimal.Zero)})
	requireCode(t, err, appErr.CodeInvalid)
}

func TestPromotionValidation(t *testing.T) {
	svc := NewPromotionService(nil, nil, nil)
	ctx := context.Background()
	may := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	june := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, v := range []int64{0, 150, -1} {
		_, err := svc.Create(ctx, &CreatePromotionInput{Name: "Promo", Value: decimal.NewFromInt(v), StartsAt: may, EndsAt: june})
		requireCode(t, err, appErr.CodeInvalid)
	}

	_, err := svc.Create(ctx, &CreatePromotionInput{Name: "Promo", Value: decimal.NewFromInt(10), StartsAt: june, EndsAt: may})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Create(ctx, &CreatePromotionInput{Name: "", Value: decimal.NewFromInt(10), StartsAt: may, EndsAt: june})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdatePromotionInput{Value: ptr(decimal.NewFromInt(101))})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdatePromotionInput{})
	requireCode(t, err, appErr.CodeInvalid)
}

func TestAuthValidation(t *testing.T) {
	svc := NewAuthService(nil, nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterUserInput{Name: "A", Surname: "Pérez", Email: "a@b.pe", Password: "secreto"})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Register(ctx, &RegisterUserInput{Name: "Ana", Surname: "Pérez", Email: "a@b.pe", Password: "123"})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Login(ctx, "  ", "x")
	requireCode(t, err, appErr.CodeInvalid)
}

func TestUserUpdateValidation(t *testing.T) {
	svc := NewUserService(nil, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), &UpdateUserInput{})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateUserInput{Role: ptr(models.Role("ROOT"))})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateUserInput{Password: ptr("abc")})
	requireCode(t, err, appErr.CodeInvalid)
}

func TestImageValidation(t *testing.T) {
	store := new(mockStore)
	svc := NewImageService(nil, nil, nil, store)
	ctx := context.Background()

	_, err := svc.Upload(ctx, uuid.New(), &UploadImageInput{})
	requireCode(t, err, appErr.CodeInvalid)

	_, err = svc.Update(ctx, uuid.New(), &UpdateImageInput{})
	requireCode(t, err, appErr.CodeInvalid)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestDashboardSummary(t *testing.T) {
	repo := new(mockDashboardRepo)
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	repo.On("Summary", mock.Anything, now).Return(&repository.DashboardSummary{
		TotalProducts:        12,
		TotalUsers:           4,
		TotalCategories:      3,
		TotalPromotions:      2,
		NewProductsThisMonth: 5,
		ActivePromotions:     1,
		TopCategory:          &repository.NamedCount{Name: "Rosas", Count: 7},
		MostExpensiveProduct: &repository.NamedAmount{Name: "Ramo premium", Amount: decimal.RequireFromString("199.90")},
		BiggestPromotion:     &repository.NamedAmount{Name: "Verano", Amount: decimal.NewFromInt(25)},
	}, nil)

	svc := &dashboardService{repo: repo, now: func() time.Time { return now }}
	d, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 12, d.TotalProducts)
	assert.EqualValues(t, 5, d.NewProductsThisMonth)
	require.NotNil(t, d.TopCategory)
	assert.Equal(t, "Rosas", *d.TopCategory)
	require.NotNil(t, d.MostExpensiveProduct)
	assert.True(t, decimal.RequireFromString("199.90").Equal(d.MostExpensiveProduct.Price))
	require.NotNil(t, d.BiggestPromotion)
	assert.Equal(t, "25.00%", d.BiggestPromotion.Discount)
	repo.AssertExpectations(t)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	repo := new(mockDashboardRepo)
	repo.On("Summary", mock.Anything, mock.Anything).Return(&repository.DashboardSummary{}, nil)

	d, err := NewDashboardService(repo).Summary(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.TopCategory)
	assert.Nil(t, d.MostExpensiveProduct)
	assert.Nil(t, d.BiggestPromotion)
}

func TestDashboardSummaryError(t *testing.T) {
	repo := new(mockDashboardRepo)
	repo.On("Summary", mock.Anything, mock.Anything).Return(nil, appErr.New(appErr.CodeInternal, "boom"))

	_, err := NewDashboardService(repo).Summary(context.Background())
	requireCode(t, err, appErr.CodeInternal)
}
