package services

import (
	"context"
	"time"

	"github.com/floreria/catalog/internal/repository"
	"github.com/shopspring/decimal"
)

type DashboardService interface {
	Summary(ctx context.Context) (*Dashboard, error)
}

// Dashboard is the admin overview payload.
type Dashboard struct {
	TotalProducts        int64               `json:"totalProducts"`
	TotalUsers           int64               `json:"totalUsers"`
	TotalCategories      int64               `json:"totalCategories"`
	TotalPromotions      int64               `json:"totalPromotions"`
	NewProductsThisMonth int64               `json:"newProductsThisMonth"`
	ActivePromotions     int64               `json:"activePromotions"`
	TopCategory          *string             `json:"topCategory"`
	MostExpensiveProduct *DashboardProduct   `json:"mostExpensiveProduct"`
	BiggestPromotion     *DashboardPromotion `json:"biggestPromotion"`
}

type DashboardProduct struct {
	Name  string          `json:"nombre"`
	Price decimal.Decimal `json:"precio"`
}

type DashboardPromotion struct {
	Name     string `json:"nombre"`
	Discount string `json:"descuento"`
}

type dashboardService struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo, now: time.Now}
}

var _ DashboardService = (*dashboardService)(nil)

func (s *dashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	sum, err := s.repo.Summary(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return newDashboard(sum), nil
}

func newDashboard(sum *repository.DashboardSummary) *Dashboard {
	d := &Dashboard{
		TotalProducts:        sum.TotalProducts,
		TotalUsers:           sum.TotalUsers,
		TotalCategories:      sum.TotalCategories,
		TotalPromotions:      sum.TotalPromotions,
		NewProductsThisMonth: sum.NewProductsThisMonth,
		ActivePromotions:     sum.ActivePromotions,
	}
	if sum.TopCategory != nil {
		name := sum.TopCategory.Name
		d.TopCategory = &name
	}
	if p := sum.MostExpensiveProduct; p != nil {
		d.MostExpensiveProduct = &DashboardProduct{Name: p.Name, Price: p.Amount}
	}
	if p := sum.BiggestPromotion; p != nil {
		d.BiggestPromotion = &DashboardPromotion{Name: p.Name, Discount: p.Amount.StringFixed(2) + "%"}
	}
	return d
}
