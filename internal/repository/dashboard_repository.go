package repository

import (
	"context"
	"time"

	"github.com/floreria/catalog/internal/models"
	appErr "github.com/floreria/catalog/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardSummary is the aggregate read model behind the admin dashboard.
type DashboardSummary struct {
	TotalProducts        int64
	TotalUsers           int64
	TotalCategories      int64
	TotalPromotions      int64
	NewProductsThisMonth int64
	ActivePromotions     int64
	TopCategory          *NamedCount
	MostExpensiveProduct *NamedAmount
	BiggestPromotion     *NamedAmount
}

type NamedCount struct {
	Name  string
	Count int64
}

type NamedAmount struct {
	Name   string
	Amount decimal.Decimal
}

type DashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*DashboardSummary, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// MonthBounds returns the first instant of now's calendar month and of the next one.
func MonthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}

func (r *dashboardRepository) Summary(ctx context.Context, now time.Time) (*DashboardSummary, error) {
	db := r.db.WithContext(ctx)
	var s DashboardSummary

	counts := []struct {
		model  any
		column string
		dest   *int64
	}{
		{&models.Product{}, "activo", &s.TotalProducts},
		{&models.User{}, "activo", &s.TotalUsers},
		{&models.Category{}, "activa", &s.TotalCategories},
		{&models.Promotion{}, "activo", &s.TotalPromotions},
	}
	for _, c := range counts {
		if err := db.Model(c.model).Where(c.column+" = ?", true).Count(c.dest).Error; err != nil {
			return nil, appErr.Wrap(err, appErr.CodeInternal, "count active rows failed")
		}
	}

	monthStart, nextMonth := MonthBounds(now)
	if err := db.Model(&models.Product{}).
		Where("fecha_creacion >= ? AND fecha_creacion < ?", monthStart, nextMonth).
		Count(&s.NewProductsThisMonth).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "count new products failed")
	}

	if err := db.Model(&models.Promotion{}).
		Where("activo = ? AND fecha_inicio <= ? AND fecha_fin >= ?", true, now, now).
		Count(&s.ActivePromotions).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "count running promotions failed")
	}

	var top []struct {
		Name  string
		Total int64
	}
	if err := db.Table("categories AS c").
		Select("c.nombre AS name, COUNT(p.id) AS total").
		Joins("JOIN product_categories pc ON pc.category_id = c.id").
		Joins("JOIN products p ON p.id = pc.product_id AND p.activo = ?", true).
		Group("c.id, c.nombre").
		Order("total DESC, c.nombre ASC").
		Limit(1).
		Scan(&top).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "top category query failed")
	}
	if len(top) == 1 {
		s.TopCategory = &NamedCount{Name: top[0].Name, Count: top[0].Total}
	}

	var product []models.Product
	if err := db.Select("nombre", "precio").
		Where("activo = ?", true).
		Order("precio DESC, nombre ASC").
		Limit(1).
		Find(&product).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "most expensive product query failed")
	}
	if len(product) == 1 {
		s.MostExpensiveProduct = &NamedAmount{Name: product[0].Name, Amount: product[0].Price}
	}

	var promo []models.Promotion
	if err := db.Select("nombre", "valor").
		Where("activo = ?", true).
		Order("valor DESC, nombre ASC").
		Limit(1).
		Find(&promo).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "biggest promotion query failed")
	}
	if len(promo) == 1 {
		s.BiggestPromotion = &NamedAmount{Name: promo[0].Name, Amount: promo[0].Value}
	}

	return &s, nil
}
