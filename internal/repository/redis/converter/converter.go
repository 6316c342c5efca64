package converter

import (
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
)

// DashboardConverter преобразует сводку продаж между usecase и кэш-моделью.
type DashboardConverter interface {
	ToRedisModel(entity *usecase.SalesDashboard) *DashboardRedisModel
	ToUseCase(model *DashboardRedisModel) *usecase.SalesDashboard
}

type DashboardConverterImpl struct{}

func (DashboardConverterImpl) ToRedisModel(entity *usecase.SalesDashboard) *DashboardRedisModel {
	model := &DashboardRedisModel{
		TotalSales:        entity.TotalSales,
		AverageSale:       entity.AverageSale,
		OnlinePercentage:  entity.OnlinePercentage,
		InStorePercentage: entity.InStorePercentage,
		Monthly:           make([]MonthlySalesModel, 0, len(entity.Monthly)),
		TopProducts:       make([]ProductRankModel, 0, len(entity.TopProducts)),
		RecentSales:       make([]RecentSaleRedisModel, 0, len(entity.RecentSales)),
		GeneratedAt:       entity.GeneratedAt,
	}

	for _, m := range entity.Monthly {
		model.Monthly = append(model.Monthly, MonthlySalesModel{
			Month:   m.Month,
			Online:  m.Online,
			InStore: m.InStore,
			Total:   m.Total,
		})
	}
	for _, p := range entity.TopProducts {
		model.TopProducts = append(model.TopProducts, ProductRankModel{
			Rank:     p.Rank,
			Name:     p.Name,
			Quantity: p.Quantity,
			Revenue:  p.Revenue,
		})
	}
	for _, r := range entity.RecentSales {
		model.RecentSales = append(model.RecentSales, RecentSaleRedisModel{
			ID:       r.ID,
			Product:  r.Product,
			Customer: r.Customer,
			Date:     r.Date,
			Amount:   r.Amount,
			Status:   r.Status,
		})
	}

	return model
}

func (DashboardConverterImpl) ToUseCase(model *DashboardRedisModel) *usecase.SalesDashboard {
	entity := &usecase.SalesDashboard{
		TotalSales:        model.TotalSales,
		AverageSale:       model.AverageSale,
		OnlinePercentage:  model.OnlinePercentage,
		InStorePercentage: model.InStorePercentage,
		Monthly:           make([]usecase.MonthlySales, 0, len(model.Monthly)),
		TopProducts:       make([]usecase.ProductRank, 0, len(model.TopProducts)),
		RecentSales:       make([]usecase.RecentSale, 0, len(model.RecentSales)),
		GeneratedAt:       model.GeneratedAt,
	}

	for _, m := range model.Monthly {
		entity.Monthly = append(entity.Monthly, usecase.MonthlySales{
			Month:   m.Month,
			Online:  m.Online,
			InStore: m.InStore,
			Total:   m.Total,
		})
	}
	for _, p := range model.TopProducts {
		entity.TopProducts = append(entity.TopProducts, usecase.ProductRank{
			Rank:     p.Rank,
			Name:     p.Name,
			Quantity: p.Quantity,
			Revenue:  p.Revenue,
		})
	}
	for _, r := range model.RecentSales {
		entity.RecentSales = append(entity.RecentSales, usecase.RecentSale{
			ID:       r.ID,
			Product:  r.Product,
			Customer: r.Customer,
			Date:     r.Date,
			Amount:   r.Amount,
			Status:   r.Status,
		})
	}

	return entity
}
