package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardRedisModel — JSON-представление сводки продаж в кэше.
type DashboardRedisModel struct {
	TotalSales        decimal.Decimal        `json:"total_sales"`
	AverageSale       decimal.Decimal        `json:"average_sale"`
	OnlinePercentage  float64                `json:"online_percentage"`
	InStorePercentage float64                `json:"in_store_percentage"`
	Monthly           []MonthlySalesModel    `json:"monthly"`
	TopProducts       []ProductRankModel     `json:"top_products"`
	RecentSales       []RecentSaleRedisModel `json:"recent_sales"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

type MonthlySalesModel struct {
	Month   string          `json:"month"`
	Online  decimal.Decimal `json:"online"`
	InStore decimal.Decimal `json:"in_store"`
	Total   decimal.Decimal `json:"total"`
}

type ProductRankModel struct {
	Rank     int             `json:"rank"`
	Name     string          `json:"name"`
	Quantity float64         `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type RecentSaleRedisModel struct {
	ID       string          `json:"id"`
	Product  string          `json:"product"`
	Customer string          `json:"customer"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}
