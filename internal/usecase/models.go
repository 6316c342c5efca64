package usecase

import (
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// INVENTORY USECASE

// AddProductReq — запрос на добавление товара в каталог.
type AddProductReq struct {
	Name          string
	SKU           string
	CategoryID    string
	SubcategoryID string
	Price         decimal.Decimal
	Stock         float64
	Unit          string
}

// ProductInfo — DTO с информацией о товаре для внешнего использования.
type ProductInfo struct {
	ID           string
	Name         string
	SKU          string
	CategoryID   string
	CategoryName string
	Price        decimal.Decimal
	Stock        float64
	Unit         domain.Unit
	StockStatus  domain.StockStatus
}

// InventoryOverview — сводка по складу.
type InventoryOverview struct {
	TotalProducts int
	LowStock      int
	OutOfStock    int
}

// AddCategoryReq — запрос на добавление категории.
type AddCategoryReq struct {
	Name        string
	Description string
}

// AddSubcategoryReq — запрос на добавление подкатегории.
// CategoryID — явная ссылка на родительскую категорию.
type AddSubcategoryReq struct {
	CategoryID  string
	Name        string
	Description string
}

// CategoryNode — категория со своими подкатегориями.
type CategoryNode struct {
	Category      domain.Category
	Subcategories []domain.Subcategory
}

// SALE USECASE

// AddCartItemReq — запрос на добавление позиции в рабочий список продажи.
type AddCartItemReq struct {
	ProductID   string
	Quantity    float64
	Unit        string
	CustomPrice *decimal.Decimal
}

// CartItemView — позиция рабочего списка для выдачи наружу.
type CartItemView struct {
	ProductID string
	Name      string
	Unit      domain.Unit
	Quantity  float64
	Price     decimal.Decimal
	Total     decimal.Decimal
}

// CartView — текущее содержимое рабочего списка с промежуточной суммой.
type CartView struct {
	Items []CartItemView
	Total decimal.Decimal
}

// SubmitSaleReq — данные формы завершения продажи.
type SubmitSaleReq struct {
	CustomerName  string
	CustomerPhone string
	Notes         string
	IsRecurring   bool
	IsOnline      bool
}

// SubmitSaleRes — результат успешной продажи.
type SubmitSaleRes struct {
	SaleID     string
	EventID    string
	TotalPrice decimal.Decimal
}

// REPORT USECASE

// MonthlySales — точка трендовой диаграммы за один месяц.
// Для каждой метки: Online + InStore == Total.
type MonthlySales struct {
	Month   string
	Online  decimal.Decimal
	InStore decimal.Decimal
	Total   decimal.Decimal
}

// ProductRank — строка рейтинга товаров по выручке.
type ProductRank struct {
	Rank     int
	Name     string
	Quantity float64
	Revenue  decimal.Decimal
}

// RecentSale — проекция продажи для списка последних продаж.
type RecentSale struct {
	ID       string
	Product  string
	Customer string
	Date     string
	Amount   decimal.Decimal
	Status   string
}

// SalesDashboard — агрегированная сводка продаж.
type SalesDashboard struct {
	TotalSales        decimal.Decimal
	AverageSale       decimal.Decimal
	OnlinePercentage  float64
	InStorePercentage float64
	Monthly           []MonthlySales
	TopProducts       []ProductRank
	RecentSales       []RecentSale
	GeneratedAt       time.Time
}

// ExportReportRes — результат выгрузки отчёта в объектное хранилище.
type ExportReportRes struct {
	ObjectKey string
	Size      int64
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	SaleCreated OutboxEventType = "sale.created"
)

// OutboxEvent — запись транзакционного outbox.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	SaleID      string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// SaleCreatedPayload — JSON-тело события sale.created.
type SaleCreatedPayload struct {
	SaleID         string          `json:"sale_id"`
	CustomerName   string          `json:"customer_name"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	IsOnline       bool            `json:"is_online"`
	ItemCount      int             `json:"item_count"`
	Date           time.Time       `json:"date"`
	EventEmittedAt int64           `json:"event_emitted_at"`
}

// INFRASTRUCTURE

// WriteRawMessageReq — запрос на отправку готового тела события в брокер.
type WriteRawMessageReq struct {
	SaleID  string
	Payload []byte
}

// MAPPERS

func NewWriteRawMessageReq(saleID string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		SaleID:  saleID,
		Payload: payload,
	}
}

func NewSubmitSaleRes(saleID, eventID string, total decimal.Decimal) *SubmitSaleRes {
	return &SubmitSaleRes{
		SaleID:     saleID,
		EventID:    eventID,
		TotalPrice: total,
	}
}

func NewExportReportRes(objectKey string, size int64) *ExportReportRes {
	return &ExportReportRes{
		ObjectKey: objectKey,
		Size:      size,
	}
}

func NewProductInfo(p *domain.Product, categoryName string) ProductInfo {
	return ProductInfo{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		Price:        p.Price,
		Stock:        p.Stock,
		Unit:         p.Unit,
		StockStatus:  p.StockStatus(),
	}
}
