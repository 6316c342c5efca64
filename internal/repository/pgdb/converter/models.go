package converter

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	SKU           string          `db:"sku"`
	CategoryID    string          `db:"category_id"`
	SubcategoryID *string         `db:"subcategory_id"`
	Price         decimal.Decimal `db:"price"`
	Stock         float64         `db:"stock"`
	Unit          string          `db:"unit"`
	CreatedAt     time.Time       `db:"created_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// SubcategoryModel представляет запись таблицы subcategories в PostgreSQL.
type SubcategoryModel struct {
	ID          string    `db:"id"`
	CategoryID  string    `db:"category_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// SaleModel представляет запись таблицы sales в PostgreSQL.
// Позиции хранятся снимком в JSONB-колонке items.
type SaleModel struct {
	ID            string          `db:"id"`
	Items         []byte          `db:"items"`
	CustomerName  string          `db:"customer_name"`
	CustomerPhone string          `db:"customer_phone"`
	Notes         string          `db:"notes"`
	IsRecurring   bool            `db:"is_recurring"`
	TotalPrice    decimal.Decimal `db:"total_price"`
	Date          time.Time       `db:"date"`
	IsOnline      bool            `db:"is_online"`
	Status        string          `db:"status"`
}

// saleItemModel — JSON-представление позиции внутри колонки items.
type saleItemModel struct {
	ProductID   string           `json:"product_id"`
	Name        string           `json:"name"`
	Unit        string           `json:"unit"`
	Quantity    float64          `json:"quantity"`
	Price       decimal.Decimal  `json:"price"`
	CustomPrice *decimal.Decimal `json:"custom_price,omitempty"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	SaleID      string     `db:"sale_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
