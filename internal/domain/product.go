package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Порог, ниже которого остаток считается низким (совпадает со сводкой склада).
const lowStockThreshold = 30

// StockStatus — состояние остатка товара на складе.
type StockStatus string

const (
	StockStatusIn  StockStatus = "In Stock"
	StockStatusLow StockStatus = "Low Stock"
	StockStatusOut StockStatus = "Out of Stock"
)

// Product описывает товар каталога.
// Количество может быть дробным: ткани учитываются в единицах длины.
type Product struct {
	ID            string
	Name          string
	SKU           string
	CategoryID    string
	SubcategoryID string
	Price         decimal.Decimal
	Stock         float64
	Unit          Unit
	CreatedAt     time.Time
}

func NewProduct(name, sku, categoryID, subcategoryID string, price decimal.Decimal, stock float64, unit Unit) *Product {
	return &Product{
		Name:          name,
		SKU:           sku,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Price:         price,
		Stock:         stock,
		Unit:          unit,
	}
}

// StockStatus классифицирует остаток товара.
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.Stock <= 0:
		return StockStatusOut
	case p.Stock < lowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}
