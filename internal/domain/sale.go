package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSaleStatus подставляется, когда статус продажи не заполнен.
const DefaultSaleStatus = "Completed"

// SaleItem — снимок товара на момент продажи.
// Намеренно не ссылается на живую запись каталога: последующие изменения
// цены не должны переписывать историю продаж.
type SaleItem struct {
	ProductID   string
	Name        string
	Unit        Unit
	Quantity    float64
	Price       decimal.Decimal
	CustomPrice *decimal.Decimal
}

// EffectivePrice возвращает переопределённую цену позиции, если она задана,
// иначе цену товара из снимка.
func (i *SaleItem) EffectivePrice() decimal.Decimal {
	if i.CustomPrice != nil {
		return *i.CustomPrice
	}
	return i.Price
}

// Total — стоимость позиции: действующая цена × количество.
func (i *SaleItem) Total() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromFloat(i.Quantity))
}

// Sale описывает завершённую продажу.
type Sale struct {
	ID            string
	Items         []SaleItem
	CustomerName  string
	CustomerPhone string
	Notes         string
	IsRecurring   bool
	TotalPrice    decimal.Decimal
	Date          time.Time
	IsOnline      bool
	Status        string
}

// ItemsTotal пересчитывает сумму продажи по позициям.
func (s *Sale) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Items {
		total = total.Add(s.Items[i].Total())
	}
	return total
}

// StatusOrDefault возвращает статус продажи либо значение по умолчанию.
func (s *Sale) StatusOrDefault() string {
	if s.Status == "" {
		return DefaultSaleStatus
	}
	return s.Status
}
