package usecase

import (
	"sort"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	topProductsLimit = 4
	recentSalesLimit = 3
)

// BuildDashboard — чистое преобразование списка продаж в сводку.
// Без побочных эффектов и ввода-вывода; пересчитывается на каждом
// изменении входа. Вторым значением возвращает идентификаторы продаж,
// у которых сохранённая сумма разошлась с пересчётом по позициям, —
// вызывающая сторона обязана их залогировать.
func BuildDashboard(sales []domain.Sale) (*SalesDashboard, []string) {
	dashboard := &SalesDashboard{
		TotalSales:  totalRevenue(sales),
		AverageSale: averageSale(sales),
		Monthly:     monthlySeries(sales),
		TopProducts: topProducts(sales),
		RecentSales: recentSales(sales),
		GeneratedAt: time.Now().UTC(),
	}

	dashboard.OnlinePercentage = onlinePercentage(sales)
	// Доля офлайна определяется вычитанием, а не считается отдельно:
	// сумма долей равна 100 даже после округления онлайновой цифры.
	dashboard.InStorePercentage = 100 - dashboard.OnlinePercentage

	return dashboard, driftedTotals(sales)
}

// totalRevenue — сумма сохранённых итогов всех продаж.
func totalRevenue(sales []domain.Sale) decimal.Decimal {
	total := decimal.Zero
	for i := range sales {
		total = total.Add(sales[i].TotalPrice)
	}
	return total
}

// averageSale — средний чек; ноль для пустого входа.
func averageSale(sales []domain.Sale) decimal.Decimal {
	if len(sales) == 0 {
		return decimal.Zero
	}
	return totalRevenue(sales).Div(decimal.NewFromInt(int64(len(sales))))
}

func onlinePercentage(sales []domain.Sale) float64 {
	if len(sales) == 0 {
		return 0
	}

	online := 0
	for i := range sales {
		if sales[i].IsOnline {
			online++
		}
	}

	return float64(online) / float64(len(sales)) * 100
}

// monthlySeries группирует выручку по короткой метке месяца.
// Метки упорядочены хронологически по самой ранней продаже с этой меткой.
func monthlySeries(sales []domain.Sale) []MonthlySales {
	type bucket struct {
		point    MonthlySales
		earliest time.Time
	}

	buckets := make(map[string]*bucket)
	labels := make([]string, 0)

	for i := range sales {
		sale := &sales[i]
		label := monthLabel(sale.Date)

		b, ok := buckets[label]
		if !ok {
			b = &bucket{
				point: MonthlySales{
					Month:   label,
					Online:  decimal.Zero,
					InStore: decimal.Zero,
					Total:   decimal.Zero,
				},
				earliest: sale.Date,
			}
			buckets[label] = b
			labels = append(labels, label)
		}

		if sale.Date.Before(b.earliest) {
			b.earliest = sale.Date
		}

		b.point.Total = b.point.Total.Add(sale.TotalPrice)
		if sale.IsOnline {
			b.point.Online = b.point.Online.Add(sale.TotalPrice)
		} else {
			b.point.InStore = b.point.InStore.Add(sale.TotalPrice)
		}
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return buckets[labels[i]].earliest.Before(buckets[labels[j]].earliest)
	})

	series := make([]MonthlySales, 0, len(labels))
	for _, label := range labels {
		series = append(series, buckets[label].point)
	}

	return series
}

// monthLabel — трёхбуквенная метка месяца ("Jan", "Feb", ...).
func monthLabel(t time.Time) string {
	return t.Month().String()[:3]
}

// topProducts собирает рейтинг по выручке, группируя позиции всех продаж
// по отображаемому имени товара. Два разных товара с одинаковым именем
// сливаются в одну строку — поведение действующих дашбордов.
func topProducts(sales []domain.Sale) []ProductRank {
	type acc struct {
		name     string
		quantity float64
		revenue  decimal.Decimal
	}

	byName := make(map[string]*acc)
	order := make([]string, 0)

	for i := range sales {
		for j := range sales[i].Items {
			item := &sales[i].Items[j]

			a, ok := byName[item.Name]
			if !ok {
				a = &acc{name: item.Name, revenue: decimal.Zero}
				byName[item.Name] = a
				order = append(order, item.Name)
			}

			a.quantity += item.Quantity
			a.revenue = a.revenue.Add(item.Total())
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return byName[order[i]].revenue.GreaterThan(byName[order[j]].revenue)
	})

	limit := len(order)
	if limit > topProductsLimit {
		limit = topProductsLimit
	}

	ranks := make([]ProductRank, 0, limit)
	for i := 0; i < limit; i++ {
		a := byName[order[i]]
		ranks = append(ranks, ProductRank{
			Rank:     i + 1,
			Name:     a.name,
			Quantity: a.quantity,
			Revenue:  a.revenue,
		})
	}

	return ranks
}

// recentSales — три последние продажи по времени.
// Продажа без позиций проецируется с пустым именем товара, а не падает.
func recentSales(sales []domain.Sale) []RecentSale {
	sorted := make([]*domain.Sale, 0, len(sales))
	for i := range sales {
		sorted = append(sorted, &sales[i])
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	limit := len(sorted)
	if limit > recentSalesLimit {
		limit = recentSalesLimit
	}

	recent := make([]RecentSale, 0, limit)
	for _, sale := range sorted[:limit] {
		product := ""
		if len(sale.Items) > 0 {
			product = sale.Items[0].Name
		}

		recent = append(recent, RecentSale{
			ID:       sale.ID,
			Product:  product,
			Customer: sale.CustomerName,
			Date:     sale.Date.UTC().Format("2006-01-02"),
			Amount:   sale.TotalPrice,
			Status:   sale.StatusOrDefault(),
		})
	}

	return recent
}

// driftedTotals возвращает продажи, у которых сохранённый итог разошёлся
// с суммой по позициям.
func driftedTotals(sales []domain.Sale) []string {
	var drifted []string
	for i := range sales {
		sale := &sales[i]
		if len(sale.Items) == 0 {
			continue
		}
		if !sale.TotalPrice.Equal(sale.ItemsTotal()) {
			drifted = append(drifted, sale.ID)
		}
	}
	return drifted
}
