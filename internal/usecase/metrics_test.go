package usecase

import (
	"testing"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleAt(id string, date time.Time, online bool, total float64, items ...domain.SaleItem) domain.Sale {
	return domain.Sale{
		ID:         id,
		Items:      items,
		TotalPrice: decimal.NewFromFloat(total),
		Date:       date,
		IsOnline:   online,
		Status:     domain.DefaultSaleStatus,
	}
}

func item(name string, quantity, price float64) domain.SaleItem {
	return domain.SaleItem{
		Name:     name,
		Unit:     domain.UnitMeters,
		Quantity: quantity,
		Price:    decimal.NewFromFloat(price),
	}
}

func TestBuildDashboardTotalsAndAverage(t *testing.T) {
	jan := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("s1", jan, true, 500, item("Cotton", 5, 100)),
		saleAt("s2", jan.Add(time.Hour), false, 1000, item("Silk", 10, 100)),
	}

	dashboard, drifted := BuildDashboard(sales)

	assert.Empty(t, drifted)
	assert.True(t, dashboard.TotalSales.Equal(decimal.NewFromInt(1500)), "total: %s", dashboard.TotalSales)
	assert.True(t, dashboard.AverageSale.Equal(decimal.NewFromInt(750)), "average: %s", dashboard.AverageSale)
	assert.Equal(t, 50.0, dashboard.OnlinePercentage)
	assert.Equal(t, 50.0, dashboard.InStorePercentage)
}

func TestBuildDashboardEmptyInput(t *testing.T) {
	dashboard, drifted := BuildDashboard(nil)

	assert.Empty(t, drifted)
	assert.True(t, dashboard.TotalSales.IsZero())
	assert.True(t, dashboard.AverageSale.IsZero())
	assert.Equal(t, 100.0, dashboard.OnlinePercentage+dashboard.InStorePercentage)
	assert.Empty(t, dashboard.Monthly)
	assert.Empty(t, dashboard.TopProducts)
	assert.Empty(t, dashboard.RecentSales)
}

func TestBuildDashboardChannelSplitSumsToHundred(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Три продажи дают нецелую онлайн-долю; сумма долей всё равно ровно 100
	sales := []domain.Sale{
		saleAt("s1", jan, true, 100, item("A", 1, 100)),
		saleAt("s2", jan, false, 100, item("A", 1, 100)),
		saleAt("s3", jan, false, 100, item("A", 1, 100)),
	}

	dashboard, _ := BuildDashboard(sales)

	assert.InDelta(t, 100.0/3, dashboard.OnlinePercentage, 1e-9)
	assert.Equal(t, 100.0, dashboard.OnlinePercentage+dashboard.InStorePercentage)
}

func TestBuildDashboardMonthlySeries(t *testing.T) {
	feb := time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)

	// Вход нарочно не отсортирован: метки должны выйти хронологически
	sales := []domain.Sale{
		saleAt("s1", feb, true, 200, item("A", 2, 100)),
		saleAt("s2", mar, false, 300, item("A", 3, 100)),
		saleAt("s3", jan, false, 100, item("A", 1, 100)),
		saleAt("s4", feb.Add(24*time.Hour), false, 50, item("A", 0.5, 100)),
	}

	dashboard, _ := BuildDashboard(sales)

	require.Len(t, dashboard.Monthly, 3)
	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, []string{
		dashboard.Monthly[0].Month, dashboard.Monthly[1].Month, dashboard.Monthly[2].Month,
	})

	for _, point := range dashboard.Monthly {
		assert.True(t, point.Online.Add(point.InStore).Equal(point.Total),
			"month %s: online %s + in-store %s != total %s",
			point.Month, point.Online, point.InStore, point.Total)
	}

	assert.True(t, dashboard.Monthly[1].Total.Equal(decimal.NewFromInt(250)))
	assert.True(t, dashboard.Monthly[1].Online.Equal(decimal.NewFromInt(200)))
	assert.True(t, dashboard.Monthly[1].InStore.Equal(decimal.NewFromInt(50)))
}

func TestBuildDashboardTopProducts(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("s1", jan, false, 500, item("Cotton", 5, 100)),
		saleAt("s2", jan, false, 900, item("Silk", 3, 300)),
		saleAt("s3", jan, false, 200, item("Linen", 2, 100)),
		saleAt("s4", jan, false, 150, item("Wool", 1, 150)),
		saleAt("s5", jan, false, 120, item("Denim", 1, 120)),
		saleAt("s6", jan, false, 400, item("Cotton", 4, 100)),
	}

	dashboard, _ := BuildDashboard(sales)

	require.Len(t, dashboard.TopProducts, 4)

	assert.Equal(t, "Cotton", dashboard.TopProducts[0].Name)
	assert.True(t, dashboard.TopProducts[0].Revenue.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 9.0, dashboard.TopProducts[0].Quantity)

	// Ранги плотные и идут с единицы, выручка не возрастает
	for i, rank := range dashboard.TopProducts {
		assert.Equal(t, i+1, rank.Rank)
		if i > 0 {
			assert.False(t, rank.Revenue.GreaterThan(dashboard.TopProducts[i-1].Revenue))
		}
	}

	// Худший по выручке товар не попал в четвёрку
	for _, rank := range dashboard.TopProducts {
		assert.NotEqual(t, "Denim", rank.Name)
	}
}

func TestBuildDashboardRecentSales(t *testing.T) {
	base := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("s1", base, false, 100, item("A", 1, 100)),
		saleAt("s2", base.Add(time.Hour), false, 200, item("B", 2, 100)),
		saleAt("s3", base.Add(2*time.Hour), false, 300, item("C", 3, 100)),
		saleAt("s4", base.Add(3*time.Hour), false, 400, item("D", 4, 100)),
	}

	dashboard, _ := BuildDashboard(sales)

	require.Len(t, dashboard.RecentSales, 3)
	assert.Equal(t, "s4", dashboard.RecentSales[0].ID)
	assert.Equal(t, "D", dashboard.RecentSales[0].Product)
	assert.Equal(t, "s3", dashboard.RecentSales[1].ID)
	assert.Equal(t, "s2", dashboard.RecentSales[2].ID)
	assert.Equal(t, "2024-06-01", dashboard.RecentSales[0].Date)
}

func TestBuildDashboardRecentSaleWithoutItems(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("s1", jan, false, 100),
	}

	dashboard, drifted := BuildDashboard(sales)

	require.Len(t, dashboard.RecentSales, 1)
	assert.Equal(t, "", dashboard.RecentSales[0].Product)
	// Продажа без позиций не считается расхождением итога
	assert.Empty(t, drifted)
}

func TestBuildDashboardReportsDriftedTotals(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	sales := []domain.Sale{
		saleAt("ok", jan, false, 100, item("A", 1, 100)),
		saleAt("drift", jan, false, 150, item("A", 1, 100)),
	}

	dashboard, drifted := BuildDashboard(sales)

	assert.Equal(t, []string{"drift"}, drifted)
	// Сводка строится по сохранённым итогам, а не по пересчёту
	assert.True(t, dashboard.TotalSales.Equal(decimal.NewFromInt(250)))
}

func TestBuildDashboardDefaultsEmptyStatus(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	sale := saleAt("s1", jan, false, 100, item("A", 1, 100))
	sale.Status = ""

	dashboard, _ := BuildDashboard([]domain.Sale{sale})

	require.Len(t, dashboard.RecentSales, 1)
	assert.Equal(t, domain.DefaultSaleStatus, dashboard.RecentSales[0].Status)
}
