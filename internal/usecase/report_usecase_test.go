package usecase

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaleRepo struct {
	sales []domain.Sale
}

func (f *fakeSaleRepo) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	sale.ID = "sale-" + strconv.Itoa(len(f.sales)+1)
	f.sales = append(f.sales, *sale)
	return sale, nil
}

func (f *fakeSaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	return f.sales, nil
}

type fakeDashboardCache struct {
	mu        sync.Mutex
	dashboard *SalesDashboard
	sets      int
}

func (f *fakeDashboardCache) GetDashboard(ctx context.Context) (*SalesDashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dashboard, nil
}

func (f *fakeDashboardCache) SetDashboard(ctx context.Context, dashboard *SalesDashboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboard = dashboard
	f.sets++
	return nil
}

func (f *fakeDashboardCache) DeleteDashboard(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dashboard = nil
	return nil
}

type fakeExporter struct {
	lastReq *ExportSalesReq
}

func (f *fakeExporter) ExportSales(ctx context.Context, req *ExportSalesReq) (*ExportReportRes, error) {
	f.lastReq = req
	return NewExportReportRes("sales-report-test.csv", 42), nil
}

func TestDashboardComputesOnCacheMiss(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	saleRepo := &fakeSaleRepo{sales: []domain.Sale{
		saleAt("s1", jan, true, 500, item("Cotton", 5, 100)),
	}}
	cache := &fakeDashboardCache{}

	uc := NewReportUC(saleRepo, cache, &fakeExporter{}, noopLogger{})

	dashboard, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.True(t, dashboard.TotalSales.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 100.0, dashboard.OnlinePercentage)

	// Кэш наполняется в фоне
	assert.Eventually(t, func() bool {
		cached, _ := cache.GetDashboard(context.Background())
		return cached != nil
	}, time.Second, 10*time.Millisecond)
}

func TestDashboardReturnsCachedValue(t *testing.T) {
	cached := &SalesDashboard{TotalSales: decimal.NewFromInt(999)}
	cache := &fakeDashboardCache{dashboard: cached}

	// saleRepo nil: при попадании в кэш чтение из базы не выполняется
	uc := NewReportUC(nil, cache, &fakeExporter{}, noopLogger{})

	dashboard, err := uc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Same(t, cached, dashboard)
}

func TestExportBuildsRowsForEverySale(t *testing.T) {
	jan := time.Date(2024, time.January, 1, 12, 30, 0, 0, time.UTC)
	sale := saleAt("s1", jan, true, 500, item("Cotton", 5, 100))
	sale.CustomerName = "Client"

	saleRepo := &fakeSaleRepo{sales: []domain.Sale{sale}}
	exporter := &fakeExporter{}

	uc := NewReportUC(saleRepo, &fakeDashboardCache{}, exporter, noopLogger{})

	res, err := uc.Export(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sales-report-test.csv", res.ObjectKey)
	assert.Equal(t, int64(42), res.Size)

	require.NotNil(t, exporter.lastReq)
	require.Len(t, exporter.lastReq.Sales, 1)

	row := exporter.lastReq.Sales[0]
	assert.Equal(t, "s1", row.ID)
	assert.Equal(t, "2024-01-01T12:30:00Z", row.Date)
	assert.Equal(t, "Client", row.CustomerName)
	assert.Equal(t, 1, row.ItemCount)
	assert.True(t, row.IsOnline)
	assert.Equal(t, "500.00", row.TotalPrice)

	require.NotNil(t, exporter.lastReq.Dashboard)
	assert.True(t, exporter.lastReq.Dashboard.TotalSales.Equal(decimal.NewFromInt(500)))
}
