package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

// ReportUseCase отдаёт сводку продаж и выгрузки отчётов.
// Сводка читается из кэша; при промахе пересчитывается из полного
// снимка коллекции продаж и кэшируется в фоне.
type ReportUseCase struct {
	saleRepo  SaleRepository
	cacheRepo DashboardCacheRepository
	exporter  ReportExporter
	logger    logger.Logger
}

func NewReportUC(
	saleRepo SaleRepository,
	cacheRepo DashboardCacheRepository,
	exporter ReportExporter,
	logger logger.Logger,
) *ReportUseCase {
	return &ReportUseCase{
		saleRepo:  saleRepo,
		cacheRepo: cacheRepo,
		exporter:  exporter,
		logger:    logger,
	}
}

// Dashboard возвращает сводку продаж.
func (r *ReportUseCase) Dashboard(ctx context.Context) (*SalesDashboard, error) {
	const op = "ReportUseCase.Dashboard"

	cached, err := r.cacheRepo.GetDashboard(ctx)
	if err != nil {
		r.logger.Warnf("Dashboard cache read failed: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	sales, err := r.saleRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dashboard := r.computeDashboard(sales)

	// Фоновое обновление кэша, как и для данных каталога
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := r.cacheRepo.SetDashboard(bgCtx, dashboard); err != nil {
			r.logger.Warnf("Failed to cache dashboard in background: %v", e.Wrap(op, err))
		}
	}()

	return dashboard, nil
}

// Export формирует CSV-отчёт по всем продажам и сохраняет его в объектное
// хранилище. Возвращает ключ объекта.
func (r *ReportUseCase) Export(ctx context.Context) (*ExportReportRes, error) {
	const op = "ReportUseCase.Export"

	sales, err := r.saleRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	dashboard := r.computeDashboard(sales)

	rows := make([]SaleExportRow, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		rows = append(rows, SaleExportRow{
			ID:           sale.ID,
			Date:         sale.Date.UTC().Format(time.RFC3339),
			CustomerName: sale.CustomerName,
			ItemCount:    len(sale.Items),
			IsOnline:     sale.IsOnline,
			Status:       sale.StatusOrDefault(),
			TotalPrice:   sale.TotalPrice.StringFixed(2),
		})
	}

	res, err := r.exporter.ExportSales(ctx, &ExportSalesReq{
		Dashboard: dashboard,
		Sales:     rows,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return res, nil
}

// computeDashboard запускает пересчёт сводки и логирует расхождения
// сохранённых итогов с пересчётом по позициям.
func (r *ReportUseCase) computeDashboard(sales []domain.Sale) *SalesDashboard {
	dashboard, drifted := BuildDashboard(sales)
	if len(drifted) > 0 {
		r.logger.Warnf(
			"Persisted sale totals diverge from item sums: count: %d, ids: %s",
			len(drifted),
			strings.Join(drifted, ","),
		)
	}
	return dashboard
}
