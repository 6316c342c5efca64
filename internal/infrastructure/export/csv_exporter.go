package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

const reportContentType = "text/csv"

// CsvExporter собирает CSV-выгрузку по продажам и кладёт её в объектное
// хранилище через ReportRepository.
type CsvExporter struct {
	reportRepo usecase.ReportRepository
	logger     logger.Logger
}

func NewCsvExporter(reportRepo usecase.ReportRepository, logger logger.Logger) *CsvExporter {
	return &CsvExporter{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// ExportSales формирует отчёт: шапка со сводкой, затем строки продаж.
func (c *CsvExporter) ExportSales(ctx context.Context, req *usecase.ExportSalesReq) (*usecase.ExportReportRes, error) {
	data, err := c.buildCsv(req)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	objectKey := fmt.Sprintf("sales-report-%s.csv", time.Now().UTC().Format("20060102-150405"))

	key, err := c.reportRepo.Put(ctx, objectKey, data, reportContentType)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	c.logger.Infof("Sales report exported: key: %s, size: %d", key, len(data))

	return usecase.NewExportReportRes(key, int64(len(data))), nil
}

func (c *CsvExporter) buildCsv(req *usecase.ExportSalesReq) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	summary := [][]string{
		{"total_sales", req.Dashboard.TotalSales.StringFixed(2)},
		{"average_sale", req.Dashboard.AverageSale.StringFixed(2)},
		{"online_percentage", strconv.FormatFloat(req.Dashboard.OnlinePercentage, 'f', 2, 64)},
		{"in_store_percentage", strconv.FormatFloat(req.Dashboard.InStorePercentage, 'f', 2, 64)},
		{"generated_at", req.Dashboard.GeneratedAt.Format(time.RFC3339)},
		{},
	}
	if err := w.WriteAll(summary); err != nil {
		return nil, err
	}

	header := []string{"id", "date", "customer_name", "item_count", "is_online", "status", "total_price"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for i := range req.Sales {
		sale := &req.Sales[i]
		record := []string{
			sale.ID,
			sale.Date,
			sale.CustomerName,
			strconv.Itoa(sale.ItemCount),
			strconv.FormatBool(sale.IsOnline),
			sale.Status,
			sale.TotalPrice,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
