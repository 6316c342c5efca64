package usecase

import "context"

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// CollectionSubscriber — push-подписка на изменения именованной коллекции.
// Канал сигнализирует, что коллекцию нужно перечитать целиком; отписка
// закрывает канал.
type CollectionSubscriber interface {
	Subscribe(collection string) (<-chan struct{}, func())
}

// ReportExporter формирует выгрузку отчёта по продажам.
type ReportExporter interface {
	ExportSales(ctx context.Context, req *ExportSalesReq) (*ExportReportRes, error)
}

// ExportSalesReq — данные для выгрузки: продажи и их сводка.
type ExportSalesReq struct {
	Dashboard *SalesDashboard
	Sales     []SaleExportRow
}

// SaleExportRow — строка CSV-выгрузки.
type SaleExportRow struct {
	ID           string
	Date         string
	CustomerName string
	ItemCount    int
	IsOnline     bool
	Status       string
	TotalPrice   string
}
