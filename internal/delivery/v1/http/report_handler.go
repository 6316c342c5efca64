package http

import (
	"net/http"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUC
	logger        logger.Logger
}

func NewReportHandler(reportUsecase usecase.ReportUC, logger logger.Logger) *ReportHandler {
	return &ReportHandler{reportUsecase: reportUsecase, logger: logger}
}

type dashboardResponse struct {
	TotalSales        decimal.Decimal        `json:"total_sales"`
	AverageSale       decimal.Decimal        `json:"average_sale"`
	OnlinePercentage  float64                `json:"online_percentage"`
	InStorePercentage float64                `json:"in_store_percentage"`
	Monthly           []monthlySalesResponse `json:"monthly"`
	TopProducts       []productRankResponse  `json:"top_products"`
	RecentSales       []recentSaleResponse   `json:"recent_sales"`
	GeneratedAt       time.Time              `json:"generated_at"`
}

type monthlySalesResponse struct {
	Month   string          `json:"month"`
	Online  decimal.Decimal `json:"online"`
	InStore decimal.Decimal `json:"in_store"`
	Total   decimal.Decimal `json:"total"`
}

type productRankResponse struct {
	Rank     int             `json:"rank"`
	Name     string          `json:"name"`
	Quantity float64         `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type recentSaleResponse struct {
	ID       string          `json:"id"`
	Product  string          `json:"product"`
	Customer string          `json:"customer"`
	Date     string          `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
}

type exportReportResponse struct {
	ObjectKey string `json:"object_key"`
	Size      int64  `json:"size"`
}

// salesDashboard
//
//	@Summary		Сводка продаж
//	@Description	Выручка, средний чек, доли каналов, тренд по месяцам, топ товаров и последние продажи
//	@Tags			reports
//	@Produce		json
//	@Success		200	{object}	dashboardResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/reports/dashboard [get]
func (h *ReportHandler) salesDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportUsecase.Dashboard(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toDashboardResponse(dashboard))
}

// exportReport
//
//	@Summary	Выгрузка CSV-отчёта по продажам
//	@Tags		reports
//	@Produce	json
//	@Success	201	{object}	exportReportResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/reports/export [post]
func (h *ReportHandler) exportReport(w http.ResponseWriter, r *http.Request) {
	res, err := h.reportUsecase.Export(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, exportReportResponse{
		ObjectKey: res.ObjectKey,
		Size:      res.Size,
	})
}

func toDashboardResponse(d *usecase.SalesDashboard) *dashboardResponse {
	res := &dashboardResponse{
		TotalSales:        d.TotalSales,
		AverageSale:       d.AverageSale,
		OnlinePercentage:  d.OnlinePercentage,
		InStorePercentage: d.InStorePercentage,
		Monthly:           make([]monthlySalesResponse, 0, len(d.Monthly)),
		TopProducts:       make([]productRankResponse, 0, len(d.TopProducts)),
		RecentSales:       make([]recentSaleResponse, 0, len(d.RecentSales)),
		GeneratedAt:       d.GeneratedAt,
	}

	for _, m := range d.Monthly {
		res.Monthly = append(res.Monthly, monthlySalesResponse{
			Month:   m.Month,
			Online:  m.Online,
			InStore: m.InStore,
			Total:   m.Total,
		})
	}
	for _, p := range d.TopProducts {
		res.TopProducts = append(res.TopProducts, productRankResponse{
			Rank:     p.Rank,
			Name:     p.Name,
			Quantity: p.Quantity,
			Revenue:  p.Revenue,
		})
	}
	for _, s := range d.RecentSales {
		res.RecentSales = append(res.RecentSales, recentSaleResponse{
			ID:       s.ID,
			Product:  s.Product,
			Customer: s.Customer,
			Date:     s.Date,
			Amount:   s.Amount,
			Status:   s.Status,
		})
	}

	return res
}
