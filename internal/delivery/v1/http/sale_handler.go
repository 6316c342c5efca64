package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	saleUsecase usecase.SaleUC
	logger      logger.Logger
}

func NewSaleHandler(saleUsecase usecase.SaleUC, logger logger.Logger) *SaleHandler {
	return &SaleHandler{saleUsecase: saleUsecase, logger: logger}
}

type addCartItemRequest struct {
	ProductID   string           `json:"product_id"`
	Quantity    float64          `json:"quantity"`
	Unit        string           `json:"unit"`
	CustomPrice *decimal.Decimal `json:"custom_price,omitempty"`
}

type cartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Unit      string          `json:"unit"`
	Quantity  float64         `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

type cartResponse struct {
	Items []cartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type submitSaleRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Notes         string `json:"notes"`
	IsRecurring   bool   `json:"is_recurring"`
	IsOnline      bool   `json:"is_online"`
}

type submitSaleResponse struct {
	SaleID     string          `json:"sale_id"`
	EventID    string          `json:"event_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// addCartItem
//
//	@Summary		Добавление позиции в продажу
//	@Description	Количество переводится в единицу товара; позиции сливаются по товару
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Success		200	{object}	cartResponse
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/cart/items [post]
func (h *SaleHandler) addCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.SessionFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrAuthFailed)
		return
	}

	var req addCartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d invalid cart item payload: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	cart, err := h.saleUsecase.AddCartItem(r.Context(), session.Email, &usecase.AddCartItemReq{
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		CustomPrice: req.CustomPrice,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// removeCartItem
//
//	@Summary	Удаление позиции по порядковому номеру
//	@Tags		sales
//	@Produce	json
//	@Param		index	path		int	true	"Номер позиции с нуля"
//	@Success	200		{object}	cartResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/cart/items/{index} [delete]
func (h *SaleHandler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.SessionFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrAuthFailed)
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.logger.Warnf("%d invalid cart item index: %s", http.StatusBadRequest, err.Error())
		WriteError(w, e.ErrItemIndexOutOfRange)
		return
	}

	cart, err := h.saleUsecase.RemoveCartItem(r.Context(), session.Email, index)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// getCart
//
//	@Summary	Текущий рабочий список продажи
//	@Tags		sales
//	@Produce	json
//	@Success	200	{object}	cartResponse
//	@Router		/cart [get]
func (h *SaleHandler) getCart(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.SessionFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrAuthFailed)
		return
	}

	cart := h.saleUsecase.GetCart(r.Context(), session.Email)

	WriteSuccess(w, http.StatusOK, toCartResponse(cart))
}

// submitSale
//
//	@Summary		Завершение продажи
//	@Description	Записывает продажу и outbox-событие одной транзакцией
//	@Tags			sales
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	submitSaleResponse
//	@Failure		400	{object}	ErrorResponse	"Пустая продажа"
//	@Router			/cart/submit [post]
func (h *SaleHandler) submitSale(w http.ResponseWriter, r *http.Request) {
	session, ok := domain.SessionFromCtx(r.Context())
	if !ok {
		WriteError(w, e.ErrAuthFailed)
		return
	}

	var req submitSaleRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d invalid sale payload: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	res, err := h.saleUsecase.Submit(r.Context(), session.Email, &usecase.SubmitSaleReq{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
		IsRecurring:   req.IsRecurring,
		IsOnline:      req.IsOnline,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, submitSaleResponse{
		SaleID:     res.SaleID,
		EventID:    res.EventID,
		TotalPrice: res.TotalPrice,
	})
}

func toCartResponse(cart *usecase.CartView) *cartResponse {
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      string(item.Unit),
			Quantity:  item.Quantity,
			Price:     item.Price,
			Total:     item.Total,
		})
	}

	return &cartResponse{
		Items: items,
		Total: cart.Total,
	}
}
