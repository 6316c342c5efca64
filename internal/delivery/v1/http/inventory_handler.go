package http

import (
	"net/http"

	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	inventoryUsecase usecase.InventoryUC
	logger           logger.Logger
}

func NewInventoryHandler(inventoryUsecase usecase.InventoryUC, logger logger.Logger) *InventoryHandler {
	return &InventoryHandler{inventoryUsecase: inventoryUsecase, logger: logger}
}

type addProductRequest struct {
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	CategoryID    string          `json:"category_id"`
	SubcategoryID string          `json:"subcategory_id"`
	Price         decimal.Decimal `json:"price"`
	Stock         float64         `json:"stock"`
	Unit          string          `json:"unit"`
}

type productResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Price        decimal.Decimal `json:"price"`
	Stock        float64         `json:"stock"`
	Unit         string          `json:"unit"`
	StockStatus  string          `json:"stock_status"`
}

type addCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type addSubcategoryRequest struct {
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryNodeResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	Subcategories []subcategoryResponse `json:"subcategories"`
}

type subcategoryResponse struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// registerNewProduct
//
//	@Summary		Добавление товара
//	@Description	Создает новый товар в каталоге
//	@Tags			inventory
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	productResponse	"Успешное создание"
//	@Failure		400	{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (h *InventoryHandler) registerNewProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d invalid product payload: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	info, err := h.inventoryUsecase.AddProduct(r.Context(), &usecase.AddProductReq{
		Name:          req.Name,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Price:         req.Price,
		Stock:         req.Stock,
		Unit:          req.Unit,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, toProductResponse(info))
}

// listProducts
//
//	@Summary	Список товаров
//	@Tags		inventory
//	@Produce	json
//	@Param		search	query		string	false	"Поиск по имени, артикулу или категории"
//	@Success	200		{array}		productResponse
//	@Failure	500		{object}	ErrorResponse
//	@Router		/products [get]
func (h *InventoryHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	infos, err := h.inventoryUsecase.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]productResponse, 0, len(infos))
	for i := range infos {
		result = append(result, *toProductResponse(&infos[i]))
	}

	WriteSuccess(w, http.StatusOK, result)
}

// inventoryOverview
//
//	@Summary	Сводка по складу
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{object}	map[string]int
//	@Router		/inventory/overview [get]
func (h *InventoryHandler) inventoryOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.inventoryUsecase.Overview(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]int{
		"total_products": overview.TotalProducts,
		"low_stock":      overview.LowStock,
		"out_of_stock":   overview.OutOfStock,
	})
}

// registerNewCategory
//
//	@Summary	Добавление категории
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	map[string]string
//	@Failure	400	{object}	ErrorResponse
//	@Router		/categories [post]
func (h *InventoryHandler) registerNewCategory(w http.ResponseWriter, r *http.Request) {
	var req addCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d invalid category payload: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	id, err := h.inventoryUsecase.AddCategory(r.Context(), &usecase.AddCategoryReq{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

// registerNewSubcategory
//
//	@Summary	Добавление подкатегории
//	@Tags		inventory
//	@Accept		json
//	@Produce	json
//	@Success	201	{object}	map[string]string
//	@Failure	400	{object}	ErrorResponse
//	@Router		/subcategories [post]
func (h *InventoryHandler) registerNewSubcategory(w http.ResponseWriter, r *http.Request) {
	var req addSubcategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.Warnf("%d invalid subcategory payload: %s", http.StatusBadRequest, err.Error())
		WriteError(w, err)
		return
	}

	id, err := h.inventoryUsecase.AddSubcategory(r.Context(), &usecase.AddSubcategoryReq{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

// categoryTree
//
//	@Summary	Категории с подкатегориями
//	@Tags		inventory
//	@Produce	json
//	@Success	200	{array}	categoryNodeResponse
//	@Router		/categories/tree [get]
func (h *InventoryHandler) categoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.inventoryUsecase.CategoryTree(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	result := make([]categoryNodeResponse, 0, len(tree))
	for _, node := range tree {
		subs := make([]subcategoryResponse, 0, len(node.Subcategories))
		for _, sub := range node.Subcategories {
			subs = append(subs, subcategoryResponse{
				ID:          sub.ID,
				CategoryID:  sub.CategoryID,
				Name:        sub.Name,
				Description: sub.Description,
			})
		}

		result = append(result, categoryNodeResponse{
			ID:            node.Category.ID,
			Name:          node.Category.Name,
			Description:   node.Category.Description,
			Subcategories: subs,
		})
	}

	WriteSuccess(w, http.StatusOK, result)
}

func toProductResponse(info *usecase.ProductInfo) *productResponse {
	return &productResponse{
		ID:           info.ID,
		Name:         info.Name,
		SKU:          info.SKU,
		CategoryID:   info.CategoryID,
		CategoryName: info.CategoryName,
		Price:        info.Price,
		Stock:        info.Stock,
		Unit:         string(info.Unit),
		StockStatus:  string(info.StockStatus),
	}
}
