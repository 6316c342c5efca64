package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(invUC usecase.InventoryUC, saleUC usecase.SaleUC, repUC usecase.ReportUC, auth *AuthMiddleware) {
	r.router.Use(MetricsMiddleware)
	r.router.Method("GET", "/metrics", MetricsHandler())

	r.router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(auth.Handle)

		invHandler := NewInventoryHandler(invUC, r.logger)
		registerInventoryRoutes(v1, invHandler, auth)

		saleHandler := NewSaleHandler(saleUC, r.logger)
		registerSaleRoutes(v1, saleHandler)

		repHandler := NewReportHandler(repUC, r.logger)
		registerReportRoutes(v1, repHandler, auth)
	})
}

func registerInventoryRoutes(router chi.Router, invHandler *InventoryHandler, auth *AuthMiddleware) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", invHandler.listProducts)
		pr.With(auth.RequireAdmin).Post("/", invHandler.registerNewProduct)
	})

	router.Get("/inventory/overview", invHandler.inventoryOverview)

	router.Route("/categories", func(cat chi.Router) {
		cat.Get("/tree", invHandler.categoryTree)
		cat.With(auth.RequireAdmin).Post("/", invHandler.registerNewCategory)
	})

	router.With(auth.RequireAdmin).Post("/subcategories", invHandler.registerNewSubcategory)
}

func registerSaleRoutes(router chi.Router, saleHandler *SaleHandler) {
	router.Route("/cart", func(cart chi.Router) {
		cart.Get("/", saleHandler.getCart)
		cart.Post("/items", saleHandler.addCartItem)
		cart.Delete("/items/{index}", saleHandler.removeCartItem)
		cart.Post("/submit", saleHandler.submitSale)
	})
}

func registerReportRoutes(router chi.Router, repHandler *ReportHandler, auth *AuthMiddleware) {
	router.Route("/reports", func(rep chi.Router) {
		rep.Get("/dashboard", repHandler.salesDashboard)
		rep.With(auth.RequireAdmin).Post("/export", repHandler.exportReport)
	})
}
