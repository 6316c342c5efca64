package usecase

import "context"

type InventoryUC interface {
	AddProduct(ctx context.Context, req *AddProductReq) (*ProductInfo, error)
	ListProducts(ctx context.Context, search string) ([]ProductInfo, error)
	Overview(ctx context.Context) (*InventoryOverview, error)
	AddCategory(ctx context.Context, req *AddCategoryReq) (string, error)
	AddSubcategory(ctx context.Context, req *AddSubcategoryReq) (string, error)
	CategoryTree(ctx context.Context) ([]CategoryNode, error)
}

type SaleUC interface {
	AddCartItem(ctx context.Context, subject string, req *AddCartItemReq) (*CartView, error)
	RemoveCartItem(ctx context.Context, subject string, index int) (*CartView, error)
	GetCart(ctx context.Context, subject string) *CartView
	Submit(ctx context.Context, subject string, req *SubmitSaleReq) (*SubmitSaleRes, error)
}

type ReportUC interface {
	Dashboard(ctx context.Context) (*SalesDashboard, error)
	Export(ctx context.Context) (*ExportReportRes, error)
}
