package usecase

import (
	"context"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type SubcategoryRepository interface {
	Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error)
	List(ctx context.Context) ([]domain.Subcategory, error)
}

type SaleRepository interface {
	// Create выполняется внутри транзакции из контекста.
	Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error)
	List(ctx context.Context) ([]domain.Sale, error)
}

type OutboxRepository interface {
	// Create выполняется внутри транзакции из контекста.
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type DashboardCacheRepository interface {
	// GetDashboard возвращает nil, nil при промахе кэша.
	GetDashboard(ctx context.Context) (*SalesDashboard, error)
	SetDashboard(ctx context.Context, dashboard *SalesDashboard) error
	DeleteDashboard(ctx context.Context) error
}

type ReportRepository interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}
