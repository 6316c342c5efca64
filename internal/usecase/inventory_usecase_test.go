package usecase

import (
	"context"
	"strconv"
	"testing"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any)            {}
func (noopLogger) Infof(format string, args ...any)             {}
func (noopLogger) Warnf(format string, args ...any)             {}
func (noopLogger) Errorf(err error, format string, args ...any) {}

type fakeCategoryRepo struct {
	categories []domain.Category
}

func (f *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created := *category
	created.ID = "cat-" + strconv.Itoa(len(f.categories)+1)
	f.categories = append(f.categories, created)
	return &created, nil
}

func (f *fakeCategoryRepo) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, e.ErrCategoryNotFound
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	return f.categories, nil
}

type fakeSubcategoryRepo struct {
	subcategories []domain.Subcategory
}

func (f *fakeSubcategoryRepo) Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	created := *subcategory
	created.ID = "sub-" + strconv.Itoa(len(f.subcategories)+1)
	f.subcategories = append(f.subcategories, created)
	return &created, nil
}

func (f *fakeSubcategoryRepo) List(ctx context.Context) ([]domain.Subcategory, error) {
	return f.subcategories, nil
}

func newInventoryUCForTest() (*InventoryUseCase, *fakeProductRepo, *fakeCategoryRepo, *fakeSubcategoryRepo) {
	productRepo := &fakeProductRepo{products: make(map[string]*domain.Product)}
	categoryRepo := &fakeCategoryRepo{}
	subcategoryRepo := &fakeSubcategoryRepo{}
	return NewInventoryUC(productRepo, categoryRepo, subcategoryRepo, noopLogger{}),
		productRepo, categoryRepo, subcategoryRepo
}

func TestAddProduct(t *testing.T) {
	uc, _, categoryRepo, _ := newInventoryUCForTest()
	ctx := context.Background()

	category, err := categoryRepo.Create(ctx, domain.NewCategory("Fabrics", ""))
	require.NoError(t, err)

	info, err := uc.AddProduct(ctx, &AddProductReq{
		Name:       "Cotton",
		SKU:        "CTN-001",
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(100),
		Stock:      50,
		Unit:       "meters",
	})
	require.NoError(t, err)

	assert.Equal(t, "Cotton", info.Name)
	assert.Equal(t, "Fabrics", info.CategoryName)
	assert.Equal(t, domain.StockStatusIn, info.StockStatus)
}

func TestAddProductValidation(t *testing.T) {
	uc, _, categoryRepo, _ := newInventoryUCForTest()
	ctx := context.Background()

	category, err := categoryRepo.Create(ctx, domain.NewCategory("Fabrics", ""))
	require.NoError(t, err)

	valid := AddProductReq{
		Name:       "Cotton",
		SKU:        "CTN-001",
		CategoryID: category.ID,
		Price:      decimal.NewFromInt(100),
		Stock:      50,
		Unit:       "meters",
	}

	tests := []struct {
		name    string
		mutate  func(req *AddProductReq)
		wantErr error
	}{
		{"empty name", func(r *AddProductReq) { r.Name = "  " }, e.ErrProductNameRequired},
		{"empty sku", func(r *AddProductReq) { r.SKU = "" }, e.ErrSKURequired},
		{"empty category", func(r *AddProductReq) { r.CategoryID = "" }, e.ErrCategoryRequired},
		{"negative price", func(r *AddProductReq) { r.Price = decimal.NewFromInt(-1) }, e.ErrPriceNegative},
		{"negative stock", func(r *AddProductReq) { r.Stock = -1 }, e.ErrStockNegative},
		{"unknown unit", func(r *AddProductReq) { r.Unit = "feet" }, e.ErrUnknownUnit},
		{"missing category", func(r *AddProductReq) { r.CategoryID = "nope" }, e.ErrCategoryNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := valid
			tc.mutate(&req)

			_, err := uc.AddProduct(ctx, &req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestListProductsSearch(t *testing.T) {
	uc, productRepo, categoryRepo, _ := newInventoryUCForTest()
	ctx := context.Background()

	category, err := categoryRepo.Create(ctx, domain.NewCategory("Silk Fabrics", ""))
	require.NoError(t, err)

	productRepo.products["p1"] = &domain.Product{
		ID: "p1", Name: "Red Cotton", SKU: "CTN-R", CategoryID: category.ID,
		Price: decimal.NewFromInt(10), Stock: 5, Unit: domain.UnitMeters,
	}
	productRepo.products["p2"] = &domain.Product{
		ID: "p2", Name: "Blue Denim", SKU: "DNM-B", CategoryID: category.ID,
		Price: decimal.NewFromInt(20), Stock: 5, Unit: domain.UnitMeters,
	}

	byName, err := uc.ListProducts(ctx, "cotton")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Red Cotton", byName[0].Name)

	bySKU, err := uc.ListProducts(ctx, "dnm")
	require.NoError(t, err)
	require.Len(t, bySKU, 1)
	assert.Equal(t, "Blue Denim", bySKU[0].Name)

	byCategory, err := uc.ListProducts(ctx, "silk")
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	all, err := uc.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInventoryOverview(t *testing.T) {
	uc, productRepo, _, _ := newInventoryUCForTest()
	ctx := context.Background()

	productRepo.products["in"] = &domain.Product{ID: "in", Stock: 100, Unit: domain.UnitMeters}
	productRepo.products["low"] = &domain.Product{ID: "low", Stock: 10, Unit: domain.UnitMeters}
	productRepo.products["out"] = &domain.Product{ID: "out", Stock: 0, Unit: domain.UnitMeters}

	overview, err := uc.Overview(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, overview.TotalProducts)
	assert.Equal(t, 1, overview.LowStock)
	assert.Equal(t, 1, overview.OutOfStock)
}

func TestAddSubcategoryRequiresExistingParent(t *testing.T) {
	uc, _, _, _ := newInventoryUCForTest()
	ctx := context.Background()

	_, err := uc.AddSubcategory(ctx, &AddSubcategoryReq{CategoryID: "missing", Name: "Prints"})
	assert.ErrorIs(t, err, e.ErrCategoryNotFound)

	_, err = uc.AddSubcategory(ctx, &AddSubcategoryReq{CategoryID: "c1", Name: ""})
	assert.ErrorIs(t, err, e.ErrCategoryNameRequired)
}

func TestCategoryTree(t *testing.T) {
	uc, _, categoryRepo, subcategoryRepo := newInventoryUCForTest()
	ctx := context.Background()

	fabrics, err := categoryRepo.Create(ctx, domain.NewCategory("Fabrics", ""))
	require.NoError(t, err)
	threads, err := categoryRepo.Create(ctx, domain.NewCategory("Threads", ""))
	require.NoError(t, err)

	_, err = subcategoryRepo.Create(ctx, domain.NewSubcategory(fabrics.ID, "Prints", ""))
	require.NoError(t, err)
	_, err = subcategoryRepo.Create(ctx, domain.NewSubcategory(fabrics.ID, "Plain", ""))
	require.NoError(t, err)

	tree, err := uc.CategoryTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	assert.Equal(t, "Fabrics", tree[0].Category.Name)
	assert.Len(t, tree[0].Subcategories, 2)

	assert.Equal(t, threads.ID, tree[1].Category.ID)
	assert.Empty(t, tree[1].Subcategories)
}
