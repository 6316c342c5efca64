package usecase

import (
	"context"
	"strings"

	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

// InventoryUseCase управляет каталогом: товары, категории и подкатегории.
type InventoryUseCase struct {
	productRepo     ProductRepository
	categoryRepo    CategoryRepository
	subcategoryRepo SubcategoryRepository
	logger          logger.Logger
}

func NewInventoryUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	subcategoryRepo SubcategoryRepository,
	logger logger.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{
		productRepo:     productRepo,
		categoryRepo:    categoryRepo,
		subcategoryRepo: subcategoryRepo,
		logger:          logger,
	}
}

// AddProduct добавляет товар в каталог.
func (u *InventoryUseCase) AddProduct(ctx context.Context, req *AddProductReq) (*ProductInfo, error) {
	const op = "InventoryUseCase.AddProduct"

	// Валидация данных
	if err := u.validateProduct(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	unit, err := domain.ParseUnit(req.Unit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Категория должна существовать до создания товара
	category, err := u.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := u.productRepo.Create(ctx, domain.NewProduct(
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.SKU),
		category.ID,
		req.SubcategoryID,
		req.Price,
		req.Stock,
		unit,
	))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewProductInfo(product, category.Name)

	return &info, nil
}

// ListProducts возвращает каталог, при необходимости отфильтрованный поиском.
// Поиск — подстрока без учёта регистра по имени, артикулу и имени категории.
func (u *InventoryUseCase) ListProducts(ctx context.Context, search string) ([]ProductInfo, error) {
	const op = "InventoryUseCase.ListProducts"

	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	categoryNames, err := u.categoryNames(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	search = strings.ToLower(strings.TrimSpace(search))

	infos := make([]ProductInfo, 0, len(products))
	for i := range products {
		product := &products[i]
		categoryName := categoryNames[product.CategoryID]

		if search != "" && !matchesSearch(product, categoryName, search) {
			continue
		}

		infos = append(infos, NewProductInfo(product, categoryName))
	}

	return infos, nil
}

// Overview возвращает сводку по складу.
func (u *InventoryUseCase) Overview(ctx context.Context) (*InventoryOverview, error) {
	const op = "InventoryUseCase.Overview"

	products, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	overview := &InventoryOverview{TotalProducts: len(products)}
	for i := range products {
		switch products[i].StockStatus() {
		case domain.StockStatusLow:
			overview.LowStock++
		case domain.StockStatusOut:
			overview.OutOfStock++
		}
	}

	return overview, nil
}

// AddCategory добавляет корневую категорию и возвращает её идентификатор.
func (u *InventoryUseCase) AddCategory(ctx context.Context, req *AddCategoryReq) (string, error) {
	const op = "InventoryUseCase.AddCategory"

	if strings.TrimSpace(req.Name) == "" {
		return "", e.Wrap(op, e.ErrCategoryNameRequired)
	}

	category, err := u.categoryRepo.Create(ctx, domain.NewCategory(req.Name, req.Description))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return category.ID, nil
}

// AddSubcategory добавляет подкатегорию с явной ссылкой на родителя.
func (u *InventoryUseCase) AddSubcategory(ctx context.Context, req *AddSubcategoryReq) (string, error) {
	const op = "InventoryUseCase.AddSubcategory"

	if strings.TrimSpace(req.Name) == "" {
		return "", e.Wrap(op, e.ErrCategoryNameRequired)
	}
	if strings.TrimSpace(req.CategoryID) == "" {
		return "", e.Wrap(op, e.ErrCategoryRequired)
	}

	// Родитель должен существовать
	category, err := u.categoryRepo.GetByID(ctx, req.CategoryID)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	subcategory, err := u.subcategoryRepo.Create(ctx, domain.NewSubcategory(category.ID, req.Name, req.Description))
	if err != nil {
		return "", e.Wrap(op, err)
	}

	return subcategory.ID, nil
}

// CategoryTree возвращает категории с их подкатегориями.
// Подкатегории привязываются по сохранённой ссылке на родителя.
func (u *InventoryUseCase) CategoryTree(ctx context.Context) ([]CategoryNode, error) {
	const op = "InventoryUseCase.CategoryTree"

	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	subcategories, err := u.subcategoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	byParent := make(map[string][]domain.Subcategory)
	for i := range subcategories {
		sub := subcategories[i]
		byParent[sub.CategoryID] = append(byParent[sub.CategoryID], sub)
	}

	tree := make([]CategoryNode, 0, len(categories))
	for i := range categories {
		tree = append(tree, CategoryNode{
			Category:      categories[i],
			Subcategories: byParent[categories[i].ID],
		})
	}

	return tree, nil
}

// categoryNames строит отображение идентификатора категории в имя.
func (u *InventoryUseCase) categoryNames(ctx context.Context) (map[string]string, error) {
	categories, err := u.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(categories))
	for i := range categories {
		names[categories[i].ID] = categories[i].Name
	}

	return names, nil
}

// validateProduct проверяет обязательные поля нового товара.
func (u *InventoryUseCase) validateProduct(req *AddProductReq) error {
	if strings.TrimSpace(req.Name) == "" {
		return e.ErrProductNameRequired
	}

	if strings.TrimSpace(req.SKU) == "" {
		return e.ErrSKURequired
	}

	if strings.TrimSpace(req.CategoryID) == "" {
		return e.ErrCategoryRequired
	}

	if req.Price.IsNegative() {
		return e.ErrPriceNegative
	}

	if req.Stock < 0 {
		return e.ErrStockNegative
	}

	return nil
}

func matchesSearch(p *domain.Product, categoryName, search string) bool {
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.SKU), search) ||
		strings.Contains(strings.ToLower(categoryName), search)
}
