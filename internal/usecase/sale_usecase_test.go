package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (f *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, e.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		result = append(result, *p)
	}
	return result, nil
}

type fakeOutboxRepo struct {
	events []*OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeOutboxRepo) GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkAsProcessed(ctx context.Context, id int64) error { return nil }

// stubTx закрывает только Commit и Rollback: ничего больше
// менеджеру транзакций от pgx.Tx не нужно.
type stubTx struct {
	pgx.Tx
}

func (stubTx) Commit(ctx context.Context) error   { return nil }
func (stubTx) Rollback(ctx context.Context) error { return nil }

type stubTransactional struct{}

func (stubTransactional) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	return stubTx{}, nil
}

func newSaleUCForTest(products ...*domain.Product) *SaleUseCase {
	repo := &fakeProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return NewSaleUC(repo, nil, nil, nil, nil, noopLogger{})
}

func meterProduct(id, name string, price float64) *domain.Product {
	return &domain.Product{
		ID:    id,
		Name:  name,
		Price: decimal.NewFromFloat(price),
		Stock: 100,
		Unit:  domain.UnitMeters,
	}
}

func TestAddCartItemMergesByProduct(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	cart, err := uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 5, Unit: "meters",
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 3, Unit: "meters",
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 8.0, cart.Items[0].Quantity)
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(80)), "total: %s", cart.Total)
}

func TestAddCartItemConvertsToProductUnit(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	cart, err := uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 10, Unit: "yards",
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.UnitMeters, cart.Items[0].Unit)
	assert.InDelta(t, 9.144, cart.Items[0].Quantity, 1e-9)
}

// Слияние идёт только по товару: та же позиция в другой единице
// доливается в существующую строку. Текущее поведение продаж.
func TestAddCartItemMergeIgnoresRequestUnit(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 5, Unit: "meters",
	})
	require.NoError(t, err)

	cart, err := uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 10, Unit: "yards",
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 5+9.144, cart.Items[0].Quantity, 1e-9)
}

func TestAddCartItemValidation(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p1", Quantity: 0, Unit: "meters"})
	assert.ErrorIs(t, err, e.ErrQuantityNotPositive)

	_, err = uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p1", Quantity: -2, Unit: "meters"})
	assert.ErrorIs(t, err, e.ErrQuantityNotPositive)

	_, err = uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p1", Quantity: 1, Unit: "feet"})
	assert.ErrorIs(t, err, e.ErrUnknownUnit)

	_, err = uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "missing", Quantity: 1, Unit: "meters"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)

	negative := decimal.NewFromInt(-5)
	_, err = uc.AddCartItem(ctx, "s", &AddCartItemReq{
		ProductID: "p1", Quantity: 1, Unit: "meters", CustomPrice: &negative,
	})
	assert.ErrorIs(t, err, e.ErrCustomPriceNegative)
}

func TestAddCartItemCustomPriceOverridesTotal(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	custom := decimal.NewFromInt(7)
	cart, err := uc.AddCartItem(ctx, "s", &AddCartItemReq{
		ProductID: "p1", Quantity: 2, Unit: "meters", CustomPrice: &custom,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(custom))
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(14)))
}

func TestRemoveCartItemByIndex(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10), meterProduct("p2", "Silk", 30))
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p1", Quantity: 1, Unit: "meters"})
	require.NoError(t, err)
	_, err = uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p2", Quantity: 1, Unit: "meters"})
	require.NoError(t, err)

	cart, err := uc.RemoveCartItem(ctx, "s", 0)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Silk", cart.Items[0].Name)
}

func TestRemoveCartItemIndexOutOfRange(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "s", &AddCartItemReq{ProductID: "p1", Quantity: 1, Unit: "meters"})
	require.NoError(t, err)

	_, err = uc.RemoveCartItem(ctx, "s", 1)
	assert.ErrorIs(t, err, e.ErrItemIndexOutOfRange)

	_, err = uc.RemoveCartItem(ctx, "s", -1)
	assert.ErrorIs(t, err, e.ErrItemIndexOutOfRange)
}

func TestSubmitPersistsSaleAndClearsCart(t *testing.T) {
	productRepo := &fakeProductRepo{products: map[string]*domain.Product{
		"p1": meterProduct("p1", "Cotton", 10),
	}}
	saleRepo := &fakeSaleRepo{}
	outboxRepo := &fakeOutboxRepo{}
	cache := &fakeDashboardCache{dashboard: &SalesDashboard{}}

	uc := NewSaleUC(productRepo, saleRepo, outboxRepo, cache, stubTransactional{}, noopLogger{})
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "seller@shop", &AddCartItemReq{
		ProductID: "p1", Quantity: 8, Unit: "meters",
	})
	require.NoError(t, err)

	res, err := uc.Submit(ctx, "seller@shop", &SubmitSaleReq{
		CustomerName: "  Client  ",
		IsOnline:     true,
	})
	require.NoError(t, err)

	require.Len(t, saleRepo.sales, 1)
	sale := saleRepo.sales[0]
	assert.Equal(t, sale.ID, res.SaleID)
	assert.True(t, sale.TotalPrice.Equal(decimal.NewFromInt(80)), "total: %s", sale.TotalPrice)
	assert.True(t, res.TotalPrice.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, domain.DefaultSaleStatus, sale.Status)
	assert.Equal(t, "Client", sale.CustomerName)
	assert.True(t, sale.IsOnline)
	assert.False(t, sale.Date.IsZero())
	require.Len(t, sale.Items, 1)

	require.Len(t, outboxRepo.events, 1)
	event := outboxRepo.events[0]
	assert.Equal(t, SaleCreated, event.EventType)
	assert.Equal(t, sale.ID, event.SaleID)
	assert.Equal(t, Pending, event.Status)
	assert.Equal(t, event.EventID, res.EventID)
	assert.NotEmpty(t, event.EventID)

	var payload SaleCreatedPayload
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	assert.Equal(t, sale.ID, payload.SaleID)
	assert.Equal(t, 1, payload.ItemCount)
	assert.True(t, payload.TotalPrice.Equal(decimal.NewFromInt(80)))

	// Успешная запись очищает рабочий список и кэш сводки
	cart := uc.GetCart(ctx, "seller@shop")
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	cached, _ := cache.GetDashboard(ctx)
	assert.Nil(t, cached)
}

func TestSubmitEmptyCartRejected(t *testing.T) {
	uc := newSaleUCForTest()

	_, err := uc.Submit(context.Background(), "s", &SubmitSaleReq{CustomerName: "Client"})
	assert.ErrorIs(t, err, e.ErrEmptySale)
}

func TestCartsAreIsolatedPerSubject(t *testing.T) {
	uc := newSaleUCForTest(meterProduct("p1", "Cotton", 10))
	ctx := context.Background()

	_, err := uc.AddCartItem(ctx, "first@shop", &AddCartItemReq{ProductID: "p1", Quantity: 1, Unit: "meters"})
	require.NoError(t, err)

	other := uc.GetCart(ctx, "second@shop")
	assert.Empty(t, other.Items)
	assert.True(t, other.Total.IsZero())
}
