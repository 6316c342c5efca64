package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// cart — рабочий список позиций продажи одной сессии.
// Держится только в памяти: до завершения продажи ничего не персистится.
type cart struct {
	mu    sync.Mutex
	items []domain.SaleItem
}

// SaleUseCase реализует оформление продажи: накопление рабочего списка
// и атомарную запись продажи вместе с outbox-событием.
type SaleUseCase struct {
	productRepo ProductRepository
	saleRepo    SaleRepository
	outboxRepo  OutboxRepository
	cacheRepo   DashboardCacheRepository
	dbPool      transaction.Transactional
	logger      logger.Logger

	mu    sync.Mutex
	carts map[string]*cart
}

func NewSaleUC(
	productRepo ProductRepository,
	saleRepo SaleRepository,
	outboxRepo OutboxRepository,
	cacheRepo DashboardCacheRepository,
	dbPool transaction.Transactional,
	logger logger.Logger,
) *SaleUseCase {
	return &SaleUseCase{
		productRepo: productRepo,
		saleRepo:    saleRepo,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		dbPool:      dbPool,
		logger:      logger,
		carts:       make(map[string]*cart),
	}
}

// AddCartItem добавляет позицию в рабочий список.
// Количество переводится в родную единицу товара до сохранения.
// Позиции сливаются только по идентификатору товара: добавление того же
// товара в другой единице попадает в уже существующую строку — текущее
// поведение продаж, не менять без подтверждения владельца продукта.
func (s *SaleUseCase) AddCartItem(ctx context.Context, subject string, req *AddCartItemReq) (*CartView, error) {
	const op = "SaleUseCase.AddCartItem"

	if err := s.validateCartItem(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	unit, err := domain.ParseUnit(req.Unit)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	quantity := req.Quantity
	if unit != product.Unit {
		quantity, err = domain.ConvertQuantity(req.Quantity, unit, product.Unit)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	c := s.cartFor(subject)
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity += quantity
			return s.viewLocked(c), nil
		}
	}

	c.items = append(c.items, domain.SaleItem{
		ProductID:   product.ID,
		Name:        product.Name,
		Unit:        product.Unit,
		Quantity:    quantity,
		Price:       product.Price,
		CustomPrice: req.CustomPrice,
	})

	return s.viewLocked(c), nil
}

// RemoveCartItem удаляет позицию по порядковому номеру.
func (s *SaleUseCase) RemoveCartItem(ctx context.Context, subject string, index int) (*CartView, error) {
	const op = "SaleUseCase.RemoveCartItem"

	c := s.cartFor(subject)
	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index >= len(c.items) {
		return nil, e.Wrap(op, e.ErrItemIndexOutOfRange)
	}

	c.items = append(c.items[:index], c.items[index+1:]...)

	return s.viewLocked(c), nil
}

// GetCart возвращает текущий рабочий список.
func (s *SaleUseCase) GetCart(ctx context.Context, subject string) *CartView {
	c := s.cartFor(subject)
	c.mu.Lock()
	defer c.mu.Unlock()

	return s.viewLocked(c)
}

// Submit записывает продажу и outbox-событие одной транзакцией.
// Пустой рабочий список отклоняется без обращения к хранилищу.
// Защиты от двойной отправки нет: два быстрых запроса одной сессии
// дают две продажи.
func (s *SaleUseCase) Submit(ctx context.Context, subject string, req *SubmitSaleReq) (*SubmitSaleRes, error) {
	const op = "SaleUseCase.Submit"

	c := s.cartFor(subject)
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 {
		return nil, e.Wrap(op, e.ErrEmptySale)
	}

	items := make([]domain.SaleItem, len(c.items))
	copy(items, c.items)

	sale := &domain.Sale{
		Items:         items,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Notes:         req.Notes,
		IsRecurring:   req.IsRecurring,
		IsOnline:      req.IsOnline,
		Date:          time.Now().UTC(),
		Status:        domain.DefaultSaleStatus,
	}
	// Итог считается из позиций в момент записи и сохраняется:
	// историческая сумма не должна меняться при правке каталога.
	sale.TotalPrice = sale.ItemsTotal()

	var err error
	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, s.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			tx.Rollback(ctx)
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	created, err := s.saleRepo.Create(ctx, sale)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	event, err := s.createOutboxEvent(ctx, created)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, e.Wrap(op, err)
	}

	// Успешная запись: рабочий список и форма очищаются
	c.items = nil

	// Сводка устарела — убираем её из кэша
	if err := s.cacheRepo.DeleteDashboard(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate dashboard cache: %v", e.Wrap(op, err))
	}

	return NewSubmitSaleRes(created.ID, event.EventID, created.TotalPrice), nil
}

// cartFor возвращает рабочий список сессии, создавая его при первом обращении.
func (s *SaleUseCase) cartFor(subject string) *cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[subject]
	if !ok {
		c = &cart{}
		s.carts[subject] = c
	}
	return c
}

// viewLocked собирает представление рабочего списка. Вызывается под c.mu.
func (s *SaleUseCase) viewLocked(c *cart) *CartView {
	view := &CartView{
		Items: make([]CartItemView, 0, len(c.items)),
		Total: decimal.Zero,
	}

	for i := range c.items {
		item := &c.items[i]
		view.Items = append(view.Items, CartItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      item.Unit,
			Quantity:  item.Quantity,
			Price:     item.EffectivePrice(),
			Total:     item.Total(),
		})
		view.Total = view.Total.Add(item.Total())
	}

	return view
}

// createOutboxEvent кладёт событие sale.created в outbox той же транзакцией.
func (s *SaleUseCase) createOutboxEvent(ctx context.Context, sale *domain.Sale) (*OutboxEvent, error) {
	payload, err := json.Marshal(SaleCreatedPayload{
		SaleID:         sale.ID,
		CustomerName:   sale.CustomerName,
		TotalPrice:     sale.TotalPrice,
		IsOnline:       sale.IsOnline,
		ItemCount:      len(sale.Items),
		Date:           sale.Date,
		EventEmittedAt: time.Now().UnixNano(),
	})
	if err != nil {
		return nil, err
	}

	return s.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   uuid.NewString(),
		EventType: SaleCreated,
		SaleID:    sale.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	})
}

// validateCartItem проверяет корректность данных позиции.
func (s *SaleUseCase) validateCartItem(req *AddCartItemReq) error {
	if strings.TrimSpace(req.ProductID) == "" {
		return e.ErrProductNotFound
	}

	if req.Quantity <= 0 {
		return e.ErrQuantityNotPositive
	}

	if req.CustomPrice != nil && req.CustomPrice.IsNegative() {
		return e.ErrCustomPriceNegative
	}

	return nil
}
