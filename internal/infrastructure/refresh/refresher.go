package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

const refreshTimeout = 10 * time.Second

// Refresher держит кэш сводки горячим: по каждому сигналу об изменении
// коллекции продаж перечитывает её целиком и кладёт свежую сводку в кэш.
// Без сигналов кэш просто истекает по TTL и пересчитывается по запросу.
type Refresher struct {
	saleRepo   usecase.SaleRepository
	cacheRepo  usecase.DashboardCacheRepository
	subscriber usecase.CollectionSubscriber
	logger     logger.Logger

	stop        chan struct{}
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewRefresher(
	saleRepo usecase.SaleRepository,
	cacheRepo usecase.DashboardCacheRepository,
	subscriber usecase.CollectionSubscriber,
	logger logger.Logger,
) *Refresher {
	return &Refresher{
		saleRepo:   saleRepo,
		cacheRepo:  cacheRepo,
		subscriber: subscriber,
		logger:     logger,
		stop:       make(chan struct{}),
	}
}

func (r *Refresher) Start(ctx context.Context) {
	changes, unsubscribe := r.subscriber.Subscribe("sales")
	r.unsubscribe = unsubscribe

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.stop:
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				r.refresh(ctx)
			}
		}
	}()
}

func (r *Refresher) Stop() {
	close(r.stop)
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
	r.wg.Wait()
}

func (r *Refresher) refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	sales, err := r.saleRepo.List(refreshCtx)
	if err != nil {
		r.logger.Warnf("Dashboard refresh: failed to list sales: %v", err)
		return
	}

	dashboard, drifted := usecase.BuildDashboard(sales)
	if len(drifted) > 0 {
		r.logger.Warnf("Dashboard refresh: %d sales have drifted totals", len(drifted))
	}

	if err := r.cacheRepo.SetDashboard(refreshCtx, dashboard); err != nil {
		r.logger.Warnf("Dashboard refresh: failed to cache dashboard: %v", err)
		return
	}

	r.logger.Debugf("Dashboard cache refreshed after sales change")
}
