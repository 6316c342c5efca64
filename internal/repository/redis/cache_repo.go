package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
	"github.com/rkhn-textiles/pos-backend/internal/cfg"
	"github.com/rkhn-textiles/pos-backend/internal/repository/redis/converter"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/clients"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

// dashboardKey — единственный ключ кэша сводки продаж.
const dashboardKey = "dashboard:sales"

type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.DashboardConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.DashboardConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetDashboard возвращает закэшированную сводку продаж.
// Промах кэша — не ошибка: возвращается nil, nil.
func (c *CacheRepo) GetDashboard(ctx context.Context) (*usecase.SalesDashboard, error) {
	data, err := c.client.Client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, nil // cache miss
		}

		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.DashboardRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		// Нечитаемая запись бесполезна — убираем её, чтобы не спотыкаться снова
		c.logger.Warnf("Dashboard cache unmarshal failed: %v", e.Wrap(whereami.WhereAmI(), err))
		if delErr := c.client.Client.Del(context.Background(), dashboardKey).Err(); delErr != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), delErr))
		}

		return nil, nil
	}

	return c.conv.ToUseCase(&model), nil
}

// SetDashboard кэширует сводку продаж с настроенным TTL.
func (c *CacheRepo) SetDashboard(ctx context.Context, dashboard *usecase.SalesDashboard) error {
	model := c.conv.ToRedisModel(dashboard)

	data, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("%s: failed to marshal dashboard for caching: %w", whereami.WhereAmI(), err)
	}

	if err := c.client.Client.Set(ctx, dashboardKey, data, c.cfg.DashboardTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// DeleteDashboard инвалидирует кэш сводки.
func (c *CacheRepo) DeleteDashboard(ctx context.Context) error {
	if err := c.client.Client.Del(ctx, dashboardKey).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
