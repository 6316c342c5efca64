package pgdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/internal/repository/pgdb/converter"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/tr"
)

// SaleRepo реализует репозиторий продаж поверх PostgreSQL.
type SaleRepo struct {
	pool *pgxpool.Pool
	conv converter.SaleConverter
}

func NewSaleRepo(pool *pgxpool.Pool, conv converter.SaleConverter) *SaleRepo {
	return &SaleRepo{pool: pool, conv: conv}
}

// Create сохраняет продажу. Выполняется внутри транзакции из контекста:
// продажа пишется одной транзакцией с outbox-событием, а уведомление
// подписчикам уходит только после коммита.
func (s *SaleRepo) Create(ctx context.Context, sale *domain.Sale) (*domain.Sale, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	model, err := s.conv.ToModel(sale)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	model.ID = uuid.NewString()

	query := `
		INSERT INTO sales (
			id,
			items,
			customer_name,
			customer_phone,
			notes,
			is_recurring,
			total_price,
			date,
			is_online,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`

	if _, err := tx.Exec(ctx, query,
		model.ID,
		model.Items,
		model.CustomerName,
		model.CustomerPhone,
		model.Notes,
		model.IsRecurring,
		model.TotalPrice,
		model.Date,
		model.IsOnline,
		model.Status,
	); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := notifyCollectionChanged(ctx, tx, collectionSales); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	created, err := s.conv.ToEntity(model)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return created, nil
}

// List возвращает полный снимок коллекции продаж в порядке записи.
func (s *SaleRepo) List(ctx context.Context) ([]domain.Sale, error) {
	query := `
		SELECT id, items, customer_name, customer_phone, notes,
		       is_recurring, total_price, date, is_online, status
		FROM sales
		ORDER BY date, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Sale, 0)
	for rows.Next() {
		var model converter.SaleModel
		if err := rows.Scan(
			&model.ID, &model.Items, &model.CustomerName, &model.CustomerPhone, &model.Notes,
			&model.IsRecurring, &model.TotalPrice, &model.Date, &model.IsOnline, &model.Status,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		sale, err := s.conv.ToEntity(&model)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
