package pgdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
	"github.com/rkhn-textiles/pos-backend/internal/domain"
	"github.com/rkhn-textiles/pos-backend/internal/repository/pgdb/converter"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
)

// SubcategoryRepo реализует репозиторий подкатегорий поверх PostgreSQL.
type SubcategoryRepo struct {
	pool *pgxpool.Pool
	conv converter.SubcategoryConverter
}

func NewSubcategoryRepo(pool *pgxpool.Pool, conv converter.SubcategoryConverter) *SubcategoryRepo {
	return &SubcategoryRepo{pool: pool, conv: conv}
}

// Create сохраняет подкатегорию со ссылкой на родительскую категорию.
func (s *SubcategoryRepo) Create(ctx context.Context, subcategory *domain.Subcategory) (*domain.Subcategory, error) {
	model := s.conv.ToModel(subcategory)
	model.ID = uuid.NewString()

	query := `
		INSERT INTO subcategories (id, category_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at;
	`

	if err := s.pool.QueryRow(ctx, query, model.ID, model.CategoryID, model.Name, model.Description).
		Scan(&model.CreatedAt); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := notifyCollectionChanged(ctx, s.pool, collectionSubcategories); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s.conv.ToEntity(model), nil
}

// List возвращает полный снимок коллекции подкатегорий в порядке добавления.
func (s *SubcategoryRepo) List(ctx context.Context) ([]domain.Subcategory, error) {
	query := `
		SELECT id, category_id, name, description, created_at
		FROM subcategories
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.Subcategory, 0)
	for rows.Next() {
		var model converter.SubcategoryModel
		if err := rows.Scan(
			&model.ID, &model.CategoryID, &model.Name, &model.Description, &model.CreatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *s.conv.ToEntity(&model))
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
