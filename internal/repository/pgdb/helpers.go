package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Имена коллекций в канале уведомлений collection_changed.
const (
	collectionProducts      = "products"
	collectionCategories    = "categories"
	collectionSubcategories = "subcategories"
	collectionSales         = "sales"
)

// notifyChannel — общий канал LISTEN/NOTIFY для сигналов об изменении коллекций.
const notifyChannel = "collection_changed"

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// notifyCollectionChanged посылает сигнал подписчикам коллекции.
// Внутри транзакции уведомление уходит только после коммита.
func notifyCollectionChanged(ctx context.Context, db execer, collection string) error {
	_, err := db.Exec(ctx, "SELECT pg_notify($1, $2);", notifyChannel, collection)
	return err
}

func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
