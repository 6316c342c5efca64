package pgdb

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/jitter"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

// listenConn — срез pgx.Conn, нужный циклу прослушивания.
type listenConn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// CollectionWatcher слушает канал collection_changed и раздаёт сигналы
// подписчикам коллекций. Сигнал означает только «коллекция изменилась»:
// подписчик перечитывает её целиком, дельты не передаются.
type CollectionWatcher struct {
	logger logger.Logger
	dial   func(ctx context.Context) (listenConn, error)
	stop   chan struct{}
	wg     sync.WaitGroup

	retryBase time.Duration
	retryMax  time.Duration

	mu   sync.Mutex
	subs map[string][]chan struct{}
}

func NewCollectionWatcher(dbConnStr string, logger logger.Logger) *CollectionWatcher {
	return &CollectionWatcher{
		logger:    logger,
		dial:      dialAndListen(dbConnStr, notifyChannel, logger),
		stop:      make(chan struct{}),
		retryBase: 2 * time.Second,
		retryMax:  30 * time.Second,
		subs:      make(map[string][]chan struct{}),
	}
}

// dialAndListen открывает выделенное соединение и подписывает его на канал.
func dialAndListen(dbConnStr, channel string, log logger.Logger) func(ctx context.Context) (listenConn, error) {
	return func(ctx context.Context) (listenConn, error) {
		conn, err := pgx.Connect(ctx, dbConnStr)
		if err != nil {
			return nil, e.Wrap("failed to connect for LISTEN", err)
		}

		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			conn.Close(ctx)
			return nil, e.Wrap("failed to LISTEN", err)
		}

		log.Infof("Subscribed to '%s' channel", channel)
		return conn, nil
	}
}

// Subscribe возвращает канал сигналов об изменениях коллекции и функцию
// отписки. Канал с буфером в один сигнал: пропущенные во время обработки
// уведомления схлопываются в одно.
func (w *CollectionWatcher) Subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	w.mu.Lock()
	w.subs[collection] = append(w.subs[collection], ch)
	w.mu.Unlock()

	unsubscribe := func() {
		w.mu.Lock()
		defer w.mu.Unlock()

		channels := w.subs[collection]
		for i, c := range channels {
			if c == ch {
				w.subs[collection] = append(channels[:i], channels[i+1:]...)
				close(ch)
				return
			}
		}
	}

	return ch, unsubscribe
}

func (w *CollectionWatcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.listen(ctx)
	}()
}

func (w *CollectionWatcher) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *CollectionWatcher) listen(ctx context.Context) {
	conn, ok := w.connect(ctx)
	if !ok {
		return
	}
	defer func() { conn.Close(ctx) }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		default:
			ctxWithTimeout, cancel := context.WithTimeout(ctx, 30*time.Second)
			notif, err := conn.WaitForNotification(ctxWithTimeout)
			cancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				w.logger.Warnf("Connection lost: %v. Reconnecting...", err)
				conn.Close(ctx)

				if conn, ok = w.connect(ctx); !ok {
					return
				}
				continue
			}

			if notif != nil && notif.Channel == notifyChannel {
				w.logger.Debugf("Collection changed: %s", notif.Payload)
				w.broadcast(notif.Payload)
			}
		}
	}
}

// connect устанавливает соединение, повторяя попытки с экспоненциальным
// отступлением. Первое подключение идёт через тот же цикл, что и
// переподключение: недоступная на старте база не оставляет слушатель
// мёртвым до конца жизни процесса.
func (w *CollectionWatcher) connect(ctx context.Context) (listenConn, bool) {
	for attempt := 0; ; attempt++ {
		conn, err := w.dial(ctx)
		if err == nil {
			return conn, true
		}
		w.logger.Warnf("Connect failed: %v. Retrying...", err)

		select {
		case <-ctx.Done():
			return nil, false
		case <-w.stop:
			return nil, false
		case <-time.After(jitter.ExponentialBackoff(w.retryBase, w.retryMax, attempt, jitter.DefaultJitter)):
		}
	}
}

// broadcast будит подписчиков коллекции без блокировки: если сигнал уже
// лежит в буфере канала, новый не добавляется.
func (w *CollectionWatcher) broadcast(collection string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, ch := range w.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
