package kafka

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rkhn-textiles/pos-backend/internal/usecase"
	"github.com/rkhn-textiles/pos-backend/pkg/e"
	"github.com/rkhn-textiles/pos-backend/pkg/jitter"
	"github.com/rkhn-textiles/pos-backend/pkg/logger"
)

const outboxChannel = "outbox_pending"

// listenConn — срез pgx.Conn, нужный слушателю уведомлений.
type listenConn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type OutboxWorker struct {
	repo     usecase.OutboxRepository
	logger   logger.Logger
	producer usecase.MessageProducer
	dial     func(ctx context.Context) (listenConn, error)
	stop     chan struct{}
	wg       sync.WaitGroup

	retryBase time.Duration
	retryMax  time.Duration
}

func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	dbConnStr string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:     repo,
		logger:   logger,
		producer: producer,
		dial: func(ctx context.Context) (listenConn, error) {
			conn, err := pgx.Connect(ctx, dbConnStr)
			if err != nil {
				return nil, e.Wrap("failed to connect for LISTEN", err)
			}

			if _, err := conn.Exec(ctx, "LISTEN "+outboxChannel); err != nil {
				conn.Close(ctx)
				return nil, e.Wrap("failed to LISTEN", err)
			}

			logger.Infof("Subscribed to '%s' channel", outboxChannel)
			return conn, nil
		},
		stop:      make(chan struct{}),
		retryBase: 2 * time.Second,
		retryMax:  30 * time.Second,
	}
}

func (w *OutboxWorker) Start(ctx context.Context) {
	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()

	// Запускаем слушатель уведомлений
	go func() {
		defer w.wg.Done()
		w.listenOutboxNotifications(ctx)
	}()
}

func (w *OutboxWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *OutboxWorker) run(ctx context.Context) {
	// Обрабатываем "остатки" при старте
	w.logger.Infof("Draining pending outbox events on startup...")
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("startup batch failed: %v", err)
			return
		}
		if !hasMore {
			break
		}
	}

	<-ctx.Done()
	w.logger.Infof("Worker stopped by context cancellation")
}

func (w *OutboxWorker) listenOutboxNotifications(ctx context.Context) {
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

			if notif != nil && notif.Channel == outboxChannel {
				w.logger.Debugf("Received outbox notification, draining outbox events")
				for {
					hasMore, err := w.processBatch(ctx)
					if err != nil {
						w.logger.Warnf("Batch processing failed: %v", err)
						break
					}
					if !hasMore {
						break
					}
				}
			}
		}
	}
}

// connect устанавливает соединение, повторяя попытки с экспоненциальным
// отступлением. Первое подключение идёт через тот же цикл, что и
// переподключение: недоступная на старте база не оставляет слушатель
// мёртвым до конца жизни процесса.
func (w *OutboxWorker) connect(ctx context.Context) (listenConn, bool) {
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

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, 10)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
		}
	}

	return true, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.SaleID, event.Payload)); err != nil {
		// Добавляем retry логику для временных ошибок
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, will retry", err)
		}
		return e.Wrap("Permanent Kafka failure", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
