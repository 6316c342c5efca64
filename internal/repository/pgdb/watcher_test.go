package pgdb

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...any)            {}
func (noopLogger) Infof(format string, args ...any)             {}
func (noopLogger) Warnf(format string, args ...any)             {}
func (noopLogger) Errorf(err error, format string, args ...any) {}

type fakeListenConn struct {
	notifs chan *pgconn.Notification
}

func (c *fakeListenConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	select {
	case n := <-c.notifs:
		return n, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *fakeListenConn) Close(ctx context.Context) error { return nil }

// Недоступная на старте база не должна навсегда оставить подписчиков
// без сигналов: первое подключение повторяется так же, как переподключение.
func TestWatcherRetriesInitialConnect(t *testing.T) {
	conn := &fakeListenConn{notifs: make(chan *pgconn.Notification, 1)}

	var dials atomic.Int32
	w := NewCollectionWatcher("", noopLogger{})
	w.retryBase = time.Millisecond
	w.retryMax = 5 * time.Millisecond
	w.dial = func(ctx context.Context) (listenConn, error) {
		if dials.Add(1) <= 2 {
			return nil, errors.New("connection refused")
		}
		return conn, nil
	}

	changes, unsubscribe := w.Subscribe("sales")
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	conn.notifs <- &pgconn.Notification{Channel: notifyChannel, Payload: "sales"}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change signal after retried connect")
	}

	cancel()
	w.Stop()

	assert.GreaterOrEqual(t, dials.Load(), int32(3))
}

func TestWatcherBroadcastCollapsesSignals(t *testing.T) {
	w := NewCollectionWatcher("", noopLogger{})

	changes, unsubscribe := w.Subscribe("products")

	w.broadcast("products")
	w.broadcast("products")

	<-changes
	select {
	case <-changes:
		t.Fatal("collapsed signal must not be delivered twice")
	default:
	}

	unsubscribe()
	_, open := <-changes
	assert.False(t, open)
}
