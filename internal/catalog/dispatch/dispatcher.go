// Package dispatch delivers low-stock alerts off the request path. Events go
// into a bounded in-memory queue drained by a fixed pool of workers; each
// event gets exactly one delivery attempt and is lost on failure.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
)

const (
	DefaultQueueSize = 64
	DefaultWorkers   = 4
)

// NeedsAlert reports whether a sale that left newStock units must raise a
// low-stock alert.
func NeedsAlert(newStock, threshold int) bool {
	return newStock < threshold
}

// Notifier performs one delivery of an alert.
type Notifier interface {
	Notify(ctx context.Context, ev models.StockEvent) error
}

// Stats are running counters of a Dispatcher.
type Stats struct {
	Accepted  uint64
	Dropped   uint64
	Delivered uint64
	Failed    uint64
	Abandoned uint64
}

type Dispatcher struct {
	notifier Notifier
	workers  int
	logger   logging.Logger

	queue chan models.StockEvent

	mu      sync.RWMutex
	closed  bool
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	accepted, dropped, delivered, failed, abandoned atomic.Uint64
}

func NewDispatcher(n Notifier, queueSize, workers int, logger logging.Logger) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Dispatcher{
		notifier: n,
		workers:  workers,
		logger:   logger.With("module", "dispatch"),
		queue:    make(chan models.StockEvent, queueSize),
	}
}

// Start launches the worker pool. Deliveries run under a context derived
// from parent that is cancelled by Shutdown once its deadline passes.
func (d *Dispatcher) Start(parent context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	d.ctx, d.cancel = context.WithCancel(context.WithoutCancel(parent))

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.logger.Info(parent, "alert workers started", "workers", d.workers, "queue_size", cap(d.queue))
}

// Dispatch enqueues ev without blocking. When the queue is full or intake
// is closed the event is dropped and false is returned.
func (d *Dispatcher) Dispatch(ev models.StockEvent) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(1)
		d.logger.Warn(context.Background(), "alert dropped: dispatcher closed", "product_id", ev.ProductID, "stock", ev.CurrentStock)
		return false
	}

	select {
	case d.queue <- ev:
		d.accepted.Add(1)
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn(context.Background(), "alert dropped: queue full", "product_id", ev.ProductID, "stock", ev.CurrentStock, "queue_size", cap(d.queue))
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if d.ctx.Err() != nil {
			d.abandoned.Add(1)
			continue
		}
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev models.StockEvent) {
	if err := d.notifier.Notify(d.ctx, ev); err != nil {
		d.failed.Add(1)
		d.logger.Error(d.ctx, "alert delivery failed", "product_id", ev.ProductID, "stock", ev.CurrentStock, "error", err)
		return
	}
	d.delivered.Add(1)
	d.logger.Info(d.ctx, "alert delivered", "product_id", ev.ProductID, "stock", ev.CurrentStock)
}

// Shutdown closes intake and waits for the queue to drain. If ctx expires
// first, in-flight deliveries are cancelled and queued events abandoned.
// The returned error is ctx's error in that case.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		n := uint64(len(d.queue))
		d.abandoned.Add(n)
		return nil
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		d.cancel()
		<-done
	}
	d.cancel()

	s := d.Stats()
	d.logger.Info(ctx, "alert dispatcher stopped",
		"accepted", s.Accepted, "dropped", s.Dropped, "delivered", s.Delivered,
		"failed", s.Failed, "abandoned", s.Abandoned)
	return err
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Accepted:  d.accepted.Load(),
		Dropped:   d.dropped.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Abandoned: d.abandoned.Load(),
	}
}
