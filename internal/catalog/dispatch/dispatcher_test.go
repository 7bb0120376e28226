package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/catalog/models"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	events  []models.StockEvent
	err     error
	block   chan struct{}
	started chan struct{}
}

func (r *recordingNotifier) Notify(ctx context.Context, ev models.StockEvent) error {
	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recordingNotifier) got() []models.StockEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.StockEvent(nil), r.events...)
}

func ev(id string, stock int) models.StockEvent {
	return models.StockEvent{ProductID: id, ProductName: "Widget", CurrentStock: stock}
}

func TestNeedsAlert(t *testing.T) {
	assert.True(t, NeedsAlert(9, 10))
	assert.False(t, NeedsAlert(10, 10))
	assert.False(t, NeedsAlert(9, 5))
	assert.True(t, NeedsAlert(0, 1))
	assert.False(t, NeedsAlert(0, 0))
}

func TestDispatcher_DeliversEachEventOnce(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(n, 8, 2, logging.Discard())
	d.Start(context.Background())

	for i := 0; i < 5; i++ {
		require.True(t, d.Dispatch(ev("p", i)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Shutdown(ctx))

	assert.Len(t, n.got(), 5)
	s := d.Stats()
	assert.Equal(t, Stats{Accepted: 5, Delivered: 5}, s)
}

func TestDispatcher_FailuresAreOnlyCounted(t *testing.T) {
	n := &recordingNotifier{err: errors.New("webhook down")}
	d := NewDispatcher(n, 4, 1, logging.Discard())
	d.Start(context.Background())

	require.True(t, d.Dispatch(ev("p", 1)))
	require.NoError(t, d.Shutdown(context.Background()))

	assert.Len(t, n.got(), 1)
	assert.Equal(t, uint64(1), d.Stats().Failed)
}

func TestDispatcher_DropsNewestWhenFull(t *testing.T) {
	n := &recordingNotifier{block: make(chan struct{}), started: make(chan struct{}, 10)}
	d := NewDispatcher(n, 2, 1, logging.Discard())
	d.Start(context.Background())

	require.True(t, d.Dispatch(ev("a", 1)))
	<-n.started // worker holds "a"

	require.True(t, d.Dispatch(ev("b", 1)))
	require.True(t, d.Dispatch(ev("c", 1)))

	done := make(chan bool)
	go func() { done <- d.Dispatch(ev("d", 1)) }()
	select {
	case accepted := <-done:
		assert.False(t, accepted)
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}

	close(n.block)
	require.NoError(t, d.Shutdown(context.Background()))

	var ids []string
	for _, e := range n.got() {
		ids = append(ids, e.ProductID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, uint64(1), d.Stats().Dropped)
}

func TestDispatcher_RejectsAfterShutdown(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, 2, 1, logging.Discard())
	d.Start(context.Background())
	require.NoError(t, d.Shutdown(context.Background()))

	assert.False(t, d.Dispatch(ev("p", 1)))
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_ShutdownDeadlineCancelsInFlight(t *testing.T) {
	n := &recordingNotifier{block: make(chan struct{}), started: make(chan struct{}, 10)}
	d := NewDispatcher(n, 4, 1, logging.Discard())
	d.Start(context.Background())

	require.True(t, d.Dispatch(ev("a", 1)))
	<-n.started
	require.True(t, d.Dispatch(ev("b", 1)))
	require.True(t, d.Dispatch(ev("c", 1)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := d.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	s := d.Stats()
	assert.Equal(t, uint64(1), s.Failed)
	assert.Equal(t, uint64(2), s.Abandoned)
	assert.Empty(t, n.got())
}

func TestDispatcher_ShutdownWithoutStart(t *testing.T) {
	d := NewDispatcher(&recordingNotifier{}, 2, 1, logging.Discard())
	require.True(t, d.Dispatch(ev("p", 1)))
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, uint64(1), d.Stats().Abandoned)
}

func TestHTTPNotifier_Notify(t *testing.T) {
	var got models.StockEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/webhook/stock-alert", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := NewHTTPNotifier(srv.URL+"/webhook/stock-alert", time.Second).Notify(context.Background(), ev("p1", 3))
	require.NoError(t, err)
	assert.Equal(t, ev("p1", 3), got)
}

func TestHTTPNotifier_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	assert.Error(t, NewHTTPNotifier(srv.URL, time.Second).Notify(context.Background(), ev("p1", 3)))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	err := NewHTTPNotifier(slow.URL, 20*time.Millisecond).Notify(context.Background(), ev("p1", 3))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
