package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

type fakeBus struct {
	subscribers int
	dropped     uint64
}

func (f fakeBus) SubscriberCount() int { return f.subscribers }
func (f fakeBus) Dropped() uint64      { return f.dropped }

func TestMetrics_Recording(t *testing.T) {
	m := New("order_svc")

	m.OrderPlaced("dine_in")
	m.OrderPlaced("dine_in")
	m.StatusChanged("READY")
	m.CheckedOut()
	m.ObserveRequest("/api/orders", http.StatusOK, 12*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OrdersPlaced.WithLabelValues("dine_in")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusChanges.WithLabelValues("READY")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("/api/orders", "200")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.OrderPlaced("takeaway")
		m.StatusChanged("PAID")
		m.CheckedOut()
		m.ObserveRequest("/x", 500, time.Second)
	})
}

func TestMetrics_HandlerExposesEventBus(t *testing.T) {
	m := New("order_svc")
	m.WatchEventBus(fakeBus{subscribers: 3, dropped: 9})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "restaurant_eventbus_subscribers 3")
	assert.Contains(t, rec.Body.String(), "restaurant_eventbus_dropped_events_total 9")
}
