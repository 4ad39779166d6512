// Package eventbus fans order events out to in-process subscribers.
//
// Subscribers are registered per restaurant and each owns a bounded buffer.
// Publish never blocks: when a subscriber's buffer is full the event is dropped
// for that subscriber only.
package eventbus

import (
	"sync"
	"sync/atomic"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/logging"
)

const DefaultBufferSize = 100

// Every dropLogEvery-th drop on a subscription is logged, plus the first one.
const dropLogEvery = 100

type Bus struct {
	mu         sync.RWMutex
	bufferSize int
	nextID     uint64
	byTenant   map[int64]map[uint64]*Subscription
	firehose   map[uint64]*Subscription
	closed     bool
	dropped    atomic.Uint64
}

func New(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		bufferSize: bufferSize,
		byTenant:   make(map[int64]map[uint64]*Subscription),
		firehose:   make(map[uint64]*Subscription),
	}
}

type Subscription struct {
	id           uint64
	restaurantID int64
	all          bool
	bus          *Bus
	events       chan domain.OrderEvent
	dropped      atomic.Uint64
	once         sync.Once
}

// Events is closed when the subscription or the bus is closed.
func (s *Subscription) Events() <-chan domain.OrderEvent {
	return s.events
}

func (s *Subscription) RestaurantID() int64 {
	return s.restaurantID
}

func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription. It is safe to call more than once and
// concurrently with Publish.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.remove(s)
	})
}

// Subscribe registers a live view of events for one restaurant. Only events
// published after the call are delivered.
func (b *Bus) Subscribe(restaurantID int64) *Subscription {
	return b.add(restaurantID, false)
}

// SubscribeAll sees every tenant's events. Reserved for in-process exporters,
// never handed to a client connection.
func (b *Bus) SubscribeAll() *Subscription {
	return b.add(0, true)
}

func (b *Bus) add(restaurantID int64, all bool) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:           b.nextID,
		restaurantID: restaurantID,
		all:          all,
		bus:          b,
		events:       make(chan domain.OrderEvent, b.bufferSize),
	}

	if b.closed {
		close(sub.events)
		sub.once.Do(func() {})
		return sub
	}

	if all {
		b.firehose[sub.id] = sub
		return sub
	}
	tenant, ok := b.byTenant[restaurantID]
	if !ok {
		tenant = make(map[uint64]*Subscription)
		b.byTenant[restaurantID] = tenant
	}
	tenant[sub.id] = sub
	return sub
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if sub.all {
		delete(b.firehose, sub.id)
	} else if tenant, ok := b.byTenant[sub.restaurantID]; ok {
		delete(tenant, sub.id)
		if len(tenant) == 0 {
			delete(b.byTenant, sub.restaurantID)
		}
	}
	close(sub.events)
}

// Publish delivers event to the subscribers of its restaurant and to the
// firehose. It never blocks and never fails.
func (b *Bus) Publish(event domain.OrderEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, sub := range b.byTenant[event.RestaurantID] {
		b.deliver(sub, event)
	}
	for _, sub := range b.firehose {
		b.deliver(sub, event)
	}
}

func (b *Bus) deliver(sub *Subscription, event domain.OrderEvent) {
	select {
	case sub.events <- event:
	default:
		b.dropped.Add(1)
		n := sub.dropped.Add(1)
		if n == 1 || n%dropLogEvery == 0 {
			logging.Warn().
				Uint64("subscription", sub.id).
				Int64("restaurant_id", sub.restaurantID).
				Int64("order_id", event.OrderID).
				Uint64("dropped", n).
				Msg("subscriber buffer full, dropping event")
		}
	}
}

// SubscriberCount counts tenant subscriptions; firehose taps are excluded.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, tenant := range b.byTenant {
		n += len(tenant)
	}
	return n
}

func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close ends every subscription. Later publishes are ignored and later
// subscriptions start closed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, tenant := range b.byTenant {
		for _, sub := range tenant {
			close(sub.events)
		}
	}
	for _, sub := range b.firehose {
		close(sub.events)
	}
	b.byTenant = map[int64]map[uint64]*Subscription{}
	b.firehose = map[uint64]*Subscription{}
}
