package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"restaurant-orders/order-svc/internal/domain"
)

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t testingT) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *EventPublisher) Publish(event domain.OrderEvent) {
	_m.Called(event)
}

type IdempotencyCache struct {
	mock.Mock
}

func NewIdempotencyCache(t testingT) *IdempotencyCache {
	m := &IdempotencyCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *IdempotencyCache) Reserve(ctx context.Context, restaurantID int64, key string) (*domain.OrderResult, bool, error) {
	ret := _m.Called(ctx, restaurantID, key)
	var r0 *domain.OrderResult
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.OrderResult)
	}
	return r0, ret.Bool(1), ret.Error(2)
}

func (_m *IdempotencyCache) Complete(ctx context.Context, restaurantID int64, key string, result domain.OrderResult) error {
	ret := _m.Called(ctx, restaurantID, key, result)
	return ret.Error(0)
}

func (_m *IdempotencyCache) Release(ctx context.Context, restaurantID int64, key string) error {
	ret := _m.Called(ctx, restaurantID, key)
	return ret.Error(0)
}

type EventExporter struct {
	mock.Mock
}

func NewEventExporter(t testingT) *EventExporter {
	m := &EventExporter{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *EventExporter) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	ret := _m.Called(ctx, event)
	return ret.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func NewQRGenerator(t testingT) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *QRGenerator) Generate(table domain.RestaurantTable) ([]byte, error) {
	ret := _m.Called(table)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}
