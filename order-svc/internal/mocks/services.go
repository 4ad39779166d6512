package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"restaurant-orders/order-svc/internal/domain"
)

type OrderService struct {
	mock.Mock
}

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.OrderResult, error) {
	ret := _m.Called(ctx, req)
	return ret.Get(0).(domain.OrderResult), ret.Error(1)
}

func (_m *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string, scope domain.CallerScope) (domain.OrderResult, error) {
	ret := _m.Called(ctx, orderID, status, scope)
	return ret.Get(0).(domain.OrderResult), ret.Error(1)
}

func (_m *OrderService) ListOrders(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus, scope domain.CallerScope) ([]domain.OrderDetails, error) {
	ret := _m.Called(ctx, restaurantID, statuses, scope)
	var r0 []domain.OrderDetails
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.OrderDetails)
	}
	return r0, ret.Error(1)
}

type BillingService struct {
	mock.Mock
}

func NewBillingService(t testingT) *BillingService {
	m := &BillingService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *BillingService) ListTables(ctx context.Context, restaurantID int64, scope domain.CallerScope) ([]domain.RestaurantTable, error) {
	ret := _m.Called(ctx, restaurantID, scope)
	var r0 []domain.RestaurantTable
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.RestaurantTable)
	}
	return r0, ret.Error(1)
}

func (_m *BillingService) GetBill(ctx context.Context, tableID int64, scope domain.CallerScope) ([]domain.OrderDetails, error) {
	ret := _m.Called(ctx, tableID, scope)
	var r0 []domain.OrderDetails
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.OrderDetails)
	}
	return r0, ret.Error(1)
}

func (_m *BillingService) Summary(ctx context.Context, tableID int64, scope domain.CallerScope) (domain.BillSummary, error) {
	ret := _m.Called(ctx, tableID, scope)
	return ret.Get(0).(domain.BillSummary), ret.Error(1)
}

func (_m *BillingService) Checkout(ctx context.Context, tableID int64, scope domain.CallerScope) error {
	ret := _m.Called(ctx, tableID, scope)
	return ret.Error(0)
}

func (_m *BillingService) TableQRCode(ctx context.Context, tableID int64, scope domain.CallerScope) ([]byte, error) {
	ret := _m.Called(ctx, tableID, scope)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}
