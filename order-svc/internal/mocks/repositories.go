// Package mocks holds testify mocks of the service-layer interfaces, in the
// shape mockery generates them.
package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"restaurant-orders/order-svc/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t testingT) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error {
	ret := _m.Called(ctx, order, items)
	return ret.Error(0)
}

func (_m *OrderRepository) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	ret := _m.Called(ctx, orderID)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListByRestaurant(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, restaurantID, statuses)
	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListByTable(ctx context.Context, tableID int64, statuses []domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, tableID, statuses)
	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) ListItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error) {
	ret := _m.Called(ctx, orderIDs)
	var r0 []domain.OrderItem
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.OrderItem)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) UpdateStatus(ctx context.Context, change domain.StatusChange) (*domain.Order, error) {
	ret := _m.Called(ctx, change)
	var r0 *domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderRepository) BulkUpdateStatus(ctx context.Context, orderIDs []int64, status domain.OrderStatus, from []domain.OrderStatus) ([]domain.Order, error) {
	ret := _m.Called(ctx, orderIDs, status, from)
	var r0 []domain.Order
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.Order)
	}
	return r0, ret.Error(1)
}

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t testingT) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CatalogRepository) FindMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error) {
	ret := _m.Called(ctx, ids)
	var r0 map[int64]domain.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.(map[int64]domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) FindMenuItemByName(ctx context.Context, restaurantID int64, name string) (*domain.MenuItem, error) {
	ret := _m.Called(ctx, restaurantID, name)
	var r0 *domain.MenuItem
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.MenuItem)
	}
	return r0, ret.Error(1)
}

func (_m *CatalogRepository) EnsureCategory(ctx context.Context, restaurantID int64, name string, displayOrder int) (int64, error) {
	ret := _m.Called(ctx, restaurantID, name, displayOrder)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *CatalogRepository) CreateMenuItem(ctx context.Context, item *domain.MenuItem) error {
	ret := _m.Called(ctx, item)
	return ret.Error(0)
}

func (_m *CatalogRepository) UpdateMenuItemPrice(ctx context.Context, menuItemID int64, price decimal.Decimal) error {
	ret := _m.Called(ctx, menuItemID, price)
	return ret.Error(0)
}

type CustomerRepository struct {
	mock.Mock
}

func NewCustomerRepository(t testingT) *CustomerRepository {
	m := &CustomerRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *CustomerRepository) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	ret := _m.Called(ctx, customerID)
	var r0 *domain.Customer
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.Customer)
	}
	return r0, ret.Error(1)
}

func (_m *CustomerRepository) MarkMember(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

type VipConfigRepository struct {
	mock.Mock
}

func NewVipConfigRepository(t testingT) *VipConfigRepository {
	m := &VipConfigRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *VipConfigRepository) GetVipConfig(ctx context.Context, restaurantID int64) (*domain.VipConfig, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 *domain.VipConfig
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.VipConfig)
	}
	return r0, ret.Error(1)
}

type TableRepository struct {
	mock.Mock
}

func NewTableRepository(t testingT) *TableRepository {
	m := &TableRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *TableRepository) GetTable(ctx context.Context, tableID int64) (*domain.RestaurantTable, error) {
	ret := _m.Called(ctx, tableID)
	var r0 *domain.RestaurantTable
	if v := ret.Get(0); v != nil {
		r0 = v.(*domain.RestaurantTable)
	}
	return r0, ret.Error(1)
}

func (_m *TableRepository) ListTables(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error) {
	ret := _m.Called(ctx, restaurantID)
	var r0 []domain.RestaurantTable
	if v := ret.Get(0); v != nil {
		r0 = v.([]domain.RestaurantTable)
	}
	return r0, ret.Error(1)
}
