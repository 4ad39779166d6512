package service

import (
	"context"

	"github.com/shopspring/decimal"

	"restaurant-orders/order-svc/internal/domain"
)

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.OrderResult, error)
	UpdateStatus(ctx context.Context, orderID int64, status string, scope domain.CallerScope) (domain.OrderResult, error)
	ListOrders(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus, scope domain.CallerScope) ([]domain.OrderDetails, error)
}

type BillingServiceInterface interface {
	ListTables(ctx context.Context, restaurantID int64, scope domain.CallerScope) ([]domain.RestaurantTable, error)
	GetBill(ctx context.Context, tableID int64, scope domain.CallerScope) ([]domain.OrderDetails, error)
	Summary(ctx context.Context, tableID int64, scope domain.CallerScope) (domain.BillSummary, error)
	Checkout(ctx context.Context, tableID int64, scope domain.CallerScope) error
	TableQRCode(ctx context.Context, tableID int64, scope domain.CallerScope) ([]byte, error)
}

// OrderRepository is the order store. It performs no transition checks.
type OrderRepository interface {
	// CreateOrder inserts the order and its items atomically, filling in ids and timestamps.
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByRestaurant(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus) ([]domain.Order, error)
	ListByTable(ctx context.Context, tableID int64, statuses []domain.OrderStatus) ([]domain.Order, error)
	ListItems(ctx context.Context, orderIDs []int64) ([]domain.OrderItem, error)
	UpdateStatus(ctx context.Context, change domain.StatusChange) (*domain.Order, error)
	// BulkUpdateStatus moves every listed order to status, all or nothing. Orders
	// whose current status is not in from make the whole call fail.
	BulkUpdateStatus(ctx context.Context, orderIDs []int64, status domain.OrderStatus, from []domain.OrderStatus) ([]domain.Order, error)
}

type CatalogRepository interface {
	FindMenuItems(ctx context.Context, ids []int64) (map[int64]domain.MenuItem, error)
	FindMenuItemByName(ctx context.Context, restaurantID int64, name string) (*domain.MenuItem, error)
	EnsureCategory(ctx context.Context, restaurantID int64, name string, displayOrder int) (int64, error)
	CreateMenuItem(ctx context.Context, item *domain.MenuItem) error
	UpdateMenuItemPrice(ctx context.Context, menuItemID int64, price decimal.Decimal) error
}

type CustomerRepository interface {
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	MarkMember(ctx context.Context, customerID int64) error
}

type VipConfigRepository interface {
	GetVipConfig(ctx context.Context, restaurantID int64) (*domain.VipConfig, error)
}

type TableRepository interface {
	GetTable(ctx context.Context, tableID int64) (*domain.RestaurantTable, error)
	ListTables(ctx context.Context, restaurantID int64) ([]domain.RestaurantTable, error)
}

type EventPublisher interface {
	Publish(event domain.OrderEvent)
}

// IdempotencyCache remembers the outcome of keyed order placements.
type IdempotencyCache interface {
	// Reserve claims key. If it was already claimed, the stored result is
	// returned when the first request finished, or nil while it is still running.
	Reserve(ctx context.Context, restaurantID int64, key string) (cached *domain.OrderResult, reserved bool, err error)
	Complete(ctx context.Context, restaurantID int64, key string, result domain.OrderResult) error
	Release(ctx context.Context, restaurantID int64, key string) error
}

type EventExporter interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

var (
	_ OrderServiceInterface   = (*OrderService)(nil)
	_ BillingServiceInterface = (*BillingService)(nil)
)
