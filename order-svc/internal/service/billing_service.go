package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/logging"
	"restaurant-orders/order-svc/internal/metrics"
)

// BillingService groups a table's active orders into a bill and settles them.
type BillingService struct {
	orders    OrderRepository
	catalog   CatalogRepository
	tables    TableRepository
	publisher EventPublisher
	qr        QRGenerator
	metrics   *metrics.Metrics
}

func NewBillingService(orders OrderRepository, catalog CatalogRepository, tables TableRepository, publisher EventPublisher, qr QRGenerator) *BillingService {
	return &BillingService{
		orders:    orders,
		catalog:   catalog,
		tables:    tables,
		publisher: publisher,
		qr:        qr,
	}
}

func (s *BillingService) WithMetrics(m *metrics.Metrics) *BillingService {
	s.metrics = m
	return s
}

func (s *BillingService) ListTables(ctx context.Context, restaurantID int64, scope domain.CallerScope) ([]domain.RestaurantTable, error) {
	if err := scope.Authorize(restaurantID); err != nil {
		return nil, err
	}
	tables, err := s.tables.ListTables(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	if tables == nil {
		tables = []domain.RestaurantTable{}
	}
	return tables, nil
}

// GetBill returns the active orders of a table with their line items. A table
// with nothing open yields an empty bill.
func (s *BillingService) GetBill(ctx context.Context, tableID int64, scope domain.CallerScope) ([]domain.OrderDetails, error) {
	active, err := s.activeOrders(ctx, tableID, scope)
	if err != nil {
		return nil, err
	}
	return assembleDetails(ctx, s.orders, s.catalog, active)
}

// Summary adds up the totals stored on each active order.
func (s *BillingService) Summary(ctx context.Context, tableID int64, scope domain.CallerScope) (domain.BillSummary, error) {
	active, err := s.activeOrders(ctx, tableID, scope)
	if err != nil {
		return domain.BillSummary{}, err
	}

	subTotal, discount, tax, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, o := range active {
		subTotal = subTotal.Add(o.SubTotal)
		discount = discount.Add(o.Discount)
		tax = tax.Add(o.Tax)
		total = total.Add(o.TotalAmount)
	}
	summary := domain.BillSummary{
		TableID:     tableID,
		OrderCount:  len(active),
		SubTotal:    domain.NewMoney(subTotal),
		Discount:    domain.NewMoney(discount),
		Tax:         domain.NewMoney(tax),
		TotalAmount: domain.NewMoney(total),
	}
	return summary, nil
}

// Checkout marks every active order of the table PAID in one atomic write and
// then announces each order on the bus.
func (s *BillingService) Checkout(ctx context.Context, tableID int64, scope domain.CallerScope) error {
	active, err := s.activeOrders(ctx, tableID, scope)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		return domain.ErrNoActiveOrders
	}

	ids := make([]int64, len(active))
	for i, o := range active {
		ids[i] = o.ID
	}
	paid, err := s.orders.BulkUpdateStatus(ctx, ids, domain.StatusPaid, domain.ActiveStatuses())
	if err != nil {
		return fmt.Errorf("checkout table %d: %w", tableID, err)
	}

	for _, o := range paid {
		s.publisher.Publish(domain.NewOrderEvent(o, domain.EventUpdated))
	}
	s.metrics.CheckedOut()

	logging.Ctx(ctx).Info().
		Int64("table_id", tableID).
		Ints64("order_ids", ids).
		Msg("table checked out")
	return nil
}

func (s *BillingService) TableQRCode(ctx context.Context, tableID int64, scope domain.CallerScope) ([]byte, error) {
	table, err := s.authorizedTable(ctx, tableID, scope)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Generate(*table)
	if err != nil {
		return nil, fmt.Errorf("generate qr code: %w", err)
	}
	return png, nil
}

func (s *BillingService) authorizedTable(ctx context.Context, tableID int64, scope domain.CallerScope) (*domain.RestaurantTable, error) {
	table, err := s.tables.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	if err := scope.Authorize(table.RestaurantID); err != nil {
		return nil, err
	}
	return table, nil
}

func (s *BillingService) activeOrders(ctx context.Context, tableID int64, scope domain.CallerScope) ([]domain.Order, error) {
	if _, err := s.authorizedTable(ctx, tableID, scope); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByTable(ctx, tableID, domain.ActiveStatuses())
	if err != nil {
		return nil, fmt.Errorf("list table orders: %w", err)
	}
	return orders, nil
}
