package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-orders/order-svc/internal/domain"
	"restaurant-orders/order-svc/internal/logging"
	"restaurant-orders/order-svc/internal/metrics"
	"restaurant-orders/order-svc/internal/pricing"
)

const (
	VipItemName               = "VIP Membership"
	VipCategoryName           = "Memberships"
	VipCategoryDisplayOrder   = 999
	defaultVipItemDescription = "Unlock exclusive member discounts on every order"
)

type OrderService struct {
	orders    OrderRepository
	catalog   CatalogRepository
	customers CustomerRepository
	vip       VipConfigRepository
	engine    *pricing.Engine
	publisher EventPublisher
	cache     IdempotencyCache
	metrics   *metrics.Metrics
}

func NewOrderService(
	orders OrderRepository,
	catalog CatalogRepository,
	customers CustomerRepository,
	vip VipConfigRepository,
	engine *pricing.Engine,
	publisher EventPublisher,
) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		customers: customers,
		vip:       vip,
		engine:    engine,
		publisher: publisher,
	}
}

// WithIdempotency enables Idempotency-Key handling on PlaceOrder.
func (s *OrderService) WithIdempotency(cache IdempotencyCache) *OrderService {
	s.cache = cache
	return s
}

func (s *OrderService) WithMetrics(m *metrics.Metrics) *OrderService {
	s.metrics = m
	return s
}

func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.OrderResult, error) {
	if len(req.Items) == 0 {
		return domain.OrderResult{}, domain.ErrEmptyOrder
	}
	if req.IdempotencyKey == "" || s.cache == nil {
		return s.placeOrder(ctx, req)
	}

	cached, reserved, err := s.cache.Reserve(ctx, req.RestaurantID, req.IdempotencyKey)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("idempotency_key", req.IdempotencyKey).Msg("idempotency cache unavailable, placing order without it")
		return s.placeOrder(ctx, req)
	}
	if cached != nil {
		logging.Ctx(ctx).Info().Int64("order_id", cached.ID).Str("idempotency_key", req.IdempotencyKey).Msg("replaying order placement")
		return *cached, nil
	}
	if !reserved {
		return domain.OrderResult{}, domain.ErrRequestInFlight
	}

	result, err := s.placeOrder(ctx, req)
	if err != nil {
		if releaseErr := s.cache.Release(ctx, req.RestaurantID, req.IdempotencyKey); releaseErr != nil {
			logging.Ctx(ctx).Warn().Err(releaseErr).Str("idempotency_key", req.IdempotencyKey).Msg("failed to release idempotency key")
		}
		return domain.OrderResult{}, err
	}
	if err := s.cache.Complete(ctx, req.RestaurantID, req.IdempotencyKey, result); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("order_id", result.ID).Msg("failed to store idempotent result")
		// A pending claim would answer retries with 409 until it expires.
		if releaseErr := s.cache.Release(ctx, req.RestaurantID, req.IdempotencyKey); releaseErr != nil {
			logging.Ctx(ctx).Warn().Err(releaseErr).Str("idempotency_key", req.IdempotencyKey).Msg("failed to release idempotency key")
		}
	}
	return result, nil
}

func (s *OrderService) placeOrder(ctx context.Context, req domain.PlaceOrderRequest) (domain.OrderResult, error) {
	menuIDs := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Kind == domain.CatalogLine {
			menuIDs = append(menuIDs, item.MenuItemID)
		}
	}

	vipConfig, err := s.vip.GetVipConfig(ctx, req.RestaurantID)
	if err != nil && !errors.Is(err, domain.ErrVipConfigNotFound) {
		return domain.OrderResult{}, fmt.Errorf("load vip config: %w", err)
	}

	menu, err := s.restaurantMenu(ctx, req.RestaurantID, menuIDs)
	if err != nil {
		return domain.OrderResult{}, err
	}

	// The materialized VIP row can be ordered by its catalog id; it is still a
	// membership purchase.
	lineItems, knownVipItem := membershipLines(req.Items, menu)
	buysMembership := false
	for _, item := range lineItems {
		if item.Kind == domain.MembershipLine {
			buysMembership = true
			break
		}
	}
	if buysMembership && (vipConfig == nil || !vipConfig.IsEnabled) {
		return domain.OrderResult{}, domain.ErrVipUnavailable
	}

	prices := make(map[int64]decimal.Decimal, len(menu))
	for id, item := range menu {
		prices[id] = item.Price
	}

	customer, err := s.lookupCustomer(ctx, req.RestaurantID, req.CustomerID)
	if err != nil {
		return domain.OrderResult{}, err
	}
	isMember := customer != nil && customer.IsMember

	quote, err := s.engine.Price(lineItems, prices, isMember, pricing.TermsOf(vipConfig))
	if err != nil {
		return domain.OrderResult{}, err
	}

	var vipItemID int64
	if quote.IncludesMembership {
		vipItem, err := s.ensureVipItem(ctx, req.RestaurantID, vipConfig, knownVipItem)
		if err != nil {
			return domain.OrderResult{}, err
		}
		vipItemID = vipItem.ID
	}

	order := &domain.Order{
		RestaurantID:    req.RestaurantID,
		TableID:         req.TableID,
		CustomerID:      req.CustomerID,
		DeliveryAddress: req.DeliveryAddress,
		PhoneNumber:     req.PhoneNumber,
		Status:          domain.StatusPending,
		SubTotal:        quote.SubTotal,
		Discount:        quote.Discount,
		Tax:             quote.Tax,
		TotalAmount:     quote.Total,
	}
	items := make([]domain.OrderItem, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		menuItemID := line.Item.MenuItemID
		if line.Item.Kind == domain.MembershipLine {
			menuItemID = vipItemID
		}
		items = append(items, domain.OrderItem{
			MenuItemID:   menuItemID,
			Quantity:     line.Item.Quantity,
			PriceAtOrder: line.UnitPrice,
		})
	}

	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		return domain.OrderResult{}, fmt.Errorf("create order: %w", err)
	}

	if quote.IncludesMembership && customer != nil && !customer.IsMember {
		if err := s.customers.MarkMember(ctx, customer.ID); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Int64("order_id", order.ID).
				Int64("customer_id", customer.ID).
				Msg("membership upgrade failed, order kept")
		}
	}

	s.publisher.Publish(domain.NewOrderEvent(*order, domain.EventCreated))
	s.metrics.OrderPlaced(order.Channel())

	logging.Ctx(ctx).Info().
		Int64("order_id", order.ID).
		Int64("restaurant_id", order.RestaurantID).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order placed")

	return domain.ResultOf(*order), nil
}

// restaurantMenu resolves the ordered items in one lookup. Items of other
// restaurants are left out so the pricing engine rejects them as unknown.
func (s *OrderService) restaurantMenu(ctx context.Context, restaurantID int64, ids []int64) (map[int64]domain.MenuItem, error) {
	menu := make(map[int64]domain.MenuItem, len(ids))
	if len(ids) == 0 {
		return menu, nil
	}
	found, err := s.catalog.FindMenuItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}
	for id, item := range found {
		if item.RestaurantID == restaurantID {
			menu[id] = item
		}
	}
	return menu, nil
}

// membershipLines rewrites catalog lines that point at the VIP membership row
// into membership purchases and returns that row when one was ordered.
func membershipLines(items []domain.LineItem, menu map[int64]domain.MenuItem) ([]domain.LineItem, *domain.MenuItem) {
	out := make([]domain.LineItem, len(items))
	var vipItem *domain.MenuItem
	for i, item := range items {
		out[i] = item
		if item.Kind != domain.CatalogLine {
			continue
		}
		row, ok := menu[item.MenuItemID]
		if !ok || row.Name != VipItemName {
			continue
		}
		out[i] = domain.MembershipPurchase(item.Quantity)
		if vipItem == nil {
			vipItem = &row
		}
	}
	return out, vipItem
}

// lookupCustomer returns nil for anonymous orders and for customers that do not
// exist or belong to another restaurant.
func (s *OrderService) lookupCustomer(ctx context.Context, restaurantID int64, customerID *int64) (*domain.Customer, error) {
	if customerID == nil {
		return nil, nil
	}
	customer, err := s.customers.GetCustomer(ctx, *customerID)
	if errors.Is(err, domain.ErrCustomerNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}
	if customer.RestaurantID != restaurantID {
		return nil, nil
	}
	return customer, nil
}

// ensureVipItem finds or creates the catalog row recorded on membership lines
// and keeps its price in line with the VIP config. known skips the lookup when
// the row was already loaded.
func (s *OrderService) ensureVipItem(ctx context.Context, restaurantID int64, cfg *domain.VipConfig, known *domain.MenuItem) (*domain.MenuItem, error) {
	item := known
	var err error
	if item == nil {
		item, err = s.catalog.FindMenuItemByName(ctx, restaurantID, VipItemName)
	}
	switch {
	case err == nil:
		if !item.Price.Equal(cfg.Price) {
			if err := s.catalog.UpdateMenuItemPrice(ctx, item.ID, cfg.Price); err != nil {
				return nil, fmt.Errorf("sync vip item price: %w", err)
			}
			item.Price = cfg.Price
		}
		return item, nil
	case !errors.Is(err, domain.ErrMenuItemNotFound):
		return nil, fmt.Errorf("find vip item: %w", err)
	}

	categoryID, err := s.catalog.EnsureCategory(ctx, restaurantID, VipCategoryName, VipCategoryDisplayOrder)
	if err != nil {
		return nil, fmt.Errorf("ensure vip category: %w", err)
	}

	description := cfg.Description
	if description == "" {
		description = defaultVipItemDescription
	}
	item = &domain.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   &categoryID,
		Name:         VipItemName,
		Description:  description,
		Price:        cfg.Price,
		ImageURL:     cfg.ImageURL,
		IsAvailable:  true,
	}
	if err := s.catalog.CreateMenuItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create vip item: %w", err)
	}
	logging.Ctx(ctx).Info().Int64("restaurant_id", restaurantID).Int64("menu_item_id", item.ID).Msg("vip membership item created")
	return item, nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string, scope domain.CallerScope) (domain.OrderResult, error) {
	next, err := domain.ParseStatus(status)
	if err != nil {
		return domain.OrderResult{}, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.OrderResult{}, err
	}
	if err := scope.Authorize(order.RestaurantID); err != nil {
		return domain.OrderResult{}, err
	}
	if !order.Status.CanTransitionTo(next) {
		return domain.OrderResult{}, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, order.Status, next)
	}

	updated, err := s.orders.UpdateStatus(ctx, domain.StatusChange{OrderID: orderID, From: order.Status, To: next})
	if err != nil {
		return domain.OrderResult{}, err
	}

	s.publisher.Publish(domain.NewOrderEvent(*updated, domain.EventUpdated))
	s.metrics.StatusChanged(string(next))

	logging.Ctx(ctx).Info().
		Int64("order_id", orderID).
		Str("from", string(order.Status)).
		Str("to", string(next)).
		Msg("order status changed")

	return domain.ResultOf(*updated), nil
}

func (s *OrderService) ListOrders(ctx context.Context, restaurantID int64, statuses []domain.OrderStatus, scope domain.CallerScope) ([]domain.OrderDetails, error) {
	if err := scope.Authorize(restaurantID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListByRestaurant(ctx, restaurantID, statuses)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return assembleDetails(ctx, s.orders, s.catalog, orders)
}
