package service

import (
	"context"
	"fmt"

	"restaurant-orders/order-svc/internal/domain"
)

const unknownItemName = "Unknown"

// assembleDetails joins orders with their items and item names using one item
// query and one catalog query, whatever the number of orders.
func assembleDetails(ctx context.Context, orders OrderRepository, catalog CatalogRepository, list []domain.Order) ([]domain.OrderDetails, error) {
	details := make([]domain.OrderDetails, 0, len(list))
	if len(list) == 0 {
		return details, nil
	}

	orderIDs := make([]int64, len(list))
	for i, o := range list {
		orderIDs[i] = o.ID
	}
	items, err := orders.ListItems(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	byOrder := make(map[int64][]domain.OrderItem, len(list))
	seen := make(map[int64]struct{})
	var menuIDs []int64
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
		if _, ok := seen[item.MenuItemID]; !ok {
			seen[item.MenuItemID] = struct{}{}
			menuIDs = append(menuIDs, item.MenuItemID)
		}
	}

	names := map[int64]domain.MenuItem{}
	if len(menuIDs) > 0 {
		if names, err = catalog.FindMenuItems(ctx, menuIDs); err != nil {
			return nil, fmt.Errorf("load menu items: %w", err)
		}
	}

	for _, o := range list {
		d := domain.OrderDetails{
			ID:              o.ID,
			RestaurantID:    o.RestaurantID,
			TableID:         o.TableID,
			CustomerID:      o.CustomerID,
			DeliveryAddress: o.DeliveryAddress,
			PhoneNumber:     o.PhoneNumber,
			Status:          o.Status,
			SubTotal:        domain.NewMoney(o.SubTotal),
			Tax:             domain.NewMoney(o.Tax),
			Discount:        domain.NewMoney(o.Discount),
			TotalAmount:     domain.NewMoney(o.TotalAmount),
			CreatedAt:       o.CreatedAt,
			UpdatedAt:       o.UpdatedAt,
			Items:           make([]domain.OrderItemDetails, 0, len(byOrder[o.ID])),
		}
		for _, item := range byOrder[o.ID] {
			name := unknownItemName
			if menuItem, ok := names[item.MenuItemID]; ok {
				name = menuItem.Name
			}
			d.Items = append(d.Items, domain.OrderItemDetails{
				MenuItemID:   item.MenuItemID,
				MenuItemName: name,
				Quantity:     item.Quantity,
				Price:        domain.NewMoney(item.PriceAtOrder),
			})
		}
		details = append(details, d)
	}
	return details, nil
}
