package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              int64           `json:"id"`
	RestaurantID    int64           `json:"restaurantId"`
	TableID         *int64          `json:"tableId"`
	CustomerID      *int64          `json:"customerId"`
	DeliveryAddress *string         `json:"deliveryAddress"`
	PhoneNumber     *string         `json:"phoneNumber"`
	Status          OrderStatus     `json:"status"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	Tax             decimal.Decimal `json:"tax"`
	Discount        decimal.Decimal `json:"discount"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Channel reports how the order reaches the customer. Used as a metrics label.
func (o Order) Channel() string {
	switch {
	case o.TableID != nil:
		return "dine_in"
	case o.DeliveryAddress != nil:
		return "delivery"
	default:
		return "takeaway"
	}
}

type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"orderId"`
	MenuItemID   int64           `json:"menuItemId"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"priceAtOrder"`
}

type MenuItem struct {
	ID           int64           `json:"id"`
	RestaurantID int64           `json:"restaurantId"`
	CategoryID   *int64          `json:"categoryId"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"imageUrl"`
	IsAvailable  bool            `json:"isAvailable"`
}

type Customer struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurantId"`
	PhoneNumber  string `json:"phoneNumber"`
	IsMember     bool   `json:"isMember"`
}

// VipConfig is owned by the restaurant administration side and only read here.
type VipConfig struct {
	RestaurantID int64           `json:"restaurantId"`
	IsEnabled    bool            `json:"isEnabled"`
	Price        decimal.Decimal `json:"price"`
	DiscountRate decimal.Decimal `json:"discountRate"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"imageUrl"`
}

type RestaurantTable struct {
	ID           int64  `json:"id"`
	RestaurantID int64  `json:"restaurantId"`
	TableNumber  int    `json:"tableNumber"`
	QRCodeSlug   string `json:"qrCodeSlug,omitempty"`
}

// LineKind distinguishes a regular catalog line from the purchase of a VIP membership,
// which has no catalog row until the first sale materializes one.
type LineKind int

const (
	CatalogLine LineKind = iota
	MembershipLine
)

type LineItem struct {
	Kind       LineKind
	MenuItemID int64
	Quantity   int
}

func CatalogItem(menuItemID int64, quantity int) LineItem {
	return LineItem{Kind: CatalogLine, MenuItemID: menuItemID, Quantity: quantity}
}

func MembershipPurchase(quantity int) LineItem {
	return LineItem{Kind: MembershipLine, Quantity: quantity}
}

type PlaceOrderRequest struct {
	RestaurantID    int64
	TableID         *int64
	CustomerID      *int64
	DeliveryAddress *string
	PhoneNumber     *string
	Items           []LineItem
	// IdempotencyKey is optional; a repeated key returns the first result.
	IdempotencyKey string
}

type OrderResult struct {
	ID          int64       `json:"id"`
	Status      OrderStatus `json:"status"`
	TotalAmount Money       `json:"totalAmount"`
}

func ResultOf(o Order) OrderResult {
	return OrderResult{ID: o.ID, Status: o.Status, TotalAmount: NewMoney(o.TotalAmount)}
}

type OrderDetails struct {
	ID              int64              `json:"id"`
	RestaurantID    int64              `json:"restaurantId"`
	TableID         *int64             `json:"tableId"`
	CustomerID      *int64             `json:"customerId"`
	DeliveryAddress *string            `json:"deliveryAddress"`
	PhoneNumber     *string            `json:"phoneNumber"`
	Status          OrderStatus        `json:"status"`
	SubTotal        Money              `json:"subTotal"`
	Tax             Money              `json:"tax"`
	Discount        Money              `json:"discount"`
	TotalAmount     Money              `json:"totalAmount"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Items           []OrderItemDetails `json:"items"`
}

type OrderItemDetails struct {
	MenuItemID   int64  `json:"menuItemId"`
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity"`
	Price        Money  `json:"price"`
}

// BillSummary adds up the totals already stored on each active order of a table.
type BillSummary struct {
	TableID     int64 `json:"tableId"`
	OrderCount  int   `json:"orderCount"`
	SubTotal    Money `json:"subTotal"`
	Discount    Money `json:"discount"`
	Tax         Money `json:"tax"`
	TotalAmount Money `json:"totalAmount"`
}

// StatusChange is a compare-and-set request: when From is set the write only
// lands if the stored status still equals it.
type StatusChange struct {
	OrderID int64
	From    OrderStatus
	To      OrderStatus
}
