// Package pricing turns order lines into money. It does no I/O and keeps no state,
// so the same inputs always give the same quote.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"restaurant-orders/order-svc/internal/domain"
)

// DefaultTaxRate is used when configuration does not provide one.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// VipTerms is the slice of the restaurant VIP configuration that affects prices.
type VipTerms struct {
	Enabled      bool
	Price        decimal.Decimal
	DiscountRate decimal.Decimal
}

func TermsOf(cfg *domain.VipConfig) VipTerms {
	if cfg == nil {
		return VipTerms{}
	}
	return VipTerms{Enabled: cfg.IsEnabled, Price: cfg.Price, DiscountRate: cfg.DiscountRate}
}

type PricedLine struct {
	Item      domain.LineItem
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

type Quote struct {
	Lines    []PricedLine
	SubTotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	// IncludesMembership is set when the order buys a VIP membership.
	IncludesMembership bool
}

type Engine struct {
	taxRate decimal.Decimal
}

func NewEngine(taxRate decimal.Decimal) *Engine {
	return &Engine{taxRate: taxRate}
}

func (e *Engine) TaxRate() decimal.Decimal {
	return e.taxRate
}

// Price quotes a whole order. catalog maps menu item ids to their current unit price.
// Membership lines take their price from the VIP terms and are never discounted.
func (e *Engine) Price(items []domain.LineItem, catalog map[int64]decimal.Decimal, customerIsMember bool, vip VipTerms) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, domain.ErrEmptyOrder
	}

	quote := Quote{Lines: make([]PricedLine, 0, len(items))}
	subTotal := decimal.Zero
	membershipTotal := decimal.Zero

	for _, item := range items {
		if item.Quantity <= 0 {
			return Quote{}, fmt.Errorf("%w: %d", domain.ErrInvalidQuantity, item.Quantity)
		}

		var unit decimal.Decimal
		switch item.Kind {
		case domain.MembershipLine:
			unit = vip.Price
		default:
			price, ok := catalog[item.MenuItemID]
			if !ok {
				return Quote{}, fmt.Errorf("%w: %d", domain.ErrInvalidLineItem, item.MenuItemID)
			}
			unit = price
		}

		lineTotal := unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subTotal = subTotal.Add(lineTotal)
		if item.Kind == domain.MembershipLine {
			membershipTotal = membershipTotal.Add(lineTotal)
			quote.IncludesMembership = true
		}
		quote.Lines = append(quote.Lines, PricedLine{Item: item, UnitPrice: unit, LineTotal: lineTotal})
	}

	discount := decimal.Zero
	if (customerIsMember || quote.IncludesMembership) && vip.Enabled {
		discount = subTotal.Sub(membershipTotal).Mul(vip.DiscountRate).Round(domain.MoneyPlaces)
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subTotal) {
		discount = subTotal
	}

	taxable := subTotal.Sub(discount)
	tax := taxable.Mul(e.taxRate).Round(domain.MoneyPlaces)

	quote.SubTotal = subTotal
	quote.Discount = discount
	quote.Tax = tax
	quote.Total = taxable.Add(tax)
	return quote, nil
}
