package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/order-svc/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestEngine_Price(t *testing.T) {
	engine := NewEngine(dec("0.08"))
	catalog := map[int64]decimal.Decimal{1: dec("10.00"), 2: dec("4.50"), 3: dec("0.99")}
	vip := VipTerms{Enabled: true, Price: dec("50.00"), DiscountRate: dec("0.10")}

	tests := []struct {
		name         string
		items        []domain.LineItem
		member       bool
		vip          VipTerms
		wantSubTotal string
		wantDiscount string
		wantTax      string
		wantTotal    string
		wantVip      bool
	}{
		{
			name:         "non member pays full price",
			items:        []domain.LineItem{domain.CatalogItem(1, 2)},
			vip:          vip,
			wantSubTotal: "20.00", wantDiscount: "0", wantTax: "1.60", wantTotal: "21.60",
		},
		{
			name:         "member gets the configured rate",
			items:        []domain.LineItem{domain.CatalogItem(1, 2)},
			member:       true,
			vip:          vip,
			wantSubTotal: "20.00", wantDiscount: "2.00", wantTax: "1.44", wantTotal: "19.44",
		},
		{
			name:         "member but programme disabled",
			items:        []domain.LineItem{domain.CatalogItem(1, 2)},
			member:       true,
			vip:          VipTerms{Enabled: false, DiscountRate: dec("0.10")},
			wantSubTotal: "20.00", wantDiscount: "0", wantTax: "1.60", wantTotal: "21.60",
		},
		{
			name:         "first membership purchase discounts the rest of the order",
			items:        []domain.LineItem{domain.CatalogItem(1, 2), domain.MembershipPurchase(1)},
			vip:          vip,
			wantSubTotal: "70.00", wantDiscount: "2.00", wantTax: "5.44", wantTotal: "73.44",
			wantVip:      true,
		},
		{
			name:         "membership alone is never discounted",
			items:        []domain.LineItem{domain.MembershipPurchase(1)},
			member:       true,
			vip:          vip,
			wantSubTotal: "50.00", wantDiscount: "0", wantTax: "4.00", wantTotal: "54.00",
			wantVip:      true,
		},
		{
			name:         "rounding to cents",
			items:        []domain.LineItem{domain.CatalogItem(3, 3), domain.CatalogItem(2, 1)},
			member:       true,
			vip:          VipTerms{Enabled: true, DiscountRate: dec("0.15")},
			wantSubTotal: "7.47", wantDiscount: "1.12", wantTax: "0.51", wantTotal: "6.86",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			quote, err := engine.Price(testCase.items, catalog, testCase.member, testCase.vip)
			require.NoError(t, err)

			assertMoney(t, testCase.wantSubTotal, quote.SubTotal)
			assertMoney(t, testCase.wantDiscount, quote.Discount)
			assertMoney(t, testCase.wantTax, quote.Tax)
			assertMoney(t, testCase.wantTotal, quote.Total)
			assert.Equal(t, testCase.wantVip, quote.IncludesMembership)
			assert.True(t, quote.Total.Equal(quote.SubTotal.Sub(quote.Discount).Add(quote.Tax)))
			assert.Len(t, quote.Lines, len(testCase.items))
		})
	}
}

func TestEngine_PriceErrors(t *testing.T) {
	engine := NewEngine(dec("0.08"))
	catalog := map[int64]decimal.Decimal{1: dec("10.00")}

	_, err := engine.Price(nil, catalog, false, VipTerms{})
	assert.ErrorIs(t, err, domain.ErrEmptyOrder)

	_, err = engine.Price([]domain.LineItem{domain.CatalogItem(1, 1), domain.CatalogItem(42, 1)}, catalog, false, VipTerms{})
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
	assert.Contains(t, err.Error(), "42")

	_, err = engine.Price([]domain.LineItem{domain.CatalogItem(1, 0)}, catalog, false, VipTerms{})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestEngine_NonMemberTotalIsSubTotalPlusTax(t *testing.T) {
	engine := NewEngine(dec("0.08"))
	catalog := map[int64]decimal.Decimal{}
	items := make([]domain.LineItem, 0, 20)
	for i := int64(1); i <= 20; i++ {
		catalog[i] = decimal.New(i*125, -2)
		items = append(items, domain.CatalogItem(i, int(i%3)+1))
	}

	quote, err := engine.Price(items, catalog, false, VipTerms{Enabled: true, DiscountRate: dec("0.2")})
	require.NoError(t, err)

	assert.True(t, quote.Discount.IsZero())
	expected := quote.SubTotal.Mul(dec("1.08")).Round(2)
	assert.True(t, expected.Equal(quote.Total), "want %s, got %s", expected, quote.Total)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(dec("0.0825"))
	catalog := map[int64]decimal.Decimal{1: dec("12.34"), 2: dec("5.67")}
	items := []domain.LineItem{domain.CatalogItem(1, 3), domain.CatalogItem(2, 2)}
	terms := VipTerms{Enabled: true, DiscountRate: dec("0.1")}

	first, err := engine.Price(items, catalog, true, terms)
	require.NoError(t, err)
	second, err := engine.Price(items, catalog, true, terms)
	require.NoError(t, err)

	assert.Equal(t, first.Total.String(), second.Total.String())
	assert.Equal(t, first.Tax.String(), second.Tax.String())
}

func TestTermsOf(t *testing.T) {
	assert.Equal(t, VipTerms{}, TermsOf(nil))
	terms := TermsOf(&domain.VipConfig{IsEnabled: true, Price: dec("20"), DiscountRate: dec("0.05")})
	assert.True(t, terms.Enabled)
	assertMoney(t, "20", terms.Price)
}
