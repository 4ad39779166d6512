package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the precision amounts are rounded and shown to.
const MoneyPlaces = 2

// Money is an amount on the wire. It encodes as a JSON number with cents
// (20.00, not "20"), and decodes from either a number or a quoted string.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(MoneyPlaces)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
