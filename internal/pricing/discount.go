package pricing

import "github.com/shopspring/decimal"

type DiscountKind string

const (
	Percentage DiscountKind = "percentage"
	Fixed      DiscountKind = "fixed"
)

var hundred = decimal.NewFromInt(100)

// Discount is either a percentage of a base or a fixed amount off it.
// The zero value means no discount.
type Discount struct {
	Kind  DiscountKind    `json:"type"`
	Value decimal.Decimal `json:"value"`
}

func PercentOff(pct decimal.Decimal) Discount {
	return Discount{Kind: Percentage, Value: pct}
}

func AmountOff(amount decimal.Decimal) Discount {
	return Discount{Kind: Fixed, Value: amount}
}

func NoDiscount() Discount {
	return Discount{Kind: Percentage, Value: decimal.Zero}
}

func (d Discount) IsZero() bool {
	return d.Value.IsZero()
}

// Clamped bounds the value to what its kind allows: [0,100] for
// percentages, >= 0 for fixed amounts. Unknown kinds collapse to no discount.
func (d Discount) Clamped() Discount {
	switch d.Kind {
	case Percentage:
		return Discount{Kind: Percentage, Value: clamp(d.Value, decimal.Zero, hundred)}
	case Fixed:
		return Discount{Kind: Fixed, Value: decimal.Max(d.Value, decimal.Zero)}
	default:
		return NoDiscount()
	}
}

// AmountOn returns the amount this discount takes off base. The result is
// always within [0, base].
func (d Discount) AmountOn(base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	c := d.Clamped()
	switch c.Kind {
	case Percentage:
		return base.Mul(c.Value).Div(hundred)
	case Fixed:
		return decimal.Min(c.Value, base)
	}
	return decimal.Zero
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
