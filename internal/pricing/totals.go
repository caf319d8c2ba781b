package pricing

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places figures are shown with.
const MoneyPlaces = 2

type Totals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemDiscountTotal decimal.Decimal `json:"item_discount_total"`
	CartDiscount      decimal.Decimal `json:"cart_discount"`
	TaxableAmount     decimal.Decimal `json:"taxable_amount"`
	TaxTotal          decimal.Decimal `json:"tax_total"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	ChangeDue         decimal.Decimal `json:"change_due"`
	ItemCount         int             `json:"item_count"`
}

// Totals recomputes every figure from the current state in full precision.
// Item discounts come off first, the cart discount is taken from what is
// left, and tax is charged on the remainder.
func (r *Register) Totals() Totals {
	var t Totals
	t.Subtotal = decimal.Zero
	t.ItemDiscountTotal = decimal.Zero
	for _, it := range r.items {
		t.Subtotal = t.Subtotal.Add(it.Gross())
		t.ItemDiscountTotal = t.ItemDiscountTotal.Add(it.DiscountAmount())
		t.ItemCount += it.Quantity
	}

	afterItems := decimal.Max(t.Subtotal.Sub(t.ItemDiscountTotal), decimal.Zero)
	t.CartDiscount = r.discount.AmountOn(afterItems)

	t.TaxableAmount = decimal.Max(afterItems.Sub(t.CartDiscount), decimal.Zero)
	t.TaxTotal = t.TaxableAmount.Mul(r.taxRate).Div(hundred)

	t.GrandTotal = decimal.Max(t.TaxableAmount.Add(t.TaxTotal), decimal.Zero)

	t.ChangeDue = decimal.Zero
	if r.payment.Method == Cash {
		t.ChangeDue = decimal.Max(r.payment.AmountTendered.Sub(t.GrandTotal), decimal.Zero)
	}
	return t
}

// Rounded returns the figures rounded half away from zero to MoneyPlaces.
// This is the only place rounding happens.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal:          roundMoney(t.Subtotal),
		ItemDiscountTotal: roundMoney(t.ItemDiscountTotal),
		CartDiscount:      roundMoney(t.CartDiscount),
		TaxableAmount:     roundMoney(t.TaxableAmount),
		TaxTotal:          roundMoney(t.TaxTotal),
		GrandTotal:        roundMoney(t.GrandTotal),
		ChangeDue:         roundMoney(t.ChangeDue),
		ItemCount:         t.ItemCount,
	}
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

const (
	ReasonCartEmpty        = "cart_empty"
	ReasonInsufficientCash = "insufficient_cash"
)

type CheckoutStatus struct {
	Ready  bool   `json:"ready"`
	Reason string `json:"reason,omitempty"`
}

// CheckoutStatus reports whether the sale can be committed. Cash must cover
// the grand total as it is shown to the cashier.
func (r *Register) CheckoutStatus() CheckoutStatus {
	if r.IsEmpty() {
		return CheckoutStatus{Reason: ReasonCartEmpty}
	}
	if r.payment.Method == Cash {
		due := roundMoney(r.Totals().GrandTotal)
		if r.payment.AmountTendered.LessThan(due) {
			return CheckoutStatus{Reason: ReasonInsufficientCash}
		}
	}
	return CheckoutStatus{Ready: true}
}
