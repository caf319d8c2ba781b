package handlers

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// --- Request DTOs ---

type AddItemRequest struct {
	Product  pricing.Product `json:"product"`
	Quantity int             `json:"quantity"` // optional, defaults to 1
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type DiscountRequest struct {
	Type  string          `json:"type"` // percentage | fixed
	Value decimal.Decimal `json:"value"`
}

func (d DiscountRequest) toDiscount() (pricing.Discount, bool) {
	switch strings.ToLower(strings.TrimSpace(d.Type)) {
	case "percentage", "percent":
		return pricing.PercentOff(d.Value), true
	case "fixed", "flat", "amount":
		return pricing.AmountOff(d.Value), true
	}
	return pricing.Discount{}, false
}

type CouponRequest struct {
	CouponCode string `json:"coupon_code"`
}

type CustomerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PaymentRequest struct {
	Method         *string          `json:"method"`
	AmountTendered *decimal.Decimal `json:"amount_tendered"`
	Reference      *string          `json:"reference"`
}

func (p PaymentRequest) toUpdate() pricing.PaymentUpdate {
	var u pricing.PaymentUpdate
	if p.Method != nil {
		m := pricing.ParsePaymentMethod(*p.Method)
		u.Method = &m
	}
	u.AmountTendered = p.AmountTendered
	u.Reference = p.Reference
	return u
}

type HoldRequest struct {
	Name string `json:"name"`
}

type CheckoutRequest struct {
	BranchID string `json:"branch_id"`
}

// --- Response DTOs ---

type HeldSalesResponse struct {
	HeldSales []pricing.HeldSale `json:"held_sales"`
}
