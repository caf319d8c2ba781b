package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/pos-billing-service/internal/models"
	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// SaleReceipt is returned to the till once the backend has accepted a sale.
type SaleReceipt struct {
	SaleID        string                `json:"sale_id"`
	SaleNumber    string                `json:"sale_number"`
	Items         []pricing.LineItem    `json:"items"`
	Customer      *pricing.Customer     `json:"customer,omitempty"`
	Totals        pricing.Totals        `json:"totals"`
	PaymentMethod pricing.PaymentMethod `json:"payment_method"`
	PaidAmount    decimal.Decimal       `json:"paid_amount"`
	SoldAt        time.Time             `json:"sold_at"`
}

// Checkout commits the terminal's cart. The register stays locked for the
// whole call, and is only cleared once the backend has accepted the sale;
// on any failure the cart is left as it was so the cashier can retry.
func (s *POSService) Checkout(ctx context.Context, terminalID, branchID string) (*SaleReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.commitTimeout)
	defer cancel()

	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	r := sess.Register

	if st := r.CheckoutStatus(); !st.Ready {
		return nil, &NotReadyError{Reason: st.Reason}
	}

	req := buildSaleRequest(r, branchID)
	resp, err := s.sales.CreateSale(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create sale: %w", err)
	}

	receipt := &SaleReceipt{
		SaleID:        resp.ID.String(),
		SaleNumber:    resp.SaleNumber,
		Items:         r.Items(),
		Customer:      r.Customer(),
		Totals:        r.Totals().Rounded(),
		PaymentMethod: r.Payment().Method,
		PaidAmount:    req.PaidAmount,
		SoldAt:        s.now().UTC(),
	}

	r.Clear()
	s.persist(ctx, terminalID, r)
	return receipt, nil
}

// buildSaleRequest packages the cart the way the sales backend expects it:
// per-line discount amounts, and the cart discount either as a percent or
// as an amount depending on its kind.
func buildSaleRequest(r *pricing.Register, branchID string) models.SaleRequest {
	totals := r.Totals()
	shown := totals.Rounded()
	payment := r.Payment()

	items := r.Items()
	req := models.SaleRequest{
		BranchID:        branchID,
		Items:           make([]models.SaleItemRequest, 0, len(items)),
		DiscountAmount:  decimal.Zero,
		DiscountPercent: decimal.Zero,
		TaxAmount:       shown.TaxTotal,
		TotalAmount:     shown.GrandTotal,
		PaymentMethod:   string(payment.Method),
		PaidAmount:      shown.GrandTotal,
	}
	for _, it := range items {
		req.Items = append(req.Items, models.SaleItemRequest{
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount().Round(pricing.MoneyPlaces),
		})
	}

	switch d := r.Discount().Clamped(); d.Kind {
	case pricing.Percentage:
		req.DiscountPercent = d.Value.Round(pricing.MoneyPlaces)
	case pricing.Fixed:
		req.DiscountAmount = shown.CartDiscount
	}

	if payment.Method == pricing.Cash {
		req.PaidAmount = payment.AmountTendered.Round(pricing.MoneyPlaces)
	}
	if c := r.Customer(); c != nil {
		id := c.ID
		req.CustomerID = &id
		if c.Name != "" {
			name := c.Name
			req.PatientName = &name
		}
	}
	if payment.Reference != "" {
		ref := payment.Reference
		req.Remarks = &ref
	}
	return req
}
