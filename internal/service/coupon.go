package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/pos-billing-service/internal/models"
	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// ApplyCoupon looks the code up and, when the cart qualifies, turns it into
// the cart-level discount. It replaces any discount set by hand.
func (s *POSService) ApplyCoupon(ctx context.Context, terminalID, code string) (CartView, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return CartView{}, ErrCouponNotFound
	}

	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		return CartView{}, fmt.Errorf("load coupon: %w", err)
	}
	if coupon == nil {
		return CartView{}, ErrCouponNotFound
	}

	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		t := r.Totals()
		d, err := couponDiscount(coupon, t.Subtotal.Sub(t.ItemDiscountTotal), s.now())
		if err != nil {
			return err
		}
		r.SetCartDiscount(d)
		return nil
	})
}

func couponDiscount(c *models.Coupon, orderValue decimal.Decimal, now time.Time) (pricing.Discount, error) {
	if c.TargetType != "" && c.TargetType != models.TargetInventory {
		return pricing.Discount{}, ErrCouponUnsupported
	}

	now = now.UTC()
	if c.ExpiryDate.Before(now) {
		return pricing.Discount{}, ErrCouponExpired
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return pricing.Discount{}, ErrCouponNotInWindow
	}
	if c.ValidTo != nil && now.After(*c.ValidTo) {
		return pricing.Discount{}, ErrCouponNotInWindow
	}
	if decimal.NewFromFloat(c.MinOrderValue).GreaterThan(orderValue) {
		return pricing.Discount{}, ErrMinOrderNotMet
	}

	value := decimal.NewFromFloat(c.DiscountValue)
	switch c.DiscountType {
	case models.DiscountPercentage:
		return pricing.PercentOff(value), nil
	case models.DiscountFlat:
		return pricing.AmountOff(value), nil
	}
	return pricing.Discount{}, ErrCouponUnsupported
}
