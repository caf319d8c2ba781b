package models

import "time"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Target types say what a coupon discounts. A till only sells inventory;
// service charges are billed elsewhere.
const (
	TargetInventory = "inventory"
	TargetCharges   = "charges"
)

// Coupon is the read model of a row in the coupons table. Only the columns
// a till needs to price a cart are loaded.
type Coupon struct {
	ID            int
	CouponCode    string
	ExpiryDate    time.Time
	MinOrderValue float64
	ValidFrom     *time.Time
	ValidTo       *time.Time
	DiscountType  DiscountType
	DiscountValue float64
	TargetType    string
}
