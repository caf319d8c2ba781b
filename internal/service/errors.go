package service

import "errors"

var (
	ErrCouponNotFound    = errors.New("coupon not found")
	ErrCouponExpired     = errors.New("coupon expired")
	ErrCouponNotInWindow = errors.New("coupon not in valid window")
	ErrMinOrderNotMet    = errors.New("minimum order value not met")
	ErrCouponUnsupported = errors.New("coupon not supported at the till")
	ErrCheckoutNotReady  = errors.New("checkout not ready")

	// ErrRegisterUnavailable means the terminal's saved register could not
	// be read. The request fails rather than start from a blank register.
	ErrRegisterUnavailable = errors.New("register unavailable")
)

// NotReadyError carries the reason a cart cannot be checked out yet.
type NotReadyError struct {
	Reason string
}

func (e *NotReadyError) Error() string {
	return "checkout not ready: " + e.Reason
}

func (e *NotReadyError) Is(target error) bool {
	return target == ErrCheckoutNotReady
}
