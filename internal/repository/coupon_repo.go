package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Cheertaboi/pos-billing-service/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// GetByCode returns the coupon with the given code, or nil when there is none.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var (
		c         models.Coupon
		validFrom sql.NullTime
		validTo   sql.NullTime
		target    sql.NullString
	)

	query := `
		SELECT id, coupon_code, expiry_date, min_order_value,
		       valid_from, valid_to, discount_type, discount_value, target_type
		FROM coupons
		WHERE coupon_code = $1;
	`

	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(code)).Scan(
		&c.ID,
		&c.CouponCode,
		&c.ExpiryDate,
		&c.MinOrderValue,
		&validFrom,
		&validTo,
		&c.DiscountType,
		&c.DiscountValue,
		&target,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon %q: %w", code, err)
	}

	if validFrom.Valid {
		t := validFrom.Time
		c.ValidFrom = &t
	}
	if validTo.Valid {
		t := validTo.Time
		c.ValidTo = &t
	}
	c.TargetType = target.String

	return &c, nil
}
