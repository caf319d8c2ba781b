package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/pos-billing-service/internal/cache"
	"github.com/Cheertaboi/pos-billing-service/internal/models"
	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// Collaborators required by the service (interfaces to allow mocking).
type CouponRepo interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type SaleClient interface {
	CreateSale(ctx context.Context, req models.SaleRequest) (*models.SaleResponse, error)
}

// POSService owns the register of every terminal and is the only code that
// mutates one.
type POSService struct {
	store   *cache.RegisterStore
	cache   cache.RegisterCache // optional
	coupons CouponRepo
	sales   SaleClient
	taxRate decimal.Decimal
	now     func() time.Time

	commitTimeout time.Duration
}

type Option func(*POSService)

func WithRegisterCache(c cache.RegisterCache) Option {
	return func(s *POSService) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *POSService) { s.now = now }
}

func WithCommitTimeout(d time.Duration) Option {
	return func(s *POSService) { s.commitTimeout = d }
}

func NewPOSService(store *cache.RegisterStore, coupons CouponRepo, sales SaleClient, taxRate decimal.Decimal, opts ...Option) *POSService {
	s := &POSService{
		store:         store,
		coupons:       coupons,
		sales:         sales,
		taxRate:       taxRate,
		now:           time.Now,
		commitTimeout: 8 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CartView is what a till displays: the cart as it stands plus totals
// rounded for presentation.
type CartView struct {
	TerminalID string                 `json:"terminal_id"`
	Items      []pricing.LineItem     `json:"items"`
	Customer   *pricing.Customer      `json:"customer"`
	Discount   pricing.Discount       `json:"discount"`
	Payment    pricing.Payment        `json:"payment"`
	TaxRate    decimal.Decimal        `json:"tax_rate"`
	Totals     pricing.Totals         `json:"totals"`
	Checkout   pricing.CheckoutStatus `json:"checkout"`
	HeldCount  int                    `json:"held_count"`
}

func viewOf(terminalID string, r *pricing.Register) CartView {
	items := r.Items()
	if items == nil {
		items = []pricing.LineItem{}
	}
	return CartView{
		TerminalID: terminalID,
		Items:      items,
		Customer:   r.Customer(),
		Discount:   r.Discount(),
		Payment:    r.Payment(),
		TaxRate:    r.TaxRate(),
		Totals:     r.Totals().Rounded(),
		Checkout:   r.CheckoutStatus(),
		HeldCount:  len(r.HeldSales()),
	}
}

func (s *POSService) session(ctx context.Context, terminalID string) (*cache.Session, error) {
	return s.store.GetOrCreate(terminalID, func() (*pricing.Register, error) {
		return s.load(ctx, terminalID)
	})
}

// load rebuilds the terminal's register from its snapshot. A cache error
// other than a miss fails the load: starting blank would overwrite the
// snapshot, held sales included, on the next write.
func (s *POSService) load(ctx context.Context, terminalID string) (*pricing.Register, error) {
	if s.cache == nil {
		return pricing.NewRegister(pricing.WithTaxRate(s.taxRate)), nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	state, err := s.cache.Get(ctx, terminalID)
	if err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return pricing.NewRegister(pricing.WithTaxRate(s.taxRate)), nil
		}
		log.Printf("register cache get %s: %v", terminalID, err)
		return nil, fmt.Errorf("%w: %v", ErrRegisterUnavailable, err)
	}
	return pricing.Restore(*state, pricing.WithTaxRate(s.taxRate)), nil
}

// persist writes the register through to the cache. Failures are logged;
// the in-memory register stays authoritative.
func (s *POSService) persist(ctx context.Context, terminalID string, r *pricing.Register) {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	var err error
	if r.IsBlank() {
		err = s.cache.Delete(ctx, terminalID)
	} else {
		err = s.cache.Set(ctx, terminalID, r.State())
	}
	if err != nil {
		log.Printf("register cache write %s: %v", terminalID, err)
	}
}

// mutate runs fn on the terminal's register under its lock and persists the
// result when fn succeeds.
func (s *POSService) mutate(ctx context.Context, terminalID string, fn func(r *pricing.Register) error) (CartView, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return CartView{}, err
	}
	sess.Lock()
	defer sess.Unlock()

	if err := fn(sess.Register); err != nil {
		return CartView{}, err
	}
	s.persist(ctx, terminalID, sess.Register)
	return viewOf(terminalID, sess.Register), nil
}

func (s *POSService) GetCart(ctx context.Context, terminalID string) (CartView, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return CartView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return viewOf(terminalID, sess.Register), nil
}

func (s *POSService) AddItem(ctx context.Context, terminalID string, p pricing.Product, qty int) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.AddItem(p, qty)
		return nil
	})
}

func (s *POSService) UpdateQuantity(ctx context.Context, terminalID, productID string, qty int) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.UpdateQuantity(productID, qty)
		return nil
	})
}

func (s *POSService) RemoveItem(ctx context.Context, terminalID, productID string) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.RemoveItem(productID)
		return nil
	})
}

func (s *POSService) SetLineDiscount(ctx context.Context, terminalID, productID string, d pricing.Discount) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.SetLineDiscount(productID, d)
		return nil
	})
}

func (s *POSService) SetCartDiscount(ctx context.Context, terminalID string, d pricing.Discount) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.SetCartDiscount(d)
		return nil
	})
}

func (s *POSService) SetCustomer(ctx context.Context, terminalID string, c pricing.Customer) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.SetCustomer(c)
		return nil
	})
}

func (s *POSService) ClearCustomer(ctx context.Context, terminalID string) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.ClearCustomer()
		return nil
	})
}

func (s *POSService) SetPayment(ctx context.Context, terminalID string, u pricing.PaymentUpdate) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.SetPayment(u)
		return nil
	})
}

func (s *POSService) ClearCart(ctx context.Context, terminalID string) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		r.Clear()
		return nil
	})
}

func (s *POSService) HoldSale(ctx context.Context, terminalID, name string) (pricing.HeldSale, error) {
	var held pricing.HeldSale
	_, err := s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		var err error
		held, err = r.Hold(name)
		return err
	})
	return held, err
}

func (s *POSService) ResumeSale(ctx context.Context, terminalID, heldID string) (CartView, error) {
	return s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		_, err := r.Resume(heldID)
		return err
	})
}

func (s *POSService) DiscardHeldSale(ctx context.Context, terminalID, heldID string) error {
	_, err := s.mutate(ctx, terminalID, func(r *pricing.Register) error {
		return r.DiscardHeld(heldID)
	})
	return err
}

func (s *POSService) HeldSales(ctx context.Context, terminalID string) ([]pricing.HeldSale, error) {
	sess, err := s.session(ctx, terminalID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Register.HeldSales(), nil
}
