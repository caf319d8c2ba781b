package pricing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrHeldSaleNotFound = errors.New("held sale not found")
	ErrCartNotEmpty     = errors.New("active cart is not empty")
	ErrEmptyCart        = errors.New("cart is empty")
)

type PaymentMethod string

const (
	Cash PaymentMethod = "CASH"
	Card PaymentMethod = "CARD"
	QR   PaymentMethod = "QR"
)

// ParsePaymentMethod normalizes user input. UPI is the wallet label the
// terminals show for QR payments.
func ParsePaymentMethod(s string) PaymentMethod {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if m == "UPI" {
		return QR
	}
	return m
}

// Product is a catalog entry as already resolved by the caller.
type Product struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku,omitempty"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type LineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Discount  Discount        `json:"discount"`
}

// Gross is unit price times quantity, before any discount.
func (l LineItem) Gross() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l LineItem) DiscountAmount() decimal.Decimal {
	return l.Discount.AmountOn(l.Gross())
}

type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type Payment struct {
	Method         PaymentMethod   `json:"method"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	Reference      string          `json:"reference,omitempty"`
}

// PaymentUpdate carries the fields to merge into the current payment; nil
// fields are left untouched.
type PaymentUpdate struct {
	Method         *PaymentMethod
	AmountTendered *decimal.Decimal
	Reference      *string
}

type HeldSale struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Items    []LineItem `json:"items"`
	Customer *Customer  `json:"customer,omitempty"`
	Discount Discount   `json:"discount"`
	HeldAt   time.Time  `json:"held_at"`
}

func initialPayment() Payment {
	return Payment{Method: Cash, AmountTendered: decimal.Zero}
}

// Register is the cart of one POS terminal plus the sales parked on it.
// It is not safe for concurrent use.
type Register struct {
	taxRate decimal.Decimal
	newID   func() string
	now     func() time.Time

	items    []LineItem
	customer *Customer
	discount Discount
	payment  Payment
	held     []HeldSale
}

type Option func(*Register)

// WithTaxRate sets the tax rate in percent applied to the discounted total.
func WithTaxRate(pct decimal.Decimal) Option {
	return func(r *Register) {
		r.taxRate = decimal.Max(pct, decimal.Zero)
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(r *Register) { r.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(r *Register) { r.now = fn }
}

func NewRegister(opts ...Option) *Register {
	r := &Register{
		taxRate:  decimal.Zero,
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
		discount: NoDiscount(),
		payment:  initialPayment(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Register) TaxRate() decimal.Decimal { return r.taxRate }

func (r *Register) indexOf(productID string) int {
	for i := range r.items {
		if r.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem puts qty units of p in the cart, merging into an existing line
// for the same product. A qty below 1 counts as 1.
func (r *Register) AddItem(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := r.indexOf(p.ID); i >= 0 {
		r.items[i].Quantity += qty
		return
	}
	r.items = append(r.items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		UnitPrice: p.SellingPrice,
		Quantity:  qty,
		Discount:  NoDiscount(),
	})
}

// UpdateQuantity sets the line's quantity; zero or less removes the line.
func (r *Register) UpdateQuantity(productID string, qty int) {
	if qty <= 0 {
		r.RemoveItem(productID)
		return
	}
	if i := r.indexOf(productID); i >= 0 {
		r.items[i].Quantity = qty
	}
}

func (r *Register) RemoveItem(productID string) {
	i := r.indexOf(productID)
	if i < 0 {
		return
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
}

// SetLineDiscount replaces the discount of one line. Out of range values
// are clamped on the way in.
func (r *Register) SetLineDiscount(productID string, d Discount) {
	if i := r.indexOf(productID); i >= 0 {
		r.items[i].Discount = d.Clamped()
	}
}

// SetCartDiscount stores d as given; it is clamped whenever totals are read.
func (r *Register) SetCartDiscount(d Discount) {
	r.discount = d
}

func (r *Register) SetCustomer(c Customer) {
	r.customer = &c
}

func (r *Register) ClearCustomer() {
	r.customer = nil
}

func (r *Register) SetPayment(u PaymentUpdate) {
	if u.Method != nil {
		r.payment.Method = *u.Method
	}
	if u.AmountTendered != nil {
		r.payment.AmountTendered = *u.AmountTendered
	}
	if u.Reference != nil {
		r.payment.Reference = *u.Reference
	}
}

// Clear empties the active cart. Held sales are kept.
func (r *Register) Clear() {
	r.items = nil
	r.customer = nil
	r.discount = NoDiscount()
	r.payment = initialPayment()
}

func (r *Register) IsEmpty() bool {
	return len(r.items) == 0
}

// IsBlank reports whether the register holds nothing a new one would not.
func (r *Register) IsBlank() bool {
	return r.IsEmpty() &&
		len(r.held) == 0 &&
		r.customer == nil &&
		r.discount.IsZero() &&
		r.payment.Method == Cash &&
		r.payment.AmountTendered.IsZero() &&
		r.payment.Reference == ""
}

func (r *Register) Items() []LineItem {
	return copyItems(r.items)
}

func (r *Register) Customer() *Customer {
	return copyCustomer(r.customer)
}

func (r *Register) Discount() Discount {
	return r.discount
}

func (r *Register) Payment() Payment {
	return r.payment
}

// Hold parks the active cart under a fresh id and clears it.
func (r *Register) Hold(name string) (HeldSale, error) {
	if r.IsEmpty() {
		return HeldSale{}, ErrEmptyCart
	}
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Sale %d", len(r.held)+1)
	}
	h := HeldSale{
		ID:       r.newID(),
		Name:     name,
		Items:    copyItems(r.items),
		Customer: copyCustomer(r.customer),
		Discount: r.discount,
		HeldAt:   r.now().UTC(),
	}
	r.held = append(r.held, h)
	r.Clear()
	return copyHeld(h), nil
}

// Resume restores a held sale as the active cart. It refuses to overwrite
// a cart that still has items.
func (r *Register) Resume(heldID string) (HeldSale, error) {
	i := r.heldIndex(heldID)
	if i < 0 {
		return HeldSale{}, ErrHeldSaleNotFound
	}
	if !r.IsEmpty() {
		return HeldSale{}, ErrCartNotEmpty
	}
	h := r.held[i]
	r.held = append(r.held[:i], r.held[i+1:]...)

	r.Clear()
	r.items = copyItems(h.Items)
	r.customer = copyCustomer(h.Customer)
	r.discount = h.Discount
	return copyHeld(h), nil
}

func (r *Register) DiscardHeld(heldID string) error {
	i := r.heldIndex(heldID)
	if i < 0 {
		return ErrHeldSaleNotFound
	}
	r.held = append(r.held[:i], r.held[i+1:]...)
	return nil
}

func (r *Register) HeldSales() []HeldSale {
	out := make([]HeldSale, 0, len(r.held))
	for _, h := range r.held {
		out = append(out, copyHeld(h))
	}
	return out
}

func (r *Register) heldIndex(id string) int {
	for i := range r.held {
		if r.held[i].ID == id {
			return i
		}
	}
	return -1
}

func copyItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func copyCustomer(c *Customer) *Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func copyHeld(h HeldSale) HeldSale {
	h.Items = copyItems(h.Items)
	h.Customer = copyCustomer(h.Customer)
	return h
}
