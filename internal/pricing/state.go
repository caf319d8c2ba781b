package pricing

// State is the serialisable form of a Register, used to persist a
// terminal's cart across restarts.
type State struct {
	Items     []LineItem `json:"items"`
	Customer  *Customer  `json:"customer,omitempty"`
	Discount  Discount   `json:"discount"`
	Payment   Payment    `json:"payment"`
	HeldSales []HeldSale `json:"held_sales"`
}

func (r *Register) State() State {
	return State{
		Items:     copyItems(r.items),
		Customer:  copyCustomer(r.customer),
		Discount:  r.discount,
		Payment:   r.payment,
		HeldSales: r.HeldSales(),
	}
}

// Restore builds a register from a saved state. Line discounts are clamped
// again since the state may come from outside the process.
func Restore(s State, opts ...Option) *Register {
	r := NewRegister(opts...)
	for _, it := range s.Items {
		if it.Quantity < 1 {
			continue
		}
		if i := r.indexOf(it.ProductID); i >= 0 {
			r.items[i].Quantity += it.Quantity
			continue
		}
		it.Discount = it.Discount.Clamped()
		r.items = append(r.items, it)
	}
	r.customer = copyCustomer(s.Customer)
	if s.Discount.Kind != "" {
		r.discount = s.Discount
	}
	if s.Payment.Method != "" {
		r.payment = s.Payment
	}
	for _, h := range s.HeldSales {
		r.held = append(r.held, copyHeld(h))
	}
	return r
}
