package pricing

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRestore_ThroughJSON(t *testing.T) {
	r := newTestRegister("5")
	r.AddItem(product("a", "100"), 2)
	r.SetLineDiscount("a", PercentOff(dec("10")))
	r.AddItem(product("z", "7"), 1)
	_, err := r.Hold("parked")
	require.NoError(t, err)

	r.AddItem(product("a", "100"), 2)
	r.SetLineDiscount("a", PercentOff(dec("10")))
	r.SetCartDiscount(AmountOff(dec("30")))
	r.SetCustomer(Customer{ID: "cust-1", Name: "Walk"})
	tendered := dec("200")
	r.SetPayment(PaymentUpdate{AmountTendered: &tendered})

	raw, err := json.Marshal(r.State())
	require.NoError(t, err)

	var s State
	require.NoError(t, json.Unmarshal(raw, &s))
	restored := Restore(s, WithTaxRate(dec("5")))

	tot := restored.Totals()
	assertMoney(t, "157.5", tot.GrandTotal)
	assertMoney(t, "42.5", tot.ChangeDue)
	assert.Equal(t, "cust-1", restored.Customer().ID)

	held := restored.HeldSales()
	require.Len(t, held, 1)
	assert.Equal(t, "parked", held[0].Name)
	require.Len(t, held[0].Items, 2)
}

func TestRestore_SanitisesInput(t *testing.T) {
	s := State{
		Items: []LineItem{
			{ProductID: "a", UnitPrice: dec("10"), Quantity: 1, Discount: PercentOff(dec("300"))},
			{ProductID: "a", UnitPrice: dec("10"), Quantity: 2},
			{ProductID: "b", UnitPrice: dec("5"), Quantity: 0},
		},
	}
	r := Restore(s)

	items := r.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assertMoney(t, "100", items[0].Discount.Value)
	assert.Equal(t, Cash, r.Payment().Method)
	assert.Equal(t, Percentage, r.Discount().Kind)
}
