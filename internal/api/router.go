package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/pos-billing-service/internal/api/handlers"
	"github.com/Cheertaboi/pos-billing-service/internal/service"
)

// NewRouter builds the HTTP router for the pos-service
func NewRouter(svc *service.POSService) http.Handler {
	r := chi.NewRouter()

	h := handlers.NewPOSHandler(svc)

	r.Route("/terminals/{terminalID}", func(r chi.Router) {
		r.Get("/cart", h.GetCart)
		r.Delete("/cart", h.ClearCart)

		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateQuantity)
		r.Delete("/items/{productID}", h.RemoveItem)
		r.Put("/items/{productID}/discount", h.SetLineDiscount)

		r.Put("/discount", h.SetCartDiscount)
		r.Post("/coupon", h.ApplyCoupon)

		r.Put("/customer", h.SetCustomer)
		r.Delete("/customer", h.ClearCustomer)

		r.Patch("/payment", h.SetPayment)

		r.Post("/hold", h.HoldSale)
		r.Get("/held", h.ListHeld)
		r.Post("/held/{holdID}/resume", h.ResumeSale)
		r.Delete("/held/{holdID}", h.DiscardHeld)

		r.Post("/checkout", h.Checkout)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
