package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/pos-billing-service/internal/client"
	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
	"github.com/Cheertaboi/pos-billing-service/internal/service"
)

type POSHandler struct {
	service *service.POSService
}

func NewPOSHandler(svc *service.POSService) *POSHandler {
	return &POSHandler{service: svc}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return false
	}
	return true
}

// decodeOptional is decode for endpoints whose body may be left out.
func decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return false
	}
	return true
}

// fail maps service errors to status codes.
func fail(w http.ResponseWriter, err error) {
	var notReady *service.NotReadyError
	var apiErr *client.APIError

	switch {
	case errors.As(err, &notReady):
		writeError(w, http.StatusConflict, notReady.Reason)
	case errors.Is(err, pricing.ErrHeldSaleNotFound):
		writeError(w, http.StatusNotFound, "held_sale_not_found")
	case errors.Is(err, pricing.ErrCartNotEmpty):
		writeError(w, http.StatusConflict, "cart_not_empty")
	case errors.Is(err, pricing.ErrEmptyCart):
		writeError(w, http.StatusConflict, "cart_empty")
	case errors.Is(err, service.ErrCouponNotFound):
		writeError(w, http.StatusNotFound, "coupon_not_found")
	case errors.Is(err, service.ErrCouponExpired):
		writeError(w, http.StatusUnprocessableEntity, "coupon_expired")
	case errors.Is(err, service.ErrCouponNotInWindow):
		writeError(w, http.StatusUnprocessableEntity, "not_in_valid_window")
	case errors.Is(err, service.ErrMinOrderNotMet):
		writeError(w, http.StatusUnprocessableEntity, "min_order_value_not_met")
	case errors.Is(err, service.ErrCouponUnsupported):
		writeError(w, http.StatusUnprocessableEntity, "coupon_not_supported")
	case errors.Is(err, service.ErrRegisterUnavailable):
		writeError(w, http.StatusServiceUnavailable, "register_unavailable")
	case errors.Is(err, client.ErrSaleAPIUnavailable):
		writeError(w, http.StatusServiceUnavailable, "sale_api_unavailable")
	case errors.As(err, &apiErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "sale_rejected", "detail": apiErr.Message})
	default:
		log.Printf("pos handler: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func terminalID(r *http.Request) string {
	return chi.URLParam(r, "terminalID")
}

// --- Handlers ---

// GetCart handles GET /terminals/{terminalID}/cart
func (h *POSHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetCart(r.Context(), terminalID(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearCart handles DELETE /terminals/{terminalID}/cart
func (h *POSHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ClearCart(r.Context(), terminalID(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /terminals/{terminalID}/items
func (h *POSHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !decode(w, r, &req) {
		return
	}
	req.Product.ID = strings.TrimSpace(req.Product.ID)
	if req.Product.ID == "" {
		writeError(w, http.StatusBadRequest, "product.id required")
		return
	}
	if req.Product.SellingPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "product.selling_price must not be negative")
		return
	}

	view, err := h.service.AddItem(r.Context(), terminalID(r), req.Product, req.Quantity)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// UpdateQuantity handles PUT /terminals/{terminalID}/items/{productID}
func (h *POSHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "quantity required")
		return
	}

	view, err := h.service.UpdateQuantity(r.Context(), terminalID(r), chi.URLParam(r, "productID"), *req.Quantity)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /terminals/{terminalID}/items/{productID}
func (h *POSHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveItem(r.Context(), terminalID(r), chi.URLParam(r, "productID"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetLineDiscount handles PUT /terminals/{terminalID}/items/{productID}/discount
func (h *POSHandler) SetLineDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if !decode(w, r, &req) {
		return
	}
	d, ok := req.toDiscount()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_discount_type")
		return
	}

	view, err := h.service.SetLineDiscount(r.Context(), terminalID(r), chi.URLParam(r, "productID"), d)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetCartDiscount handles PUT /terminals/{terminalID}/discount
func (h *POSHandler) SetCartDiscount(w http.ResponseWriter, r *http.Request) {
	var req DiscountRequest
	if !decode(w, r, &req) {
		return
	}
	d, ok := req.toDiscount()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_discount_type")
		return
	}

	view, err := h.service.SetCartDiscount(r.Context(), terminalID(r), d)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ApplyCoupon handles POST /terminals/{terminalID}/coupon
func (h *POSHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.service.ApplyCoupon(r.Context(), terminalID(r), req.CouponCode)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetCustomer handles PUT /terminals/{terminalID}/customer
func (h *POSHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	view, err := h.service.SetCustomer(r.Context(), terminalID(r), pricing.Customer{ID: req.ID, Name: req.Name})
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ClearCustomer handles DELETE /terminals/{terminalID}/customer
func (h *POSHandler) ClearCustomer(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ClearCustomer(r.Context(), terminalID(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetPayment handles PATCH /terminals/{terminalID}/payment
func (h *POSHandler) SetPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.service.SetPayment(r.Context(), terminalID(r), req.toUpdate())
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HoldSale handles POST /terminals/{terminalID}/hold
// the body is optional; without it the sale gets a generated name
func (h *POSHandler) HoldSale(w http.ResponseWriter, r *http.Request) {
	var req HoldRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	held, err := h.service.HoldSale(r.Context(), terminalID(r), req.Name)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, held)
}

// ListHeld handles GET /terminals/{terminalID}/held
func (h *POSHandler) ListHeld(w http.ResponseWriter, r *http.Request) {
	held, err := h.service.HeldSales(r.Context(), terminalID(r))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, HeldSalesResponse{HeldSales: held})
}

// ResumeSale handles POST /terminals/{terminalID}/held/{holdID}/resume
func (h *POSHandler) ResumeSale(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ResumeSale(r.Context(), terminalID(r), chi.URLParam(r, "holdID"))
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// DiscardHeld handles DELETE /terminals/{terminalID}/held/{holdID}
func (h *POSHandler) DiscardHeld(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DiscardHeldSale(r.Context(), terminalID(r), chi.URLParam(r, "holdID")); err != nil {
		fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /terminals/{terminalID}/checkout
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.BranchID) == "" {
		writeError(w, http.StatusBadRequest, "branch_id required")
		return
	}

	receipt, err := h.service.Checkout(r.Context(), terminalID(r), req.BranchID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}
