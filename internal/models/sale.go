package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// SaleRequest is the body of the backend's create-sale call.
type SaleRequest struct {
	CustomerID      *string           `json:"customerId"`
	BranchID        string            `json:"branchId"`
	Items           []SaleItemRequest `json:"items"`
	DiscountAmount  decimal.Decimal   `json:"discountAmount"`
	DiscountPercent decimal.Decimal   `json:"discountPercent"`
	TaxAmount       decimal.Decimal   `json:"taxAmount"`
	TotalAmount     decimal.Decimal   `json:"totalAmount"`
	PaymentMethod   string            `json:"paymentMethod"`
	PaidAmount      decimal.Decimal   `json:"paidAmount"`
	PatientName     *string           `json:"patientName"`
	Remarks         *string           `json:"remarks"`
}

type SaleItemRequest struct {
	ProductID      string          `json:"productId"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// SaleResponse is the part of the backend reply the till cares about.
type SaleResponse struct {
	ID         json.Number `json:"id"`
	SaleNumber string      `json:"saleNumber"`
}

// APIEnvelope wraps every backend reply.
type APIEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
