package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/pos-billing-service/internal/models"
)

func sampleSale() models.SaleRequest {
	return models.SaleRequest{
		BranchID: "3",
		Items: []models.SaleItemRequest{
			{ProductID: "11", Quantity: 2, UnitPrice: decimal.NewFromInt(100), DiscountAmount: decimal.NewFromInt(20)},
		},
		DiscountAmount: decimal.NewFromInt(30),
		TotalAmount:    decimal.RequireFromString("157.5"),
		PaymentMethod:  "CASH",
		PaidAmount:     decimal.NewFromInt(200),
	}
}

func TestCreateSale_Success(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sales", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Sale created successfully","data":{"id":42,"saleNumber":"SALE-2026-0042"}}`))
	}))
	defer srv.Close()

	c := NewSaleClient(srv.URL+"/", 2*time.Second)
	resp, err := c.CreateSale(context.Background(), sampleSale())
	require.NoError(t, err)

	assert.Equal(t, "42", resp.ID.String())
	assert.Equal(t, "SALE-2026-0042", resp.SaleNumber)
	assert.Equal(t, "3", got["branchId"])
	assert.Equal(t, "CASH", got["paymentMethod"])
	assert.Equal(t, "157.5", got["totalAmount"])
	assert.Nil(t, got["customerId"])
}

func TestCreateSale_RejectedByBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"message":"Insufficient stock for product 11"}`))
	}))
	defer srv.Close()

	_, err := NewSaleClient(srv.URL, time.Second).CreateSale(context.Background(), sampleSale())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Insufficient stock for product 11", apiErr.Message)
}

func TestCreateSale_PlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSaleClient(srv.URL, time.Second).CreateSale(context.Background(), sampleSale())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "gateway exploded", apiErr.Message)
}

func TestCreateSale_BreakerOpensOnServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewSaleClient(srv.URL, time.Second)
	for i := 0; i < 5; i++ {
		_, err := c.CreateSale(context.Background(), sampleSale())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
	}

	_, err := c.CreateSale(context.Background(), sampleSale())
	assert.ErrorIs(t, err, ErrSaleAPIUnavailable)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestCreateSale_ClientErrorsDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewSaleClient(srv.URL, time.Second)
	for i := 0; i < 8; i++ {
		_, err := c.CreateSale(context.Background(), sampleSale())
		assert.NotErrorIs(t, err, ErrSaleAPIUnavailable)
	}
}
