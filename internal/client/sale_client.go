package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/Cheertaboi/pos-billing-service/internal/models"
)

var ErrSaleAPIUnavailable = errors.New("sale api unavailable")

// APIError is a non-2xx reply from the sales backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sale api returned %d: %s", e.Status, e.Message)
}

// SaleClient commits finished sales to the backend's sales endpoint.
type SaleClient struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker[*models.SaleResponse]
}

func NewSaleClient(baseURL string, timeout time.Duration) *SaleClient {
	return &SaleClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		cb: gobreaker.NewCircuitBreaker[*models.SaleResponse](gobreaker.Settings{
			Name:    "sale-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			// a rejected sale is the caller's problem, not a sick backend
			IsSuccessful: func(err error) bool {
				var apiErr *APIError
				if errors.As(err, &apiErr) {
					return apiErr.Status < http.StatusInternalServerError
				}
				return err == nil
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

// CreateSale posts the sale and returns the backend's identifiers for it.
func (c *SaleClient) CreateSale(ctx context.Context, req models.SaleRequest) (*models.SaleResponse, error) {
	resp, err := c.cb.Execute(func() (*models.SaleResponse, error) {
		return c.post(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrSaleAPIUnavailable, err)
	}
	return resp, err
}

func (c *SaleClient) post(ctx context.Context, req models.SaleRequest) (*models.SaleResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal sale: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/sales", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("post sale: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read sale response: %w", err)
	}

	var env models.APIEnvelope
	decodeErr := json.Unmarshal(raw, &env)

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		return nil, &APIError{Status: res.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode sale response: %w", decodeErr)
	}

	var sale models.SaleResponse
	if err := json.Unmarshal(env.Data, &sale); err != nil {
		return nil, fmt.Errorf("decode sale data: %w", err)
	}
	return &sale, nil
}
