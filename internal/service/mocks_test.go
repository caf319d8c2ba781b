package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Cheertaboi/pos-billing-service/internal/cache"
	"github.com/Cheertaboi/pos-billing-service/internal/models"
	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

type mockCouponRepo struct {
	coupons map[string]*models.Coupon
	err     error
}

func (m *mockCouponRepo) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.coupons[code], nil
}

type mockSaleClient struct {
	mu       sync.Mutex
	requests []models.SaleRequest
	resp     *models.SaleResponse
	err      error
}

func (m *mockSaleClient) CreateSale(_ context.Context, req models.SaleRequest) (*models.SaleResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

// mockRegisterCache stores snapshots as JSON so tests go through the same
// encoding a real cache would.
type mockRegisterCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error

	// getFails makes the next getFails reads fail with getErr.
	getFails int
	getErr   error
}

func newMockRegisterCache() *mockRegisterCache {
	return &mockRegisterCache{data: make(map[string][]byte)}
}

func (m *mockRegisterCache) Get(_ context.Context, terminalID string) (*pricing.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.getFails > 0 {
		m.getFails--
		return nil, m.getErr
	}
	raw, ok := m.data[terminalID]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	var s pricing.State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *mockRegisterCache) Set(_ context.Context, terminalID string, state pricing.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.data[terminalID] = raw
	return nil
}

func (m *mockRegisterCache) Delete(_ context.Context, terminalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.data, terminalID)
	return nil
}

func (m *mockRegisterCache) has(terminalID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[terminalID]
	return ok
}
