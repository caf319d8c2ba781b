package cache

import (
	"context"
	"errors"

	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// RegisterCache persists register snapshots outside the process.
type RegisterCache interface {
	Get(ctx context.Context, terminalID string) (*pricing.State, error)
	Set(ctx context.Context, terminalID string, state pricing.State) error
	Delete(ctx context.Context, terminalID string) error
}

var ErrCacheMiss = errors.New("cache miss")
