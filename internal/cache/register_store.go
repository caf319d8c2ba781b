package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Cheertaboi/pos-billing-service/internal/pricing"
)

// Session is one terminal's register. Callers hold the session lock for
// the whole of an operation on it.
type Session struct {
	sync.Mutex
	Register *pricing.Register
}

// RegisterStore keeps the live registers of every terminal in memory.
type RegisterStore struct {
	mu    sync.RWMutex
	store map[string]*Session
	sfg   singleflight.Group
}

func NewRegisterStore() *RegisterStore {
	return &RegisterStore{
		store: make(map[string]*Session),
	}
}

func (c *RegisterStore) Get(terminalID string) (*Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.store[terminalID]
	return s, ok
}

// GetOrCreate returns the terminal's session, building the register with
// load the first time the terminal is seen. Concurrent first calls share one
// load, which runs without holding the store lock. When load fails nothing
// is stored and the next call tries again.
func (c *RegisterStore) GetOrCreate(terminalID string, load func() (*pricing.Register, error)) (*Session, error) {
	if s, ok := c.Get(terminalID); ok {
		return s, nil
	}

	v, err, _ := c.sfg.Do(terminalID, func() (interface{}, error) {
		if s, ok := c.Get(terminalID); ok {
			return s, nil
		}
		reg, err := load()
		if err != nil {
			return nil, err
		}
		s := &Session{Register: reg}
		c.mu.Lock()
		c.store[terminalID] = s
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}
