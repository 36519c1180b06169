package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/you/authsvc/domain"
)

// MockTokenDenylist implements domain.TokenDenylist interface for testing.
// Without overrides it keeps revoked IDs in memory.
type MockTokenDenylist struct {
	RevokeFunc    func(ctx context.Context, tokenID string, until time.Time) error
	IsRevokedFunc func(ctx context.Context, tokenID string) (bool, error)

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMockTokenDenylist creates a new MockTokenDenylist with default behaviors
func NewMockTokenDenylist() *MockTokenDenylist {
	return &MockTokenDenylist{revoked: make(map[string]time.Time)}
}

// Revoke records a token ID
func (m *MockTokenDenylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if m.RevokeFunc != nil {
		return m.RevokeFunc(ctx, tokenID, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

// IsRevoked reports whether a token ID was recorded
func (m *MockTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m.IsRevokedFunc != nil {
		return m.IsRevokedFunc(ctx, tokenID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

// Compile-time interface compliance verification
var _ domain.TokenDenylist = (*MockTokenDenylist)(nil)
