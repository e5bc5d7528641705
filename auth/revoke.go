package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"obiabedidi/errs"
)

// ErrRevoked marks a token that was logged out before it expired.
var ErrRevoked = fmt.Errorf("%w: token revoked", errs.ErrUnauthenticated)

// Revoker remembers logged-out token ids until the tokens would have expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryRevoker keeps revocations in process; used when Redis is not configured.
type MemoryRevoker struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{expires: make(map[string]time.Time), now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, exp := range m.expires {
		if !exp.After(now) {
			delete(m.expires, id)
		}
	}
	if ttl > 0 {
		m.expires[tokenID] = now.Add(ttl)
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.expires[tokenID]
	return ok && exp.After(m.now()), nil
}

// Verify parses token and rejects it if it has been revoked. A nil revoker skips the check.
func Verify(ctx context.Context, issuer *Issuer, revoker Revoker, token string) (*Claims, error) {
	claims, err := issuer.Parse(token)
	if err != nil {
		return nil, err
	}
	if revoker == nil || claims.ID == "" {
		return claims, nil
	}
	revoked, err := revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}
