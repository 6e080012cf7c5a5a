package ledger

import (
	"context"
	"sync"
)

// Compile-time interface check.
var _ Ledger = (*MemLedger)(nil)

// MemLedger is an in-memory Ledger. It stands in for the remote store in
// offline mode and in tests.
type MemLedger struct {
	opts options

	mu      sync.RWMutex
	records map[string]Certificate
}

// NewMemLedger creates an empty in-memory ledger.
func NewMemLedger(opts ...Option) *MemLedger {
	return &MemLedger{
		opts:    newOptions(opts),
		records: make(map[string]Certificate),
	}
}

// Store registers hash.
func (m *MemLedger) Store(ctx context.Context, hash string) error {
	if hash == "" {
		return ErrEmptyHash
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[hash]; exists {
		return m.opts.policy.onDuplicate(hash)
	}
	m.records[hash] = m.opts.newCertificate(ctx, hash)
	return nil
}

// Verify looks up hash.
func (m *MemLedger) Verify(ctx context.Context, hash string) (Certificate, bool, error) {
	if err := ctx.Err(); err != nil {
		return Certificate{}, false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	cert, ok := m.records[hash]
	return cert, ok, nil
}

// List returns all records.
func (m *MemLedger) List(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.records))
	for hash, cert := range m.records {
		entries = append(entries, Entry{Hash: hash, Certificate: cert})
	}
	return entries, nil
}
