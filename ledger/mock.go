package ledger

import "context"

// MockLedger is a test double for Ledger.
// All function fields must be set before the corresponding method is called.
type MockLedger struct {
	StoreFn  func(ctx context.Context, hash string) error
	VerifyFn func(ctx context.Context, hash string) (Certificate, bool, error)
	ListFn   func(ctx context.Context) ([]Entry, error)
}

// Compile-time interface check.
var _ Ledger = (*MockLedger)(nil)

func (m *MockLedger) Store(ctx context.Context, hash string) error {
	return m.StoreFn(ctx, hash)
}
func (m *MockLedger) Verify(ctx context.Context, hash string) (Certificate, bool, error) {
	return m.VerifyFn(ctx, hash)
}
func (m *MockLedger) List(ctx context.Context) ([]Entry, error) {
	return m.ListFn(ctx)
}
