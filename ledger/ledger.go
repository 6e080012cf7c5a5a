// Package ledger provides clients for the append-only certificate record store.
//
// Every implementation satisfies Ledger: Store registers a hash under the
// caller's identity, Verify looks a hash up and List enumerates all records.
// A hash is registered at most once; records are never modified or removed.
package ledger

import (
	"context"
	"time"

	"github.com/bitfsorg/certledger-go/identity"
)

// Ledger is the capability set of a certificate record store.
type Ledger interface {
	// Store registers hash under the caller identity with a store-assigned timestamp.
	Store(ctx context.Context, hash string) error

	// Verify looks up hash. found is false, with a nil error, when no record exists.
	// Transport and remote failures are reported through err.
	Verify(ctx context.Context, hash string) (cert Certificate, found bool, err error)

	// List returns every record. Order is not guaranteed.
	List(ctx context.Context) ([]Entry, error)
}

// Certificate is a registered document digest.
type Certificate struct {
	Hash      string `json:"hash"`
	Owner     string `json:"owner"`     // textual principal
	Timestamp int64  `json:"timestamp"` // nanoseconds since the Unix epoch
}

// Time returns Timestamp as a UTC time.
func (c Certificate) Time() time.Time { return time.Unix(0, c.Timestamp).UTC() }

// Entry pairs a hash with its record, as returned by List.
type Entry struct {
	Hash        string      `json:"hash"`
	Certificate Certificate `json:"certificate"`
}

// Option configures the local ledger implementations.
type Option func(*options)

type options struct {
	policy DuplicatePolicy
	owner  identity.Principal
	now    func() time.Time
}

func newOptions(opts []Option) options {
	o := options{
		policy: DuplicateReject,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithPolicy sets how a second Store of the same hash is handled.
func WithPolicy(p DuplicatePolicy) Option {
	return func(o *options) { o.policy = p }
}

// WithOwner sets the owner recorded when the context carries no caller.
func WithOwner(p identity.Principal) Option {
	return func(o *options) { o.owner = p }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// ownerFor resolves the principal recorded for a Store call.
func (o *options) ownerFor(ctx context.Context) string {
	if p, ok := identity.CallerFrom(ctx); ok {
		return p.String()
	}
	if len(o.owner) > 0 {
		return o.owner.String()
	}
	return identity.Anonymous().String()
}

func (o *options) newCertificate(ctx context.Context, hash string) Certificate {
	return Certificate{
		Hash:      hash,
		Owner:     o.ownerFor(ctx),
		Timestamp: o.now().UnixNano(),
	}
}
