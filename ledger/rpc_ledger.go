package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/bitfsorg/certledger-go/identity"
)

// Remote method names.
const (
	MethodStoreCertificate  = "storeCertificate"
	MethodVerifyCertificate = "verifyCertificate"
	MethodGetCertificates   = "getCertificates"
)

// Compile-time interface check.
var _ Ledger = (*RPCLedger)(nil)

// RPCLedger is a Ledger backed by the remote certificate canister.
// The owner and timestamp of new records are assigned remotely.
type RPCLedger struct {
	rpc    *RPCClient
	policy DuplicatePolicy
}

// NewRPCLedger creates a Ledger over rpc. Under DuplicateIgnore a remote
// duplicate rejection is reported as success.
func NewRPCLedger(rpc *RPCClient, policy DuplicatePolicy) *RPCLedger {
	return &RPCLedger{rpc: rpc, policy: policy}
}

// Store registers hash remotely.
func (l *RPCLedger) Store(ctx context.Context, hash string) error {
	if hash == "" {
		return ErrEmptyHash
	}
	err := l.rpc.Call(ctx, MethodStoreCertificate, []interface{}{hash}, nil)
	if errors.Is(err, ErrDuplicate) && l.policy == DuplicateIgnore {
		return nil
	}
	return err
}

// Verify looks hash up remotely.
func (l *RPCLedger) Verify(ctx context.Context, hash string) (Certificate, bool, error) {
	var opt optCertificate
	if err := l.rpc.Call(ctx, MethodVerifyCertificate, []interface{}{hash}, &opt); err != nil {
		return Certificate{}, false, err
	}
	if opt.cert == nil {
		return Certificate{}, false, nil
	}
	cert, err := opt.cert.toCertificate()
	if err != nil {
		return Certificate{}, false, err
	}
	if cert.Hash != hash {
		return Certificate{}, false, fmt.Errorf("%w: requested %q, got record for %q",
			ErrInvalidResponse, hash, cert.Hash)
	}
	return cert, true, nil
}

// List returns all remote records.
func (l *RPCLedger) List(ctx context.Context) ([]Entry, error) {
	var pairs []entryPair
	if err := l.rpc.Call(ctx, MethodGetCertificates, nil, &pairs); err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(pairs))
	seen := make(map[string]struct{}, len(pairs))
	for _, p := range pairs {
		cert, err := p.cert.toCertificate()
		if err != nil {
			return nil, err
		}
		if cert.Hash != p.hash {
			return nil, fmt.Errorf("%w: entry %q carries record for %q", ErrInvalidResponse, p.hash, cert.Hash)
		}
		if _, dup := seen[p.hash]; dup {
			return nil, fmt.Errorf("%w: entry %q listed twice", ErrInvalidResponse, p.hash)
		}
		seen[p.hash] = struct{}{}
		entries = append(entries, Entry{Hash: p.hash, Certificate: cert})
	}
	return entries, nil
}

// wireCertificate is a certificate as encoded by the canister.
type wireCertificate struct {
	Owner     string    `json:"owner"`
	Hash      string    `json:"hash"`
	Timestamp flexInt64 `json:"timestamp"`
}

func (w *wireCertificate) toCertificate() (Certificate, error) {
	if w.Hash == "" {
		return Certificate{}, fmt.Errorf("%w: certificate without hash", ErrInvalidResponse)
	}
	if _, err := identity.ParsePrincipal(w.Owner); err != nil {
		return Certificate{}, fmt.Errorf("%w: owner: %w", ErrInvalidResponse, err)
	}
	return Certificate{Hash: w.Hash, Owner: w.Owner, Timestamp: int64(w.Timestamp)}, nil
}

// optCertificate decodes an optional certificate: null, [] or [cert].
type optCertificate struct {
	cert *wireCertificate
}

func (o *optCertificate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.cert = nil
		return nil
	}
	var items []wireCertificate
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	switch len(items) {
	case 0:
		o.cert = nil
	case 1:
		o.cert = &items[0]
	default:
		return fmt.Errorf("optional value has %d elements", len(items))
	}
	return nil
}

// entryPair decodes a [hash, cert] tuple.
type entryPair struct {
	hash string
	cert wireCertificate
}

func (p *entryPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("entry has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.hash); err != nil {
		return fmt.Errorf("entry hash: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.cert); err != nil {
		return fmt.Errorf("entry certificate: %w", err)
	}
	return nil
}

// flexInt64 accepts a JSON number or a decimal string, since nanosecond
// timestamps exceed the range JavaScript encoders keep exact.
type flexInt64 int64

func (f *flexInt64) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	*f = flexInt64(n)
	return nil
}

func (f flexInt64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(f), 10)), nil
}
