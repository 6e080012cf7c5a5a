// Package workflow implements certificate verification: hash a document,
// look the digest up in a ledger and, when it is unknown, register it.
//
// A run moves through
//
//	idle → hashing → checking → found
//	                          → not_found → storing → stored
//
// and ends in error on the first failure. Nothing is retried.
package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bitfsorg/certledger-go/digest"
	"github.com/bitfsorg/certledger-go/ledger"
	"github.com/bitfsorg/certledger-go/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Transition is reported to the observer on every state change.
type Transition struct {
	RunID string
	From  State
	To    State
	Hash  string
	At    time.Time
}

// Result describes a finished run.
type Result struct {
	RunID       string              `json:"run_id"`
	Hash        string              `json:"hash"`
	State       State               `json:"state"`
	Certificate *ledger.Certificate `json:"certificate,omitempty"`
	// Registered is true when this run created the record.
	Registered bool `json:"registered"`
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Workflow) { w.logger = logging.Component(l, "workflow") }
}

// WithAutoRegister controls whether unknown digests are stored. Default true.
func WithAutoRegister(enabled bool) Option {
	return func(w *Workflow) { w.autoRegister = enabled }
}

// WithObserver registers fn to receive every transition.
func WithObserver(fn func(Transition)) Option {
	return func(w *Workflow) { w.observer = fn }
}

// Workflow runs verifications against a ledger.
type Workflow struct {
	ledger       ledger.Ledger
	logger       *zap.Logger
	autoRegister bool
	observer     func(Transition)
}

// New creates a workflow over l.
func New(l ledger.Ledger, opts ...Option) *Workflow {
	w := &Workflow{
		ledger:       l,
		logger:       logging.Component(nil, "workflow"),
		autoRegister: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AutoRegister reports whether unknown digests are stored.
func (w *Workflow) AutoRegister() bool { return w.autoRegister }

// Run hashes r and verifies the digest.
func (w *Workflow) Run(ctx context.Context, r io.Reader) (*Result, error) {
	rn := w.newRun()
	rn.to(StateHashing)
	hash, err := digest.FromReader(r)
	if err != nil {
		return rn.fail(KindIO, err)
	}
	return w.check(ctx, rn, hash)
}

// RunFile hashes the file at path and verifies the digest.
func (w *Workflow) RunFile(ctx context.Context, path string) (*Result, error) {
	rn := w.newRun()
	rn.log = rn.log.With(zap.String("path", path))
	rn.to(StateHashing)
	hash, err := digest.FromFile(path)
	if err != nil {
		return rn.fail(KindIO, err)
	}
	return w.check(ctx, rn, hash)
}

// RunDigest verifies an already computed digest, starting at checking.
// A malformed digest is rejected before the run starts: no transitions are
// observed, the result is nil and the error is an *Error in StateIdle.
func (w *Workflow) RunDigest(ctx context.Context, hash string) (*Result, error) {
	normalized, err := digest.Normalize(hash)
	if err != nil {
		return nil, &Error{State: StateIdle, Kind: KindIO, Err: err}
	}
	return w.check(ctx, w.newRun(), normalized)
}

func (w *Workflow) check(ctx context.Context, rn *run, hash string) (*Result, error) {
	rn.result.Hash = hash
	rn.log = rn.log.With(zap.String("hash", hash))

	rn.to(StateChecking)
	cert, found, err := w.ledger.Verify(ctx, hash)
	if err != nil {
		return rn.fail(KindTransport, err)
	}
	if found {
		rn.result.Certificate = &cert
		rn.to(StateFound)
		rn.log.Info("certificate found",
			zap.String("owner", cert.Owner),
			zap.Time("registered_at", cert.Time()))
		return rn.result, nil
	}

	rn.to(StateNotFound)
	if !w.autoRegister {
		rn.log.Info("certificate not found")
		return rn.result, nil
	}

	rn.to(StateStoring)
	if err := w.ledger.Store(ctx, hash); err != nil {
		return rn.fail(KindTransport, err)
	}
	rn.result.Registered = true
	rn.to(StateStored)

	// Read back the store-assigned owner and timestamp.
	cert, found, err = w.ledger.Verify(ctx, hash)
	switch {
	case err != nil:
		rn.log.Warn("read-back after store failed", zap.Error(err))
	case !found:
		rn.log.Warn("stored certificate not visible on read-back")
	default:
		rn.result.Certificate = &cert
	}
	rn.log.Info("certificate registered")
	return rn.result, nil
}

// run is the per-call state. Runs share nothing.
type run struct {
	w      *Workflow
	state  State
	result *Result
	log    *zap.Logger
}

func (w *Workflow) newRun() *run {
	id := uuid.NewString()
	return &run{
		w:      w,
		state:  StateIdle,
		result: &Result{RunID: id, State: StateIdle},
		log:    w.logger.With(zap.String("run_id", id)),
	}
}

func (rn *run) to(next State) {
	if !CanTransition(rn.state, next) {
		// Reaching this is a programming error in check.
		panic(fmt.Sprintf("workflow: illegal transition %s -> %s", rn.state, next))
	}
	t := Transition{RunID: rn.result.RunID, From: rn.state, To: next, Hash: rn.result.Hash, At: time.Now()}
	rn.state = next
	rn.result.State = next
	rn.log.Debug("state transition", zap.Stringer("from", t.From), zap.Stringer("to", t.To))
	if rn.w.observer != nil {
		rn.w.observer(t)
	}
}

func (rn *run) fail(kind Kind, err error) (*Result, error) {
	failed := rn.state
	rn.to(StateError)
	werr := &Error{State: failed, Kind: kind, Err: err}
	rn.log.Error("verification failed", zap.Stringer("state", failed), zap.Stringer("kind", kind), zap.Error(err))
	return rn.result, werr
}
