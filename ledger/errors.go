package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate indicates the hash is already registered and the duplicate policy rejects re-registration.
	ErrDuplicate = errors.New("ledger: certificate already registered")

	// ErrEmptyHash indicates an attempt to store an empty hash.
	ErrEmptyHash = errors.New("ledger: hash must not be empty")

	// ErrConnectionFailed indicates the client could not reach the remote store.
	ErrConnectionFailed = errors.New("ledger: connection failed")

	// ErrInvalidResponse indicates the remote store returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("ledger: invalid response")

	// ErrRemote indicates the remote store rejected the call.
	ErrRemote = errors.New("ledger: remote error")

	// ErrInvalidPolicy indicates an unknown duplicate policy name.
	ErrInvalidPolicy = errors.New("ledger: invalid duplicate policy (must be \"reject\" or \"ignore\")")

	// ErrMissingCanisterID indicates no canister ID was configured or discovered.
	ErrMissingCanisterID = errors.New("ledger: canister ID is required")

	// ErrDNSLookupFailed indicates a DNS query for canister discovery failed.
	ErrDNSLookupFailed = errors.New("ledger: DNS lookup failed")

	// ErrDNSSECValidationFailed indicates the upstream resolver did not authenticate the answer.
	ErrDNSSECValidationFailed = errors.New("ledger: DNSSEC validation failed")
)

// RemoteError is an error reported by the remote store itself.
type RemoteError struct {
	Method  string
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ledger: %s: remote error %d: %s", e.Method, e.Code, e.Message)
}

// Unwrap maps remote duplicate rejections to ErrDuplicate and everything else to ErrRemote.
func (e *RemoteError) Unwrap() error {
	if e.Code == CodeDuplicate {
		return ErrDuplicate
	}
	return ErrRemote
}
