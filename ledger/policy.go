package ledger

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides what Store does with an already registered hash.
type DuplicatePolicy int

const (
	// DuplicateReject fails the second Store with ErrDuplicate.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateIgnore treats the second Store as a successful no-op; the first record is kept.
	DuplicateIgnore
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// ParseDuplicatePolicy parses "reject" or "ignore". An empty string means reject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicateReject, nil
	case "ignore":
		return DuplicateIgnore, nil
	default:
		return DuplicateReject, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// onDuplicate returns the result of storing hash when it already exists.
func (p DuplicatePolicy) onDuplicate(hash string) error {
	if p == DuplicateIgnore {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDuplicate, hash)
}
