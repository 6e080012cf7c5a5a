package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates the document could not be read.
	ErrIO = errors.New("workflow: document read failed")

	// ErrTransport indicates the record store could not be queried or updated.
	ErrTransport = errors.New("workflow: record store failed")
)

// Kind classifies a workflow failure.
type Kind int

const (
	KindIO Kind = iota + 1
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is returned when a run ends in the error state. State is the
// state the run was in when it failed.
type Error struct {
	State State
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("workflow: %s failed (%s): %v", e.State, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrIO and ErrTransport by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}
