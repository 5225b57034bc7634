// internal/poller/errors.go
package poller

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when an operator stop is observed.
	ErrCancelled = errors.New("poller: cancelled")

	// ErrUnavailable is matched by *UnavailableError.
	ErrUnavailable = errors.New("poller: session unavailable")

	// ErrTransport is matched by a *ReadError with ReasonTransport.
	ErrTransport = errors.New("poller: transport error")

	// ErrProtocol is matched by a *ReadError with ReasonProtocol.
	ErrProtocol = errors.New("poller: protocol error")
)

// ConnectError means a transport session could not be established.
// It never leaves the Connector except inside an UnavailableError.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("poller: connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// UnavailableError means the retry budget was exhausted.
type UnavailableError struct {
	Attempts int
	Err      error // last connect failure
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("poller: session unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Reason classifies a failed read.
type Reason uint8

const (
	// ReasonTransport: the session is no longer usable and must be rebuilt.
	ReasonTransport Reason = iota
	// ReasonProtocol: the device answered with an exception; the session is fine.
	ReasonProtocol
)

func (r Reason) String() string {
	switch r {
	case ReasonTransport:
		return "transport"
	case ReasonProtocol:
		return "protocol"
	default:
		return "unknown"
	}
}

// ReadError is the only error type returned by Cycle.Read.
type ReadError struct {
	Reason Reason
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("poller: read failed (%s): %v", e.Reason, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

func (e *ReadError) Is(target error) bool {
	switch target {
	case ErrTransport:
		return e.Reason == ReasonTransport
	case ErrProtocol:
		return e.Reason == ReasonProtocol
	}
	return false
}

// ReadReason exposes the class to observers without importing this package.
func (e *ReadError) ReadReason() string { return e.Reason.String() }

// IsTransport reports whether err requires a session rebuild.
func IsTransport(err error) bool { return errors.Is(err, ErrTransport) }

// IsProtocol reports whether err is a device-side rejection.
func IsProtocol(err error) bool { return errors.Is(err, ErrProtocol) }

// exceptionCoder is implemented by transport adapters for device exceptions.
type exceptionCoder interface{ ExceptionCode() uint8 }

// ExceptionCode extracts the device exception code from err, if any.
func ExceptionCode(err error) (uint8, bool) {
	var c exceptionCoder
	if errors.As(err, &c) {
		return c.ExceptionCode(), true
	}
	return 0, false
}

// classify wraps a session error into a ReadError.
// Anything that is not a device exception is treated as transport death.
func classify(err error) *ReadError {
	if _, ok := ExceptionCode(err); ok {
		return &ReadError{Reason: ReasonProtocol, Err: err}
	}
	return &ReadError{Reason: ReasonTransport, Err: err}
}

func cancelled(ctx context.Context) error {
	cause := context.Cause(ctx)
	if cause == nil {
		cause = context.Canceled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, cause)
}
