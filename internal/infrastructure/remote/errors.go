package remote

import (
	"errors"
	"fmt"
)

// FailureKind classifies gateway failures
type FailureKind string

const (
	// FailureUnavailable covers transport errors, timeouts and any
	// HTTP status outside the accepted success band.
	FailureUnavailable FailureKind = "unavailable"
	// FailureRejected is reserved for semantic rejections by the
	// remote service. The current backend never produces one, so it
	// collapses into unavailable handling everywhere today.
	FailureRejected FailureKind = "rejected"
)

// GatewayError is the only error type that escapes the gateway
// boundary; raw transport errors are always wrapped.
type GatewayError struct {
	Op     string      // operation that failed: list, get, create, update, delete
	Kind   FailureKind // unavailable or rejected
	Status int         // HTTP status, 0 when the request never completed
	Err    error       // underlying cause, may be nil for status failures
}

// Error implements the error interface
func (e *GatewayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("remote %s failed: unexpected status %d", e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("remote %s failed", e.Op)
}

// Unwrap returns the underlying cause
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a gateway failure of the
// unavailable kind.
func IsUnavailable(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Kind == FailureUnavailable
}

func unavailable(op string, status int, err error) *GatewayError {
	return &GatewayError{Op: op, Kind: FailureUnavailable, Status: status, Err: err}
}
