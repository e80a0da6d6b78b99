package db

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConnectionError wraps any failure reported by the underlying query
// interface. It is never retried here.
type ConnectionError struct {
	Op  string
	Err error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("db: %s: %v", e.Op, e.Err)
}

// Unwrap returns the driver error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a timeout.
func (e *ConnectionError) Timeout() bool {
	return isTimeout(e.Err)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ConnectionError{Op: op, Err: err}
}

// IsConnectionError reports whether err came from the query interface.
func IsConnectionError(err error) bool {
	var e *ConnectionError
	return errors.As(err, &e)
}

// IsTimeout reports whether err is a connection timeout, so a caller can
// decide to retry a catalog load.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	if errors.As(err, &e) {
		return e.Timeout()
	}
	return isTimeout(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
