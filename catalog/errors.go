package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrUnreachable indicates the catalog's search form could not be used.
var ErrUnreachable = errors.New("catalog: search unreachable")

// ErrTimeout indicates the session gave up waiting for page content.
type ErrTimeout struct {
	Op  string
	Err error
}

func (e ErrTimeout) Error() string {
	return fmt.Errorf("timeout: %s: %w", e.Op, e.Err).Error()
}

func (e ErrTimeout) Unwrap() error {
	return e.Err
}

// ErrConnection indicates a network connectivity failure.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string {
	return fmt.Errorf("connection: %w", e.Err).Error()
}

func (e ErrConnection) Unwrap() error {
	return e.Err
}

// ErrForbidden indicates a forbidden response (HTTP 403).
type ErrForbidden struct {
	Err error
}

func (e ErrForbidden) Error() string {
	return fmt.Errorf("forbidden: %w", e.Err).Error()
}

func (e ErrForbidden) Unwrap() error {
	return e.Err
}

// ErrPageNotFound indicates a missing catalog page (HTTP 404).
type ErrPageNotFound struct {
	Err error
}

func (e ErrPageNotFound) Error() string {
	return fmt.Errorf("page_not_found: %w", e.Err).Error()
}

func (e ErrPageNotFound) Unwrap() error {
	return e.Err
}

// ErrRateLimited indicates the catalog rate-limited the request.
type ErrRateLimited struct {
	Err error
}

func (e ErrRateLimited) Error() string {
	return fmt.Errorf("rate_limited: %w", e.Err).Error()
}

func (e ErrRateLimited) Unwrap() error {
	return e.Err
}

// WrapWait converts a context deadline into ErrTimeout.
func WrapWait(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// ErrorTypeLabel returns a metric/log label for a session error.
func ErrorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var forbidden ErrForbidden
	if errors.As(err, &forbidden) {
		return "forbidden"
	}
	var notFound ErrPageNotFound
	if errors.As(err, &notFound) {
		return "page_not_found"
	}
	var rateLimited ErrRateLimited
	if errors.As(err, &rateLimited) {
		return "rate_limited"
	}
	if errors.Is(err, ErrUnreachable) {
		return "unreachable"
	}
	return "other"
}
