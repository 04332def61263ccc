package catalog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestErrorTypeLabel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: "unknown"},
		{name: "wait timeout", err: WrapWait("wait for Hakutulos", context.DeadlineExceeded), expected: "timeout"},
		{name: "bare deadline", err: fmt.Errorf("click: %w", context.DeadlineExceeded), expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, expected: "timeout"},
		{name: "connection", err: ErrConnection{Err: errors.New("connection refused")}, expected: "connection"},
		{name: "forbidden", err: ErrForbidden{Err: errors.New("403")}, expected: "forbidden"},
		{name: "page not found", err: ErrPageNotFound{Err: errors.New("404")}, expected: "page_not_found"},
		{name: "rate limited", err: ErrRateLimited{Err: errors.New("429")}, expected: "rate_limited"},
		{name: "unreachable", err: fmt.Errorf("submit search: %w", ErrUnreachable), expected: "unreachable"},
		{name: "other", err: errors.New("stale element"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorTypeLabel(tt.err); got != tt.expected {
				t.Fatalf("ErrorTypeLabel(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestWrapWait(t *testing.T) {
	if WrapWait("op", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}

	err := WrapWait("wait for Osasto:", context.DeadlineExceeded)
	var timeout ErrTimeout
	if !errors.As(err, &timeout) {
		t.Fatalf("expected ErrTimeout, got %T", err)
	}
	if timeout.Op != "wait for Osasto:" {
		t.Fatalf("op = %q", timeout.Op)
	}

	other := WrapWait("click", errors.New("boom"))
	if errors.As(other, &timeout) {
		t.Fatalf("non-deadline error should not be a timeout")
	}
}
