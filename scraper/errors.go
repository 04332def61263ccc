package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/aluiziolira/go-library-check/catalog"
)

// classifyError maps a colly failure onto the catalog error taxonomy.
func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return catalog.ErrTimeout{Op: "fetch", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return catalog.ErrTimeout{Op: "fetch", Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return catalog.ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return catalog.ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return catalog.ErrPageNotFound{Err: wrapped}
		case http.StatusTooManyRequests:
			return catalog.ErrRateLimited{Err: wrapped}
		}
	}

	if err == nil {
		return fmt.Errorf("http status %d", statusCode)
	}
	return err
}
