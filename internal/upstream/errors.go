package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Sentinel errors shared by the dependency clients and the orchestration
// pipeline. Handlers map these to HTTP statuses in respond.FromError.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrAuth             = errors.New("upstream credential rejected")
	ErrRateLimited      = errors.New("upstream rate limited")
	ErrUnavailable      = errors.New("upstream unavailable")
	ErrOCRUnavailable   = errors.New("ocr engine unavailable")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrAnalysisFailed   = errors.New("analysis failed")
)

// FromStatus classifies a non-2xx HTTP status from a dependency.
func FromStatus(status int, body string) error {
	detail := strings.TrimSpace(body)
	if len(detail) > 200 {
		detail = detail[:200]
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrAuth, status, detail)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, status)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrUnavailable, status, detail)
	}
}

// FromTransport classifies a transport-level failure (dial, TLS, timeout).
func FromTransport(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, err.Error())
}

// Retryable reports whether a failed call may be retried once. Only
// throttling and transient transport or server failures qualify.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, ErrAuth) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	return false
}
