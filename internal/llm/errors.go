package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrBackendUnavailable is returned by the gateway's pre-flight health
// check so requests fail fast instead of burning the retry budget.
var ErrBackendUnavailable = errors.New("backend unavailable")

// BackendError wraps a provider failure with its retry class. Only
// transient failures (timeout, connection refused, rate limited) are
// retried; auth and malformed-request failures surface immediately.
type BackendError struct {
	Provider  string
	Transient bool
	Err       error
}

func (e *BackendError) Error() string {
	class := "permanent"
	if e.Transient {
		class = "transient"
	}
	return fmt.Sprintf("%s backend error (%s): %v", e.Provider, class, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// classify wraps a raw provider error with its retry class. Cancellation
// is treated identically to a timeout.
func classify(provider string, err error) *BackendError {
	return &BackendError{Provider: provider, Transient: isTransient(err), Err: err}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"rate limit", "429", "503", "overloaded", "connection refused", "timeout"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
