package reliability

import (
	"context"
	"errors"
	"net"
)

// Kind buckets every failure the assistant can surface. No kind is retried
// automatically; classification drives metrics labels and user-facing copy.
type Kind string

const (
	// KindValidation is a locally rejected input; no network call was issued.
	KindValidation Kind = "validation"
	// KindBackend is an HTTP 200 whose payload declared success=false.
	KindBackend Kind = "backend"
	// KindConnectivity is a transport-level failure reaching a service.
	KindConnectivity Kind = "connectivity"
	// KindStorage is malformed persisted state.
	KindStorage Kind = "storage"
)

// Sentinels wrapped by callers so Classify can bucket their errors.
var (
	ErrValidation   = errors.New("validation failed")
	ErrBackend      = errors.New("backend declined")
	ErrConnectivity = errors.New("service unreachable")
	ErrStorage      = errors.New("storage corrupt")
)

// Classify maps an error to its taxonomy bucket. Unwrapped network and
// context errors count as connectivity; anything unrecognized is backend.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrStorage):
		return KindStorage
	case errors.Is(err, ErrConnectivity):
		return KindConnectivity
	case errors.Is(err, ErrBackend):
		return KindBackend
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindConnectivity
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindConnectivity
	}
	return KindBackend
}

// IsRetryableHTTPStatus classifies HTTP status codes a caller could retry.
// The assistant never retries on its own; this informs gateway diagnostics.
func IsRetryableHTTPStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
