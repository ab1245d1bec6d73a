package httpx

import (
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
)

// RetryRoundTripper retries throttled and transient-5xx responses with
// exponential backoff. Anything else passes through untouched.
type RetryRoundTripper struct {
	next       http.RoundTripper
	maxRetries uint64
}

func NewRetryRoundTripper(next http.RoundTripper, maxRetries uint64) RetryRoundTripper {
	return RetryRoundTripper{
		next:       next,
		maxRetries: maxRetries,
	}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// RoundTrip implements http.RoundTripper interface.
func (rt RetryRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		var err error

		resp, err = rt.next.RoundTrip(req) //nolint:bodyclose // closed below on retry
		if err != nil {
			return fmt.Errorf("next.RoundTrip: %w", err)
		}

		if retryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return fmt.Errorf("retryable status: %d", resp.StatusCode)
		}

		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), rt.maxRetries),
		req.Context(),
	)

	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return resp, nil
}
