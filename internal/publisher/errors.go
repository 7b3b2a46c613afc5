package publisher

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/publora/publora-api/internal/models"
)

// PublishError classifies a failed publish attempt. Transient failures
// (rate limits, timeouts, 5xx) are retried with backoff; permanent ones
// (expired tokens, rejected content) fail the post immediately.
type PublishError struct {
	Platform  models.Platform
	Reason    string
	Transient bool
	Err       error
}

func (e *PublishError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Platform, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Platform, e.Reason)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}

func transientErr(platform models.Platform, reason string, err error) *PublishError {
	return &PublishError{Platform: platform, Reason: reason, Transient: true, Err: err}
}

func permanentErr(platform models.Platform, reason string, err error) *PublishError {
	return &PublishError{Platform: platform, Reason: reason, Transient: false, Err: err}
}

// statusErr classifies a non-2xx platform API response by status code.
func statusErr(platform models.Platform, statusCode int, body string) *PublishError {
	reason := fmt.Sprintf("status %d: %s", statusCode, body)
	switch {
	case statusCode == http.StatusTooManyRequests,
		statusCode == http.StatusRequestTimeout,
		statusCode >= http.StatusInternalServerError:
		return transientErr(platform, reason, nil)
	default:
		return permanentErr(platform, reason, nil)
	}
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	var pe *PublishError
	if errors.As(err, &pe) {
		return pe.Transient
	}
	return false
}
