package publisher

import (
	"context"
	"time"
)

const (
	maxAttempts = 4
	baseBackoff = 2 * time.Second
)

// publishWithRetry runs one post's publish with bounded exponential
// backoff. Only transient errors are retried; a permanent error or an
// exhausted budget surfaces immediately. Retries block only this post,
// never its siblings in the same group.
func publishWithRetry(ctx context.Context, p Publisher, req *Request) (*Result, error) {
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := p.Publish(ctx, req)
		if err == nil {
			return result, nil
		}
		if !IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// Publish applies the retry policy around a single adapter call.
func Publish(ctx context.Context, p Publisher, req *Request) (*Result, error) {
	return publishWithRetry(ctx, p, req)
}
