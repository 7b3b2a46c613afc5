package publisher

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestClassifyYoutubeError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"expired token", &googleapi.Error{Code: 401, Message: "Invalid Credentials"}, false},
		{"quota or scope denied", &googleapi.Error{Code: 403, Message: "insufficientPermissions"}, false},
		{"rate limited", &googleapi.Error{Code: 429, Message: "rateLimitExceeded"}, true},
		{"backend error", &googleapi.Error{Code: 503, Message: "backendError"}, true},
		{"wrapped api error", fmt.Errorf("insert: %w", &googleapi.Error{Code: 400, Message: "invalidTitle"}), false},
		{"network error", errors.New("dial tcp: i/o timeout"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := classifyYoutubeError("upload failed", tt.err)
			if pe.Transient != tt.transient {
				t.Errorf("Transient = %v, want %v (%v)", pe.Transient, tt.transient, pe)
			}
		})
	}
}

func TestClassifyMastodonError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"expired token", errors.New("bad request: 401 Unauthorized: The access token is invalid"), false},
		{"rejected content", errors.New("bad request: 422 Unprocessable Entity"), false},
		{"rate limited", errors.New("too many requests: 429 Too Many Requests"), true},
		{"instance down", errors.New("bad server: 503 Service Unavailable"), true},
		{"network error", errors.New("dial tcp: i/o timeout"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := classifyMastodonError("post status failed", tt.err)
			if pe.Transient != tt.transient {
				t.Errorf("Transient = %v, want %v (%v)", pe.Transient, tt.transient, pe)
			}
		})
	}
}

func TestHTTPStatusIn(t *testing.T) {
	tests := []struct {
		msg  string
		want int
	}{
		{"bad request: 401 Unauthorized", 401},
		{"too many requests: 429 Too Many Requests", 429},
		{"no code here", 0},
		{"version 999 is not a status", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := httpStatusIn(tt.msg); got != tt.want {
			t.Errorf("httpStatusIn(%q) = %d, want %d", tt.msg, got, tt.want)
		}
	}
}
