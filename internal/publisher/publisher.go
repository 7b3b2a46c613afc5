// Package publisher contains the per-platform adapters that translate a
// post group's content and media into each platform's publish call.
package publisher

import (
	"context"

	"github.com/publora/publora-api/internal/models"
)

// Request carries everything an adapter needs for one publish attempt.
// Content is the group's source-of-truth text; adapters truncate or
// transform a copy and never mutate it.
type Request struct {
	Content    string
	Media      []*models.MediaAsset
	Connection *models.PlatformConnection
}

// Result reports the platform-native identifier of the published post,
// used later for analytics lookups.
type Result struct {
	PostedID     string
	PublishedURL string
}

// Publisher is one platform adapter.
type Publisher interface {
	Platform() models.Platform
	Publish(ctx context.Context, req *Request) (*Result, error)
}
