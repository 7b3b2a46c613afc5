package publisher

import (
	"github.com/go-resty/resty/v2"
	config "github.com/publora/publora-api/configs"
	"github.com/publora/publora-api/internal/models"
)

// Registry holds one adapter per supported platform. Selection happens
// on the typed platform enum, never by string parsing at the call site.
type Registry struct {
	publishers map[models.Platform]Publisher
}

func NewRegistry(cfg config.Config, rest *resty.Client) *Registry {
	return NewRegistryWith(
		NewTwitterPublisher(cfg, rest),
		NewLinkedInPublisher(cfg, rest),
		NewInstagramPublisher(cfg, rest),
		NewThreadsPublisher(cfg, rest),
		NewTiktokPublisher(cfg, rest),
		NewYoutubePublisher(cfg, rest),
		NewFacebookPublisher(cfg, rest),
		NewBlueskyPublisher(cfg, rest),
		NewMastodonPublisher(cfg, rest),
		NewTelegramPublisher(cfg, rest),
	)
}

func NewRegistryWith(publishers ...Publisher) *Registry {
	m := make(map[models.Platform]Publisher, len(publishers))
	for _, p := range publishers {
		m[p.Platform()] = p
	}
	return &Registry{publishers: m}
}

func (r *Registry) Get(platform models.Platform) (Publisher, bool) {
	p, ok := r.publishers[platform]
	return p, ok
}
