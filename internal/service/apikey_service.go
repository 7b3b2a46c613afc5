package service

import (
	"context"
	"strings"

	"github.com/publora/publora-api/internal/repository"
)

const apiKeyPrefix = "sk_"

type ApiKeyService interface {
	ResolveKey(ctx context.Context, apiKey string) (int64, bool, error)
}

type apiKeyService struct {
	akr repository.ApiKeyRepository
}

func NewApiKeyService(akr repository.ApiKeyRepository) ApiKeyService {
	return &apiKeyService{akr: akr}
}

// ResolveKey maps an API key to its owning user. Keys without the
// expected prefix are rejected without a lookup.
func (s *apiKeyService) ResolveKey(ctx context.Context, apiKey string) (int64, bool, error) {
	if !strings.HasPrefix(apiKey, apiKeyPrefix) {
		return 0, false, nil
	}
	return s.akr.GetByKey(ctx, apiKey)
}
