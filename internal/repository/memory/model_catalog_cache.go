package memory

import (
	"time"

	"accio-playground-be/pkg/llm"

	"github.com/patrickmn/go-cache"
)

// ModelCatalogCache keeps the provider's model list so the catalog endpoint does not
// hit the upstream API on every request.
type ModelCatalogCache struct {
	cache *cache.Cache
}

func NewModelCatalogCache(ttl time.Duration) *ModelCatalogCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	// Purge expired entries at twice the TTL.
	c := cache.New(ttl, 2*ttl)
	return &ModelCatalogCache{
		cache: c,
	}
}

func (r *ModelCatalogCache) Save(provider string, models []llm.ModelInfo) {
	r.cache.Set(provider, models, cache.DefaultExpiration)
}

func (r *ModelCatalogCache) Get(provider string) ([]llm.ModelInfo, bool) {
	if x, found := r.cache.Get(provider); found {
		return x.([]llm.ModelInfo), true
	}
	return nil, false
}

func (r *ModelCatalogCache) Invalidate(provider string) {
	r.cache.Delete(provider)
}
