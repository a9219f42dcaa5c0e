package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps an EmbeddingProvider with a Redis cache keyed by the
// text content. Discovery turns re-embed the same interest phrasings over
// and over; cache hits skip the network entirely. Any Redis failure falls
// through to the inner provider.
type CachedProvider struct {
	inner EmbeddingProvider
	rdb   *redis.Client
	ttl   time.Duration
}

var _ EmbeddingProvider = &CachedProvider{}

func NewCachedProvider(inner EmbeddingProvider, rdb *redis.Client) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		rdb:   rdb,
		ttl:   24 * time.Hour,
	}
}

func (p *CachedProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	key := cacheKey(text, taskType)

	if p.rdb != nil {
		if raw, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
			var cached EmbeddingResponse
			if err := json.Unmarshal(raw, &cached); err == nil && len(cached.Embedding.Values) > 0 {
				return &cached, nil
			}
		}
	}

	res, err := p.inner.Generate(ctx, text, taskType)
	if err != nil {
		return nil, err
	}

	if p.rdb != nil {
		if raw, err := json.Marshal(res); err == nil {
			p.rdb.Set(ctx, key, raw, p.ttl)
		}
	}
	return res, nil
}

func cacheKey(text, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return fmt.Sprintf("emb:%x", sum)
}
