package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"go.uber.org/zap"

	"github.com/thecyberprinciples/meetingmind/internal/infrastructure/cache"
	"github.com/thecyberprinciples/meetingmind/pkg/ai"
)

// Embedder produces embeddings for task texts. Provider vectors are cached;
// when the provider fails the deterministic fallback vector is used so that
// duplicate detection keeps working in degraded form.
type Embedder struct {
	provider   ai.TextEmbedder
	store      cache.Store
	dimensions int
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewEmbedder creates an embedder. provider and store may be nil; a nil
// provider always yields fallback vectors.
func NewEmbedder(provider ai.TextEmbedder, store cache.Store, dimensions int, cacheTTL time.Duration, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dimensions <= 0 {
		dimensions = 1536
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Embedder{
		provider:   provider,
		store:      store,
		dimensions: dimensions,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Embed returns the embedding for text, never an error: provider failures
// degrade to the deterministic fallback vector.
func (e *Embedder) Embed(ctx context.Context, text string) []float64 {
	key := embeddingCacheKey(text)

	if e.store != nil {
		if cached, found, err := e.store.Get(ctx, key); err == nil && found {
			var vec []float64
			if err := json.Unmarshal([]byte(cached), &vec); err == nil && len(vec) > 0 {
				return vec
			}
		}
	}

	if e.provider != nil {
		vec, err := e.provider.EmbedText(ctx, text)
		if err == nil && len(vec) > 0 {
			e.cacheVector(ctx, key, vec)
			return vec
		}
		if err != nil {
			e.logger.Warn("embedding provider failed, using fallback vector",
				zap.String("kind", ai.KindOf(err).String()),
				zap.Error(err),
			)
		}
	}

	return FallbackEmbedding(text, e.dimensions)
}

// cacheVector stores a provider vector; cache errors are logged, not returned
func (e *Embedder) cacheVector(ctx context.Context, key string, vec []float64) {
	if e.store == nil {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := e.store.Set(ctx, key, string(data), e.cacheTTL); err != nil {
		e.logger.Warn("failed to cache embedding", zap.Error(err))
	}
}

func embeddingCacheKey(text string) string {
	h := fnv.New64a()
	h.Write([]byte(text))
	return fmt.Sprintf("embedding:%x", h.Sum64())
}
