package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ronittamrakar/Xordon-sub011/pkg/database"
	"github.com/ronittamrakar/Xordon-sub011/pkg/logger"
)

// DefaultCacheTTL bounds how long a classification is reused. Text and
// disposition names are stable inputs, so a long TTL is safe.
const DefaultCacheTTL = 24 * time.Hour

// CachedSentimentAnalyzer memoizes sentiment results in Redis, keyed by a
// hash of the input text. Cache failures degrade to calling the underlying
// analyzer directly.
type CachedSentimentAnalyzer struct {
	inner  SentimentAnalyzer
	redis  *database.RedisClient
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSentimentAnalyzer wraps an analyzer with a Redis cache
func NewCachedSentimentAnalyzer(inner SentimentAnalyzer, rdb *database.RedisClient, ttl time.Duration, log *logger.Logger) *CachedSentimentAnalyzer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSentimentAnalyzer{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

// Analyze returns a cached result when present, otherwise delegates and caches
func (a *CachedSentimentAnalyzer) Analyze(ctx context.Context, text string) (*SentimentResult, error) {
	key := cacheKey("sentiment", text)

	var cached SentimentResult
	if hit := cacheGet(ctx, a.redis, key, &cached); hit {
		return &cached, nil
	}

	result, err := a.inner.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, a.redis, key, result, a.ttl, a.logger)
	return result, nil
}

// CachedIntentDetector memoizes intent results in Redis. The disposition is
// part of the key because it affects conflict detection.
type CachedIntentDetector struct {
	inner  IntentDetector
	redis  *database.RedisClient
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedIntentDetector wraps a detector with a Redis cache
func NewCachedIntentDetector(inner IntentDetector, rdb *database.RedisClient, ttl time.Duration, log *logger.Logger) *CachedIntentDetector {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedIntentDetector{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

// DetectIntent returns a cached result when present, otherwise delegates and caches
func (d *CachedIntentDetector) DetectIntent(ctx context.Context, text, dispositionName, dispositionCategory string) (*IntentResult, error) {
	key := cacheKey("intent", text+"|"+dispositionName+"|"+dispositionCategory)

	var cached IntentResult
	if hit := cacheGet(ctx, d.redis, key, &cached); hit {
		return &cached, nil
	}

	result, err := d.inner.DetectIntent(ctx, text, dispositionName, dispositionCategory)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, d.redis, key, result, d.ttl, d.logger)
	return result, nil
}

// CachedSemanticMatcher memoizes disposition categorizations in Redis.
// Disposition names form a small set per workspace, so the hit rate is high.
type CachedSemanticMatcher struct {
	inner  SemanticMatcher
	redis  *database.RedisClient
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSemanticMatcher wraps a matcher with a Redis cache
func NewCachedSemanticMatcher(inner SemanticMatcher, rdb *database.RedisClient, ttl time.Duration, log *logger.Logger) *CachedSemanticMatcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedSemanticMatcher{inner: inner, redis: rdb, ttl: ttl, logger: log}
}

// CategorizeDisposition returns a cached result when present, otherwise delegates and caches
func (m *CachedSemanticMatcher) CategorizeDisposition(ctx context.Context, name string) (*DispositionCategory, error) {
	key := cacheKey("disposition", normalizeDisposition(name))

	var cached DispositionCategory
	if hit := cacheGet(ctx, m.redis, key, &cached); hit {
		return &cached, nil
	}

	result, err := m.inner.CategorizeDisposition(ctx, name)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, m.redis, key, result, m.ttl, m.logger)
	return result, nil
}

func cacheKey(kind, input string) string {
	sum := sha256.Sum256([]byte(input))
	return "analysis:" + kind + ":" + hex.EncodeToString(sum[:])
}

func cacheGet(ctx context.Context, rdb *database.RedisClient, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	raw, err := rdb.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			// Treat cache errors as misses
			return false
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false
	}
	return true
}

func cacheSet(ctx context.Context, rdb *database.RedisClient, key string, value interface{}, ttl time.Duration, log *logger.Logger) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := rdb.Set(ctx, key, string(raw), ttl); err != nil && log != nil {
		log.Warn("failed to cache analysis result", logger.String("key", key), logger.Err(err))
	}
}
