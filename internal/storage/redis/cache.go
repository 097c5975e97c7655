package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziljnk/ai-job-seeker/internal/domain"
	"github.com/ziljnk/ai-job-seeker/internal/repository"
	"github.com/ziljnk/ai-job-seeker/pkg/logging"
)

const keyPrefix = "ajs:select"

var _ repository.Store = (*CachedStore)(nil)

// Client is the subset of the Redis API the cache needs; *redis.Client
// satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedStore caches Select results in Redis. Keys embed a per-collection
// generation that Insert increments, so a write invalidates every cached
// page of its collection at once. Cache failures fall through to the
// underlying store.
type CachedStore struct {
	next   repository.Store
	rdb    Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedStore wraps next with a Redis cache
func NewCachedStore(next repository.Store, rdb Client, ttl time.Duration, logger *logging.Logger) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

type cachedResult struct {
	Rows  []domain.Record `json:"rows"`
	Total *int            `json:"total,omitempty"`
}

func (s *CachedStore) Select(ctx context.Context, q repository.Query) (repository.Result, error) {
	gen, err := s.generation(ctx, q.Collection)
	if err != nil {
		s.logger.Warn("cache generation lookup failed", "collection", q.Collection, "err", err)
		return s.next.Select(ctx, q)
	}

	key, err := selectKey(q, gen)
	if err != nil {
		return s.next.Select(ctx, q)
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedResult
		if err := json.Unmarshal(raw, &cached); err == nil {
			if cached.Rows == nil {
				cached.Rows = []domain.Record{}
			}
			return repository.Result{Rows: cached.Rows, Total: cached.Total}, nil
		}
		s.logger.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}

	res, err := s.next.Select(ctx, q)
	if err != nil {
		return res, err
	}

	payload, err := json.Marshal(cachedResult{Rows: res.Rows, Total: res.Total})
	if err == nil {
		if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
			s.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}

	return res, nil
}

func (s *CachedStore) Insert(ctx context.Context, collection string, values domain.Record) (domain.Record, error) {
	row, err := s.next.Insert(ctx, collection, values)
	if err != nil {
		return nil, err
	}

	if err := s.rdb.Incr(ctx, generationKey(collection)).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", "collection", collection, "err", err)
	}
	// job rows embed their company
	if collection == domain.CollectionCompanies {
		if err := s.rdb.Incr(ctx, generationKey(domain.CollectionJobs)).Err(); err != nil {
			s.logger.Warn("cache invalidation failed", "collection", domain.CollectionJobs, "err", err)
		}
	}

	return row, nil
}

func (s *CachedStore) generation(ctx context.Context, collection string) (int64, error) {
	gen, err := s.rdb.Get(ctx, generationKey(collection)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func generationKey(collection string) string {
	return fmt.Sprintf("%s:%s:gen", keyPrefix, collection)
}

// selectKey derives a stable key from the query shape and generation
func selectKey(q repository.Query, gen int64) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s:%s:%d:%s", keyPrefix, q.Collection, gen, hex.EncodeToString(sum[:])), nil
}
