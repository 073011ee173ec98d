package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/DrGermanius/Bogocargo/internal/model"
)

const (
	wholesalerKey     = "wholesaler:%d"
	wholesalerListKey = "wholesalers:all"

	DefaultCacheTTL = 10 * time.Minute
)

// CachedRepository serves the seeded wholesaler catalogue from redis and delegates everything
// else. Cache errors are logged and fall through to the wrapped repository.
type CachedRepository struct {
	IRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

func NewCachedRepository(repo IRepository, redisURL string, ttl time.Duration, logger *zap.SugaredLogger) (*CachedRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewCachedRepositoryWithClient(repo, rdb, ttl, logger), nil
}

func NewCachedRepositoryWithClient(repo IRepository, rdb *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{IRepository: repo, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *CachedRepository) GetWholesaler(ctx context.Context, id int) (model.Wholesaler, error) {
	key := fmt.Sprintf(wholesalerKey, id)

	var w model.Wholesaler
	if r.load(ctx, key, &w) {
		return w, nil
	}

	w, err := r.IRepository.GetWholesaler(ctx, id)
	if err != nil {
		return model.Wholesaler{}, err
	}
	r.store(ctx, key, w)
	return w, nil
}

func (r *CachedRepository) ListWholesalers(ctx context.Context) ([]model.Wholesaler, error) {
	var ws []model.Wholesaler
	if r.load(ctx, wholesalerListKey, &ws) {
		return ws, nil
	}

	ws, err := r.IRepository.ListWholesalers(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, wholesalerListKey, ws)
	return ws, nil
}

func (r *CachedRepository) Close() error {
	return r.rdb.Close()
}

func (r *CachedRepository) load(ctx context.Context, key string, dest interface{}) bool {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		r.logger.Warnw("cache read failed", "key", key, "error", err)
		return false
	}

	if err = json.Unmarshal(val, dest); err != nil {
		r.logger.Warnw("cache entry corrupted", "key", key, "error", err)
		return false
	}
	return true
}

func (r *CachedRepository) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err = r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
		r.logger.Warnw("cache write failed", "key", key, "error", err)
	}
}
