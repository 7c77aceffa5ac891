package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

const latestKey = "products:latest" // JSON-encoded slice of the newest listings

// LatestProducts caches the /latest-products response in Redis. A nil client
// disables the cache: Get always misses and writes are no-ops. Cache errors
// are logged and swallowed; the store stays the source of truth.
type LatestProducts struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLatestProducts(client *redis.Client, ttl time.Duration) *LatestProducts {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LatestProducts{client: client, ttl: ttl}
}

func (l *LatestProducts) Get(ctx context.Context) ([]domain.Product, bool) {
	if l.client == nil {
		return nil, false
	}

	data, err := l.client.Get(ctx, latestKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		log.Printf("latest cache get: %v", err)
		return nil, false
	}

	var products []domain.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		log.Printf("latest cache decode: %v", err)
		return nil, false
	}
	return products, true
}

func (l *LatestProducts) Set(ctx context.Context, products []domain.Product) {
	if l.client == nil {
		return
	}

	data, err := json.Marshal(products)
	if err != nil {
		log.Printf("latest cache encode: %v", err)
		return
	}

	if err := l.client.Set(ctx, latestKey, data, l.ttl).Err(); err != nil {
		log.Printf("latest cache set: %v", err)
	}
}

// Invalidate drops the cached list; called after any product mutation.
func (l *LatestProducts) Invalidate(ctx context.Context) {
	if l.client == nil {
		return
	}

	if err := l.client.Del(ctx, latestKey).Err(); err != nil {
		log.Printf("latest cache invalidate: %v", err)
	}
}
