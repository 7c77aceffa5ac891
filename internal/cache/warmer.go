package cache

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/krishilink/krishilink-backend/internal/products/domain"
)

// LatestSource is implemented by the products repository.
type LatestSource interface {
	Latest(ctx context.Context, limit int) ([]domain.Product, error)
}

// Warmer refreshes the latest-products cache on a schedule so the first
// request after an invalidation rarely pays the store round trip.
type Warmer struct {
	cache *LatestProducts
	src   LatestSource
	limit int
	cron  *cron.Cron
}

func NewWarmer(cache *LatestProducts, src LatestSource, limit int) *Warmer {
	return &Warmer{cache: cache, src: src, limit: limit}
}

// Start schedules the refresh job. schedule uses cron syntax, e.g. "@every 5m".
func (w *Warmer) Start(schedule string) error {
	c := cron.New()

	if _, err := c.AddFunc(schedule, w.refresh); err != nil {
		return err
	}

	log.Printf("latest cache warmer started (schedule %q)", schedule)
	c.Start()
	w.cron = c
	return nil
}

func (w *Warmer) Stop() {
	if w.cron != nil {
		w.cron.Stop()
	}
}

func (w *Warmer) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := w.src.Latest(ctx, w.limit)
	if err != nil {
		log.Printf("latest cache warm: %v", err)
		return
	}
	w.cache.Set(ctx, products)
}
