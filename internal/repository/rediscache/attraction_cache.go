// Package rediscache provides a best-effort read cache for attraction
// listings. A nil Redis client disables the cache entirely, so callers can
// wire it unconditionally and degrade gracefully when Redis is unreachable.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scenictrip/backend/internal/domain"
	"github.com/scenictrip/backend/internal/repository/ports"
)

const (
	listKey         = "attractions:list"
	detailKeyFormat = "attractions:detail:%d"
)

type AttractionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAttractionCache(client *redis.Client, ttl time.Duration) *AttractionCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AttractionCache{client: client, ttl: ttl}
}

func (c *AttractionCache) GetDetail(ctx context.Context, id int64) (*domain.AttractionDetail, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, detailKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var detail domain.AttractionDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, false
	}
	return &detail, true
}

func (c *AttractionCache) SetDetail(ctx context.Context, detail *domain.AttractionDetail) {
	if c.client == nil || detail == nil {
		return
	}
	raw, err := json.Marshal(detail)
	if err != nil {
		return
	}
	c.client.Set(ctx, detailKey(detail.ID), raw, c.ttl)
}

func (c *AttractionCache) GetList(ctx context.Context) ([]domain.AttractionDetail, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, listKey).Bytes()
	if err != nil {
		return nil, false
	}
	var items []domain.AttractionDetail
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	return items, true
}

func (c *AttractionCache) SetList(ctx context.Context, items []domain.AttractionDetail) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	c.client.Set(ctx, listKey, raw, c.ttl)
}

func (c *AttractionCache) Invalidate(ctx context.Context, id int64) {
	if c.client == nil {
		return
	}
	keys := []string{listKey}
	if id > 0 {
		keys = append(keys, detailKey(id))
	}
	c.client.Del(ctx, keys...)
}

func detailKey(id int64) string {
	return fmt.Sprintf(detailKeyFormat, id)
}

var _ ports.AttractionCache = (*AttractionCache)(nil)
