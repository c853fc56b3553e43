// Package cache keeps a redis copy of the catalog so that every order
// operation does not reload it from PostgreSQL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/database"
	"go.uber.org/zap"
)

const catalogKey = "orderdesk:catalog:v1"

// CatalogSource loads catalog rows. Satisfied by *database.Queries.
type CatalogSource interface {
	ListCatalogItems(ctx context.Context) ([]database.CatalogItem, error)
}

// CatalogCache serves the catalog from redis and falls back to the source
// on a miss. With a nil client every call goes to the source. Redis errors
// are logged and never fail a read.
type CatalogCache struct {
	client *redis.Client
	src    CatalogSource
	ttl    time.Duration
	log    *zap.Logger
}

// NewCatalogCache creates a CatalogCache. client may be nil.
func NewCatalogCache(client *redis.Client, src CatalogSource, ttl time.Duration, log *zap.Logger) *CatalogCache {
	return &CatalogCache{client: client, src: src, ttl: ttl, log: log}
}

// Catalog returns the current catalog.
func (c *CatalogCache) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	if c.client != nil {
		data, err := c.client.Get(ctx, catalogKey).Bytes()
		switch {
		case err == nil:
			var items []catalog.Item
			if err := json.Unmarshal(data, &items); err == nil {
				return catalog.New(items), nil
			}
			c.log.Warn("discarding corrupt cached catalog")
		case !errors.Is(err, redis.Nil):
			c.log.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	rows, err := c.src.ListCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog items: %w", err)
	}
	items := ItemsFromRows(rows)

	if c.client != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
				c.log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return catalog.New(items), nil
}

// Invalidate drops the cached catalog. Call after every catalog write.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.log.Warn("catalog cache invalidate failed", zap.Error(err))
	}
}

// ItemsFromRows converts database rows to catalog items, keeping row order.
func ItemsFromRows(rows []database.CatalogItem) []catalog.Item {
	items := make([]catalog.Item, len(rows))
	for i, r := range rows {
		items[i] = catalog.Item{
			Grade:   r.Grade,
			Subject: r.Subject,
			Name:    r.Name,
			Cost:    database.Decimal(r.Cost),
			Price:   database.Decimal(r.Price),
		}
	}
	return items
}
