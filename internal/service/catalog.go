package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/schoolsupply/orderdesk/internal/ws"
	"go.uber.org/zap"
)

// ErrEmptyCatalog is returned when a replacement catalog has no usable rows.
var ErrEmptyCatalog = errors.New("catalog has no items")

// CatalogStore defines the DB methods needed to replace the catalog.
type CatalogStore interface {
	DeleteAllCatalogItems(ctx context.Context) error
	CreateCatalogItem(ctx context.Context, arg database.CreateCatalogItemParams) (database.CatalogItem, error)
}

// NewCatalogStore creates a CatalogStore from a DBTX (pool or tx).
type NewCatalogStore func(db database.DBTX) CatalogStore

// CatalogInvalidator drops cached catalog copies.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogService replaces the catalog as a whole.
type CatalogService struct {
	pool     TxBeginner
	newStore NewCatalogStore
	cache    CatalogInvalidator
	notifier Notifier
	log      *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache and notifier may be nil.
func NewCatalogService(pool TxBeginner, newStore NewCatalogStore, cache CatalogInvalidator, notifier Notifier, log *zap.Logger) *CatalogService {
	return &CatalogService{pool: pool, newStore: newStore, cache: cache, notifier: notifier, log: log}
}

// Replace swaps every catalog row for items in a single transaction. Items
// are normalized through catalog.New first, so blank and duplicate rows are
// dropped. Returns the number of stored items.
func (s *CatalogService) Replace(ctx context.Context, items []catalog.Item) (int, error) {
	c := catalog.New(items)
	if c.Len() == 0 {
		return 0, ErrEmptyCatalog
	}
	for _, it := range c.Items() {
		if err := selection.CheckItem(it); err != nil {
			return 0, err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)
	if err := store.DeleteAllCatalogItems(ctx); err != nil {
		return 0, fmt.Errorf("delete catalog: %w", err)
	}
	for i, it := range c.Items() {
		_, err := store.CreateCatalogItem(ctx, database.CreateCatalogItemParams{
			Position: int32(i),
			Grade:    it.Grade,
			Subject:  it.Subject,
			Name:     it.Name,
			Cost:     database.Numeric(it.Cost),
			Price:    database.Numeric(it.Price),
		})
		if err != nil {
			return 0, fmt.Errorf("create catalog item %q: %w", it.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.notifier != nil {
		s.notifier.Publish(ws.EventCatalogReplaced, map[string]int{"items": c.Len()})
	}
	s.log.Info("catalog replaced", zap.Int("items", c.Len()))
	return c.Len(), nil
}
