package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mockSource struct {
	rows  []database.CatalogItem
	err   error
	calls int
}

func (m *mockSource) ListCatalogItems(ctx context.Context) ([]database.CatalogItem, error) {
	m.calls++
	return m.rows, m.err
}

func rows() []database.CatalogItem {
	return []database.CatalogItem{
		{ID: 1, Position: 1, Grade: "Grade1", Subject: "Math", Name: "Book1", Cost: database.Numeric(decimal.NewFromInt(30000)), Price: database.Numeric(decimal.NewFromInt(50000))},
		{ID: 2, Position: 2, Grade: "Grade1", Subject: "English", Name: "Book2", Cost: database.Numeric(decimal.NewFromInt(25000)), Price: database.Numeric(decimal.NewFromInt(45000))},
	}
}

func TestCatalogCache_NoRedis(t *testing.T) {
	src := &mockSource{rows: rows()}
	c := NewCatalogCache(nil, src, time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		cat, err := c.Catalog(context.Background())
		if err != nil {
			t.Fatalf("Catalog: %v", err)
		}
		if cat.Len() != 2 {
			t.Fatalf("len: got %d", cat.Len())
		}
	}
	if src.calls != 2 {
		t.Errorf("expected every call to hit the source, got %d", src.calls)
	}
	c.Invalidate(context.Background())
}

func TestCatalogCache_RedisDownFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	src := &mockSource{rows: rows()}
	c := NewCatalogCache(client, src, time.Minute, zap.NewNop())

	cat, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog should not fail when redis is down: %v", err)
	}
	if cat.Len() != 2 || src.calls != 1 {
		t.Errorf("len=%d calls=%d", cat.Len(), src.calls)
	}
	c.Invalidate(context.Background())
}

func TestCatalogCache_SourceError(t *testing.T) {
	c := NewCatalogCache(nil, &mockSource{err: errors.New("db down")}, time.Minute, zap.NewNop())
	if _, err := c.Catalog(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestItemsFromRows(t *testing.T) {
	items := ItemsFromRows(rows())
	if len(items) != 2 || items[1].Name != "Book2" {
		t.Fatalf("got %+v", items)
	}
	if !items[0].Price.Equal(decimal.NewFromInt(50000)) || !items[0].Cost.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("money: %+v", items[0])
	}
}
