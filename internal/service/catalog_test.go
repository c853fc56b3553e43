package service

import (
	"context"
	"errors"
	"testing"

	"github.com/schoolsupply/orderdesk/internal/catalog"
	"github.com/schoolsupply/orderdesk/internal/database"
	"github.com/schoolsupply/orderdesk/internal/selection"
	"github.com/schoolsupply/orderdesk/internal/ws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type mockCatalogStore struct {
	deleted bool
	created []database.CreateCatalogItemParams
	failAt  int
}

func (m *mockCatalogStore) DeleteAllCatalogItems(ctx context.Context) error {
	m.deleted = true
	return nil
}

func (m *mockCatalogStore) CreateCatalogItem(ctx context.Context, arg database.CreateCatalogItemParams) (database.CatalogItem, error) {
	if m.failAt > 0 && len(m.created)+1 == m.failAt {
		return database.CatalogItem{}, errors.New("constraint violation")
	}
	m.created = append(m.created, arg)
	return database.CatalogItem{Position: arg.Position, Grade: arg.Grade, Subject: arg.Subject, Name: arg.Name}, nil
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(ctx context.Context) { c.calls++ }

func newCatalogService(store *mockCatalogStore) (*CatalogService, *mockTx, *countingInvalidator, *recordingNotifier) {
	tx := &mockTx{}
	inv := &countingInvalidator{}
	n := &recordingNotifier{}
	svc := NewCatalogService(&mockTxBeginner{tx: tx}, func(db database.DBTX) CatalogStore { return store }, inv, n, zap.NewNop())
	return svc, tx, inv, n
}

func TestCatalogReplace(t *testing.T) {
	store := &mockCatalogStore{}
	svc, tx, inv, n := newCatalogService(store)

	count, err := svc.Replace(context.Background(), []catalog.Item{
		{Grade: " Grade1 ", Subject: "Math", Name: "Book1", Cost: decimal.NewFromInt(30000), Price: decimal.NewFromInt(50000)},
		{Grade: "Grade1", Subject: "Math", Name: "Book1", Price: decimal.NewFromInt(1)},
		{Grade: "", Subject: "Math", Name: "Orphan"},
		{Grade: "Grade1", Subject: "English", Name: "Book2", Cost: decimal.NewFromInt(25000), Price: decimal.NewFromInt(45000)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if !store.deleted {
		t.Error("existing rows must be deleted")
	}
	if store.created[0].Grade != "Grade1" || store.created[1].Position != 1 {
		t.Errorf("created = %+v", store.created)
	}
	if !database.Decimal(store.created[0].Price).Equal(decimal.NewFromInt(50000)) {
		t.Errorf("first duplicate must win, price = %s", database.Decimal(store.created[0].Price))
	}
	if tx.commits != 1 || inv.calls != 1 {
		t.Errorf("commits = %d, invalidations = %d", tx.commits, inv.calls)
	}
	if len(n.events) != 1 || n.events[0] != ws.EventCatalogReplaced {
		t.Errorf("events = %v", n.events)
	}
}

func TestCatalogReplace_Empty(t *testing.T) {
	svc, _, inv, _ := newCatalogService(&mockCatalogStore{})
	_, err := svc.Replace(context.Background(), []catalog.Item{{Grade: "", Name: ""}})
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
	if inv.calls != 0 {
		t.Error("cache must not be invalidated")
	}
}

func TestCatalogReplace_InsertFails(t *testing.T) {
	svc, tx, inv, _ := newCatalogService(&mockCatalogStore{failAt: 2})
	_, err := svc.Replace(context.Background(), []catalog.Item{
		{Grade: "G", Subject: "S", Name: "A"},
		{Grade: "G", Subject: "S", Name: "B"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if tx.commits != 0 || inv.calls != 0 {
		t.Errorf("commits = %d, invalidations = %d", tx.commits, inv.calls)
	}
}

func TestCatalogReplace_ReservedText(t *testing.T) {
	store := &mockCatalogStore{}
	svc, tx, _, _ := newCatalogService(store)
	_, err := svc.Replace(context.Background(), []catalog.Item{
		{Grade: "G", Subject: "Inglés (B1)", Name: "Reader"},
		{Grade: "G", Subject: "S", Name: "Book | Vol 2"},
	})
	if !errors.Is(err, selection.ErrReservedText) {
		t.Fatalf("expected ErrReservedText, got %v", err)
	}
	if store.deleted || tx.commits != 0 {
		t.Error("catalog must be left untouched")
	}
}
