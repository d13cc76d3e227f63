package repository

import (
	"context"
	"testing"

	"twyst/internal/domain"
)

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	u := domain.User{Email: "a@b.c", Name: "A", Points: 10}
	if err := store.Create(ctx, &u); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := store.GetByEmail(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "A" {
		t.Fatalf("expected A, got %v", got.Name)
	}

	// returned value is a copy, mutating it must not leak into the store
	got.Points = 999
	again, _ := store.GetByEmail(ctx, "a@b.c")
	if again.Points != 10 {
		t.Fatalf("store mutated through a copy: %v", again.Points)
	}

	got.Name = "B"
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ = store.GetByEmail(ctx, "a@b.c")
	if again.Name != "B" {
		t.Fatalf("expected B, got %v", again.Name)
	}

	if err := store.Delete(ctx, "a@b.c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByEmail(ctx, "a@b.c"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Delete(ctx, "a@b.c"); err != ErrNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	orders := NewMemoryOrders(store)

	o1 := domain.Order{ID: "ORD-1", UserEmail: "a@b.c", Status: domain.OrderStatusProcessing, RefundStatus: domain.RefundStatusNone,
		Items: []domain.CartLine{{Product: domain.Product{ID: 1, Price: 10}, Quantity: 2}}}
	o2 := domain.Order{ID: "ORD-2", UserEmail: "x@y.z", Status: domain.OrderStatusProcessing, RefundStatus: domain.RefundStatusNone}
	if err := orders.Create(ctx, &o1); err != nil {
		t.Fatalf("create o1: %v", err)
	}
	if err := orders.Create(ctx, &o2); err != nil {
		t.Fatalf("create o2: %v", err)
	}

	// snapshot isolation: mutating the caller's slice must not touch the stored order
	o1.Items[0].Quantity = 99
	got, err := orders.GetByID(ctx, "ORD-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Items[0].Quantity != 2 {
		t.Fatalf("stored order shares items slice: %v", got.Items[0].Quantity)
	}

	list, err := orders.ListByUser(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "ORD-1" {
		t.Fatalf("unexpected listing: %v", list)
	}

	got.Status = domain.OrderStatusShipped
	if err := orders.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := orders.GetByID(ctx, "ORD-1")
	if again.Status != domain.OrderStatusShipped {
		t.Fatalf("expected shipped, got %v", again.Status)
	}

	if _, err := orders.GetByID(ctx, "ORD-404"); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCartRepo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	carts := NewMemoryCarts(store)

	p1 := domain.Product{ID: 1, Price: 10}
	p2 := domain.Product{ID: 2, Price: 20}
	if err := carts.Upsert(ctx, "a@b.c", domain.CartLine{Product: p2, Quantity: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := carts.Upsert(ctx, "a@b.c", domain.CartLine{Product: p1, Quantity: 3}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	lines, err := carts.Lines(ctx, "a@b.c")
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	// sorted by product id
	if len(lines) != 2 || lines[0].Product.ID != 1 || lines[1].Product.ID != 2 {
		t.Fatalf("unexpected lines: %v", lines)
	}

	// upsert replaces the line for the same product
	_ = carts.Upsert(ctx, "a@b.c", domain.CartLine{Product: p1, Quantity: 5})
	lines, _ = carts.Lines(ctx, "a@b.c")
	if len(lines) != 2 || lines[0].Quantity != 5 {
		t.Fatalf("upsert did not replace: %v", lines)
	}

	if err := carts.Remove(ctx, "a@b.c", 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := carts.Remove(ctx, "a@b.c", 2); err != ErrNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := carts.Clear(ctx, "a@b.c"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	lines, _ = carts.Lines(ctx, "a@b.c")
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %v", lines)
	}

	// empty cart for an unknown user is fine
	lines, err = carts.Lines(ctx, "ghost@b.c")
	if err != nil || len(lines) != 0 {
		t.Fatalf("unexpected: %v %v", lines, err)
	}
}

func TestTxLocking(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	carts := NewMemoryCarts(store)
	tx := NewMemoryTx(store)

	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		// nested repo calls must not deadlock on the held write lock
		if err := carts.Upsert(ctx, "a@b.c", domain.CartLine{Product: domain.Product{ID: 1}, Quantity: 1}); err != nil {
			return err
		}
		lines, err := carts.Lines(ctx, "a@b.c")
		if err != nil {
			return err
		}
		if len(lines) != 1 {
			t.Fatalf("expected 1 line inside tx, got %d", len(lines))
		}
		return carts.Clear(ctx, "a@b.c")
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}
