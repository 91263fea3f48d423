package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/dukerupert/csemotors/internal/model"
)

func TestCartAddMergesByName(t *testing.T) {
	cs := NewCartStore(setupTestDB(t))
	ctx := context.Background()
	item := model.CartItem{Name: "Model T", Image: "/images/placeholder.png", Price: 19999.99}

	qty, err := cs.Add(ctx, "s1", item)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if qty != 1 {
		t.Errorf("qty = %d, want 1", qty)
	}
	qty, err = cs.Add(ctx, "s1", item)
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if qty != 2 {
		t.Errorf("qty = %d, want 2", qty)
	}

	cart, err := cs.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cart) != 1 {
		t.Fatalf("lines = %d, want 1", len(cart))
	}
	if cart[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", cart[0].Quantity)
	}
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	cs := NewCartStore(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{"Wrangler", "Camaro", "Wrangler", "Model T"} {
		if _, err := cs.Add(ctx, "s1", model.CartItem{Name: name, Image: "/img.png", Price: 1}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	cart, err := cs.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Wrangler", "Camaro", "Model T"}
	if len(cart) != len(want) {
		t.Fatalf("lines = %d, want %d", len(cart), len(want))
	}
	for i, item := range cart {
		if item.Name != want[i] {
			t.Errorf("cart[%d] = %q, want %q", i, item.Name, want[i])
		}
	}
}

func TestCartScopedToSession(t *testing.T) {
	cs := NewCartStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := cs.Add(ctx, "s1", model.CartItem{Name: "Camaro", Image: "/img.png", Price: 25000}); err != nil {
		t.Fatalf("add: %v", err)
	}

	cart, err := cs.List(ctx, "s2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("other session cart = %+v, want empty", cart)
	}
}

func TestCartClear(t *testing.T) {
	cs := NewCartStore(setupTestDB(t))
	ctx := context.Background()

	// Clearing an empty cart is not an error.
	if err := cs.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear empty: %v", err)
	}

	if _, err := cs.Add(ctx, "s1", model.CartItem{Name: "Camaro", Image: "/img.png", Price: 25000}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := cs.Clear(ctx, "s1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	cart, err := cs.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cart) != 0 {
		t.Errorf("cart = %+v, want empty", cart)
	}
}

func TestCartTotal(t *testing.T) {
	cs := NewCartStore(setupTestDB(t))
	ctx := context.Background()

	items := []model.CartItem{
		{Name: "Model T", Image: "/img.png", Price: 19999.99},
		{Name: "Camaro", Image: "/img.png", Price: 100.5},
		{Name: "Camaro", Image: "/img.png", Price: 100.5},
	}
	for _, item := range items {
		if _, err := cs.Add(ctx, "s1", item); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	cart, err := cs.List(ctx, "s1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := fmt.Sprintf("%.2f", cart.Total()); got != "20200.99" {
		t.Errorf("total = %s, want 20200.99", got)
	}
}
