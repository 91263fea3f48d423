package store

import (
	"context"
	"testing"

	"github.com/dukerupert/csemotors/internal/database"
	"github.com/dukerupert/csemotors/internal/model"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createAccount(t *testing.T, as *AccountStore, first, last, email string) *model.Account {
	t.Helper()
	a, err := as.Register(context.Background(), first, last, email, "hash")
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return a
}
