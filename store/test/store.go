// Package test provides store helpers for tests.
package test

import (
	"context"
	"testing"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/store"
	"github.com/edupath/mentor/store/db/sqlite"
)

// NewTestingStore creates an in-memory SQLite store with the schema applied.
// The store is closed automatically when the test finishes.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
	}
	driver, err := sqlite.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open testing store: %v", err)
	}
	if err := driver.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate testing store: %v", err)
	}

	ts := store.New(driver, p)
	t.Cleanup(func() {
		_ = ts.Close()
	})
	return ts
}
