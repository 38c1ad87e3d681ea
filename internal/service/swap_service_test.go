package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
	"github.com/gameswap/gameswap/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func registerUser(t *testing.T, catalog *CatalogService, id int64, handle, name, city string) {
	t.Helper()
	if _, err := catalog.Register(context.Background(), id, handle, name, city); err != nil {
		t.Fatalf("Register(%d) failed: %v", id, err)
	}
}

func listItem(t *testing.T, catalog *CatalogService, ownerID int64, title, platform string) *models.Item {
	t.Helper()
	item, err := catalog.ListItem(context.Background(), ownerID, models.ItemAttrs{
		Title:     title,
		Platform:  platform,
		Condition: "good",
	})
	if err != nil {
		t.Fatalf("ListItem(%q) failed: %v", title, err)
	}
	return item
}

func TestSwapService(t *testing.T) {
	store := newTestStore(t)
	catalog := NewCatalogService(store)
	swaps := NewSwapService(store)
	ctx := context.Background()

	registerUser(t, catalog, 1, "alice", "Alice", "Madrid")
	registerUser(t, catalog, 2, "bob", "Bob", "Valencia")

	t.Run("Propose and accept settles the swap", func(t *testing.T) {
		aliceItem := listItem(t, catalog, 1, "Elden Ring", "PS5")
		bobItem := listItem(t, catalog, 2, "Hades", "Switch")

		swap, err := swaps.Propose(ctx, 1, 2, aliceItem.ID, bobItem.ID)
		if err != nil {
			t.Fatalf("Propose failed: %v", err)
		}

		incoming, err := swaps.Incoming(ctx, 2, 10)
		if err != nil {
			t.Fatalf("Incoming failed: %v", err)
		}
		if len(incoming) != 1 || incoming[0].ID != swap.ID {
			t.Fatalf("Expected swap %d incoming for Bob, got %v", swap.ID, incoming)
		}

		settled, err := swaps.Decide(ctx, swap.ID, 2, models.DecisionAccept)
		if err != nil {
			t.Fatalf("Decide(accept) failed: %v", err)
		}
		if settled.Status != models.SwapStatusCompleted {
			t.Errorf("Expected completed, got %q", settled.Status)
		}

		got, err := catalog.GetItem(ctx, aliceItem.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.OwnerID != 2 {
			t.Errorf("Expected Bob to own the item, owner=%d", got.OwnerID)
		}
	})

	t.Run("Reject leaves items with their owners", func(t *testing.T) {
		aliceItem := listItem(t, catalog, 1, "Bloodborne", "PS4")
		bobItem := listItem(t, catalog, 2, "Celeste", "Switch")

		swap, err := swaps.Propose(ctx, 1, 2, aliceItem.ID, bobItem.ID)
		if err != nil {
			t.Fatalf("Propose failed: %v", err)
		}

		rejected, err := swaps.Decide(ctx, swap.ID, 2, models.DecisionReject)
		if err != nil {
			t.Fatalf("Decide(reject) failed: %v", err)
		}
		if rejected.Status != models.SwapStatusRejected {
			t.Errorf("Expected rejected, got %q", rejected.Status)
		}

		got, err := catalog.GetItem(ctx, aliceItem.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.OwnerID != 1 {
			t.Errorf("Alice must keep her item, owner=%d", got.OwnerID)
		}
	})

	t.Run("Unknown decision strings are refused", func(t *testing.T) {
		if _, err := swaps.Decide(ctx, 1, 2, "maybe"); !errors.Is(err, ErrInvalidDecision) {
			t.Errorf("Expected ErrInvalidDecision, got %v", err)
		}
	})

	t.Run("Banned users cannot propose or decide", func(t *testing.T) {
		if err := store.SetBanned(ctx, 1, true); err != nil {
			t.Fatalf("SetBanned failed: %v", err)
		}
		t.Cleanup(func() { store.SetBanned(ctx, 1, false) })

		bobItem := listItem(t, catalog, 2, "Okami", "Switch")
		if _, err := swaps.Propose(ctx, 1, 2, 9998, bobItem.ID); !errors.Is(err, ErrBanned) {
			t.Errorf("Expected ErrBanned on propose, got %v", err)
		}
		if _, err := swaps.Decide(ctx, 1, 1, models.DecisionAccept); !errors.Is(err, ErrBanned) {
			t.Errorf("Expected ErrBanned on decide, got %v", err)
		}
	})

	t.Run("Proposal failure is opaque", func(t *testing.T) {
		aliceItem := listItem(t, catalog, 1, "Sekiro", "PS4")

		// Requested item does not exist; the caller only learns it failed.
		_, err := swaps.Propose(ctx, 1, 2, aliceItem.ID, 9999)
		if !errors.Is(err, storage.ErrSwapRejected) {
			t.Errorf("Expected ErrSwapRejected, got %v", err)
		}
	})
}

func TestCatalogService(t *testing.T) {
	store := newTestStore(t)
	catalog := NewCatalogService(store)
	ctx := context.Background()

	t.Run("Register validates required fields", func(t *testing.T) {
		if _, err := catalog.Register(ctx, 0, "x", "X", "Madrid"); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for zero id, got %v", err)
		}
		if _, err := catalog.Register(ctx, 1, "x", "  ", "Madrid"); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for blank name, got %v", err)
		}
		if _, err := catalog.Register(ctx, 1, "x", "X", ""); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for blank city, got %v", err)
		}
	})

	t.Run("ListItem validates required fields", func(t *testing.T) {
		registerUser(t, catalog, 1, "alice", "Alice", "Madrid")

		_, err := catalog.ListItem(ctx, 1, models.ItemAttrs{Title: "  ", Platform: "PS5", Condition: "good"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput for blank title, got %v", err)
		}
	})

	t.Run("ListItem requires a registered owner", func(t *testing.T) {
		_, err := catalog.ListItem(ctx, 999, models.ItemAttrs{Title: "Hades", Platform: "Switch", Condition: "good"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for unknown owner, got %v", err)
		}
	})

	t.Run("Browse excludes the caller and reports the total", func(t *testing.T) {
		registerUser(t, catalog, 2, "bob", "Bob", "Valencia")
		listItem(t, catalog, 1, "Elden Ring", "PS5")
		listItem(t, catalog, 2, "Hades", "Switch")

		entries, total, err := catalog.Browse(ctx, 1, "", "", 10, 0)
		if err != nil {
			t.Fatalf("Browse failed: %v", err)
		}
		if total != 1 || len(entries) != 1 || entries[0].OwnerID != 2 {
			t.Errorf("Expected only Bob's item: total=%d entries=%v", total, entries)
		}
	})
}
