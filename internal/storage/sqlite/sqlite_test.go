package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore, id int64, handle, name, city string) {
	t.Helper()
	if err := store.UpsertUser(context.Background(), id, handle, name, city); err != nil {
		t.Fatalf("UpsertUser(%d) failed: %v", id, err)
	}
}

func seedItem(t *testing.T, store *SQLiteStore, ownerID int64, title, platform string) *models.Item {
	t.Helper()
	item, err := store.CreateItem(context.Background(), ownerID, models.ItemAttrs{
		Title:     title,
		Platform:  platform,
		Condition: "good",
	})
	if err != nil {
		t.Fatalf("CreateItem(%q) failed: %v", title, err)
	}
	return item
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("UpsertUser creates and retrieves", func(t *testing.T) {
		seedUser(t, store, 1, "@alice", "Alice", "Madrid")

		user, err := store.GetUser(ctx, 1)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user.Handle != "alice" {
			t.Errorf("Expected handle normalized to %q, got %q", "alice", user.Handle)
		}
		if user.DisplayName != "Alice" || user.City != "Madrid" {
			t.Errorf("Profile mismatch: got %q / %q", user.DisplayName, user.City)
		}
		if user.RegisteredAt == 0 {
			t.Error("Expected RegisteredAt to be set")
		}
	})

	t.Run("Re-registration updates profile only", func(t *testing.T) {
		seedUser(t, store, 2, "bob", "Bob", "Valencia")

		// Give Bob some history directly.
		_, err := store.writes.Exec(
			"UPDATE users SET rating = 4.5, rating_sum = 9, rating_count = 2, completed_swaps = 3 WHERE id = 2")
		if err != nil {
			t.Fatalf("Failed to seed history: %v", err)
		}

		seedUser(t, store, 2, "bobby", "Bobby", "Sevilla")

		user, err := store.GetUser(ctx, 2)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if user.Handle != "bobby" || user.DisplayName != "Bobby" || user.City != "Sevilla" {
			t.Errorf("Profile not updated: %+v", user)
		}
		if user.Rating != 4.5 || user.RatingCount != 2 || user.CompletedSwaps != 3 {
			t.Errorf("History not preserved: rating=%v count=%d swaps=%d",
				user.Rating, user.RatingCount, user.CompletedSwaps)
		}
	})

	t.Run("GetUserByHandle is case-insensitive", func(t *testing.T) {
		user, err := store.GetUserByHandle(ctx, "@ALICE")
		if err != nil {
			t.Fatalf("GetUserByHandle failed: %v", err)
		}
		if user.ID != 1 {
			t.Errorf("Expected user 1, got %d", user.ID)
		}
	})

	t.Run("GetUser returns ErrNotFound for unknown id", func(t *testing.T) {
		_, err := store.GetUser(ctx, 999)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("IsBanned defaults to false and follows SetBanned", func(t *testing.T) {
		banned, err := store.IsBanned(ctx, 999)
		if err != nil || banned {
			t.Errorf("Unknown user should not be banned: banned=%v err=%v", banned, err)
		}

		if err := store.SetBanned(ctx, 1, true); err != nil {
			t.Fatalf("SetBanned failed: %v", err)
		}
		banned, err = store.IsBanned(ctx, 1)
		if err != nil || !banned {
			t.Errorf("Expected user 1 banned: banned=%v err=%v", banned, err)
		}
		if err := store.SetBanned(ctx, 1, false); err != nil {
			t.Fatalf("SetBanned(false) failed: %v", err)
		}

		if err := store.SetBanned(ctx, 999, true); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound banning unknown user, got %v", err)
		}
	})

	t.Run("SearchUsersByHandle matches substrings", func(t *testing.T) {
		users, err := store.SearchUsersByHandle(ctx, "BOB", 10)
		if err != nil {
			t.Fatalf("SearchUsersByHandle failed: %v", err)
		}
		if len(users) != 1 || users[0].ID != 2 {
			t.Errorf("Expected only user 2, got %v", users)
		}
	})
}

func TestItems(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, 1, "alice", "Alice", "Madrid")
	seedUser(t, store, 2, "bob", "Bob", "Valencia")

	t.Run("CreateItem starts active", func(t *testing.T) {
		item := seedItem(t, store, 1, "Elden Ring", "PS5")

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.Status != models.ItemStatusActive {
			t.Errorf("Expected active, got %q", got.Status)
		}
		if got.OwnerID != 1 || got.Title != "Elden Ring" {
			t.Errorf("Item mismatch: %+v", got)
		}
		if got.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("ListUserItems returns only the owner's active items", func(t *testing.T) {
		mine := seedItem(t, store, 2, "Hades", "Switch")
		seedItem(t, store, 1, "Bloodborne", "PS4")

		items, err := store.ListUserItems(ctx, 2, 10)
		if err != nil {
			t.Fatalf("ListUserItems failed: %v", err)
		}
		if len(items) != 1 || items[0].ID != mine.ID {
			t.Errorf("Expected only item %d, got %v", mine.ID, items)
		}
	})

	t.Run("SetItemStatus requires ownership", func(t *testing.T) {
		item := seedItem(t, store, 1, "Sekiro", "PS4")

		changed, err := store.SetItemStatus(ctx, item.ID, 2, models.ItemStatusRemoved)
		if err != nil {
			t.Fatalf("SetItemStatus failed: %v", err)
		}
		if changed {
			t.Error("Non-owner should not be able to remove the item")
		}

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.Status != models.ItemStatusActive {
			t.Errorf("Item should still be active, got %q", got.Status)
		}
	})

	t.Run("Removal is one-way", func(t *testing.T) {
		item := seedItem(t, store, 1, "Nioh", "PS4")

		changed, err := store.SetItemStatus(ctx, item.ID, 1, models.ItemStatusRemoved)
		if err != nil || !changed {
			t.Fatalf("First removal should succeed: changed=%v err=%v", changed, err)
		}

		// A second transition attempt finds no active row to flip.
		changed, err = store.SetItemStatus(ctx, item.ID, 1, models.ItemStatusRemoved)
		if err != nil {
			t.Fatalf("SetItemStatus failed: %v", err)
		}
		if changed {
			t.Error("Second removal should be a no-op")
		}
	})
}
