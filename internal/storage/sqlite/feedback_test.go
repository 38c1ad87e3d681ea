package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// completeSwap proposes and settles a swap between fresh items.
func completeSwap(t *testing.T, store *SQLiteStore, user1, user2 int64, title1, title2 string) *models.Swap {
	t.Helper()
	item1 := seedItem(t, store, user1, title1, "PS5")
	item2 := seedItem(t, store, user2, title2, "Switch")
	swap := seedSwap(t, store, user1, user2, item1.ID, item2.ID)

	settled, err := store.SettleSwap(context.Background(), swap.ID, user2)
	if err != nil {
		t.Fatalf("SettleSwap failed: %v", err)
	}
	return settled
}

func TestFeedback(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedUser(t, store, 1, "alice", "Alice", "Madrid")
	seedUser(t, store, 2, "bob", "Bob", "Valencia")

	swap1 := completeSwap(t, store, 1, 2, "Elden Ring", "Hades")
	swap2 := completeSwap(t, store, 1, 2, "Bloodborne", "Celeste")
	swap3 := completeSwap(t, store, 1, 2, "Sekiro", "Okami")

	rate := func(t *testing.T, swapID, raterID, rateeID int64, stars int) *models.Feedback {
		t.Helper()
		fb := &models.Feedback{SwapID: swapID, RaterID: raterID, RateeID: rateeID, Stars: stars}
		if err := store.CreateFeedback(ctx, fb); err != nil {
			t.Fatalf("CreateFeedback failed: %v", err)
		}
		return fb
	}

	t.Run("Aggregate is the arithmetic mean", func(t *testing.T) {
		rate(t, swap1.ID, 2, 1, 5)
		rate(t, swap2.ID, 2, 1, 3)
		rate(t, swap3.ID, 2, 1, 4)

		summary, err := store.GetRatingSummary(ctx, 1)
		if err != nil {
			t.Fatalf("GetRatingSummary failed: %v", err)
		}
		if summary.RatingCount != 3 {
			t.Errorf("Expected 3 ratings, got %d", summary.RatingCount)
		}
		if summary.Rating != 4.0 {
			t.Errorf("Expected rating 4.0, got %v", summary.Rating)
		}
	})

	t.Run("Duplicate rating for the same swap is refused", func(t *testing.T) {
		fb := &models.Feedback{SwapID: swap1.ID, RaterID: 2, RateeID: 1, Stars: 1}
		if err := store.CreateFeedback(ctx, fb); !errors.Is(err, storage.ErrAlreadyRated) {
			t.Fatalf("Expected ErrAlreadyRated, got %v", err)
		}

		// The refused entry must not touch the aggregate.
		summary, err := store.GetRatingSummary(ctx, 1)
		if err != nil {
			t.Fatalf("GetRatingSummary failed: %v", err)
		}
		if summary.RatingCount != 3 || summary.Rating != 4.0 {
			t.Errorf("Aggregate changed: count=%d rating=%v", summary.RatingCount, summary.Rating)
		}
	})

	t.Run("Counterparty rates independently on the same swap", func(t *testing.T) {
		rate(t, swap1.ID, 1, 2, 2)

		summary, err := store.GetRatingSummary(ctx, 2)
		if err != nil {
			t.Fatalf("GetRatingSummary failed: %v", err)
		}
		if summary.RatingCount != 1 || summary.Rating != 2.0 {
			t.Errorf("Expected count=1 rating=2.0, got count=%d rating=%v",
				summary.RatingCount, summary.Rating)
		}
	})

	t.Run("ListUserFeedback returns received entries newest first", func(t *testing.T) {
		entries, err := store.ListUserFeedback(ctx, 1, 10)
		if err != nil {
			t.Fatalf("ListUserFeedback failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("Expected 3 entries, got %d", len(entries))
		}
		for _, fb := range entries {
			if fb.RateeID != 1 {
				t.Errorf("Entry for wrong ratee: %+v", fb)
			}
		}
	})

	t.Run("Photos append in order up to the service cap", func(t *testing.T) {
		fb := rate(t, swap2.ID, 1, 2, 5)

		for _, ref := range []string{"photo-a", "photo-b"} {
			if err := store.AddFeedbackPhoto(ctx, fb.ID, ref); err != nil {
				t.Fatalf("AddFeedbackPhoto failed: %v", err)
			}
		}

		photos, err := store.GetFeedbackPhotos(ctx, fb.ID)
		if err != nil {
			t.Fatalf("GetFeedbackPhotos failed: %v", err)
		}
		if len(photos) != 2 || photos[0] != "photo-a" || photos[1] != "photo-b" {
			t.Errorf("Unexpected photos: %v", photos)
		}
	})

	t.Run("Photo on unknown feedback id", func(t *testing.T) {
		if err := store.AddFeedbackPhoto(ctx, 9999, "photo-x"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
