package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

func TestRatingService(t *testing.T) {
	store := newTestStore(t)
	catalog := NewCatalogService(store)
	swaps := NewSwapService(store)
	ratings := NewRatingService(store)
	ctx := context.Background()

	registerUser(t, catalog, 1, "alice", "Alice", "Madrid")
	registerUser(t, catalog, 2, "bob", "Bob", "Valencia")
	registerUser(t, catalog, 3, "carol", "Carol", "Bilbao")

	settle := func(t *testing.T, title1, title2 string) *models.Swap {
		t.Helper()
		item1 := listItem(t, catalog, 1, title1, "PS5")
		item2 := listItem(t, catalog, 2, title2, "Switch")
		swap, err := swaps.Propose(ctx, 1, 2, item1.ID, item2.ID)
		if err != nil {
			t.Fatalf("Propose failed: %v", err)
		}
		settled, err := swaps.Decide(ctx, swap.ID, 2, models.DecisionAccept)
		if err != nil {
			t.Fatalf("Decide failed: %v", err)
		}
		return settled
	}

	t.Run("Stars must be within range", func(t *testing.T) {
		if _, err := ratings.Record(ctx, 1, 1, 0, ""); !errors.Is(err, ErrInvalidStars) {
			t.Errorf("Expected ErrInvalidStars for 0, got %v", err)
		}
		if _, err := ratings.Record(ctx, 1, 1, 6, ""); !errors.Is(err, ErrInvalidStars) {
			t.Errorf("Expected ErrInvalidStars for 6, got %v", err)
		}
	})

	t.Run("Only completed swaps can be rated", func(t *testing.T) {
		item1 := listItem(t, catalog, 1, "Elden Ring", "PS5")
		item2 := listItem(t, catalog, 2, "Hades", "Switch")
		swap, err := swaps.Propose(ctx, 1, 2, item1.ID, item2.ID)
		if err != nil {
			t.Fatalf("Propose failed: %v", err)
		}

		if _, err := ratings.Record(ctx, swap.ID, 1, 5, ""); !errors.Is(err, ErrSwapNotCompleted) {
			t.Errorf("Expected ErrSwapNotCompleted, got %v", err)
		}
	})

	t.Run("Only participants can rate and the ratee is the counterparty", func(t *testing.T) {
		swap := settle(t, "Bloodborne", "Celeste")

		if _, err := ratings.Record(ctx, swap.ID, 3, 5, ""); !errors.Is(err, ErrNotParticipant) {
			t.Errorf("Expected ErrNotParticipant, got %v", err)
		}

		fb, err := ratings.Record(ctx, swap.ID, 1, 4, "smooth trade")
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if fb.RateeID != 2 {
			t.Errorf("Expected ratee 2, got %d", fb.RateeID)
		}

		summary, err := ratings.Summary(ctx, 2)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if summary.RatingCount != 1 || summary.Rating != 4.0 {
			t.Errorf("Unexpected aggregate: %+v", summary)
		}
	})

	t.Run("Rating twice on the same swap fails", func(t *testing.T) {
		swap := settle(t, "Sekiro", "Okami")

		if _, err := ratings.Record(ctx, swap.ID, 2, 5, ""); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if _, err := ratings.Record(ctx, swap.ID, 2, 1, ""); !errors.Is(err, storage.ErrAlreadyRated) {
			t.Errorf("Expected ErrAlreadyRated, got %v", err)
		}
	})

	t.Run("Long comments are truncated", func(t *testing.T) {
		swap := settle(t, "Nioh", "Cuphead")

		fb, err := ratings.Record(ctx, swap.ID, 1, 5, strings.Repeat("x", 1000))
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if len(fb.Comment) != maxCommentLen {
			t.Errorf("Expected comment truncated to %d, got %d", maxCommentLen, len(fb.Comment))
		}
	})

	t.Run("Truncation never splits a rune", func(t *testing.T) {
		swap := settle(t, "Flower", "Limbo")

		// 300 three-byte runes: the cap falls mid-rune at byte 800.
		fb, err := ratings.Record(ctx, swap.ID, 1, 5, strings.Repeat("€", 300))
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		if len(fb.Comment) > maxCommentLen {
			t.Errorf("Comment exceeds %d bytes: %d", maxCommentLen, len(fb.Comment))
		}
		if !utf8.ValidString(fb.Comment) {
			t.Errorf("Stored comment is not valid UTF-8, tail %q", fb.Comment[len(fb.Comment)-3:])
		}

		// The stored copy must match, not just the returned struct.
		entries, err := ratings.ForUser(ctx, 2, 50)
		if err != nil {
			t.Fatalf("ForUser failed: %v", err)
		}
		for _, e := range entries {
			if e.ID == fb.ID && !utf8.ValidString(e.Comment) {
				t.Errorf("Persisted comment is not valid UTF-8")
			}
		}
	})

	t.Run("Photos are capped per entry", func(t *testing.T) {
		swap := settle(t, "Journey", "Inside")

		fb, err := ratings.Record(ctx, swap.ID, 2, 5, "")
		if err != nil {
			t.Fatalf("Record failed: %v", err)
		}

		for i := 0; i < models.MaxFeedbackPhotos; i++ {
			if err := ratings.AttachPhoto(ctx, fb.ID, "photo"); err != nil {
				t.Fatalf("AttachPhoto %d failed: %v", i, err)
			}
		}
		if err := ratings.AttachPhoto(ctx, fb.ID, "photo"); !errors.Is(err, ErrTooManyPhotos) {
			t.Errorf("Expected ErrTooManyPhotos, got %v", err)
		}

		photos, err := ratings.Photos(ctx, fb.ID)
		if err != nil {
			t.Fatalf("Photos failed: %v", err)
		}
		if len(photos) != models.MaxFeedbackPhotos {
			t.Errorf("Expected %d photos, got %d", models.MaxFeedbackPhotos, len(photos))
		}
	})

	t.Run("Blank photo refs are refused", func(t *testing.T) {
		if err := ratings.AttachPhoto(ctx, 1, "   "); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})
}
