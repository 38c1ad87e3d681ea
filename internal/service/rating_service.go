package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gameswap/gameswap/internal/metrics"
	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// maxCommentLen truncates feedback comments.
const maxCommentLen = 800

// RatingService maintains the append-only feedback ledger and the per-user
// aggregate it feeds.
type RatingService struct {
	store storage.Store
}

// NewRatingService creates a new RatingService with the given storage backend.
func NewRatingService(store storage.Store) *RatingService {
	return &RatingService{store: store}
}

// Record files one feedback entry for a completed swap. The ratee is
// derived from the swap itself: the rater's counterparty. The store
// enforces the one-entry-per-(swap, rater) invariant and updates the
// ratee's aggregate in the same transaction.
func (s *RatingService) Record(ctx context.Context, swapID, raterID int64, stars int, comment string) (*models.Feedback, error) {
	if stars < 1 || stars > 5 {
		return nil, ErrInvalidStars
	}
	if err := guardBanned(ctx, s.store, raterID); err != nil {
		return nil, err
	}

	swap, err := s.store.GetSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap.Status != models.SwapStatusCompleted {
		return nil, ErrSwapNotCompleted
	}

	var rateeID int64
	switch raterID {
	case swap.User1ID:
		rateeID = swap.User2ID
	case swap.User2ID:
		rateeID = swap.User1ID
	default:
		return nil, ErrNotParticipant
	}

	comment = truncateComment(strings.TrimSpace(comment))

	fb := &models.Feedback{
		SwapID:  swapID,
		RaterID: raterID,
		RateeID: rateeID,
		Stars:   stars,
		Comment: comment,
	}
	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		if errors.Is(err, storage.ErrAlreadyRated) {
			metrics.FeedbackRecorded.WithLabelValues("duplicate").Inc()
			slog.Info("Duplicate feedback", "swap_id", swapID, "rater_id", raterID)
		} else {
			slog.Error("Record feedback failed", "swap_id", swapID, "rater_id", raterID, "error", err)
		}
		return nil, err
	}

	metrics.FeedbackRecorded.WithLabelValues("recorded").Inc()
	slog.Info("Feedback recorded",
		"feedback_id", fb.ID,
		"swap_id", swapID,
		"rater_id", raterID,
		"ratee_id", rateeID,
		"stars", stars,
	)
	return fb, nil
}

// truncateComment caps a comment at maxCommentLen bytes without cutting
// through a multi-byte rune, so the ledger only ever stores valid UTF-8.
func truncateComment(comment string) string {
	if len(comment) <= maxCommentLen {
		return comment
	}
	cut := maxCommentLen
	for cut > 0 && !utf8.RuneStart(comment[cut]) {
		cut--
	}
	return comment[:cut]
}

// AttachPhoto appends a photo reference to a feedback entry, capped at
// models.MaxFeedbackPhotos.
func (s *RatingService) AttachPhoto(ctx context.Context, feedbackID int64, photoRef string) error {
	photoRef = strings.TrimSpace(photoRef)
	if photoRef == "" {
		return ErrInvalidInput
	}

	existing, err := s.store.GetFeedbackPhotos(ctx, feedbackID)
	if err != nil {
		return err
	}
	if len(existing) >= models.MaxFeedbackPhotos {
		return ErrTooManyPhotos
	}

	if err := s.store.AddFeedbackPhoto(ctx, feedbackID, photoRef); err != nil {
		slog.Error("AttachPhoto failed", "feedback_id", feedbackID, "error", err)
		return err
	}
	slog.Info("Feedback photo attached", "feedback_id", feedbackID)
	return nil
}

// Photos returns a feedback entry's photo references in order.
func (s *RatingService) Photos(ctx context.Context, feedbackID int64) ([]string, error) {
	return s.store.GetFeedbackPhotos(ctx, feedbackID)
}

// ForUser returns feedback received by a user, newest first.
func (s *RatingService) ForUser(ctx context.Context, userID int64, limit int) ([]*models.Feedback, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListUserFeedback(ctx, userID, limit)
}

// Summary returns a user's aggregate trust signal.
func (s *RatingService) Summary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	return s.store.GetRatingSummary(ctx, userID)
}
