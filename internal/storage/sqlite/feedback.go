package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// CreateFeedback inserts a feedback entry and folds it into the ratee's
// aggregate in the same transaction, so the ledger and the aggregate can
// never disagree, crash or not.
//
// The duplicate check inside the transaction is advisory; the UNIQUE
// index on (swap_id, rater_id) is the authoritative guard. Under the
// single-writer pool the advisory check already serializes with any
// concurrent insert, so the index only ever fires on a schema-level race
// that this process cannot produce.
func (s *SQLiteStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM feedback WHERE swap_id = ? AND rater_id = ?",
			fb.SwapID, fb.RaterID,
		).Scan(&existing)
		if err == nil {
			return storage.ErrAlreadyRated
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check existing feedback: %w", err)
		}

		fb.CreatedAt = now()
		res, err := tx.ExecContext(ctx,
			`INSERT INTO feedback (swap_id, rater_id, ratee_id, stars, comment, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			fb.SwapID, fb.RaterID, fb.RateeID, fb.Stars, fb.Comment, fb.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert feedback: %w", err)
		}
		fb.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read feedback id: %w", err)
		}

		// Fold into the ratee's running aggregate: simple arithmetic
		// mean, no decay or weighting.
		var ratingSum, ratingCount int64
		err = tx.QueryRowContext(ctx,
			"SELECT rating_sum, rating_count FROM users WHERE id = ?", fb.RateeID,
		).Scan(&ratingSum, &ratingCount)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read rating aggregate: %w", err)
		}

		ratingSum += int64(fb.Stars)
		ratingCount++
		rating := float64(ratingSum) / float64(ratingCount)

		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET rating_sum = ?, rating_count = ?, rating = ? WHERE id = ?",
			ratingSum, ratingCount, rating, fb.RateeID,
		); err != nil {
			return fmt.Errorf("failed to update rating aggregate: %w", err)
		}
		return nil
	})
}

// AddFeedbackPhoto appends a photo reference to a feedback entry. The
// per-entry cap is the service's concern, not the store's.
func (s *SQLiteStore) AddFeedbackPhoto(ctx context.Context, feedbackID int64, photoRef string) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM feedback WHERE id = ?", feedbackID).Scan(&existing)
		if err == sql.ErrNoRows {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check feedback existence: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO feedback_photos (feedback_id, photo_ref, created_at) VALUES (?, ?, ?)",
			feedbackID, photoRef, now(),
		); err != nil {
			return fmt.Errorf("failed to insert feedback photo: %w", err)
		}
		return nil
	})
}

// GetFeedbackPhotos returns photo references in insertion order.
func (s *SQLiteStore) GetFeedbackPhotos(ctx context.Context, feedbackID int64) ([]string, error) {
	rows, err := s.reads.QueryContext(ctx,
		"SELECT photo_ref FROM feedback_photos WHERE feedback_id = ? ORDER BY id ASC",
		feedbackID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback photos: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan feedback photo: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback photos: %w", err)
	}
	return refs, nil
}

// ListUserFeedback returns feedback received by the user, newest first.
func (s *SQLiteStore) ListUserFeedback(ctx context.Context, userID int64, limit int) ([]*models.Feedback, error) {
	rows, err := s.reads.QueryContext(ctx,
		`SELECT id, swap_id, rater_id, ratee_id, stars, comment, created_at
		 FROM feedback
		 WHERE ratee_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*models.Feedback
	for rows.Next() {
		fb := &models.Feedback{}
		if err := rows.Scan(&fb.ID, &fb.SwapID, &fb.RaterID, &fb.RateeID, &fb.Stars, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return entries, nil
}

// GetRatingSummary returns the user's aggregate trust signal.
func (s *SQLiteStore) GetRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error) {
	summary := &models.RatingSummary{}
	err := s.reads.QueryRowContext(ctx,
		"SELECT rating, rating_count FROM users WHERE id = ?", userID,
	).Scan(&summary.Rating, &summary.RatingCount)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}
	return summary, nil
}
