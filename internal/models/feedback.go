package models

// MaxFeedbackPhotos caps the photo attachments per feedback entry.
// Enforced by the service, not the store.
const MaxFeedbackPhotos = 3

// Feedback is a post-settlement rating from one swap participant about
// the other. At most one entry exists per (swap, rater) pair.
type Feedback struct {
	ID int64

	SwapID  int64
	RaterID int64
	RateeID int64

	// Stars is the rating in [1, 5].
	Stars int

	// Comment is optional free text.
	Comment string

	CreatedAt int64
}

// RatingSummary is a user's aggregate trust signal.
type RatingSummary struct {
	Rating      float64
	RatingCount int64
}
