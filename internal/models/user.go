package models

// User represents a registered trader.
//
// The identity is an external numeric id supplied by the caller on first
// registration; it is immutable and never deleted. Rating fields are owned
// by the rating ledger and the swap counter by swap settlement; profile
// edits touch neither.
type User struct {
	// ID is the caller-supplied numeric identity.
	ID int64

	// Handle is the optional public handle, normalized (no leading '@',
	// trimmed). Empty string when the user has none.
	Handle string

	// DisplayName is the name shown on catalog cards.
	DisplayName string

	// City the user trades from.
	City string

	// Rating is the running mean of all stars received, derived from
	// RatingSum / RatingCount. Zero until the first feedback lands.
	Rating float64

	// RatingSum is the total stars ever received.
	RatingSum int64

	// RatingCount is the number of feedback entries received.
	RatingCount int64

	// CompletedSwaps counts settled swaps the user took part in.
	CompletedSwaps int64

	// Banned blocks the user from all write operations.
	Banned bool

	// RegisteredAt is the Unix timestamp of first registration.
	RegisteredAt int64
}
