package service

import "errors"

// Validation errors rejected before any transaction opens.
var (
	// ErrBanned blocks banned users from every write operation.
	ErrBanned = errors.New("user is banned")

	// ErrInvalidInput covers malformed or missing caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStars rejects ratings outside [1, 5].
	ErrInvalidStars = errors.New("stars must be between 1 and 5")

	// ErrInvalidDecision rejects anything but accept or reject.
	ErrInvalidDecision = errors.New("decision must be accept or reject")

	// ErrSwapNotCompleted rejects feedback on a swap that never settled.
	ErrSwapNotCompleted = errors.New("swap is not completed")

	// ErrNotParticipant rejects feedback from a user outside the swap.
	ErrNotParticipant = errors.New("user did not take part in this swap")

	// ErrTooManyPhotos rejects photo attachments beyond the cap.
	ErrTooManyPhotos = errors.New("feedback photo limit reached")
)
