package models

// Swap lifecycle statuses. Pending is the only non-terminal state;
// completed and rejected are absorbing.
const (
	SwapStatusPending   = "pending"
	SwapStatusCompleted = "completed"
	SwapStatusRejected  = "rejected"
)

// Swap decisions available to the recipient.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
)

// Swap is a two-party proposal to exchange ownership of exactly one item
// each. User1 is the initiator, User2 the recipient; only the recipient
// decides.
type Swap struct {
	ID int64

	// User1ID is the initiator; Item1 was owned by them at request time.
	User1ID int64

	// User2ID is the recipient; Item2 was owned by them at request time.
	User2ID int64

	Item1ID int64
	Item2ID int64

	// Status is pending, completed or rejected.
	Status string

	// Code is a human-readable confirmation code ("SWAP-" + 6 digits).
	// A display aid, not a key; collisions are tolerated.
	Code string

	CreatedAt int64
	UpdatedAt int64

	// CompletedAt is set once on settlement, zero otherwise.
	CompletedAt int64
}
