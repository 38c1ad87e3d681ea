package models

// Item lifecycle statuses. Transitions are one-way: active -> removed.
const (
	ItemStatusActive  = "active"
	ItemStatusRemoved = "removed"
)

// Item is a listed physical game disc with exactly one current owner.
type Item struct {
	ID int64

	// OwnerID references the owning user. Mutated only by swap settlement.
	OwnerID int64

	// Title of the game.
	Title string

	// Platform the disc runs on (e.g. "PS5", "Switch").
	Platform string

	// Condition is the owner's free-text condition description.
	Condition string

	// PhotoRef is an optional reference to an externally stored photo.
	PhotoRef string

	// WantedDesc is the owner's free-text description of what they want
	// in exchange.
	WantedDesc string

	// Status is active or removed. Removed items never come back.
	Status string

	// CreatedAt is the Unix timestamp the listing was created.
	CreatedAt int64
}

// ItemAttrs carries the caller-supplied fields for a new listing.
type ItemAttrs struct {
	Title      string
	Platform   string
	Condition  string
	PhotoRef   string
	WantedDesc string
}

// CatalogEntry is a catalog row: an active item joined with its owner's
// trust signal, as surfaced by the query layer.
type CatalogEntry struct {
	Item Item

	OwnerID        int64
	OwnerName      string
	OwnerHandle    string
	OwnerCity      string
	OwnerRating    float64
	OwnerRatingN   int64
	OwnerSwapCount int64
}
