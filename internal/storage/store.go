// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/gameswap/gameswap/internal/models"
)

// Sentinel errors returned by Store implementations. Callers branch on
// these with errors.Is; anything else is a storage fault.
var (
	// ErrNotFound signals a missing user, item or feedback row.
	ErrNotFound = errors.New("not found")

	// ErrSwapRejected is the single opaque failure for swap creation.
	// Which precondition failed is deliberately not exposed: it would
	// leak the state of another user's items.
	ErrSwapRejected = errors.New("swap request rejected")

	// ErrSwapNotFound signals a decide call on an unknown swap.
	ErrSwapNotFound = errors.New("swap not found")

	// ErrSwapNotPending signals a decide call on a terminal swap,
	// including a second accept on an already-settled one.
	ErrSwapNotPending = errors.New("swap not pending")

	// ErrNotRecipient signals a decide call by anyone but the swap's
	// recipient. The initiator cannot self-approve.
	ErrNotRecipient = errors.New("only the recipient can decide")

	// ErrItemNotActive signals that a swap's item was removed between
	// proposal and settlement.
	ErrItemNotActive = errors.New("item no longer active")

	// ErrOwnershipChanged signals that a swap's item changed hands
	// between proposal and settlement.
	ErrOwnershipChanged = errors.New("item ownership changed")

	// ErrAlreadyRated signals a duplicate feedback for a (swap, rater)
	// pair. Expected and non-exceptional.
	ErrAlreadyRated = errors.New("swap already rated by this user")
)

// CatalogFilter narrows catalog queries. Zero values mean no filtering.
type CatalogFilter struct {
	// Platform filters by exact platform match.
	Platform string

	// City filters by the owner's city, case-insensitive.
	City string

	// ExcludeUserID hides the caller's own listings when non-zero.
	ExcludeUserID int64
}

// AdminUserFilter narrows the operator's user listing.
type AdminUserFilter struct {
	OnlyBanned bool

	// Query substring-matches handle, display name or city.
	Query string
}

// PlatformCount is one row of the platform breakdown.
type PlatformCount struct {
	Platform string
	Count    int64
}

// Stats is the operator's aggregate snapshot.
type Stats struct {
	UsersTotal     int64
	UsersBanned    int64
	ItemsActive    int64
	SwapsPending   int64
	SwapsCompleted int64
}

// Store defines the persistence contract for the swap coordinator.
// This abstraction allows swapping storage backends without changing the
// service layer; the only implementation today is SQLite.
type Store interface {
	// UpsertUser creates the user or updates profile fields on
	// re-registration. Rating fields and the swap counter are never
	// touched by an upsert.
	UpsertUser(ctx context.Context, id int64, handle, displayName, city string) error

	// GetUser retrieves a user by id. Returns ErrNotFound if missing.
	GetUser(ctx context.Context, id int64) (*models.User, error)

	// GetUserByHandle retrieves a user by handle, case-insensitive.
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)

	// SearchUsersByHandle returns users whose handle contains query,
	// most trusted first.
	SearchUsersByHandle(ctx context.Context, query string, limit int) ([]*models.User, error)

	// IsBanned reports whether the user is banned. Unknown users are
	// not banned.
	IsBanned(ctx context.Context, id int64) (bool, error)

	// SetBanned flips the ban flag. Returns ErrNotFound if missing.
	SetBanned(ctx context.Context, id int64, banned bool) error

	// CountUsers returns the total number of registered users.
	CountUsers(ctx context.Context) (int64, error)

	// CreateItem lists a new item for ownerID with status active.
	CreateItem(ctx context.Context, ownerID int64, attrs models.ItemAttrs) (*models.Item, error)

	// GetItem retrieves an item by id. Returns ErrNotFound if missing.
	GetItem(ctx context.Context, id int64) (*models.Item, error)

	// ListUserItems returns the owner's active items, newest first.
	ListUserItems(ctx context.Context, ownerID int64, limit int) ([]*models.Item, error)

	// SetItemStatus moves an item to the given status. Reports false
	// without error when ownerID does not currently own the item or the
	// item already left the active state; a removed item never comes
	// back.
	SetItemStatus(ctx context.Context, itemID, ownerID int64, status string) (bool, error)

	// CreateSwap validates and inserts a pending swap in one
	// transaction. Any precondition failure surfaces as ErrSwapRejected.
	CreateSwap(ctx context.Context, initiatorID, recipientID, offeredItemID, requestedItemID int64) (*models.Swap, error)

	// GetSwap retrieves a swap by id. Returns ErrSwapNotFound if missing.
	GetSwap(ctx context.Context, id int64) (*models.Swap, error)

	// RejectSwap marks a pending swap rejected. Only the recipient may
	// reject; terminal swaps return ErrSwapNotPending.
	RejectSwap(ctx context.Context, swapID, deciderID int64) error

	// SettleSwap atomically executes an accepted swap: re-verifies the
	// pending status, the confirmer and both items' ownership, then
	// exchanges owners, marks the swap completed and increments both
	// participants' swap counters. Returns the settled swap.
	SettleSwap(ctx context.Context, swapID, confirmerID int64) (*models.Swap, error)

	// ListPendingForRecipient returns swaps awaiting the user's decision.
	ListPendingForRecipient(ctx context.Context, userID int64, limit int) ([]*models.Swap, error)

	// ListSwapsByStatus lists swaps, most recently updated first. Empty
	// status means all.
	ListSwapsByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Swap, error)

	// CreateFeedback inserts a feedback entry and updates the ratee's
	// aggregate in the same transaction. Populates fb.ID and
	// fb.CreatedAt. Duplicate (swap, rater) pairs return ErrAlreadyRated.
	CreateFeedback(ctx context.Context, fb *models.Feedback) error

	// AddFeedbackPhoto appends a photo reference to a feedback entry.
	AddFeedbackPhoto(ctx context.Context, feedbackID int64, photoRef string) error

	// GetFeedbackPhotos returns a feedback entry's photo references in
	// insertion order.
	GetFeedbackPhotos(ctx context.Context, feedbackID int64) ([]string, error)

	// ListUserFeedback returns feedback received by the user, newest
	// first.
	ListUserFeedback(ctx context.Context, userID int64, limit int) ([]*models.Feedback, error)

	// GetRatingSummary returns the user's aggregate trust signal.
	GetRatingSummary(ctx context.Context, userID int64) (*models.RatingSummary, error)

	// SearchItems finds active items whose title contains query,
	// case-insensitive, ordered by owner trust then recency.
	SearchItems(ctx context.Context, query string, limit int) ([]*models.CatalogEntry, error)

	// PlatformCounts breaks down active items by platform under the
	// filter, largest first.
	PlatformCounts(ctx context.Context, filter CatalogFilter) ([]PlatformCount, error)

	// CountCatalogItems counts active items under the filter.
	CountCatalogItems(ctx context.Context, filter CatalogFilter) (int64, error)

	// ListCatalogItems pages active items with owner info under the
	// filter, ordered by owner trust then recency.
	ListCatalogItems(ctx context.Context, filter CatalogFilter, limit, offset int) ([]*models.CatalogEntry, error)

	// ListCities returns the distinct non-empty cities users trade from.
	ListCities(ctx context.Context, limit int) ([]string, error)

	// AdminListUsers pages users for the operator, newest first.
	AdminListUsers(ctx context.Context, filter AdminUserFilter, limit, offset int) ([]*models.User, error)

	// AdminCountUsers counts users under the operator filter.
	AdminCountUsers(ctx context.Context, filter AdminUserFilter) (int64, error)

	// AdminListUserItems lists a user's items, optionally including
	// removed ones.
	AdminListUserItems(ctx context.Context, userID int64, includeRemoved bool, limit int) ([]*models.Item, error)

	// AdminRemoveItem force-removes an item regardless of owner.
	// Reports false when nothing changed.
	AdminRemoveItem(ctx context.Context, itemID int64) (bool, error)

	// GetStats returns the operator's aggregate snapshot.
	GetStats(ctx context.Context) (*Stats, error)

	// Close releases any resources held by the store.
	Close() error
}
