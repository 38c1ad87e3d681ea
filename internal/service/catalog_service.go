package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// Default page sizes for catalog reads.
const (
	defaultSearchLimit  = 25
	defaultCatalogLimit = 5
	defaultItemsLimit   = 50
	defaultCitiesLimit  = 200
)

// CatalogService covers registration, listings and the read-side catalog.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates a new CatalogService with the given storage backend.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// guardBanned rejects writes from banned users.
func guardBanned(ctx context.Context, store storage.Store, userID int64) error {
	banned, err := store.IsBanned(ctx, userID)
	if err != nil {
		return err
	}
	if banned {
		return ErrBanned
	}
	return nil
}

// Register upserts the caller's profile and returns the stored record.
// Re-registration refreshes handle, display name and city only; rating
// and swap history are untouched.
func (s *CatalogService) Register(ctx context.Context, id int64, handle, displayName, city string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	city = strings.TrimSpace(city)
	if id == 0 || displayName == "" || city == "" {
		return nil, fmt.Errorf("%w: id, display name and city are required", ErrInvalidInput)
	}

	if err := s.store.UpsertUser(ctx, id, handle, displayName, city); err != nil {
		slog.Error("Register failed", "user_id", id, "error", err)
		return nil, err
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.Info("User registered", "user_id", id, "city", city)
	return user, nil
}

// Profile returns a user's public profile.
func (s *CatalogService) Profile(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// FindTraders searches users by handle substring, most trusted first.
func (s *CatalogService) FindTraders(ctx context.Context, query string, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.SearchUsersByHandle(ctx, query, limit)
}

// ListItem creates a new active listing for the owner.
func (s *CatalogService) ListItem(ctx context.Context, ownerID int64, attrs models.ItemAttrs) (*models.Item, error) {
	attrs.Title = strings.TrimSpace(attrs.Title)
	attrs.Platform = strings.TrimSpace(attrs.Platform)
	attrs.Condition = strings.TrimSpace(attrs.Condition)
	attrs.WantedDesc = strings.TrimSpace(attrs.WantedDesc)
	if attrs.Title == "" || attrs.Platform == "" || attrs.Condition == "" {
		return nil, fmt.Errorf("%w: title, platform and condition are required", ErrInvalidInput)
	}

	if err := guardBanned(ctx, s.store, ownerID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	item, err := s.store.CreateItem(ctx, ownerID, attrs)
	if err != nil {
		slog.Error("ListItem failed", "owner_id", ownerID, "error", err)
		return nil, err
	}
	slog.Info("Item listed", "item_id", item.ID, "owner_id", ownerID, "title", item.Title)
	return item, nil
}

// GetItem returns a single listing.
func (s *CatalogService) GetItem(ctx context.Context, itemID int64) (*models.Item, error) {
	return s.store.GetItem(ctx, itemID)
}

// MyItems returns the caller's active listings.
func (s *CatalogService) MyItems(ctx context.Context, ownerID int64, limit int) ([]*models.Item, error) {
	if limit <= 0 {
		limit = defaultItemsLimit
	}
	return s.store.ListUserItems(ctx, ownerID, limit)
}

// RemoveItem retires the caller's own listing. Reports false when the
// caller does not own the item or it already left the active state.
func (s *CatalogService) RemoveItem(ctx context.Context, itemID, ownerID int64) (bool, error) {
	removed, err := s.store.SetItemStatus(ctx, itemID, ownerID, models.ItemStatusRemoved)
	if err != nil {
		slog.Error("RemoveItem failed", "item_id", itemID, "owner_id", ownerID, "error", err)
		return false, err
	}
	if removed {
		slog.Info("Item removed", "item_id", itemID, "owner_id", ownerID)
	}
	return removed, nil
}

// Search finds active items by title substring, reliable traders first.
// The caller's own listings are excluded upstream by the browse filter,
// not here: search is a global lookup.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]*models.CatalogEntry, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.store.SearchItems(ctx, query, limit)
}

// Platforms returns the platform breakdown for the browse flow's first
// narrowing step.
func (s *CatalogService) Platforms(ctx context.Context, callerID int64, city string) ([]storage.PlatformCount, error) {
	return s.store.PlatformCounts(ctx, storage.CatalogFilter{
		City:          city,
		ExcludeUserID: callerID,
	})
}

// Browse pages the catalog under the given narrowing, excluding the
// caller's own listings.
func (s *CatalogService) Browse(ctx context.Context, callerID int64, platform, city string, limit, offset int) ([]*models.CatalogEntry, int64, error) {
	if limit <= 0 {
		limit = defaultCatalogLimit
	}
	filter := storage.CatalogFilter{
		Platform:      platform,
		City:          city,
		ExcludeUserID: callerID,
	}

	total, err := s.store.CountCatalogItems(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	entries, err := s.store.ListCatalogItems(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Cities lists the cities users trade from.
func (s *CatalogService) Cities(ctx context.Context) ([]string, error) {
	return s.store.ListCities(ctx, defaultCitiesLimit)
}
