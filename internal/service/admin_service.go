package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gameswap/gameswap/internal/metrics"
	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// AdminService is the operator surface: user moderation, forced listing
// removal and aggregate stats. Authorization happens upstream.
type AdminService struct {
	store storage.Store
}

// NewAdminService creates a new AdminService with the given storage backend.
func NewAdminService(store storage.Store) *AdminService {
	return &AdminService{store: store}
}

// ResolveUser looks a user up by numeric id or handle.
func (s *AdminService) ResolveUser(ctx context.Context, ref string) (*models.User, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrInvalidInput
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.store.GetUser(ctx, id)
	}
	return s.store.GetUserByHandle(ctx, ref)
}

// ListUsers pages users under the operator filter and returns the total
// matching count.
func (s *AdminService) ListUsers(ctx context.Context, filter storage.AdminUserFilter, limit, offset int) ([]*models.User, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	total, err := s.store.AdminCountUsers(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	users, err := s.store.AdminListUsers(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetBan bans or unbans a user referenced by id or handle.
func (s *AdminService) SetBan(ctx context.Context, ref string, banned bool, reason string) (*models.User, error) {
	user, err := s.ResolveUser(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetBanned(ctx, user.ID, banned); err != nil {
		slog.Error("SetBan failed", "user_id", user.ID, "error", err)
		return nil, err
	}
	user.Banned = banned

	if banned {
		slog.Warn("User banned", "user_id", user.ID, "handle", user.Handle, "reason", reason)
	} else {
		slog.Warn("User unbanned", "user_id", user.ID, "handle", user.Handle)
	}
	return user, nil
}

// UserItems lists a user's items including removed ones.
func (s *AdminService) UserItems(ctx context.Context, ref string, limit int) ([]*models.Item, error) {
	user, err := s.ResolveUser(ctx, ref)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.store.AdminListUserItems(ctx, user.ID, true, limit)
}

// RemoveItem force-removes a listing regardless of owner.
func (s *AdminService) RemoveItem(ctx context.Context, itemID int64) (bool, error) {
	removed, err := s.store.AdminRemoveItem(ctx, itemID)
	if err != nil {
		slog.Error("Admin RemoveItem failed", "item_id", itemID, "error", err)
		return false, err
	}
	if removed {
		slog.Warn("Item force-removed", "item_id", itemID)
	}
	return removed, nil
}

// ListSwaps pages swaps, optionally filtered by status.
func (s *AdminService) ListSwaps(ctx context.Context, status string, limit, offset int) ([]*models.Swap, error) {
	if status != "" &&
		status != models.SwapStatusPending &&
		status != models.SwapStatusCompleted &&
		status != models.SwapStatusRejected {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListSwapsByStatus(ctx, status, limit, offset)
}

// Stats returns the aggregate snapshot and refreshes the exported gauges.
func (s *AdminService) Stats(ctx context.Context) (*storage.Stats, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	metrics.UsersTotal.Set(float64(stats.UsersTotal))
	metrics.ItemsActive.Set(float64(stats.ItemsActive))
	return stats, nil
}
