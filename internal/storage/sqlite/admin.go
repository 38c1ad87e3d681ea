package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// adminUserWhere builds the WHERE clause for operator user queries.
func adminUserWhere(filter storage.AdminUserFilter) (string, []any) {
	var where []string
	var args []any

	if filter.OnlyBanned {
		where = append(where, "banned = 1")
	}
	if q := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(filter.Query), "@")); q != "" {
		where = append(where, "(handle LIKE ? COLLATE NOCASE OR display_name LIKE ? COLLATE NOCASE OR city LIKE ? COLLATE NOCASE)")
		like := "%" + q + "%"
		args = append(args, like, like, like)
	}

	if len(where) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(where, " AND "), args
}

// AdminListUsers pages users for the operator, newest registrations first.
func (s *SQLiteStore) AdminListUsers(ctx context.Context, filter storage.AdminUserFilter, limit, offset int) ([]*models.User, error) {
	where, args := adminUserWhere(filter)
	args = append(args, limit, offset)

	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users `+where+`
		 ORDER BY registered_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// AdminCountUsers counts users under the operator filter.
func (s *SQLiteStore) AdminCountUsers(ctx context.Context, filter storage.AdminUserFilter) (int64, error) {
	where, args := adminUserWhere(filter)

	var n int64
	if err := s.reads.QueryRowContext(ctx, "SELECT COUNT(*) FROM users "+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// AdminListUserItems lists a user's items, optionally including removed
// ones, newest first.
func (s *SQLiteStore) AdminListUserItems(ctx context.Context, userID int64, includeRemoved bool, limit int) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ?`
	args := []any{userID}
	if !includeRemoved {
		query += " AND status = ?"
		args = append(args, models.ItemStatusActive)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.reads.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// AdminRemoveItem force-removes an item regardless of owner. Terminal
// items stay removed, so the status condition keeps this idempotent.
func (s *SQLiteStore) AdminRemoveItem(ctx context.Context, itemID int64) (bool, error) {
	var changed bool
	err := s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE items SET status = ? WHERE id = ? AND status = ?",
			models.ItemStatusRemoved, itemID, models.ItemStatusActive,
		)
		if err != nil {
			return fmt.Errorf("failed to remove item: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		changed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// GetStats returns the operator's aggregate snapshot.
func (s *SQLiteStore) GetStats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}

	counts := []struct {
		query string
		args  []any
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM users", nil, &stats.UsersTotal},
		{"SELECT COUNT(*) FROM users WHERE banned = 1", nil, &stats.UsersBanned},
		{"SELECT COUNT(*) FROM items WHERE status = ?", []any{models.ItemStatusActive}, &stats.ItemsActive},
		{"SELECT COUNT(*) FROM swaps WHERE status = ?", []any{models.SwapStatusPending}, &stats.SwapsPending},
		{"SELECT COUNT(*) FROM swaps WHERE status = ?", []any{models.SwapStatusCompleted}, &stats.SwapsCompleted},
	}
	for _, c := range counts {
		if err := s.reads.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("failed to collect stats: %w", err)
		}
	}
	return stats, nil
}
