package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

const userColumns = `id, handle, display_name, city, rating, rating_sum, rating_count, completed_swaps, banned, registered_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Handle,
		&user.DisplayName,
		&user.City,
		&user.Rating,
		&user.RatingSum,
		&user.RatingCount,
		&user.CompletedSwaps,
		&user.Banned,
		&user.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertUser creates the user on first registration and updates only the
// profile fields afterwards. Rating aggregates and the swap counter are
// owned by other operations and survive any re-registration.
func (s *SQLiteStore) UpsertUser(ctx context.Context, id int64, handle, displayName, city string) error {
	h := normalizeHandle(handle)

	return s.write(ctx, func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ?", id).Scan(&existing)
		switch {
		case err == sql.ErrNoRows:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO users (id, handle, display_name, city, registered_at)
				 VALUES (?, ?, ?, ?, ?)`,
				id, h, displayName, city, now(),
			)
			if err != nil {
				return fmt.Errorf("failed to insert user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to check user existence: %w", err)
		default:
			_, err = tx.ExecContext(ctx,
				"UPDATE users SET handle = ?, display_name = ?, city = ? WHERE id = ?",
				h, displayName, city, id,
			)
			if err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}
		return nil
	})
}

// GetUser retrieves a user by id.
func (s *SQLiteStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := scanUser(s.reads.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByHandle retrieves a user by handle, case-insensitive.
func (s *SQLiteStore) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	h := normalizeHandle(handle)
	if h == "" {
		return nil, storage.ErrNotFound
	}

	user, err := scanUser(s.reads.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE handle = ? COLLATE NOCASE LIMIT 1", h))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by handle: %w", err)
	}
	return user, nil
}

// SearchUsersByHandle finds users whose handle contains the query,
// ordered by trust (completed swaps, then rating).
func (s *SQLiteStore) SearchUsersByHandle(ctx context.Context, query string, limit int) ([]*models.User, error) {
	q := normalizeHandle(query)
	if q == "" {
		return nil, nil
	}

	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE handle != '' AND handle LIKE ? COLLATE NOCASE
		 ORDER BY completed_swaps DESC, rating DESC
		 LIMIT ?`,
		"%"+q+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
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

// IsBanned reports whether the user is banned. Unknown users are not.
func (s *SQLiteStore) IsBanned(ctx context.Context, id int64) (bool, error) {
	var banned bool
	err := s.reads.QueryRowContext(ctx, "SELECT banned FROM users WHERE id = ?", id).Scan(&banned)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ban flag: %w", err)
	}
	return banned, nil
}

// SetBanned flips the ban flag.
func (s *SQLiteStore) SetBanned(ctx context.Context, id int64, banned bool) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE users SET banned = ? WHERE id = ?", banned, id)
		if err != nil {
			return fmt.Errorf("failed to set ban flag: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if n == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// CountUsers returns the total number of registered users.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.reads.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
