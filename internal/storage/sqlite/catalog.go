package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// catalogEntryColumns joins item fields with the owner's trust signal for
// catalog cards.
const catalogEntryColumns = `
	i.id, i.owner_id, i.title, i.platform, i.condition, i.photo_ref, i.wanted_desc, i.status, i.created_at,
	u.id, u.display_name, u.handle, u.city, u.rating, u.rating_count, u.completed_swaps`

func scanCatalogEntry(row interface{ Scan(...any) error }) (*models.CatalogEntry, error) {
	e := &models.CatalogEntry{}
	err := row.Scan(
		&e.Item.ID, &e.Item.OwnerID, &e.Item.Title, &e.Item.Platform,
		&e.Item.Condition, &e.Item.PhotoRef, &e.Item.WantedDesc,
		&e.Item.Status, &e.Item.CreatedAt,
		&e.OwnerID, &e.OwnerName, &e.OwnerHandle, &e.OwnerCity,
		&e.OwnerRating, &e.OwnerRatingN, &e.OwnerSwapCount,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// trustOrder surfaces reliable traders first: most completed swaps, then
// best rating, then freshest listing.
const trustOrder = "ORDER BY u.completed_swaps DESC, u.rating DESC, i.created_at DESC, i.id DESC"

// SearchItems finds active items whose title contains the query,
// case-insensitive.
func (s *SQLiteStore) SearchItems(ctx context.Context, query string, limit int) ([]*models.CatalogEntry, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+catalogEntryColumns+`
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE i.status = ? AND i.title LIKE ? COLLATE NOCASE
		 `+trustOrder+`
		 LIMIT ?`,
		models.ItemStatusActive, "%"+q+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	defer rows.Close()

	return collectCatalogEntries(rows)
}

// catalogWhere builds the shared WHERE clause for catalog queries.
func catalogWhere(filter storage.CatalogFilter) (string, []any) {
	where := []string{"i.status = ?"}
	args := []any{models.ItemStatusActive}

	if filter.ExcludeUserID != 0 {
		where = append(where, "i.owner_id != ?")
		args = append(args, filter.ExcludeUserID)
	}
	if p := strings.TrimSpace(filter.Platform); p != "" {
		where = append(where, "i.platform = ?")
		args = append(args, p)
	}
	if c := strings.TrimSpace(filter.City); c != "" {
		where = append(where, "LOWER(u.city) = LOWER(?)")
		args = append(args, c)
	}
	return strings.Join(where, " AND "), args
}

// PlatformCounts breaks down active items by platform under the filter.
func (s *SQLiteStore) PlatformCounts(ctx context.Context, filter storage.CatalogFilter) ([]storage.PlatformCount, error) {
	where, args := catalogWhere(filter)

	rows, err := s.reads.QueryContext(ctx,
		`SELECT i.platform, COUNT(*) AS cnt
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE `+where+`
		 GROUP BY i.platform
		 ORDER BY cnt DESC, i.platform ASC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count platforms: %w", err)
	}
	defer rows.Close()

	var counts []storage.PlatformCount
	for rows.Next() {
		var pc storage.PlatformCount
		if err := rows.Scan(&pc.Platform, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan platform count: %w", err)
		}
		counts = append(counts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate platform counts: %w", err)
	}
	return counts, nil
}

// CountCatalogItems counts active items under the filter.
func (s *SQLiteStore) CountCatalogItems(ctx context.Context, filter storage.CatalogFilter) (int64, error) {
	where, args := catalogWhere(filter)

	var n int64
	err := s.reads.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE `+where,
		args...,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count catalog items: %w", err)
	}
	return n, nil
}

// ListCatalogItems pages active items with owner info under the filter.
func (s *SQLiteStore) ListCatalogItems(ctx context.Context, filter storage.CatalogFilter, limit, offset int) ([]*models.CatalogEntry, error) {
	where, args := catalogWhere(filter)
	args = append(args, limit, offset)

	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+catalogEntryColumns+`
		 FROM items i
		 JOIN users u ON u.id = i.owner_id
		 WHERE `+where+`
		 `+trustOrder+`
		 LIMIT ? OFFSET ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog items: %w", err)
	}
	defer rows.Close()

	return collectCatalogEntries(rows)
}

// ListCities returns the distinct non-empty cities users trade from,
// alphabetically.
func (s *SQLiteStore) ListCities(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.reads.QueryContext(ctx,
		`SELECT DISTINCT city FROM users
		 WHERE TRIM(city) != ''
		 ORDER BY city COLLATE NOCASE
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	var cities []string
	for rows.Next() {
		var city string
		if err := rows.Scan(&city); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, city)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cities: %w", err)
	}
	return cities, nil
}

func collectCatalogEntries(rows *sql.Rows) ([]*models.CatalogEntry, error) {
	var entries []*models.CatalogEntry
	for rows.Next() {
		e, err := scanCatalogEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog entries: %w", err)
	}
	return entries, nil
}
