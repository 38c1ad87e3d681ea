package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

const itemColumns = `id, owner_id, title, platform, condition, photo_ref, wanted_desc, status, created_at`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(
		&item.ID,
		&item.OwnerID,
		&item.Title,
		&item.Platform,
		&item.Condition,
		&item.PhotoRef,
		&item.WantedDesc,
		&item.Status,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateItem lists a new item for the owner. The owner must exist (the
// foreign key enforces it); status always starts active.
func (s *SQLiteStore) CreateItem(ctx context.Context, ownerID int64, attrs models.ItemAttrs) (*models.Item, error) {
	item := &models.Item{
		OwnerID:    ownerID,
		Title:      attrs.Title,
		Platform:   attrs.Platform,
		Condition:  attrs.Condition,
		PhotoRef:   attrs.PhotoRef,
		WantedDesc: attrs.WantedDesc,
		Status:     models.ItemStatusActive,
		CreatedAt:  now(),
	}

	err := s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO items (owner_id, title, platform, condition, photo_ref, wanted_desc, status, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			item.OwnerID, item.Title, item.Platform, item.Condition,
			item.PhotoRef, item.WantedDesc, item.Status, item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		item.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read item id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem retrieves an item by id.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := scanItem(s.reads.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListUserItems returns the owner's active items, newest first.
func (s *SQLiteStore) ListUserItems(ctx context.Context, ownerID int64, limit int) ([]*models.Item, error) {
	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE owner_id = ? AND status = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		ownerID, models.ItemStatusActive, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// SetItemStatus moves the item to the given status, but only if ownerID
// currently owns it and it is still active. The ownership condition in
// the UPDATE makes cross-user tampering a silent no-op, and the status
// condition keeps the active -> removed transition one-way.
func (s *SQLiteStore) SetItemStatus(ctx context.Context, itemID, ownerID int64, status string) (bool, error) {
	var changed bool
	err := s.write(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE items SET status = ? WHERE id = ? AND owner_id = ? AND status = ?",
			status, itemID, ownerID, models.ItemStatusActive,
		)
		if err != nil {
			return fmt.Errorf("failed to set item status: %w", err)
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

// transferItemOwnership moves one item to a new owner inside an already
// open settlement transaction. Settlement is the only caller; nothing
// else may mutate owner_id.
func transferItemOwnership(ctx context.Context, tx *sql.Tx, itemID, newOwnerID int64) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE items SET owner_id = ? WHERE id = ?", newOwnerID, itemID,
	); err != nil {
		return fmt.Errorf("failed to transfer item %d: %w", itemID, err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]*models.Item, error) {
	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}
