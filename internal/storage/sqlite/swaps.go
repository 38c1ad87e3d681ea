package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

const swapColumns = `id, user1_id, user2_id, item1_id, item2_id, status, code, created_at, updated_at, completed_at`

func scanSwap(row interface{ Scan(...any) error }) (*models.Swap, error) {
	swap := &models.Swap{}
	err := row.Scan(
		&swap.ID,
		&swap.User1ID,
		&swap.User2ID,
		&swap.Item1ID,
		&swap.Item2ID,
		&swap.Status,
		&swap.Code,
		&swap.CreatedAt,
		&swap.UpdatedAt,
		&swap.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return swap, nil
}

// CreateSwap validates and inserts a pending swap in a single immediate
// transaction, so every precondition is checked against current rows, not
// whatever the caller saw earlier in the conversation.
//
// All precondition failures collapse into storage.ErrSwapRejected on the
// wire; the specific reason is only logged at debug level. Telling the
// initiator which check failed would reveal the state of the other user's
// listings.
func (s *SQLiteStore) CreateSwap(ctx context.Context, initiatorID, recipientID, offeredItemID, requestedItemID int64) (*models.Swap, error) {
	reject := func(reason string) error {
		slog.Debug("swap request rejected",
			"reason", reason,
			"initiator_id", initiatorID,
			"recipient_id", recipientID,
			"offered_item_id", offeredItemID,
			"requested_item_id", requestedItemID,
		)
		return storage.ErrSwapRejected
	}

	if initiatorID == recipientID {
		return nil, reject("self swap")
	}

	swap := &models.Swap{
		User1ID: initiatorID,
		User2ID: recipientID,
		Item1ID: offeredItemID,
		Item2ID: requestedItemID,
		Status:  models.SwapStatusPending,
		Code:    genSwapCode(),
	}

	err := s.write(ctx, func(tx *sql.Tx) error {
		offered, err := fetchItemForUpdate(ctx, tx, offeredItemID)
		if err == sql.ErrNoRows {
			return reject("offered item missing")
		}
		if err != nil {
			return fmt.Errorf("failed to fetch offered item: %w", err)
		}
		requested, err := fetchItemForUpdate(ctx, tx, requestedItemID)
		if err == sql.ErrNoRows {
			return reject("requested item missing")
		}
		if err != nil {
			return fmt.Errorf("failed to fetch requested item: %w", err)
		}

		if offered.OwnerID != initiatorID || offered.Status != models.ItemStatusActive {
			return reject("offered item not initiator's active item")
		}
		if requested.OwnerID != recipientID || requested.Status != models.ItemStatusActive {
			return reject("requested item not recipient's active item")
		}

		// A pending swap already referencing this item pair, in either
		// orientation, blocks a second one.
		var existing int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM swaps
			 WHERE status = ?
			   AND ((item1_id = ? AND item2_id = ?) OR (item1_id = ? AND item2_id = ?))
			 LIMIT 1`,
			models.SwapStatusPending,
			offeredItemID, requestedItemID,
			requestedItemID, offeredItemID,
		).Scan(&existing)
		if err == nil {
			return reject("pending swap already exists for item pair")
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check pending swaps: %w", err)
		}

		ts := now()
		swap.CreatedAt = ts
		swap.UpdatedAt = ts

		res, err := tx.ExecContext(ctx,
			`INSERT INTO swaps (user1_id, user2_id, item1_id, item2_id, status, code, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			swap.User1ID, swap.User2ID, swap.Item1ID, swap.Item2ID,
			swap.Status, swap.Code, swap.CreatedAt, swap.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert swap: %w", err)
		}
		swap.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read swap id: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return swap, nil
}

// GetSwap retrieves a swap by id.
func (s *SQLiteStore) GetSwap(ctx context.Context, id int64) (*models.Swap, error) {
	swap, err := scanSwap(s.reads.QueryRowContext(ctx,
		"SELECT "+swapColumns+" FROM swaps WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrSwapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get swap: %w", err)
	}
	return swap, nil
}

// RejectSwap marks a pending swap rejected. The same guards as settlement
// apply (recipient-only, pending-only), re-checked inside the transaction
// so a concurrent accept and reject cannot both win.
func (s *SQLiteStore) RejectSwap(ctx context.Context, swapID, deciderID int64) error {
	return s.write(ctx, func(tx *sql.Tx) error {
		swap, err := fetchSwapForUpdate(ctx, tx, swapID)
		if err == sql.ErrNoRows {
			return storage.ErrSwapNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch swap: %w", err)
		}
		if swap.Status != models.SwapStatusPending {
			return storage.ErrSwapNotPending
		}
		if deciderID != swap.User2ID {
			return storage.ErrNotRecipient
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE swaps SET status = ?, updated_at = ? WHERE id = ?",
			models.SwapStatusRejected, now(), swapID,
		); err != nil {
			return fmt.Errorf("failed to reject swap: %w", err)
		}
		return nil
	})
}

// SettleSwap executes an accepted swap in one immediate transaction.
//
// Everything is re-verified against current rows: the time between
// proposal and the recipient's decision is unbounded, and either item may
// have been removed or moved by another settlement in the meantime. Only
// re-validation at this transaction boundary guarantees that nobody gives
// away an item they no longer hold or receives one the counterparty lost.
func (s *SQLiteStore) SettleSwap(ctx context.Context, swapID, confirmerID int64) (*models.Swap, error) {
	var settled *models.Swap
	err := s.write(ctx, func(tx *sql.Tx) error {
		swap, err := fetchSwapForUpdate(ctx, tx, swapID)
		if err == sql.ErrNoRows {
			return storage.ErrSwapNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch swap: %w", err)
		}
		if swap.Status != models.SwapStatusPending {
			// Covers the second of two concurrent accepts: the first
			// settled, so this one is a no-op failure, not a double
			// transfer.
			return storage.ErrSwapNotPending
		}
		if confirmerID != swap.User2ID {
			return storage.ErrNotRecipient
		}

		item1, err := fetchItemForUpdate(ctx, tx, swap.Item1ID)
		if err == sql.ErrNoRows {
			return storage.ErrItemNotActive
		}
		if err != nil {
			return fmt.Errorf("failed to fetch item %d: %w", swap.Item1ID, err)
		}
		item2, err := fetchItemForUpdate(ctx, tx, swap.Item2ID)
		if err == sql.ErrNoRows {
			return storage.ErrItemNotActive
		}
		if err != nil {
			return fmt.Errorf("failed to fetch item %d: %w", swap.Item2ID, err)
		}

		if item1.Status != models.ItemStatusActive || item2.Status != models.ItemStatusActive {
			return storage.ErrItemNotActive
		}
		if item1.OwnerID != swap.User1ID || item2.OwnerID != swap.User2ID {
			return storage.ErrOwnershipChanged
		}

		// The two-way exchange. Both transfers, the status change and
		// both counters commit together or not at all.
		if err := transferItemOwnership(ctx, tx, swap.Item1ID, swap.User2ID); err != nil {
			return err
		}
		if err := transferItemOwnership(ctx, tx, swap.Item2ID, swap.User1ID); err != nil {
			return err
		}

		ts := now()
		if _, err := tx.ExecContext(ctx,
			"UPDATE swaps SET status = ?, updated_at = ?, completed_at = ? WHERE id = ?",
			models.SwapStatusCompleted, ts, ts, swapID,
		); err != nil {
			return fmt.Errorf("failed to complete swap: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"UPDATE users SET completed_swaps = completed_swaps + 1 WHERE id IN (?, ?)",
			swap.User1ID, swap.User2ID,
		); err != nil {
			return fmt.Errorf("failed to bump swap counters: %w", err)
		}

		swap.Status = models.SwapStatusCompleted
		swap.UpdatedAt = ts
		swap.CompletedAt = ts
		settled = swap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

// ListPendingForRecipient returns swaps awaiting the user's decision,
// oldest first.
func (s *SQLiteStore) ListPendingForRecipient(ctx context.Context, userID int64, limit int) ([]*models.Swap, error) {
	rows, err := s.reads.QueryContext(ctx,
		`SELECT `+swapColumns+` FROM swaps
		 WHERE user2_id = ? AND status = ?
		 ORDER BY created_at ASC
		 LIMIT ?`,
		userID, models.SwapStatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending swaps: %w", err)
	}
	defer rows.Close()

	return collectSwaps(rows)
}

// ListSwapsByStatus lists swaps for the operator, most recently updated
// first. Empty status means all.
func (s *SQLiteStore) ListSwapsByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Swap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY updated_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.reads.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}
	defer rows.Close()

	return collectSwaps(rows)
}

// fetchSwapForUpdate reads a swap inside an open write transaction.
func fetchSwapForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Swap, error) {
	return scanSwap(tx.QueryRowContext(ctx,
		"SELECT "+swapColumns+" FROM swaps WHERE id = ?", id))
}

// fetchItemForUpdate reads an item inside an open write transaction.
func fetchItemForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Item, error) {
	return scanItem(tx.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM items WHERE id = ?", id))
}

func collectSwaps(rows *sql.Rows) ([]*models.Swap, error) {
	var swaps []*models.Swap
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan swap: %w", err)
		}
		swaps = append(swaps, swap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate swaps: %w", err)
	}
	return swaps, nil
}
