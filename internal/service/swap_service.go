package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gameswap/gameswap/internal/metrics"
	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// SwapService drives the swap state machine: propose, decide, settle.
type SwapService struct {
	store storage.Store
}

// NewSwapService creates a new SwapService with the given storage backend.
func NewSwapService(store storage.Store) *SwapService {
	return &SwapService{store: store}
}

// Propose creates a pending swap offering the initiator's item for the
// recipient's. Every precondition is checked by the store inside one
// transaction; any failure surfaces as the opaque storage.ErrSwapRejected
// so the caller can only say "could not create".
func (s *SwapService) Propose(ctx context.Context, initiatorID, recipientID, offeredItemID, requestedItemID int64) (*models.Swap, error) {
	if err := guardBanned(ctx, s.store, initiatorID); err != nil {
		return nil, err
	}

	swap, err := s.store.CreateSwap(ctx, initiatorID, recipientID, offeredItemID, requestedItemID)
	if err != nil {
		if errors.Is(err, storage.ErrSwapRejected) {
			metrics.SwapsProposed.WithLabelValues("rejected").Inc()
			slog.Info("Swap proposal rejected",
				"initiator_id", initiatorID,
				"recipient_id", recipientID,
			)
		} else {
			slog.Error("Propose failed", "initiator_id", initiatorID, "error", err)
		}
		return nil, err
	}

	metrics.SwapsProposed.WithLabelValues("created").Inc()
	slog.Info("Swap proposed",
		"swap_id", swap.ID,
		"code", swap.Code,
		"initiator_id", initiatorID,
		"recipient_id", recipientID,
	)
	return swap, nil
}

// Decide applies the recipient's decision. Accept settles the swap
// atomically; reject retires it. Both paths re-verify state inside the
// store's transaction, so a decision on a terminal swap fails with
// storage.ErrSwapNotPending instead of silently re-running.
func (s *SwapService) Decide(ctx context.Context, swapID, deciderID int64, decision string) (*models.Swap, error) {
	if decision != models.DecisionAccept && decision != models.DecisionReject {
		return nil, ErrInvalidDecision
	}
	if err := guardBanned(ctx, s.store, deciderID); err != nil {
		return nil, err
	}

	if decision == models.DecisionReject {
		if err := s.store.RejectSwap(ctx, swapID, deciderID); err != nil {
			metrics.SwapsDecided.WithLabelValues("failed").Inc()
			slog.Warn("Reject failed", "swap_id", swapID, "decider_id", deciderID, "error", err)
			return nil, err
		}
		metrics.SwapsDecided.WithLabelValues("rejected").Inc()
		slog.Info("Swap rejected", "swap_id", swapID, "decider_id", deciderID)
		return s.store.GetSwap(ctx, swapID)
	}

	swap, err := s.store.SettleSwap(ctx, swapID, deciderID)
	if err != nil {
		metrics.SwapsDecided.WithLabelValues("failed").Inc()
		slog.Warn("Settlement failed", "swap_id", swapID, "decider_id", deciderID, "error", err)
		return nil, err
	}

	metrics.SwapsDecided.WithLabelValues("completed").Inc()
	slog.Info("Swap settled",
		"swap_id", swap.ID,
		"user1_id", swap.User1ID,
		"user2_id", swap.User2ID,
		"item1_id", swap.Item1ID,
		"item2_id", swap.Item2ID,
	)
	// The engine's contract ends at durable commit; any notification to
	// the parties happens outside, after this returns.
	return swap, nil
}

// Get returns a swap by id.
func (s *SwapService) Get(ctx context.Context, swapID int64) (*models.Swap, error) {
	return s.store.GetSwap(ctx, swapID)
}

// Incoming returns the swaps awaiting the user's decision.
func (s *SwapService) Incoming(ctx context.Context, userID int64, limit int) ([]*models.Swap, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.ListPendingForRecipient(ctx, userID, limit)
}
