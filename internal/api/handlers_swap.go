package api

import (
	"net/http"

	"github.com/gameswap/gameswap/internal/middleware"
)

type proposeSwapRequest struct {
	RecipientID     int64 `json:"recipient_id"`
	OfferedItemID   int64 `json:"offered_item_id"`
	RequestedItemID int64 `json:"requested_item_id"`
}

func (h *handlers) proposeSwap(w http.ResponseWriter, r *http.Request) {
	var req proposeSwapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	swap, err := h.dep.Swaps.Propose(r.Context(),
		middleware.GetUserID(r.Context()),
		req.RecipientID, req.OfferedItemID, req.RequestedItemID,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSwapView(swap))
}

func (h *handlers) incomingSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.dep.Swaps.Incoming(r.Context(), middleware.GetUserID(r.Context()), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swaps": toSwapViews(swaps)})
}

func (h *handlers) getSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid swap id"})
		return
	}

	swap, err := h.dep.Swaps.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapView(swap))
}

type decideSwapRequest struct {
	Decision string `json:"decision"`
}

func (h *handlers) decideSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid swap id"})
		return
	}
	var req decideSwapRequest
	if !decodeBody(w, r, &req) {
		return
	}

	swap, err := h.dep.Swaps.Decide(r.Context(), id, middleware.GetUserID(r.Context()), req.Decision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSwapView(swap))
}

type recordFeedbackRequest struct {
	SwapID  int64  `json:"swap_id"`
	Stars   int    `json:"stars"`
	Comment string `json:"comment"`
}

func (h *handlers) recordFeedback(w http.ResponseWriter, r *http.Request) {
	var req recordFeedbackRequest
	if !decodeBody(w, r, &req) {
		return
	}

	fb, err := h.dep.Ratings.Record(r.Context(), req.SwapID, middleware.GetUserID(r.Context()), req.Stars, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedbackView(fb))
}

type attachPhotoRequest struct {
	PhotoRef string `json:"photo_ref"`
}

func (h *handlers) attachPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid feedback id"})
		return
	}
	var req attachPhotoRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.dep.Ratings.AttachPhoto(r.Context(), id, req.PhotoRef); err != nil {
		writeError(w, err)
		return
	}
	photos, err := h.dep.Ratings.Photos(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": photos})
}
