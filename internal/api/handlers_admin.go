package api

import (
	"net/http"

	"github.com/gameswap/gameswap/internal/storage"
)

func (h *handlers) adminListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := storage.AdminUserFilter{
		OnlyBanned: q.Get("banned") == "true",
		Query:      q.Get("q"),
	}

	users, total, err := h.dep.Admin.ListUsers(r.Context(), filter, queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users": toUserViews(users),
		"total": total,
	})
}

type banRequest struct {
	Reason string `json:"reason"`
}

func (h *handlers) adminBan(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	user, err := h.dep.Admin.SetBan(r.Context(), r.PathValue("ref"), true, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *handlers) adminUnban(w http.ResponseWriter, r *http.Request) {
	user, err := h.dep.Admin.SetBan(r.Context(), r.PathValue("ref"), false, "")
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *handlers) adminUserItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.dep.Admin.UserItems(r.Context(), r.PathValue("ref"), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toItemViews(items)})
}

func (h *handlers) adminRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	removed, err := h.dep.Admin.RemoveItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

func (h *handlers) adminListSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.dep.Admin.ListSwaps(r.Context(), r.URL.Query().Get("status"), queryInt(r, "limit", 0), queryInt(r, "offset", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"swaps": toSwapViews(swaps)})
}

func (h *handlers) adminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dep.Admin.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{
		"users_total":     stats.UsersTotal,
		"users_banned":    stats.UsersBanned,
		"items_active":    stats.ItemsActive,
		"swaps_pending":   stats.SwapsPending,
		"swaps_completed": stats.SwapsCompleted,
	})
}
