package api

import (
	"net/http"

	"github.com/gameswap/gameswap/internal/middleware"
	"github.com/gameswap/gameswap/internal/models"
)

type handlers struct {
	dep Dependencies
}

// --- registration and profiles ---

type registerRequest struct {
	UserID      int64  `json:"user_id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
}

type registerResponse struct {
	User  userView `json:"user"`
	Token string   `json:"token"`
}

// register upserts the caller's profile and hands back a session token.
// The numeric identity is supplied by the client; deployments are expected
// to front this endpoint with a platform that vouches for user ids.
func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.dep.Catalog.Register(r.Context(), req.UserID, req.Handle, req.DisplayName, req.City)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.dep.JWT.Generate(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registerResponse{User: toUserView(user), Token: token})
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	user, err := h.dep.Catalog.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserView(user))
}

func (h *handlers) userFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return
	}

	entries, err := h.dep.Ratings.ForUser(r.Context(), id, queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.dep.Ratings.Summary(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"rating":       summary.Rating,
		"rating_count": summary.RatingCount,
		"feedback":     toFeedbackViews(entries),
	})
}

func (h *handlers) findTraders(w http.ResponseWriter, r *http.Request) {
	users, err := h.dep.Catalog.FindTraders(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"traders": toUserViews(users)})
}

// --- listings ---

type listItemRequest struct {
	Title      string `json:"title"`
	Platform   string `json:"platform"`
	Condition  string `json:"condition"`
	PhotoRef   string `json:"photo_ref"`
	WantedDesc string `json:"wanted_desc"`
}

func (h *handlers) listItem(w http.ResponseWriter, r *http.Request) {
	var req listItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.dep.Catalog.ListItem(r.Context(), middleware.GetUserID(r.Context()), models.ItemAttrs{
		Title:      req.Title,
		Platform:   req.Platform,
		Condition:  req.Condition,
		PhotoRef:   req.PhotoRef,
		WantedDesc: req.WantedDesc,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemView(item))
}

func (h *handlers) myItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.dep.Catalog.MyItems(r.Context(), middleware.GetUserID(r.Context()), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": toItemViews(items)})
}

func (h *handlers) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}

	removed, err := h.dep.Catalog.RemoveItem(r.Context(), id, middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": removed})
}

// --- catalog reads ---

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	entries, err := h.dep.Catalog.Search(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": toCatalogEntryViews(entries)})
}

func (h *handlers) browseCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, total, err := h.dep.Catalog.Browse(r.Context(),
		middleware.GetUserID(r.Context()),
		q.Get("platform"), q.Get("city"),
		queryInt(r, "limit", 0), queryInt(r, "offset", 0),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": toCatalogEntryViews(entries),
		"total":   total,
	})
}

func (h *handlers) platforms(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dep.Catalog.Platforms(r.Context(), middleware.GetUserID(r.Context()), r.URL.Query().Get("city"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"platforms": toPlatformCountViews(counts)})
}

func (h *handlers) cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.dep.Catalog.Cities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}
