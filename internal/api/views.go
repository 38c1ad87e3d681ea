package api

import (
	"github.com/gameswap/gameswap/internal/models"
	"github.com/gameswap/gameswap/internal/storage"
)

// Wire representations. The domain models stay tag-free; the API owns
// its own shapes.

type userView struct {
	ID             int64   `json:"id"`
	Handle         string  `json:"handle,omitempty"`
	DisplayName    string  `json:"display_name"`
	City           string  `json:"city"`
	Rating         float64 `json:"rating"`
	RatingCount    int64   `json:"rating_count"`
	CompletedSwaps int64   `json:"completed_swaps"`
	Banned         bool    `json:"banned,omitempty"`
	RegisteredAt   int64   `json:"registered_at"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:             u.ID,
		Handle:         u.Handle,
		DisplayName:    u.DisplayName,
		City:           u.City,
		Rating:         u.Rating,
		RatingCount:    u.RatingCount,
		CompletedSwaps: u.CompletedSwaps,
		Banned:         u.Banned,
		RegisteredAt:   u.RegisteredAt,
	}
}

func toUserViews(users []*models.User) []userView {
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, toUserView(u))
	}
	return out
}

type itemView struct {
	ID         int64  `json:"id"`
	OwnerID    int64  `json:"owner_id"`
	Title      string `json:"title"`
	Platform   string `json:"platform"`
	Condition  string `json:"condition"`
	PhotoRef   string `json:"photo_ref,omitempty"`
	WantedDesc string `json:"wanted_desc,omitempty"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
}

func toItemView(i *models.Item) itemView {
	return itemView{
		ID:         i.ID,
		OwnerID:    i.OwnerID,
		Title:      i.Title,
		Platform:   i.Platform,
		Condition:  i.Condition,
		PhotoRef:   i.PhotoRef,
		WantedDesc: i.WantedDesc,
		Status:     i.Status,
		CreatedAt:  i.CreatedAt,
	}
}

func toItemViews(items []*models.Item) []itemView {
	out := make([]itemView, 0, len(items))
	for _, i := range items {
		out = append(out, toItemView(i))
	}
	return out
}

type catalogEntryView struct {
	Item           itemView `json:"item"`
	OwnerID        int64    `json:"owner_id"`
	OwnerName      string   `json:"owner_name"`
	OwnerHandle    string   `json:"owner_handle,omitempty"`
	OwnerCity      string   `json:"owner_city"`
	OwnerRating    float64  `json:"owner_rating"`
	OwnerRatingN   int64    `json:"owner_rating_count"`
	OwnerSwapCount int64    `json:"owner_completed_swaps"`
}

func toCatalogEntryViews(entries []*models.CatalogEntry) []catalogEntryView {
	out := make([]catalogEntryView, 0, len(entries))
	for _, e := range entries {
		out = append(out, catalogEntryView{
			Item:           toItemView(&e.Item),
			OwnerID:        e.OwnerID,
			OwnerName:      e.OwnerName,
			OwnerHandle:    e.OwnerHandle,
			OwnerCity:      e.OwnerCity,
			OwnerRating:    e.OwnerRating,
			OwnerRatingN:   e.OwnerRatingN,
			OwnerSwapCount: e.OwnerSwapCount,
		})
	}
	return out
}

type swapView struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	User1ID     int64  `json:"user1_id"`
	User2ID     int64  `json:"user2_id"`
	Item1ID     int64  `json:"item1_id"`
	Item2ID     int64  `json:"item2_id"`
	Status      string `json:"status"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
	CompletedAt int64  `json:"completed_at,omitempty"`
}

func toSwapView(s *models.Swap) swapView {
	return swapView{
		ID:          s.ID,
		Code:        s.Code,
		User1ID:     s.User1ID,
		User2ID:     s.User2ID,
		Item1ID:     s.Item1ID,
		Item2ID:     s.Item2ID,
		Status:      s.Status,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		CompletedAt: s.CompletedAt,
	}
}

func toSwapViews(swaps []*models.Swap) []swapView {
	out := make([]swapView, 0, len(swaps))
	for _, s := range swaps {
		out = append(out, toSwapView(s))
	}
	return out
}

type feedbackView struct {
	ID        int64  `json:"id"`
	SwapID    int64  `json:"swap_id"`
	RaterID   int64  `json:"rater_id"`
	RateeID   int64  `json:"ratee_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

func toFeedbackView(f *models.Feedback) feedbackView {
	return feedbackView{
		ID:        f.ID,
		SwapID:    f.SwapID,
		RaterID:   f.RaterID,
		RateeID:   f.RateeID,
		Stars:     f.Stars,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}

func toFeedbackViews(entries []*models.Feedback) []feedbackView {
	out := make([]feedbackView, 0, len(entries))
	for _, f := range entries {
		out = append(out, toFeedbackView(f))
	}
	return out
}

type platformCountView struct {
	Platform string `json:"platform"`
	Count    int64  `json:"count"`
}

func toPlatformCountViews(counts []storage.PlatformCount) []platformCountView {
	out := make([]platformCountView, 0, len(counts))
	for _, c := range counts {
		out = append(out, platformCountView{Platform: c.Platform, Count: c.Count})
	}
	return out
}
